package usecase

import (
	"context"
	"errors"
	"mime/multipart"
	"time"

	"github.com/martinmanurung/cinevault/internal/access"
	"github.com/martinmanurung/cinevault/internal/domain/movies"
	"github.com/martinmanurung/cinevault/internal/domain/ratings"
	"github.com/martinmanurung/cinevault/internal/platform/storage"
	"github.com/martinmanurung/cinevault/pkg/response"
	"gorm.io/gorm"
)

const latestDefaultLimit = 6

type MovieRepository interface {
	CreateMovie(ctx context.Context, movie *movies.Movie, tags []string, cast []movies.CastMember, writers []movies.MovieWriter) error
	FindMovieByID(ctx context.Context, movieID int64) (*movies.Movie, error)
	UpdateMovie(ctx context.Context, movieID int64, updates map[string]interface{}, tags []string, cast []movies.CastMember, writers []movies.MovieWriter) error
	DeleteMovie(ctx context.Context, movieID int64) error
	FindTags(ctx context.Context, movieID int64) ([]string, error)
	FindCast(ctx context.Context, movieID int64) ([]movies.CastEntryResponse, error)
	FindWriters(ctx context.Context, movieID int64) ([]movies.PersonSummary, error)
	FindDirector(ctx context.Context, directorID int64) (*movies.PersonSummary, error)
	FindMovies(ctx context.Context, page, limit int) ([]movies.Movie, int64, error)
	FindLatestPublic(ctx context.Context, limit int) ([]movies.Movie, error)
	SearchByTitle(ctx context.Context, title string, publicOnly bool) ([]movies.Movie, error)
	CountMovies(ctx context.Context) (int64, error)
	CountReviews(ctx context.Context) (int64, error)
}

type AssetStore interface {
	UploadImage(ctx context.Context, file multipart.File, fileHeader *multipart.FileHeader, folder string) (*storage.Asset, error)
	UploadVideo(ctx context.Context, file multipart.File, fileHeader *multipart.FileHeader, folder string) (*storage.Asset, error)
	Destroy(ctx context.Context, assetID string) error
}

type RatingAggregator interface {
	AverageRating(ctx context.Context, movieID int64) (*ratings.Aggregate, error)
	RelatedByTags(ctx context.Context, movieID int64) ([]ratings.RankedMovie, error)
	TopRated(ctx context.Context, movieType string) ([]ratings.RankedMovie, error)
}

type UserCounter interface {
	CountUsers(ctx context.Context) (int64, error)
}

type Usecase struct {
	repo       MovieRepository
	store      AssetStore
	aggregator RatingAggregator
	users      UserCounter
}

func NewUsecase(repo MovieRepository, store AssetStore, aggregator RatingAggregator, users UserCounter) *Usecase {
	return &Usecase{
		repo:       repo,
		store:      store,
		aggregator: aggregator,
		users:      users,
	}
}

// FileUpload carries a multipart poster or trailer file.
type FileUpload struct {
	File   multipart.File
	Header *multipart.FileHeader
}

func (u *Usecase) mutationAllowed(caller access.Caller, action access.Action) error {
	if !access.Can(caller, action, access.Resource{AdminManaged: true}) {
		return response.Unauthorized("admin access required")
	}
	return nil
}

// UploadTrailer pushes the trailer video to the asset store ahead of
// movie creation; the returned url + asset id are echoed back in the
// create payload.
func (u *Usecase) UploadTrailer(ctx context.Context, caller access.Caller, upload FileUpload) (*movies.UploadTrailerResponse, error) {
	if err := u.mutationAllowed(caller, access.ActionCreate); err != nil {
		return nil, err
	}

	asset, err := u.store.UploadVideo(ctx, upload.File, upload.Header, "trailers")
	if err != nil {
		return nil, response.DependencyFailure("asset_store", err)
	}

	return &movies.UploadTrailerResponse{
		URL:     asset.URL,
		AssetID: asset.AssetID,
	}, nil
}

func (u *Usecase) CreateMovie(ctx context.Context, caller access.Caller, payload movies.CreateMovieRequest, poster *FileUpload) (*movies.CreateMovieResponse, error) {
	if err := u.mutationAllowed(caller, access.ActionCreate); err != nil {
		return nil, err
	}

	for _, genre := range payload.Genres {
		if !movies.IsValidGenre(genre) {
			return nil, response.BadRequest("invalid_genre", genre+" is not a known genre")
		}
	}

	releaseDate, err := time.Parse("2006-01-02", payload.ReleaseDate)
	if err != nil {
		return nil, response.BadRequest("invalid_release_date", "release date must be YYYY-MM-DD")
	}

	movie := movies.Movie{
		Title:          payload.Title,
		StoryLine:      payload.StoryLine,
		DirectorID:     payload.DirectorID,
		ReleaseDate:    releaseDate,
		Status:         payload.Status,
		Type:           payload.Type,
		Language:       payload.Language,
		Genres:         payload.Genres,
		TrailerURL:     payload.Trailer.URL,
		TrailerAssetID: payload.Trailer.AssetID,
	}

	if poster != nil && poster.File != nil {
		asset, err := u.store.UploadImage(ctx, poster.File, poster.Header, "posters")
		if err != nil {
			return nil, response.DependencyFailure("asset_store", err)
		}
		movie.PosterURL = asset.URL
		movie.PosterAssetID = asset.AssetID
		movie.PosterResponsive = asset.Responsive
	}

	cast := castMembersOf(payload.Cast)
	writers := movieWritersOf(payload.Writers)

	if err := u.repo.CreateMovie(ctx, &movie, payload.Tags, cast, writers); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, response.Conflict("a movie with this title already exists")
		}
		return nil, response.InternalServerError(err)
	}

	return &movies.CreateMovieResponse{
		ID:    movie.ID,
		Title: movie.Title,
	}, nil
}

// UpdateMovie merges the payload over the stored movie. When poster is
// non-nil the old poster asset is destroyed first; a store failure there
// aborts the update.
func (u *Usecase) UpdateMovie(ctx context.Context, caller access.Caller, movieID int64, payload movies.UpdateMovieRequest, poster *FileUpload) (*movies.MovieDetailResponse, error) {
	if err := u.mutationAllowed(caller, access.ActionUpdate); err != nil {
		return nil, err
	}

	movie, err := u.repo.FindMovieByID(ctx, movieID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if movie == nil {
		return nil, response.NotFound("movie not found")
	}

	for _, genre := range payload.Genres {
		if !movies.IsValidGenre(genre) {
			return nil, response.BadRequest("invalid_genre", genre+" is not a known genre")
		}
	}

	updates := map[string]interface{}{}
	if payload.Title != "" {
		updates["title"] = payload.Title
	}
	if payload.StoryLine != "" {
		updates["story_line"] = payload.StoryLine
	}
	if payload.DirectorID != nil {
		updates["director_id"] = *payload.DirectorID
	}
	if payload.ReleaseDate != "" {
		releaseDate, err := time.Parse("2006-01-02", payload.ReleaseDate)
		if err != nil {
			return nil, response.BadRequest("invalid_release_date", "release date must be YYYY-MM-DD")
		}
		updates["release_date"] = releaseDate
	}
	if payload.Status != "" {
		updates["status"] = payload.Status
	}
	if payload.Type != "" {
		updates["type"] = payload.Type
	}
	if payload.Language != "" {
		updates["language"] = payload.Language
	}
	if payload.Genres != nil {
		updates["genres"] = payload.Genres
	}
	if payload.Trailer != nil {
		updates["trailer_url"] = payload.Trailer.URL
		updates["trailer_asset_id"] = payload.Trailer.AssetID
	}

	if poster != nil && poster.File != nil {
		if movie.PosterAssetID != "" {
			if err := u.store.Destroy(ctx, movie.PosterAssetID); err != nil {
				return nil, response.DependencyFailure("asset_store", err)
			}
		}
		asset, err := u.store.UploadImage(ctx, poster.File, poster.Header, "posters")
		if err != nil {
			return nil, response.DependencyFailure("asset_store", err)
		}
		updates["poster_url"] = asset.URL
		updates["poster_asset_id"] = asset.AssetID
		updates["poster_responsive"] = asset.Responsive
	}

	var cast []movies.CastMember
	if payload.Cast != nil {
		cast = castMembersOf(payload.Cast)
	}
	var writers []movies.MovieWriter
	if payload.Writers != nil {
		writers = movieWritersOf(payload.Writers)
	}

	if err := u.repo.UpdateMovie(ctx, movieID, updates, payload.Tags, cast, writers); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, response.Conflict("a movie with this title already exists")
		}
		return nil, response.InternalServerError(err)
	}

	return u.GetMovieDetail(ctx, movieID)
}

// DeleteMovie destroys the poster and trailer assets, then removes the
// movie and everything hanging off it. A movie without a trailer asset
// id is inconsistent state and reported as not found.
func (u *Usecase) DeleteMovie(ctx context.Context, caller access.Caller, movieID int64) error {
	if err := u.mutationAllowed(caller, access.ActionDelete); err != nil {
		return err
	}

	movie, err := u.repo.FindMovieByID(ctx, movieID)
	if err != nil {
		return response.InternalServerError(err)
	}
	if movie == nil {
		return response.NotFound("movie not found")
	}

	if movie.PosterAssetID != "" {
		if err := u.store.Destroy(ctx, movie.PosterAssetID); err != nil {
			return response.DependencyFailure("asset_store", err)
		}
	}

	if movie.TrailerAssetID == "" {
		return response.NotFound("no trailer found")
	}
	if err := u.store.Destroy(ctx, movie.TrailerAssetID); err != nil {
		return response.DependencyFailure("asset_store", err)
	}

	if err := u.repo.DeleteMovie(ctx, movieID); err != nil {
		return response.InternalServerError(err)
	}
	return nil
}

func (u *Usecase) GetMovieDetail(ctx context.Context, movieID int64) (*movies.MovieDetailResponse, error) {
	movie, err := u.repo.FindMovieByID(ctx, movieID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if movie == nil {
		return nil, response.NotFound("movie not found")
	}

	tags, err := u.repo.FindTags(ctx, movieID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	cast, err := u.repo.FindCast(ctx, movieID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	writers, err := u.repo.FindWriters(ctx, movieID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}

	var director *movies.PersonSummary
	if movie.DirectorID != nil {
		director, err = u.repo.FindDirector(ctx, *movie.DirectorID)
		if err != nil {
			return nil, response.InternalServerError(err)
		}
	}

	aggregate, err := u.aggregator.AverageRating(ctx, movieID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}

	return &movies.MovieDetailResponse{
		ID:          movie.ID,
		Title:       movie.Title,
		StoryLine:   movie.StoryLine,
		Cast:        cast,
		Writers:     writers,
		Director:    director,
		ReleaseDate: movie.ReleaseDate.Format("2006-01-02"),
		Status:      movie.Status,
		Genres:      movie.Genres,
		Tags:        tags,
		Language:    movie.Language,
		Poster: movies.PosterResponse{
			URL:        movie.PosterURL,
			Responsive: movie.PosterResponsive,
		},
		TrailerURL: movie.TrailerURL,
		Type:       movie.Type,
		Reviews:    aggregate,
	}, nil
}

func (u *Usecase) GetMovies(ctx context.Context, caller access.Caller, page, limit int) (*movies.MovieListWithCount, error) {
	if !access.Can(caller, access.ActionUpdate, access.Resource{AdminManaged: true}) {
		return nil, response.Unauthorized("admin access required")
	}

	result, count, err := u.repo.FindMovies(ctx, page, limit)
	if err != nil {
		return nil, response.InternalServerError(err)
	}

	return &movies.MovieListWithCount{
		Results: listItemsOf(result, true),
		Count:   count,
	}, nil
}

func (u *Usecase) GetLatestMovies(ctx context.Context, limit int) ([]movies.MovieListItem, error) {
	if limit <= 0 {
		limit = latestDefaultLimit
	}

	result, err := u.repo.FindLatestPublic(ctx, limit)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	return listItemsOf(result, false), nil
}

func (u *Usecase) SearchMovies(ctx context.Context, caller access.Caller, title string) ([]movies.MovieListItem, error) {
	if !access.Can(caller, access.ActionUpdate, access.Resource{AdminManaged: true}) {
		return nil, response.Unauthorized("admin access required")
	}

	result, err := u.repo.SearchByTitle(ctx, title, false)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	return listItemsOf(result, true), nil
}

func (u *Usecase) SearchPublicMovies(ctx context.Context, title string) ([]movies.MovieListItem, error) {
	result, err := u.repo.SearchByTitle(ctx, title, true)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	return listItemsOf(result, false), nil
}

func (u *Usecase) GetRelatedMovies(ctx context.Context, movieID int64) ([]ratings.RankedMovie, error) {
	related, err := u.aggregator.RelatedByTags(ctx, movieID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	return related, nil
}

func (u *Usecase) GetTopRatedMovies(ctx context.Context, movieType string) ([]ratings.RankedMovie, error) {
	top, err := u.aggregator.TopRated(ctx, movieType)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	return top, nil
}

func (u *Usecase) GetAppInfo(ctx context.Context, caller access.Caller) (*movies.AppInfoResponse, error) {
	if !access.Can(caller, access.ActionUpdate, access.Resource{AdminManaged: true}) {
		return nil, response.Unauthorized("admin access required")
	}

	movieCount, err := u.repo.CountMovies(ctx)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	reviewCount, err := u.repo.CountReviews(ctx)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	userCount, err := u.users.CountUsers(ctx)
	if err != nil {
		return nil, response.InternalServerError(err)
	}

	return &movies.AppInfoResponse{
		Movies:  movieCount,
		Reviews: reviewCount,
		Users:   userCount,
	}, nil
}

// mappers

func castMembersOf(entries []movies.CastEntry) []movies.CastMember {
	cast := make([]movies.CastMember, 0, len(entries))
	for _, entry := range entries {
		cast = append(cast, movies.CastMember{
			ActorID:   entry.ActorID,
			RoleAs:    entry.RoleAs,
			LeadActor: entry.LeadActor,
		})
	}
	return cast
}

func movieWritersOf(writerIDs []int64) []movies.MovieWriter {
	writers := make([]movies.MovieWriter, 0, len(writerIDs))
	for _, id := range writerIDs {
		writers = append(writers, movies.MovieWriter{WriterID: id})
	}
	return writers
}

func listItemsOf(result []movies.Movie, withStatus bool) []movies.MovieListItem {
	items := make([]movies.MovieListItem, 0, len(result))
	for _, movie := range result {
		item := movies.MovieListItem{
			ID:        movie.ID,
			Title:     movie.Title,
			StoryLine: movie.StoryLine,
			Poster: movies.PosterResponse{
				URL:        movie.PosterURL,
				Responsive: movie.PosterResponsive,
			},
			TrailerURL:  movie.TrailerURL,
			ReleaseDate: movie.ReleaseDate.Format("2006-01-02"),
		}
		if withStatus {
			item.Status = movie.Status
		}
		items = append(items, item)
	}
	return items
}
