package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/martinmanurung/cinevault/internal/domain/movies"
	"github.com/martinmanurung/cinevault/internal/domain/people"
	"github.com/martinmanurung/cinevault/internal/domain/reviews"
	"gorm.io/gorm"
)

type MovieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// CreateMovie inserts the movie row together with its tag, cast and
// writer rows in one transaction. A duplicate title surfaces as
// gorm.ErrDuplicatedKey.
func (r *MovieRepository) CreateMovie(ctx context.Context, movie *movies.Movie, tags []string, cast []movies.CastMember, writers []movies.MovieWriter) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(movie).Error; err != nil {
			return err
		}
		return r.createRelations(tx, movie.ID, tags, cast, writers)
	})
}

func (r *MovieRepository) createRelations(tx *gorm.DB, movieID int64, tags []string, cast []movies.CastMember, writers []movies.MovieWriter) error {
	if len(tags) > 0 {
		rows := make([]movies.MovieTag, 0, len(tags))
		for _, tag := range tags {
			rows = append(rows, movies.MovieTag{MovieID: movieID, Tag: tag})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
	}

	if len(cast) > 0 {
		for i := range cast {
			cast[i].MovieID = movieID
			cast[i].Position = i
		}
		if err := tx.Create(&cast).Error; err != nil {
			return err
		}
	}

	if len(writers) > 0 {
		for i := range writers {
			writers[i].MovieID = movieID
			writers[i].Position = i
		}
		if err := tx.Create(&writers).Error; err != nil {
			return err
		}
	}

	return nil
}

func (r *MovieRepository) FindMovieByID(ctx context.Context, movieID int64) (*movies.Movie, error) {
	var movie movies.Movie
	err := r.db.WithContext(ctx).Where("id = ?", movieID).First(&movie).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &movie, nil
}

// UpdateMovie applies the column updates and, when the relation slices
// are non-nil, replaces the corresponding relation rows. A nil slice
// keeps the stored rows untouched.
func (r *MovieRepository) UpdateMovie(ctx context.Context, movieID int64, updates map[string]interface{}, tags []string, cast []movies.CastMember, writers []movies.MovieWriter) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&movies.Movie{}).Where("id = ?", movieID).Updates(updates).Error; err != nil {
				return err
			}
		}

		if tags != nil {
			if err := tx.Where("movie_id = ?", movieID).Delete(&movies.MovieTag{}).Error; err != nil {
				return err
			}
		}
		if cast != nil {
			if err := tx.Where("movie_id = ?", movieID).Delete(&movies.CastMember{}).Error; err != nil {
				return err
			}
		}
		if writers != nil {
			if err := tx.Where("movie_id = ?", movieID).Delete(&movies.MovieWriter{}).Error; err != nil {
				return err
			}
		}

		return r.createRelations(tx, movieID, tags, cast, writers)
	})
}

// DeleteMovie removes the movie and every row that hangs off it.
func (r *MovieRepository) DeleteMovie(ctx context.Context, movieID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("movie_id = ?", movieID).Delete(&movies.CastMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("movie_id = ?", movieID).Delete(&movies.MovieWriter{}).Error; err != nil {
			return err
		}
		if err := tx.Where("movie_id = ?", movieID).Delete(&movies.MovieTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("movie_id = ?", movieID).Delete(&reviews.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&movies.Movie{}, movieID).Error
	})
}

// Detail pieces

func (r *MovieRepository) FindTags(ctx context.Context, movieID int64) ([]string, error) {
	var tags []string
	err := r.db.WithContext(ctx).
		Model(&movies.MovieTag{}).
		Where("movie_id = ?", movieID).
		Pluck("tag", &tags).Error
	return tags, err
}

type castRow struct {
	ID        int64
	ActorID   int64
	Name      string
	AvatarURL string
	RoleAs    string
	LeadActor bool
}

func (r *MovieRepository) FindCast(ctx context.Context, movieID int64) ([]movies.CastEntryResponse, error) {
	var rows []castRow
	err := r.db.WithContext(ctx).
		Table("movie_cast").
		Select("movie_cast.id, movie_cast.actor_id, actors.name, actors.avatar_url, movie_cast.role_as, movie_cast.lead_actor").
		Joins("JOIN actors ON actors.id = movie_cast.actor_id").
		Where("movie_cast.movie_id = ?", movieID).
		Order("movie_cast.position ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	cast := make([]movies.CastEntryResponse, 0, len(rows))
	for _, row := range rows {
		cast = append(cast, movies.CastEntryResponse{
			ID: row.ID,
			Profile: movies.PersonSummary{
				ID:     row.ActorID,
				Name:   row.Name,
				Avatar: row.AvatarURL,
			},
			RoleAs:    row.RoleAs,
			LeadActor: row.LeadActor,
		})
	}
	return cast, nil
}

type writerRow struct {
	WriterID  int64
	Name      string
	AvatarURL string
}

func (r *MovieRepository) FindWriters(ctx context.Context, movieID int64) ([]movies.PersonSummary, error) {
	var rows []writerRow
	err := r.db.WithContext(ctx).
		Table("movie_writers").
		Select("movie_writers.writer_id, writers.name, writers.avatar_url").
		Joins("JOIN writers ON writers.id = movie_writers.writer_id").
		Where("movie_writers.movie_id = ?", movieID).
		Order("movie_writers.position ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]movies.PersonSummary, 0, len(rows))
	for _, row := range rows {
		result = append(result, movies.PersonSummary{
			ID:     row.WriterID,
			Name:   row.Name,
			Avatar: row.AvatarURL,
		})
	}
	return result, nil
}

func (r *MovieRepository) FindDirector(ctx context.Context, directorID int64) (*movies.PersonSummary, error) {
	var director people.Director
	err := r.db.WithContext(ctx).Where("id = ?", directorID).First(&director).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &movies.PersonSummary{
		ID:     director.ID,
		Name:   director.Name,
		Avatar: director.AvatarURL,
	}, nil
}

// Listings

func (r *MovieRepository) FindMovies(ctx context.Context, page, limit int) ([]movies.Movie, int64, error) {
	var result []movies.Movie
	var count int64

	if err := r.db.WithContext(ctx).Model(&movies.Movie{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(page * limit).
		Limit(limit).
		Find(&result).Error
	return result, count, err
}

func (r *MovieRepository) FindLatestPublic(ctx context.Context, limit int) ([]movies.Movie, error) {
	var result []movies.Movie
	err := r.db.WithContext(ctx).
		Where("status = ?", movies.StatusPublic).
		Order("created_at DESC").
		Limit(limit).
		Find(&result).Error
	return result, err
}

// SearchByTitle runs a case-insensitive substring match. publicOnly
// restricts the result to public movies.
func (r *MovieRepository) SearchByTitle(ctx context.Context, title string, publicOnly bool) ([]movies.Movie, error) {
	var result []movies.Movie

	query := r.db.WithContext(ctx).
		Where("LOWER(title) LIKE ?", "%"+strings.ToLower(title)+"%")
	if publicOnly {
		query = query.Where("status = ?", movies.StatusPublic)
	}

	err := query.Order("created_at DESC").Find(&result).Error
	return result, err
}

// Counts

func (r *MovieRepository) CountMovies(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&movies.Movie{}).Count(&count).Error
	return count, err
}

func (r *MovieRepository) CountReviews(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&reviews.Review{}).Count(&count).Error
	return count, err
}
