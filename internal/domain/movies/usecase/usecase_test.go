package usecase_test

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/martinmanurung/cinevault/internal/access"
	"github.com/martinmanurung/cinevault/internal/domain/movies"
	movieRepository "github.com/martinmanurung/cinevault/internal/domain/movies/repository"
	"github.com/martinmanurung/cinevault/internal/domain/movies/usecase"
	"github.com/martinmanurung/cinevault/internal/domain/ratings"
	"github.com/martinmanurung/cinevault/internal/domain/reviews"
	userRepository "github.com/martinmanurung/cinevault/internal/domain/users/repository"
	"github.com/martinmanurung/cinevault/internal/platform/storage"
	"github.com/martinmanurung/cinevault/internal/testutil"
	"github.com/martinmanurung/cinevault/pkg/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeStore stands in for MinIO and records destroyed asset ids.
type fakeStore struct {
	destroyed   []string
	failDestroy bool
}

func (s *fakeStore) UploadImage(_ context.Context, _ multipart.File, _ *multipart.FileHeader, folder string) (*storage.Asset, error) {
	return &storage.Asset{URL: "https://assets.test/" + folder + "/img", AssetID: folder + "/img"}, nil
}

func (s *fakeStore) UploadVideo(_ context.Context, _ multipart.File, _ *multipart.FileHeader, folder string) (*storage.Asset, error) {
	return &storage.Asset{URL: "https://assets.test/" + folder + "/vid", AssetID: folder + "/vid"}, nil
}

func (s *fakeStore) Destroy(_ context.Context, assetID string) error {
	if s.failDestroy {
		return errors.New("store unavailable")
	}
	s.destroyed = append(s.destroyed, assetID)
	return nil
}

var (
	admin  = access.Caller{Role: access.RoleAdmin}
	viewer = access.Caller{Role: access.RoleUser}
)

func newUsecase(t *testing.T) (*usecase.Usecase, *fakeStore, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	store := &fakeStore{}
	uc := usecase.NewUsecase(
		movieRepository.NewMovieRepository(db),
		store,
		ratings.NewAggregator(db),
		userRepository.NewUser(db),
	)
	return uc, store, db
}

func createRequest(title string) movies.CreateMovieRequest {
	return movies.CreateMovieRequest{
		Title:       title,
		StoryLine:   "a story",
		ReleaseDate: "2024-05-01",
		Status:      movies.StatusPublic,
		Type:        "Film",
		Language:    "English",
		Genres:      []string{"Action"},
		Tags:        []string{"heist"},
		Cast:        []movies.CastEntry{},
		Writers:     nil,
		Trailer:     &movies.TrailerPayload{URL: "https://assets.test/trailers/vid", AssetID: "trailers/vid"},
	}
}

func apiCode(t *testing.T, err error) int {
	t.Helper()
	apiErr, ok := err.(*response.APIError)
	require.True(t, ok, "expected *response.APIError, got %T: %v", err, err)
	return apiErr.Code
}

func TestCreateMovieRequiresAdmin(t *testing.T) {
	uc, _, _ := newUsecase(t)

	_, err := uc.CreateMovie(context.Background(), viewer, createRequest("Heat"), nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apiCode(t, err))
}

func TestCreateMovie(t *testing.T) {
	uc, _, _ := newUsecase(t)

	result, err := uc.CreateMovie(context.Background(), admin, createRequest("Heat"), nil)
	require.NoError(t, err)
	assert.NotZero(t, result.ID)
	assert.Equal(t, "Heat", result.Title)
}

func TestCreateMovieDuplicateTitleConflicts(t *testing.T) {
	uc, _, _ := newUsecase(t)
	ctx := context.Background()

	_, err := uc.CreateMovie(ctx, admin, createRequest("Heat"), nil)
	require.NoError(t, err)

	_, err = uc.CreateMovie(ctx, admin, createRequest("Heat"), nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apiCode(t, err))
}

func TestCreateMovieRejectsUnknownGenre(t *testing.T) {
	uc, _, _ := newUsecase(t)

	req := createRequest("Heat")
	req.Genres = []string{"Telenovela"}

	_, err := uc.CreateMovie(context.Background(), admin, req, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apiCode(t, err))
}

func TestDeleteMovieDestroysAssets(t *testing.T) {
	uc, store, db := newUsecase(t)
	ctx := context.Background()

	created, err := uc.CreateMovie(ctx, admin, createRequest("Doomed"), nil)
	require.NoError(t, err)
	require.NoError(t, db.Model(&movies.Movie{}).Where("id = ?", created.ID).
		Updates(map[string]interface{}{"poster_url": "u", "poster_asset_id": "posters/doomed"}).Error)

	require.NoError(t, uc.DeleteMovie(ctx, admin, created.ID))
	assert.Equal(t, []string{"posters/doomed", "trailers/vid"}, store.destroyed)

	var count int64
	require.NoError(t, db.Model(&movies.Movie{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteMovieWithoutTrailerAsset(t *testing.T) {
	uc, _, db := newUsecase(t)
	ctx := context.Background()

	created, err := uc.CreateMovie(ctx, admin, createRequest("Broken"), nil)
	require.NoError(t, err)
	require.NoError(t, db.Model(&movies.Movie{}).Where("id = ?", created.ID).
		Update("trailer_asset_id", "").Error)

	err = uc.DeleteMovie(ctx, admin, created.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apiCode(t, err))

	// the row survives the aborted delete
	var count int64
	require.NoError(t, db.Model(&movies.Movie{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDeleteMovieStoreFailure(t *testing.T) {
	uc, store, _ := newUsecase(t)
	ctx := context.Background()

	created, err := uc.CreateMovie(ctx, admin, createRequest("Stuck"), nil)
	require.NoError(t, err)

	store.failDestroy = true
	err = uc.DeleteMovie(ctx, admin, created.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, apiCode(t, err))
}

func TestGetMovieDetail(t *testing.T) {
	uc, _, db := newUsecase(t)
	ctx := context.Background()

	created, err := uc.CreateMovie(ctx, admin, createRequest("Reviewed"), nil)
	require.NoError(t, err)
	require.NoError(t, db.Create(&reviews.Review{OwnerID: 1, MovieID: created.ID, Rating: 8}).Error)
	require.NoError(t, db.Create(&reviews.Review{OwnerID: 2, MovieID: created.ID, Rating: 10}).Error)

	detail, err := uc.GetMovieDetail(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Reviewed", detail.Title)
	assert.Equal(t, "2024-05-01", detail.ReleaseDate)
	assert.Equal(t, []string{"heist"}, detail.Tags)
	require.NotNil(t, detail.Reviews)
	assert.Equal(t, "9.0", detail.Reviews.RatingAverage)
	assert.Equal(t, int64(2), detail.Reviews.ReviewCount)
}

func TestGetMoviesRequiresAdmin(t *testing.T) {
	uc, _, _ := newUsecase(t)

	_, err := uc.GetMovies(context.Background(), viewer, 0, 10)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apiCode(t, err))
}

func TestGetAppInfo(t *testing.T) {
	uc, _, db := newUsecase(t)
	ctx := context.Background()

	_, err := uc.GetAppInfo(ctx, viewer)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apiCode(t, err))

	_, err = uc.CreateMovie(ctx, admin, createRequest("Counted"), nil)
	require.NoError(t, err)
	require.NoError(t, db.Exec("INSERT INTO users (ext_id, name, email, password, role) VALUES ('user_x', 'X', 'x@example.com', 'h', 'user')").Error)

	info, err := uc.GetAppInfo(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), info.Movies)
	assert.Equal(t, int64(1), info.Users)
	assert.Equal(t, int64(0), info.Reviews)
}
