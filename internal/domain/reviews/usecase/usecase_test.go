package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/martinmanurung/cinevault/internal/domain/movies"
	movieRepository "github.com/martinmanurung/cinevault/internal/domain/movies/repository"
	"github.com/martinmanurung/cinevault/internal/domain/reviews"
	reviewRepository "github.com/martinmanurung/cinevault/internal/domain/reviews/repository"
	"github.com/martinmanurung/cinevault/internal/domain/reviews/usecase"
	"github.com/martinmanurung/cinevault/internal/domain/users"
	userRepository "github.com/martinmanurung/cinevault/internal/domain/users/repository"
	"github.com/martinmanurung/cinevault/internal/testutil"
	"github.com/martinmanurung/cinevault/pkg/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUsecase(t *testing.T) (*usecase.Usecase, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	return usecase.NewUsecase(
		reviewRepository.NewReviewRepository(db),
		userRepository.NewUser(db),
		movieRepository.NewMovieRepository(db),
	), db
}

func seedUser(t *testing.T, db *gorm.DB, extID, role string) *users.User {
	t.Helper()
	user := users.User{
		ExtID:    extID,
		Name:     "User " + extID,
		Email:    extID + "@example.com",
		Password: "hashed",
		Role:     role,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedMovie(t *testing.T, db *gorm.DB, title, status string) int64 {
	t.Helper()
	movie := movies.Movie{Title: title, Status: status, Type: "Film", Language: "English"}
	require.NoError(t, db.Create(&movie).Error)
	return movie.ID
}

func apiCode(t *testing.T, err error) int {
	t.Helper()
	apiErr, ok := err.(*response.APIError)
	require.True(t, ok, "expected *response.APIError, got %T: %v", err, err)
	return apiErr.Code
}

func TestAddReview(t *testing.T) {
	uc, db := newUsecase(t)
	ctx := context.Background()

	seedUser(t, db, "user_alpha", users.RoleUser)
	movieID := seedMovie(t, db, "Heat", movies.StatusPublic)

	result, err := uc.AddReview(ctx, "user_alpha", reviews.AddReviewRequest{
		MovieID: movieID,
		Rating:  9,
		Content: "tense",
	})
	require.NoError(t, err)
	assert.Equal(t, movieID, result.MovieID)
	assert.Equal(t, float64(9), result.Rating)
	assert.Equal(t, "user_alpha", result.Owner.ExtID)
}

func TestAddReviewTwiceConflicts(t *testing.T) {
	uc, db := newUsecase(t)
	ctx := context.Background()

	seedUser(t, db, "user_alpha", users.RoleUser)
	movieID := seedMovie(t, db, "Heat", movies.StatusPublic)

	_, err := uc.AddReview(ctx, "user_alpha", reviews.AddReviewRequest{MovieID: movieID, Rating: 9})
	require.NoError(t, err)

	_, err = uc.AddReview(ctx, "user_alpha", reviews.AddReviewRequest{MovieID: movieID, Rating: 5})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apiCode(t, err))
}

func TestAddReviewPrivateMovie(t *testing.T) {
	uc, db := newUsecase(t)

	seedUser(t, db, "user_alpha", users.RoleUser)
	movieID := seedMovie(t, db, "Unreleased", movies.StatusPrivate)

	_, err := uc.AddReview(context.Background(), "user_alpha", reviews.AddReviewRequest{MovieID: movieID, Rating: 7})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apiCode(t, err))
}

func TestUpdateReviewOwnerOnly(t *testing.T) {
	uc, db := newUsecase(t)
	ctx := context.Background()

	seedUser(t, db, "user_owner", users.RoleUser)
	seedUser(t, db, "user_other", users.RoleUser)
	seedUser(t, db, "user_admin", users.RoleAdmin)
	movieID := seedMovie(t, db, "Heat", movies.StatusPublic)

	created, err := uc.AddReview(ctx, "user_owner", reviews.AddReviewRequest{MovieID: movieID, Rating: 6, Content: "ok"})
	require.NoError(t, err)

	_, err = uc.UpdateReview(ctx, "user_other", created.ID, reviews.UpdateReviewRequest{Rating: 1, Content: "nope"})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apiCode(t, err))

	// admins do not get to rewrite someone else's words either
	_, err = uc.UpdateReview(ctx, "user_admin", created.ID, reviews.UpdateReviewRequest{Rating: 1, Content: "nope"})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apiCode(t, err))

	updated, err := uc.UpdateReview(ctx, "user_owner", created.ID, reviews.UpdateReviewRequest{Rating: 8, Content: "better on rewatch"})
	require.NoError(t, err)
	assert.Equal(t, float64(8), updated.Rating)
	assert.Equal(t, "better on rewatch", updated.Content)
}

func TestDeleteReviewOwnerOrAdmin(t *testing.T) {
	uc, db := newUsecase(t)
	ctx := context.Background()

	seedUser(t, db, "user_owner", users.RoleUser)
	seedUser(t, db, "user_other", users.RoleUser)
	seedUser(t, db, "user_admin", users.RoleAdmin)
	movieID := seedMovie(t, db, "Heat", movies.StatusPublic)

	created, err := uc.AddReview(ctx, "user_owner", reviews.AddReviewRequest{MovieID: movieID, Rating: 6})
	require.NoError(t, err)

	err = uc.DeleteReview(ctx, "user_other", created.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apiCode(t, err))

	require.NoError(t, uc.DeleteReview(ctx, "user_admin", created.ID))

	err = uc.DeleteReview(ctx, "user_admin", created.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apiCode(t, err))
}

func TestGetMovieReviews(t *testing.T) {
	uc, db := newUsecase(t)
	ctx := context.Background()

	seedUser(t, db, "user_alpha", users.RoleUser)
	seedUser(t, db, "user_beta", users.RoleUser)
	movieID := seedMovie(t, db, "Heat", movies.StatusPublic)

	_, err := uc.AddReview(ctx, "user_alpha", reviews.AddReviewRequest{MovieID: movieID, Rating: 9, Content: "great"})
	require.NoError(t, err)
	_, err = uc.AddReview(ctx, "user_beta", reviews.AddReviewRequest{MovieID: movieID, Rating: 7, Content: "fine"})
	require.NoError(t, err)

	result, err := uc.GetMovieReviews(ctx, movieID)
	require.NoError(t, err)
	require.Len(t, result, 2)
	for _, review := range result {
		assert.NotEmpty(t, review.Owner.Name)
		assert.NotEmpty(t, review.Owner.ExtID)
	}
}

func TestGetMovieReviewsUnknownMovie(t *testing.T) {
	uc, _ := newUsecase(t)

	_, err := uc.GetMovieReviews(context.Background(), 9999)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apiCode(t, err))
}
