package ratings_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/martinmanurung/cinevault/internal/domain/movies"
	"github.com/martinmanurung/cinevault/internal/domain/ratings"
	"github.com/martinmanurung/cinevault/internal/domain/reviews"
	"github.com/martinmanurung/cinevault/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedMovie(t *testing.T, db *gorm.DB, title, status, movieType string, tags ...string) int64 {
	t.Helper()

	movie := movies.Movie{
		Title:    title,
		Status:   status,
		Type:     movieType,
		Language: "English",
	}
	require.NoError(t, db.Create(&movie).Error)

	for _, tag := range tags {
		require.NoError(t, db.Create(&movies.MovieTag{MovieID: movie.ID, Tag: tag}).Error)
	}
	return movie.ID
}

func seedReviews(t *testing.T, db *gorm.DB, movieID int64, ratingValues ...float64) {
	t.Helper()

	for i, rating := range ratingValues {
		review := reviews.Review{
			OwnerID: int64(1000*movieID + int64(i)),
			MovieID: movieID,
			Rating:  rating,
			Content: "fine",
		}
		require.NoError(t, db.Create(&review).Error)
	}
}

func TestAverageRating(t *testing.T) {
	db := testutil.NewTestDB(t)
	aggregator := ratings.NewAggregator(db)
	ctx := context.Background()

	movieID := seedMovie(t, db, "The Matrix", movies.StatusPublic, "Film")
	seedReviews(t, db, movieID, 8, 10)

	aggregate, err := aggregator.AverageRating(ctx, movieID)
	require.NoError(t, err)
	require.NotNil(t, aggregate)
	assert.Equal(t, "9.0", aggregate.RatingAverage)
	assert.Equal(t, int64(2), aggregate.ReviewCount)
}

func TestAverageRatingNoReviews(t *testing.T) {
	db := testutil.NewTestDB(t)
	aggregator := ratings.NewAggregator(db)

	movieID := seedMovie(t, db, "Unreviewed", movies.StatusPublic, "Film")

	aggregate, err := aggregator.AverageRating(context.Background(), movieID)
	require.NoError(t, err)
	assert.Nil(t, aggregate)
}

func TestAverageRatingRounding(t *testing.T) {
	db := testutil.NewTestDB(t)
	aggregator := ratings.NewAggregator(db)

	movieID := seedMovie(t, db, "Odd Average", movies.StatusPublic, "Film")
	seedReviews(t, db, movieID, 7, 8, 8)

	aggregate, err := aggregator.AverageRating(context.Background(), movieID)
	require.NoError(t, err)
	require.NotNil(t, aggregate)
	assert.Equal(t, "7.7", aggregate.RatingAverage)
	assert.Equal(t, int64(3), aggregate.ReviewCount)
}

func TestRelatedByTags(t *testing.T) {
	db := testutil.NewTestDB(t)
	aggregator := ratings.NewAggregator(db)
	ctx := context.Background()

	subject := seedMovie(t, db, "Subject", movies.StatusPublic, "Film", "heist", "thriller")
	related := seedMovie(t, db, "Related", movies.StatusPublic, "Film", "heist")
	seedMovie(t, db, "Unrelated", movies.StatusPublic, "Film", "romance")
	seedReviews(t, db, related, 6)

	result, err := aggregator.RelatedByTags(ctx, subject)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, related, result[0].ID)
	assert.Equal(t, "Related", result[0].Title)
	require.NotNil(t, result[0].Reviews)
	assert.Equal(t, "6.0", result[0].Reviews.RatingAverage)
}

func TestRelatedByTagsExcludesSelfAndCapsAtFive(t *testing.T) {
	db := testutil.NewTestDB(t)
	aggregator := ratings.NewAggregator(db)
	ctx := context.Background()

	subject := seedMovie(t, db, "Subject", movies.StatusPublic, "Film", "saga")
	for i := 0; i < 7; i++ {
		seedMovie(t, db, fmt.Sprintf("Sequel %d", i), movies.StatusPublic, "Film", "saga")
	}

	result, err := aggregator.RelatedByTags(ctx, subject)
	require.NoError(t, err)
	assert.Len(t, result, 5)
	for _, ranked := range result {
		assert.NotEqual(t, subject, ranked.ID)
	}
}

func TestRelatedByTagsNoTags(t *testing.T) {
	db := testutil.NewTestDB(t)
	aggregator := ratings.NewAggregator(db)

	subject := seedMovie(t, db, "Tagless", movies.StatusPublic, "Film")

	result, err := aggregator.RelatedByTags(context.Background(), subject)
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestTopRated(t *testing.T) {
	db := testutil.NewTestDB(t)
	aggregator := ratings.NewAggregator(db)
	ctx := context.Background()

	popular := seedMovie(t, db, "Popular", movies.StatusPublic, "Film")
	seedReviews(t, db, popular, 9, 9, 8)

	niche := seedMovie(t, db, "Niche", movies.StatusPublic, "Film")
	seedReviews(t, db, niche, 10)

	hidden := seedMovie(t, db, "Hidden", movies.StatusPrivate, "Film")
	seedReviews(t, db, hidden, 10, 10)

	seedMovie(t, db, "Unreviewed", movies.StatusPublic, "Film")

	result, err := aggregator.TopRated(ctx, "")
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, popular, result[0].ID)
	assert.Equal(t, niche, result[1].ID)
	require.NotNil(t, result[0].Reviews)
	assert.Equal(t, int64(3), result[0].Reviews.ReviewCount)
}

func TestTopRatedTypeFilter(t *testing.T) {
	db := testutil.NewTestDB(t)
	aggregator := ratings.NewAggregator(db)
	ctx := context.Background()

	film := seedMovie(t, db, "A Film", movies.StatusPublic, "Film")
	seedReviews(t, db, film, 8)

	series := seedMovie(t, db, "A Series", movies.StatusPublic, "Web Series")
	seedReviews(t, db, series, 9, 9)

	result, err := aggregator.TopRated(ctx, "Web Series")
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, series, result[0].ID)
}
