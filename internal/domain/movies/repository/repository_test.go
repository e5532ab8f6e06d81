package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/martinmanurung/cinevault/internal/domain/movies"
	"github.com/martinmanurung/cinevault/internal/domain/movies/repository"
	"github.com/martinmanurung/cinevault/internal/domain/people"
	"github.com/martinmanurung/cinevault/internal/domain/reviews"
	"github.com/martinmanurung/cinevault/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateMovieWithRelations(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewMovieRepository(db)
	ctx := context.Background()

	lead := people.Actor{Name: "Lead", Gender: people.GenderFemale}
	require.NoError(t, db.Create(&lead).Error)
	support := people.Actor{Name: "Support", Gender: people.GenderMale}
	require.NoError(t, db.Create(&support).Error)
	writer := people.Writer{Name: "Writer"}
	require.NoError(t, db.Create(&writer).Error)

	movie := movies.Movie{Title: "Arrival", Status: movies.StatusPublic, Type: "Film", Language: "English"}
	cast := []movies.CastMember{
		{ActorID: lead.ID, RoleAs: "Louise", LeadActor: true},
		{ActorID: support.ID, RoleAs: "Ian"},
	}
	writers := []movies.MovieWriter{{WriterID: writer.ID}}

	require.NoError(t, repo.CreateMovie(ctx, &movie, []string{"scifi", "drama"}, cast, writers))
	require.NotZero(t, movie.ID)

	tags, err := repo.FindTags(ctx, movie.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"scifi", "drama"}, tags)

	castResult, err := repo.FindCast(ctx, movie.ID)
	require.NoError(t, err)
	require.Len(t, castResult, 2)
	assert.Equal(t, "Louise", castResult[0].RoleAs)
	assert.True(t, castResult[0].LeadActor)
	assert.Equal(t, "Lead", castResult[0].Profile.Name)

	writerResult, err := repo.FindWriters(ctx, movie.ID)
	require.NoError(t, err)
	require.Len(t, writerResult, 1)
	assert.Equal(t, "Writer", writerResult[0].Name)
}

func TestCreateMovieDuplicateTitle(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewMovieRepository(db)
	ctx := context.Background()

	first := movies.Movie{Title: "Heat", Status: movies.StatusPublic, Type: "Film", Language: "English"}
	require.NoError(t, repo.CreateMovie(ctx, &first, nil, nil, nil))

	second := movies.Movie{Title: "Heat", Status: movies.StatusPrivate, Type: "Film", Language: "English"}
	err := repo.CreateMovie(ctx, &second, nil, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}

func TestUpdateMovieReplacesRelations(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewMovieRepository(db)
	ctx := context.Background()

	movie := movies.Movie{Title: "Retagged", Status: movies.StatusPublic, Type: "Film", Language: "English"}
	require.NoError(t, repo.CreateMovie(ctx, &movie, []string{"old"}, nil, nil))

	require.NoError(t, repo.UpdateMovie(ctx, movie.ID, map[string]interface{}{"story_line": "new plot"}, []string{"fresh", "new"}, nil, nil))

	tags, err := repo.FindTags(ctx, movie.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"fresh", "new"}, tags)

	reloaded, err := repo.FindMovieByID(ctx, movie.ID)
	require.NoError(t, err)
	assert.Equal(t, "new plot", reloaded.StoryLine)
}

func TestUpdateMovieNilRelationsKeepRows(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewMovieRepository(db)
	ctx := context.Background()

	movie := movies.Movie{Title: "Stable", Status: movies.StatusPublic, Type: "Film", Language: "English"}
	require.NoError(t, repo.CreateMovie(ctx, &movie, []string{"keep"}, nil, nil))

	require.NoError(t, repo.UpdateMovie(ctx, movie.ID, map[string]interface{}{"language": "French"}, nil, nil, nil))

	tags, err := repo.FindTags(ctx, movie.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep"}, tags)
}

func TestDeleteMovieCascades(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewMovieRepository(db)
	ctx := context.Background()

	actor := people.Actor{Name: "Actor", Gender: people.GenderMale}
	require.NoError(t, db.Create(&actor).Error)

	movie := movies.Movie{Title: "Doomed", Status: movies.StatusPublic, Type: "Film", Language: "English"}
	require.NoError(t, repo.CreateMovie(ctx, &movie, []string{"tag"}, []movies.CastMember{{ActorID: actor.ID}}, nil))
	require.NoError(t, db.Create(&reviews.Review{OwnerID: 1, MovieID: movie.ID, Rating: 5}).Error)

	require.NoError(t, repo.DeleteMovie(ctx, movie.ID))

	var tagCount, castCount, reviewCount int64
	require.NoError(t, db.Model(&movies.MovieTag{}).Count(&tagCount).Error)
	require.NoError(t, db.Model(&movies.CastMember{}).Count(&castCount).Error)
	require.NoError(t, db.Model(&reviews.Review{}).Count(&reviewCount).Error)
	assert.Zero(t, tagCount)
	assert.Zero(t, castCount)
	assert.Zero(t, reviewCount)

	gone, err := repo.FindMovieByID(ctx, movie.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	// the actor itself stays
	var actorCount int64
	require.NoError(t, db.Model(&people.Actor{}).Count(&actorCount).Error)
	assert.Equal(t, int64(1), actorCount)
}

func TestSearchByTitle(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewMovieRepository(db)
	ctx := context.Background()

	public := movies.Movie{Title: "The Matrix", Status: movies.StatusPublic, Type: "Film", Language: "English"}
	require.NoError(t, repo.CreateMovie(ctx, &public, nil, nil, nil))
	private := movies.Movie{Title: "The Matrix Resurrections", Status: movies.StatusPrivate, Type: "Film", Language: "English"}
	require.NoError(t, repo.CreateMovie(ctx, &private, nil, nil, nil))

	all, err := repo.SearchByTitle(ctx, "matrix", false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	publicOnly, err := repo.SearchByTitle(ctx, "MATRIX", true)
	require.NoError(t, err)
	require.Len(t, publicOnly, 1)
	assert.Equal(t, "The Matrix", publicOnly[0].Title)
}

func TestFindLatestPublic(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewMovieRepository(db)
	ctx := context.Background()

	public := movies.Movie{Title: "Visible", Status: movies.StatusPublic, Type: "Film", Language: "English"}
	require.NoError(t, repo.CreateMovie(ctx, &public, nil, nil, nil))
	private := movies.Movie{Title: "Draft", Status: movies.StatusPrivate, Type: "Film", Language: "English"}
	require.NoError(t, repo.CreateMovie(ctx, &private, nil, nil, nil))

	result, err := repo.FindLatestPublic(ctx, 6)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Visible", result[0].Title)
}
