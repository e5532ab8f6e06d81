package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/martinmanurung/cinevault/internal/domain/movies"
	"github.com/martinmanurung/cinevault/internal/domain/people"
	"github.com/martinmanurung/cinevault/internal/domain/people/repository"
	"github.com/martinmanurung/cinevault/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedActor(t *testing.T, repo *repository.PeopleRepository, name string) *people.Actor {
	t.Helper()
	actor := people.Actor{Name: name, About: "about", Gender: people.GenderMale}
	require.NoError(t, repo.CreateActor(context.Background(), &actor))
	return &actor
}

func TestActorCRUD(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewPeopleRepository(db)
	ctx := context.Background()

	actor := seedActor(t, repo, "Keanu Reeves")

	found, err := repo.FindActorByID(ctx, actor.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Keanu Reeves", found.Name)

	require.NoError(t, repo.UpdateActor(ctx, actor.ID, map[string]interface{}{"about": "updated"}))
	found, err = repo.FindActorByID(ctx, actor.ID)
	require.NoError(t, err)
	assert.Equal(t, "updated", found.About)

	missing, err := repo.FindActorByID(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDeleteActorRemovesOwnCastRowsOnly(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewPeopleRepository(db)
	ctx := context.Background()

	doomed := seedActor(t, repo, "Doomed")
	survivor := seedActor(t, repo, "Survivor")

	movie := movies.Movie{Title: "Ensemble", Status: movies.StatusPublic, Type: "Film", Language: "English"}
	require.NoError(t, db.Create(&movie).Error)
	require.NoError(t, db.Create(&movies.CastMember{MovieID: movie.ID, ActorID: doomed.ID, RoleAs: "Lead"}).Error)
	require.NoError(t, db.Create(&movies.CastMember{MovieID: movie.ID, ActorID: survivor.ID, RoleAs: "Support"}).Error)

	require.NoError(t, repo.DeleteActor(ctx, doomed.ID))

	var remaining []movies.CastMember
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, survivor.ID, remaining[0].ActorID)

	var movieCount int64
	require.NoError(t, db.Model(&movies.Movie{}).Count(&movieCount).Error)
	assert.Equal(t, int64(1), movieCount)
}

func TestSearchActorsByNameIsCaseInsensitiveSubstring(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewPeopleRepository(db)
	ctx := context.Background()

	seedActor(t, repo, "Keanu Reeves")
	seedActor(t, repo, "Carrie-Anne Moss")

	result, err := repo.SearchActorsByName(ctx, "REE")
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Keanu Reeves", result[0].Name)

	result, err = repo.SearchActorsByName(ctx, "an")
	require.NoError(t, err)
	assert.Len(t, result, 2)
}

func TestFindActorsPagination(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewPeopleRepository(db)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		seedActor(t, repo, fmt.Sprintf("Actor %d", i))
	}

	first, count, err := repo.FindActors(ctx, 0, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
	assert.Len(t, first, 5)

	second, count, err := repo.FindActors(ctx, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
	assert.Len(t, second, 2)
}

func TestDeleteDirectorClearsMovieReference(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewPeopleRepository(db)
	ctx := context.Background()

	director := people.Director{Name: "Kathryn Bigelow"}
	require.NoError(t, repo.CreateDirector(ctx, &director))

	movie := movies.Movie{Title: "Point Break", Status: movies.StatusPublic, Type: "Film", Language: "English", DirectorID: &director.ID}
	require.NoError(t, db.Create(&movie).Error)

	require.NoError(t, repo.DeleteDirector(ctx, director.ID))

	var reloaded movies.Movie
	require.NoError(t, db.First(&reloaded, movie.ID).Error)
	assert.Nil(t, reloaded.DirectorID)

	gone, err := repo.FindDirectorByID(ctx, director.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestDeleteWriterRemovesMovieLinks(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewPeopleRepository(db)
	ctx := context.Background()

	writer := people.Writer{Name: "Charlie Kaufman"}
	require.NoError(t, repo.CreateWriter(ctx, &writer))
	keeper := people.Writer{Name: "Tony Gilroy"}
	require.NoError(t, repo.CreateWriter(ctx, &keeper))

	movie := movies.Movie{Title: "Adaptation", Status: movies.StatusPublic, Type: "Film", Language: "English"}
	require.NoError(t, db.Create(&movie).Error)
	require.NoError(t, db.Create(&movies.MovieWriter{MovieID: movie.ID, WriterID: writer.ID, Position: 0}).Error)
	require.NoError(t, db.Create(&movies.MovieWriter{MovieID: movie.ID, WriterID: keeper.ID, Position: 1}).Error)

	require.NoError(t, repo.DeleteWriter(ctx, writer.ID))

	var remaining []movies.MovieWriter
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, keeper.ID, remaining[0].WriterID)
}
