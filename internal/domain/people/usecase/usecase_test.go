package usecase_test

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/martinmanurung/cinevault/internal/access"
	"github.com/martinmanurung/cinevault/internal/domain/people"
	"github.com/martinmanurung/cinevault/internal/domain/people/repository"
	"github.com/martinmanurung/cinevault/internal/domain/people/usecase"
	"github.com/martinmanurung/cinevault/internal/platform/storage"
	"github.com/martinmanurung/cinevault/internal/testutil"
	"github.com/martinmanurung/cinevault/pkg/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeStore struct {
	uploads   int
	destroyed []string
}

func (s *fakeStore) UploadImage(_ context.Context, _ multipart.File, _ *multipart.FileHeader, folder string) (*storage.Asset, error) {
	s.uploads++
	return &storage.Asset{
		URL:     "https://assets.test/" + folder + "/img",
		AssetID: folder + "/img",
	}, nil
}

func (s *fakeStore) Destroy(_ context.Context, assetID string) error {
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
	return usecase.NewUsecase(repository.NewPeopleRepository(db), store), store, db
}

func apiCode(t *testing.T, err error) int {
	t.Helper()
	apiErr, ok := err.(*response.APIError)
	require.True(t, ok, "expected *response.APIError, got %T: %v", err, err)
	return apiErr.Code
}

func TestCreateActorRequiresAdmin(t *testing.T) {
	uc, _, _ := newUsecase(t)

	_, err := uc.CreateActor(context.Background(), viewer, people.CreateActorRequest{
		Name:   "Keanu Reeves",
		About:  "actor",
		Gender: people.GenderMale,
	}, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apiCode(t, err))
}

func TestCreateAndGetActor(t *testing.T) {
	uc, _, _ := newUsecase(t)
	ctx := context.Background()

	created, err := uc.CreateActor(ctx, admin, people.CreateActorRequest{
		Name:   "Keanu Reeves",
		About:  "actor",
		Gender: people.GenderMale,
	}, nil)
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	found, err := uc.GetActor(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Keanu Reeves", found.Name)

	_, err = uc.GetActor(ctx, 9999)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apiCode(t, err))
}

func TestUpdateActorKeepsUnsetFields(t *testing.T) {
	uc, _, _ := newUsecase(t)
	ctx := context.Background()

	created, err := uc.CreateActor(ctx, admin, people.CreateActorRequest{
		Name:   "Keanu Reeves",
		About:  "actor",
		Gender: people.GenderMale,
	}, nil)
	require.NoError(t, err)

	updated, err := uc.UpdateActor(ctx, admin, created.ID, people.UpdateActorRequest{
		About: "actor and producer",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Keanu Reeves", updated.Name)
	assert.Equal(t, "actor and producer", updated.About)
	assert.Equal(t, people.GenderMale, updated.Gender)
}

func TestUpdateActorReplacingAvatarDestroysOld(t *testing.T) {
	uc, store, db := newUsecase(t)
	ctx := context.Background()

	created, err := uc.CreateActor(ctx, admin, people.CreateActorRequest{
		Name:   "Keanu Reeves",
		About:  "actor",
		Gender: people.GenderMale,
	}, nil)
	require.NoError(t, err)
	require.NoError(t, db.Model(&people.Actor{}).Where("id = ?", created.ID).
		Updates(map[string]interface{}{"avatar_url": "old-url", "avatar_asset_id": "avatars/old"}).Error)

	avatar := &usecase.AvatarUpload{
		File:   nopFile{},
		Header: &multipart.FileHeader{Filename: "new.jpg"},
	}
	updated, err := uc.UpdateActor(ctx, admin, created.ID, people.UpdateActorRequest{}, avatar)
	require.NoError(t, err)
	assert.Equal(t, []string{"avatars/old"}, store.destroyed)
	assert.Equal(t, 1, store.uploads)
	assert.Equal(t, "https://assets.test/avatars/img", updated.Avatar)
}

func TestDeleteActorDestroysAvatar(t *testing.T) {
	uc, store, db := newUsecase(t)
	ctx := context.Background()

	created, err := uc.CreateActor(ctx, admin, people.CreateActorRequest{
		Name:   "Keanu Reeves",
		About:  "actor",
		Gender: people.GenderMale,
	}, nil)
	require.NoError(t, err)
	require.NoError(t, db.Model(&people.Actor{}).Where("id = ?", created.ID).
		Update("avatar_asset_id", "avatars/keanu").Error)

	require.NoError(t, uc.DeleteActor(ctx, admin, created.ID))
	assert.Equal(t, []string{"avatars/keanu"}, store.destroyed)

	_, err = uc.GetActor(ctx, created.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apiCode(t, err))
}

func TestDirectorLifecycle(t *testing.T) {
	uc, _, _ := newUsecase(t)
	ctx := context.Background()

	created, err := uc.CreateDirector(ctx, admin, people.CreatePersonRequest{Name: "Kathryn Bigelow"}, nil)
	require.NoError(t, err)

	updated, err := uc.UpdateDirector(ctx, admin, created.ID, people.UpdatePersonRequest{About: "director"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Kathryn Bigelow", updated.Name)
	assert.Equal(t, "director", updated.About)

	require.NoError(t, uc.DeleteDirector(ctx, admin, created.ID))

	_, err = uc.GetDirector(ctx, created.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apiCode(t, err))
}

func TestSearchWriters(t *testing.T) {
	uc, _, _ := newUsecase(t)
	ctx := context.Background()

	_, err := uc.CreateWriter(ctx, admin, people.CreatePersonRequest{Name: "Charlie Kaufman"}, nil)
	require.NoError(t, err)
	_, err = uc.CreateWriter(ctx, admin, people.CreatePersonRequest{Name: "Tony Gilroy"}, nil)
	require.NoError(t, err)

	result, err := uc.SearchWriters(ctx, "kauf")
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Charlie Kaufman", result[0].Name)
}

// nopFile satisfies multipart.File without any backing data.
type nopFile struct{}

func (nopFile) Read([]byte) (int, error)          { return 0, io.EOF }
func (nopFile) ReadAt([]byte, int64) (int, error) { return 0, io.EOF }
func (nopFile) Seek(int64, int) (int64, error)    { return 0, nil }
func (nopFile) Close() error                      { return nil }
