package usecase

import (
	"context"
	"mime/multipart"

	"github.com/martinmanurung/cinevault/internal/access"
	"github.com/martinmanurung/cinevault/internal/domain/people"
	"github.com/martinmanurung/cinevault/internal/platform/storage"
	"github.com/martinmanurung/cinevault/pkg/response"
)

type PeopleRepository interface {
	CreateActor(ctx context.Context, actor *people.Actor) error
	FindActorByID(ctx context.Context, actorID int64) (*people.Actor, error)
	UpdateActor(ctx context.Context, actorID int64, updates map[string]interface{}) error
	DeleteActor(ctx context.Context, actorID int64) error
	SearchActorsByName(ctx context.Context, name string) ([]people.Actor, error)
	FindLatestActors(ctx context.Context, limit int) ([]people.Actor, error)
	FindActors(ctx context.Context, page, limit int) ([]people.Actor, int64, error)

	CreateDirector(ctx context.Context, director *people.Director) error
	FindDirectorByID(ctx context.Context, directorID int64) (*people.Director, error)
	UpdateDirector(ctx context.Context, directorID int64, updates map[string]interface{}) error
	DeleteDirector(ctx context.Context, directorID int64) error
	SearchDirectorsByName(ctx context.Context, name string) ([]people.Director, error)
	FindDirectors(ctx context.Context, page, limit int) ([]people.Director, int64, error)

	CreateWriter(ctx context.Context, writer *people.Writer) error
	FindWriterByID(ctx context.Context, writerID int64) (*people.Writer, error)
	UpdateWriter(ctx context.Context, writerID int64, updates map[string]interface{}) error
	DeleteWriter(ctx context.Context, writerID int64) error
	SearchWritersByName(ctx context.Context, name string) ([]people.Writer, error)
	FindWriters(ctx context.Context, page, limit int) ([]people.Writer, int64, error)
}

// AssetStore is the slice of the storage service the people module needs.
type AssetStore interface {
	UploadImage(ctx context.Context, file multipart.File, fileHeader *multipart.FileHeader, folder string) (*storage.Asset, error)
	Destroy(ctx context.Context, assetID string) error
}

type Usecase struct {
	repo  PeopleRepository
	store AssetStore
}

func NewUsecase(repo PeopleRepository, store AssetStore) *Usecase {
	return &Usecase{
		repo:  repo,
		store: store,
	}
}

// AvatarUpload carries an optional multipart avatar file through the
// create and update flows.
type AvatarUpload struct {
	File   multipart.File
	Header *multipart.FileHeader
}

func (u *Usecase) mutationAllowed(caller access.Caller, action access.Action) error {
	if !access.Can(caller, action, access.Resource{AdminManaged: true}) {
		return response.Unauthorized("admin access required")
	}
	return nil
}

func (u *Usecase) uploadAvatar(ctx context.Context, avatar *AvatarUpload) (url, assetID string, err error) {
	if avatar == nil || avatar.File == nil {
		return "", "", nil
	}
	asset, err := u.store.UploadImage(ctx, avatar.File, avatar.Header, "avatars")
	if err != nil {
		return "", "", response.DependencyFailure("asset_store", err)
	}
	return asset.URL, asset.AssetID, nil
}

// Actors

func (u *Usecase) CreateActor(ctx context.Context, caller access.Caller, payload people.CreateActorRequest, avatar *AvatarUpload) (*people.ActorResponse, error) {
	if err := u.mutationAllowed(caller, access.ActionCreate); err != nil {
		return nil, err
	}

	avatarURL, avatarAssetID, err := u.uploadAvatar(ctx, avatar)
	if err != nil {
		return nil, err
	}

	actor := people.Actor{
		Name:          payload.Name,
		About:         payload.About,
		Gender:        payload.Gender,
		AvatarURL:     avatarURL,
		AvatarAssetID: avatarAssetID,
	}
	if err := u.repo.CreateActor(ctx, &actor); err != nil {
		return nil, response.InternalServerError(err)
	}

	resp := actorResponseOf(actor)
	return &resp, nil
}

func (u *Usecase) UpdateActor(ctx context.Context, caller access.Caller, actorID int64, payload people.UpdateActorRequest, avatar *AvatarUpload) (*people.ActorResponse, error) {
	if err := u.mutationAllowed(caller, access.ActionUpdate); err != nil {
		return nil, err
	}

	actor, err := u.repo.FindActorByID(ctx, actorID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if actor == nil {
		return nil, response.NotFound("actor not found")
	}

	// empty fields keep their stored values
	if payload.Name != "" {
		actor.Name = payload.Name
	}
	if payload.About != "" {
		actor.About = payload.About
	}
	if payload.Gender != "" {
		actor.Gender = payload.Gender
	}

	if avatar != nil && avatar.File != nil {
		if actor.AvatarAssetID != "" {
			if err := u.store.Destroy(ctx, actor.AvatarAssetID); err != nil {
				return nil, response.DependencyFailure("asset_store", err)
			}
		}
		url, assetID, err := u.uploadAvatar(ctx, avatar)
		if err != nil {
			return nil, err
		}
		actor.AvatarURL = url
		actor.AvatarAssetID = assetID
	}

	updates := map[string]interface{}{
		"name":            actor.Name,
		"about":           actor.About,
		"gender":          actor.Gender,
		"avatar_url":      actor.AvatarURL,
		"avatar_asset_id": actor.AvatarAssetID,
	}
	if err := u.repo.UpdateActor(ctx, actorID, updates); err != nil {
		return nil, response.InternalServerError(err)
	}

	resp := actorResponseOf(*actor)
	return &resp, nil
}

func (u *Usecase) DeleteActor(ctx context.Context, caller access.Caller, actorID int64) error {
	if err := u.mutationAllowed(caller, access.ActionDelete); err != nil {
		return err
	}

	actor, err := u.repo.FindActorByID(ctx, actorID)
	if err != nil {
		return response.InternalServerError(err)
	}
	if actor == nil {
		return response.NotFound("actor not found")
	}

	if actor.AvatarAssetID != "" {
		if err := u.store.Destroy(ctx, actor.AvatarAssetID); err != nil {
			return response.DependencyFailure("asset_store", err)
		}
	}

	if err := u.repo.DeleteActor(ctx, actorID); err != nil {
		return response.InternalServerError(err)
	}
	return nil
}

func (u *Usecase) GetActor(ctx context.Context, actorID int64) (*people.ActorResponse, error) {
	actor, err := u.repo.FindActorByID(ctx, actorID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if actor == nil {
		return nil, response.NotFound("actor not found")
	}
	resp := actorResponseOf(*actor)
	return &resp, nil
}

func (u *Usecase) SearchActors(ctx context.Context, name string) ([]people.ActorResponse, error) {
	actors, err := u.repo.SearchActorsByName(ctx, name)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	return actorResponsesOf(actors), nil
}

func (u *Usecase) GetLatestActors(ctx context.Context, limit int) ([]people.ActorResponse, error) {
	actors, err := u.repo.FindLatestActors(ctx, limit)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	return actorResponsesOf(actors), nil
}

func (u *Usecase) GetActors(ctx context.Context, page, limit int) (*people.ActorListWithCount, error) {
	actors, count, err := u.repo.FindActors(ctx, page, limit)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	return &people.ActorListWithCount{
		Results: actorResponsesOf(actors),
		Count:   count,
	}, nil
}

// Directors

func (u *Usecase) CreateDirector(ctx context.Context, caller access.Caller, payload people.CreatePersonRequest, avatar *AvatarUpload) (*people.PersonResponse, error) {
	if err := u.mutationAllowed(caller, access.ActionCreate); err != nil {
		return nil, err
	}

	avatarURL, avatarAssetID, err := u.uploadAvatar(ctx, avatar)
	if err != nil {
		return nil, err
	}

	director := people.Director{
		Name:          payload.Name,
		About:         payload.About,
		AvatarURL:     avatarURL,
		AvatarAssetID: avatarAssetID,
	}
	if err := u.repo.CreateDirector(ctx, &director); err != nil {
		return nil, response.InternalServerError(err)
	}

	resp := personResponseOf(director.ID, director.Name, director.About, director.AvatarURL)
	return &resp, nil
}

func (u *Usecase) UpdateDirector(ctx context.Context, caller access.Caller, directorID int64, payload people.UpdatePersonRequest, avatar *AvatarUpload) (*people.PersonResponse, error) {
	if err := u.mutationAllowed(caller, access.ActionUpdate); err != nil {
		return nil, err
	}

	director, err := u.repo.FindDirectorByID(ctx, directorID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if director == nil {
		return nil, response.NotFound("director not found")
	}

	if payload.Name != "" {
		director.Name = payload.Name
	}
	if payload.About != "" {
		director.About = payload.About
	}

	if avatar != nil && avatar.File != nil {
		if director.AvatarAssetID != "" {
			if err := u.store.Destroy(ctx, director.AvatarAssetID); err != nil {
				return nil, response.DependencyFailure("asset_store", err)
			}
		}
		url, assetID, err := u.uploadAvatar(ctx, avatar)
		if err != nil {
			return nil, err
		}
		director.AvatarURL = url
		director.AvatarAssetID = assetID
	}

	updates := map[string]interface{}{
		"name":            director.Name,
		"about":           director.About,
		"avatar_url":      director.AvatarURL,
		"avatar_asset_id": director.AvatarAssetID,
	}
	if err := u.repo.UpdateDirector(ctx, directorID, updates); err != nil {
		return nil, response.InternalServerError(err)
	}

	resp := personResponseOf(director.ID, director.Name, director.About, director.AvatarURL)
	return &resp, nil
}

func (u *Usecase) DeleteDirector(ctx context.Context, caller access.Caller, directorID int64) error {
	if err := u.mutationAllowed(caller, access.ActionDelete); err != nil {
		return err
	}

	director, err := u.repo.FindDirectorByID(ctx, directorID)
	if err != nil {
		return response.InternalServerError(err)
	}
	if director == nil {
		return response.NotFound("director not found")
	}

	if director.AvatarAssetID != "" {
		if err := u.store.Destroy(ctx, director.AvatarAssetID); err != nil {
			return response.DependencyFailure("asset_store", err)
		}
	}

	if err := u.repo.DeleteDirector(ctx, directorID); err != nil {
		return response.InternalServerError(err)
	}
	return nil
}

func (u *Usecase) GetDirector(ctx context.Context, directorID int64) (*people.PersonResponse, error) {
	director, err := u.repo.FindDirectorByID(ctx, directorID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if director == nil {
		return nil, response.NotFound("director not found")
	}
	resp := personResponseOf(director.ID, director.Name, director.About, director.AvatarURL)
	return &resp, nil
}

func (u *Usecase) SearchDirectors(ctx context.Context, name string) ([]people.PersonResponse, error) {
	directors, err := u.repo.SearchDirectorsByName(ctx, name)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	results := make([]people.PersonResponse, 0, len(directors))
	for _, d := range directors {
		results = append(results, personResponseOf(d.ID, d.Name, d.About, d.AvatarURL))
	}
	return results, nil
}

func (u *Usecase) GetDirectors(ctx context.Context, page, limit int) (*people.PersonListWithCount, error) {
	directors, count, err := u.repo.FindDirectors(ctx, page, limit)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	results := make([]people.PersonResponse, 0, len(directors))
	for _, d := range directors {
		results = append(results, personResponseOf(d.ID, d.Name, d.About, d.AvatarURL))
	}
	return &people.PersonListWithCount{Results: results, Count: count}, nil
}

// Writers

func (u *Usecase) CreateWriter(ctx context.Context, caller access.Caller, payload people.CreatePersonRequest, avatar *AvatarUpload) (*people.PersonResponse, error) {
	if err := u.mutationAllowed(caller, access.ActionCreate); err != nil {
		return nil, err
	}

	avatarURL, avatarAssetID, err := u.uploadAvatar(ctx, avatar)
	if err != nil {
		return nil, err
	}

	writer := people.Writer{
		Name:          payload.Name,
		About:         payload.About,
		AvatarURL:     avatarURL,
		AvatarAssetID: avatarAssetID,
	}
	if err := u.repo.CreateWriter(ctx, &writer); err != nil {
		return nil, response.InternalServerError(err)
	}

	resp := personResponseOf(writer.ID, writer.Name, writer.About, writer.AvatarURL)
	return &resp, nil
}

func (u *Usecase) UpdateWriter(ctx context.Context, caller access.Caller, writerID int64, payload people.UpdatePersonRequest, avatar *AvatarUpload) (*people.PersonResponse, error) {
	if err := u.mutationAllowed(caller, access.ActionUpdate); err != nil {
		return nil, err
	}

	writer, err := u.repo.FindWriterByID(ctx, writerID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if writer == nil {
		return nil, response.NotFound("writer not found")
	}

	if payload.Name != "" {
		writer.Name = payload.Name
	}
	if payload.About != "" {
		writer.About = payload.About
	}

	if avatar != nil && avatar.File != nil {
		if writer.AvatarAssetID != "" {
			if err := u.store.Destroy(ctx, writer.AvatarAssetID); err != nil {
				return nil, response.DependencyFailure("asset_store", err)
			}
		}
		url, assetID, err := u.uploadAvatar(ctx, avatar)
		if err != nil {
			return nil, err
		}
		writer.AvatarURL = url
		writer.AvatarAssetID = assetID
	}

	updates := map[string]interface{}{
		"name":            writer.Name,
		"about":           writer.About,
		"avatar_url":      writer.AvatarURL,
		"avatar_asset_id": writer.AvatarAssetID,
	}
	if err := u.repo.UpdateWriter(ctx, writerID, updates); err != nil {
		return nil, response.InternalServerError(err)
	}

	resp := personResponseOf(writer.ID, writer.Name, writer.About, writer.AvatarURL)
	return &resp, nil
}

func (u *Usecase) DeleteWriter(ctx context.Context, caller access.Caller, writerID int64) error {
	if err := u.mutationAllowed(caller, access.ActionDelete); err != nil {
		return err
	}

	writer, err := u.repo.FindWriterByID(ctx, writerID)
	if err != nil {
		return response.InternalServerError(err)
	}
	if writer == nil {
		return response.NotFound("writer not found")
	}

	if writer.AvatarAssetID != "" {
		if err := u.store.Destroy(ctx, writer.AvatarAssetID); err != nil {
			return response.DependencyFailure("asset_store", err)
		}
	}

	if err := u.repo.DeleteWriter(ctx, writerID); err != nil {
		return response.InternalServerError(err)
	}
	return nil
}

func (u *Usecase) GetWriter(ctx context.Context, writerID int64) (*people.PersonResponse, error) {
	writer, err := u.repo.FindWriterByID(ctx, writerID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if writer == nil {
		return nil, response.NotFound("writer not found")
	}
	resp := personResponseOf(writer.ID, writer.Name, writer.About, writer.AvatarURL)
	return &resp, nil
}

func (u *Usecase) SearchWriters(ctx context.Context, name string) ([]people.PersonResponse, error) {
	writers, err := u.repo.SearchWritersByName(ctx, name)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	results := make([]people.PersonResponse, 0, len(writers))
	for _, w := range writers {
		results = append(results, personResponseOf(w.ID, w.Name, w.About, w.AvatarURL))
	}
	return results, nil
}

func (u *Usecase) GetWriters(ctx context.Context, page, limit int) (*people.PersonListWithCount, error) {
	writers, count, err := u.repo.FindWriters(ctx, page, limit)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	results := make([]people.PersonResponse, 0, len(writers))
	for _, w := range writers {
		results = append(results, personResponseOf(w.ID, w.Name, w.About, w.AvatarURL))
	}
	return &people.PersonListWithCount{Results: results, Count: count}, nil
}

// mappers

func actorResponseOf(actor people.Actor) people.ActorResponse {
	return people.ActorResponse{
		ID:     actor.ID,
		Name:   actor.Name,
		About:  actor.About,
		Gender: actor.Gender,
		Avatar: actor.AvatarURL,
	}
}

func actorResponsesOf(actors []people.Actor) []people.ActorResponse {
	results := make([]people.ActorResponse, 0, len(actors))
	for _, a := range actors {
		results = append(results, actorResponseOf(a))
	}
	return results
}

func personResponseOf(id int64, name, about, avatarURL string) people.PersonResponse {
	return people.PersonResponse{
		ID:     id,
		Name:   name,
		About:  about,
		Avatar: avatarURL,
	}
}
