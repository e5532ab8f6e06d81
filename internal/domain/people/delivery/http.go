package delivery

import (
	"context"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/martinmanurung/cinevault/internal/access"
	"github.com/martinmanurung/cinevault/internal/domain/people"
	"github.com/martinmanurung/cinevault/internal/domain/people/usecase"
	"github.com/martinmanurung/cinevault/pkg/jwt"
	"github.com/martinmanurung/cinevault/pkg/middleware"
	"github.com/martinmanurung/cinevault/pkg/response"
)

type PeopleUsecase interface {
	CreateActor(ctx context.Context, caller access.Caller, payload people.CreateActorRequest, avatar *usecase.AvatarUpload) (*people.ActorResponse, error)
	UpdateActor(ctx context.Context, caller access.Caller, actorID int64, payload people.UpdateActorRequest, avatar *usecase.AvatarUpload) (*people.ActorResponse, error)
	DeleteActor(ctx context.Context, caller access.Caller, actorID int64) error
	GetActor(ctx context.Context, actorID int64) (*people.ActorResponse, error)
	SearchActors(ctx context.Context, name string) ([]people.ActorResponse, error)
	GetLatestActors(ctx context.Context, limit int) ([]people.ActorResponse, error)
	GetActors(ctx context.Context, page, limit int) (*people.ActorListWithCount, error)

	CreateDirector(ctx context.Context, caller access.Caller, payload people.CreatePersonRequest, avatar *usecase.AvatarUpload) (*people.PersonResponse, error)
	UpdateDirector(ctx context.Context, caller access.Caller, directorID int64, payload people.UpdatePersonRequest, avatar *usecase.AvatarUpload) (*people.PersonResponse, error)
	DeleteDirector(ctx context.Context, caller access.Caller, directorID int64) error
	GetDirector(ctx context.Context, directorID int64) (*people.PersonResponse, error)
	SearchDirectors(ctx context.Context, name string) ([]people.PersonResponse, error)
	GetDirectors(ctx context.Context, page, limit int) (*people.PersonListWithCount, error)

	CreateWriter(ctx context.Context, caller access.Caller, payload people.CreatePersonRequest, avatar *usecase.AvatarUpload) (*people.PersonResponse, error)
	UpdateWriter(ctx context.Context, caller access.Caller, writerID int64, payload people.UpdatePersonRequest, avatar *usecase.AvatarUpload) (*people.PersonResponse, error)
	DeleteWriter(ctx context.Context, caller access.Caller, writerID int64) error
	GetWriter(ctx context.Context, writerID int64) (*people.PersonResponse, error)
	SearchWriters(ctx context.Context, name string) ([]people.PersonResponse, error)
	GetWriters(ctx context.Context, page, limit int) (*people.PersonListWithCount, error)
}

type Handler struct {
	ctx     context.Context
	usecase PeopleUsecase
}

func NewHandler(ctx context.Context, usecase PeopleUsecase) *Handler {
	return &Handler{
		ctx:     ctx,
		usecase: usecase,
	}
}

func callerOf(c echo.Context) access.Caller {
	return access.Caller{Role: jwt.GetUserRoleFromContext(c)}
}

// avatarOf pulls the optional multipart avatar file. A missing part is
// treated as "no avatar", not an error.
func avatarOf(c echo.Context) (*usecase.AvatarUpload, multipart.File, error) {
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return nil, nil, nil
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, nil, err
	}
	return &usecase.AvatarUpload{File: file, Header: fileHeader}, file, nil
}

func pathID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func pagination(c echo.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("pageNo"))
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	return page, limit
}

// Actors

func (h *Handler) CreateActor(c echo.Context) error {
	logger := middleware.GetLogger(c)

	var req people.CreateActorRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "validation_failed", err.Error())
	}

	avatar, file, err := avatarOf(c)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_avatar_file", err.Error())
	}
	if file != nil {
		defer file.Close()
	}

	result, err := h.usecase.CreateActor(h.ctx, callerOf(c), req, avatar)
	if err != nil {
		logger.Warn().Err(err).Msg("Create actor failed")
		return err
	}

	return response.Success(c, http.StatusCreated, "actor_created", result)
}

func (h *Handler) UpdateActor(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_id", "actor id must be numeric")
	}

	var req people.UpdateActorRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "validation_failed", err.Error())
	}

	avatar, file, err := avatarOf(c)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_avatar_file", err.Error())
	}
	if file != nil {
		defer file.Close()
	}

	result, err := h.usecase.UpdateActor(h.ctx, callerOf(c), id, req, avatar)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "actor_updated", result)
}

func (h *Handler) DeleteActor(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_id", "actor id must be numeric")
	}

	if err := h.usecase.DeleteActor(h.ctx, callerOf(c), id); err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "actor_deleted", nil)
}

func (h *Handler) GetActor(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_id", "actor id must be numeric")
	}

	result, err := h.usecase.GetActor(h.ctx, id)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "success", result)
}

func (h *Handler) SearchActors(c echo.Context) error {
	name := c.QueryParam("name")
	if name == "" {
		return response.Error(c, http.StatusBadRequest, "invalid_query", "name query is required")
	}

	result, err := h.usecase.SearchActors(h.ctx, name)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "success", result)
}

func (h *Handler) GetLatestActors(c echo.Context) error {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = 12
	}

	result, err := h.usecase.GetLatestActors(h.ctx, limit)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "success", result)
}

func (h *Handler) GetActors(c echo.Context) error {
	page, limit := pagination(c)

	result, err := h.usecase.GetActors(h.ctx, page, limit)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "success", result)
}

// Directors

func (h *Handler) CreateDirector(c echo.Context) error {
	var req people.CreatePersonRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "validation_failed", err.Error())
	}

	avatar, file, err := avatarOf(c)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_avatar_file", err.Error())
	}
	if file != nil {
		defer file.Close()
	}

	result, err := h.usecase.CreateDirector(h.ctx, callerOf(c), req, avatar)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusCreated, "director_created", result)
}

func (h *Handler) UpdateDirector(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_id", "director id must be numeric")
	}

	var req people.UpdatePersonRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "validation_failed", err.Error())
	}

	avatar, file, err := avatarOf(c)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_avatar_file", err.Error())
	}
	if file != nil {
		defer file.Close()
	}

	result, err := h.usecase.UpdateDirector(h.ctx, callerOf(c), id, req, avatar)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "director_updated", result)
}

func (h *Handler) DeleteDirector(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_id", "director id must be numeric")
	}

	if err := h.usecase.DeleteDirector(h.ctx, callerOf(c), id); err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "director_deleted", nil)
}

func (h *Handler) GetDirector(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_id", "director id must be numeric")
	}

	result, err := h.usecase.GetDirector(h.ctx, id)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "success", result)
}

func (h *Handler) SearchDirectors(c echo.Context) error {
	name := c.QueryParam("name")
	if name == "" {
		return response.Error(c, http.StatusBadRequest, "invalid_query", "name query is required")
	}

	result, err := h.usecase.SearchDirectors(h.ctx, name)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "success", result)
}

func (h *Handler) GetDirectors(c echo.Context) error {
	page, limit := pagination(c)

	result, err := h.usecase.GetDirectors(h.ctx, page, limit)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "success", result)
}

// Writers

func (h *Handler) CreateWriter(c echo.Context) error {
	var req people.CreatePersonRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "validation_failed", err.Error())
	}

	avatar, file, err := avatarOf(c)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_avatar_file", err.Error())
	}
	if file != nil {
		defer file.Close()
	}

	result, err := h.usecase.CreateWriter(h.ctx, callerOf(c), req, avatar)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusCreated, "writer_created", result)
}

func (h *Handler) UpdateWriter(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_id", "writer id must be numeric")
	}

	var req people.UpdatePersonRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "validation_failed", err.Error())
	}

	avatar, file, err := avatarOf(c)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_avatar_file", err.Error())
	}
	if file != nil {
		defer file.Close()
	}

	result, err := h.usecase.UpdateWriter(h.ctx, callerOf(c), id, req, avatar)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "writer_updated", result)
}

func (h *Handler) DeleteWriter(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_id", "writer id must be numeric")
	}

	if err := h.usecase.DeleteWriter(h.ctx, callerOf(c), id); err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "writer_deleted", nil)
}

func (h *Handler) GetWriter(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_id", "writer id must be numeric")
	}

	result, err := h.usecase.GetWriter(h.ctx, id)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "success", result)
}

func (h *Handler) SearchWriters(c echo.Context) error {
	name := c.QueryParam("name")
	if name == "" {
		return response.Error(c, http.StatusBadRequest, "invalid_query", "name query is required")
	}

	result, err := h.usecase.SearchWriters(h.ctx, name)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "success", result)
}

func (h *Handler) GetWriters(c echo.Context) error {
	page, limit := pagination(c)

	result, err := h.usecase.GetWriters(h.ctx, page, limit)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "success", result)
}
