package delivery

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/martinmanurung/cinevault/internal/access"
	"github.com/martinmanurung/cinevault/internal/domain/movies"
	"github.com/martinmanurung/cinevault/internal/domain/movies/usecase"
	"github.com/martinmanurung/cinevault/internal/domain/ratings"
	"github.com/martinmanurung/cinevault/pkg/jwt"
	"github.com/martinmanurung/cinevault/pkg/middleware"
	"github.com/martinmanurung/cinevault/pkg/response"
)

type MovieUsecase interface {
	UploadTrailer(ctx context.Context, caller access.Caller, upload usecase.FileUpload) (*movies.UploadTrailerResponse, error)
	CreateMovie(ctx context.Context, caller access.Caller, payload movies.CreateMovieRequest, poster *usecase.FileUpload) (*movies.CreateMovieResponse, error)
	UpdateMovie(ctx context.Context, caller access.Caller, movieID int64, payload movies.UpdateMovieRequest, poster *usecase.FileUpload) (*movies.MovieDetailResponse, error)
	DeleteMovie(ctx context.Context, caller access.Caller, movieID int64) error
	GetMovieDetail(ctx context.Context, movieID int64) (*movies.MovieDetailResponse, error)
	GetMovies(ctx context.Context, caller access.Caller, page, limit int) (*movies.MovieListWithCount, error)
	GetLatestMovies(ctx context.Context, limit int) ([]movies.MovieListItem, error)
	SearchMovies(ctx context.Context, caller access.Caller, title string) ([]movies.MovieListItem, error)
	SearchPublicMovies(ctx context.Context, title string) ([]movies.MovieListItem, error)
	GetRelatedMovies(ctx context.Context, movieID int64) ([]ratings.RankedMovie, error)
	GetTopRatedMovies(ctx context.Context, movieType string) ([]ratings.RankedMovie, error)
	GetAppInfo(ctx context.Context, caller access.Caller) (*movies.AppInfoResponse, error)
}

type Handler struct {
	ctx     context.Context
	usecase MovieUsecase
}

func NewHandler(ctx context.Context, usecase MovieUsecase) *Handler {
	return &Handler{
		ctx:     ctx,
		usecase: usecase,
	}
}

func callerOf(c echo.Context) access.Caller {
	return access.Caller{Role: jwt.GetUserRoleFromContext(c)}
}

func pathID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// fileOf pulls an optional multipart file by part name.
func fileOf(c echo.Context, name string) (*usecase.FileUpload, multipart.File, error) {
	fileHeader, err := c.FormFile(name)
	if err != nil {
		return nil, nil, nil
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, nil, err
	}
	return &usecase.FileUpload{File: file, Header: fileHeader}, file, nil
}

// jsonField unmarshals a JSON-encoded multipart form value into dst.
// An absent value leaves dst untouched.
func jsonField(c echo.Context, name string, dst interface{}) error {
	value := c.FormValue(name)
	if value == "" {
		return nil
	}
	return json.Unmarshal([]byte(value), dst)
}

// bindCreateRequest fills the JSON-encoded multipart fields that
// echo's form binder cannot handle.
func bindCreateRequest(c echo.Context, req *movies.CreateMovieRequest) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	if err := jsonField(c, "genres", &req.Genres); err != nil {
		return err
	}
	if err := jsonField(c, "tags", &req.Tags); err != nil {
		return err
	}
	if err := jsonField(c, "cast", &req.Cast); err != nil {
		return err
	}
	if err := jsonField(c, "writers", &req.Writers); err != nil {
		return err
	}
	if err := jsonField(c, "trailer", &req.Trailer); err != nil {
		return err
	}
	if directorValue := c.FormValue("director"); directorValue != "" {
		directorID, err := strconv.ParseInt(directorValue, 10, 64)
		if err != nil {
			return err
		}
		req.DirectorID = &directorID
	}
	return nil
}

func bindUpdateRequest(c echo.Context, req *movies.UpdateMovieRequest) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	if err := jsonField(c, "genres", &req.Genres); err != nil {
		return err
	}
	if err := jsonField(c, "tags", &req.Tags); err != nil {
		return err
	}
	if err := jsonField(c, "cast", &req.Cast); err != nil {
		return err
	}
	if err := jsonField(c, "writers", &req.Writers); err != nil {
		return err
	}
	if err := jsonField(c, "trailer", &req.Trailer); err != nil {
		return err
	}
	if directorValue := c.FormValue("director"); directorValue != "" {
		directorID, err := strconv.ParseInt(directorValue, 10, 64)
		if err != nil {
			return err
		}
		req.DirectorID = &directorID
	}
	return nil
}

func (h *Handler) UploadTrailer(c echo.Context) error {
	logger := middleware.GetLogger(c)

	upload, file, err := fileOf(c, "video")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_video_file", err.Error())
	}
	if upload == nil {
		return response.Error(c, http.StatusBadRequest, "missing_video_file", "video file is required")
	}
	defer file.Close()

	result, err := h.usecase.UploadTrailer(h.ctx, callerOf(c), *upload)
	if err != nil {
		logger.Warn().Err(err).Msg("Trailer upload failed")
		return err
	}

	logger.Info().Str("asset_id", result.AssetID).Msg("Trailer uploaded")
	return response.Success(c, http.StatusCreated, "trailer_uploaded", result)
}

func (h *Handler) CreateMovie(c echo.Context) error {
	logger := middleware.GetLogger(c)

	var req movies.CreateMovieRequest
	if err := bindCreateRequest(c, &req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "validation_failed", err.Error())
	}

	poster, file, err := fileOf(c, "poster")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_poster_file", err.Error())
	}
	if file != nil {
		defer file.Close()
	}

	result, err := h.usecase.CreateMovie(h.ctx, callerOf(c), req, poster)
	if err != nil {
		logger.Warn().Err(err).Msg("Create movie failed")
		return err
	}

	logger.Info().Int64("movie_id", result.ID).Msg("Movie created")
	return response.Success(c, http.StatusCreated, "movie_created", result)
}

func (h *Handler) UpdateMovie(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_id", "movie id must be numeric")
	}

	var req movies.UpdateMovieRequest
	if err := bindUpdateRequest(c, &req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "validation_failed", err.Error())
	}

	result, err := h.usecase.UpdateMovie(h.ctx, callerOf(c), id, req, nil)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "movie_updated", result)
}

// UpdateMoviePoster is the update variant that also swaps the poster.
func (h *Handler) UpdateMoviePoster(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_id", "movie id must be numeric")
	}

	var req movies.UpdateMovieRequest
	if err := bindUpdateRequest(c, &req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "validation_failed", err.Error())
	}

	poster, file, err := fileOf(c, "poster")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_poster_file", err.Error())
	}
	if poster == nil {
		return response.Error(c, http.StatusBadRequest, "missing_poster_file", "poster file is required")
	}
	defer file.Close()

	result, err := h.usecase.UpdateMovie(h.ctx, callerOf(c), id, req, poster)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "movie_updated", result)
}

func (h *Handler) DeleteMovie(c echo.Context) error {
	logger := middleware.GetLogger(c)

	id, err := pathID(c)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_id", "movie id must be numeric")
	}

	if err := h.usecase.DeleteMovie(h.ctx, callerOf(c), id); err != nil {
		logger.Warn().Err(err).Int64("movie_id", id).Msg("Delete movie failed")
		return err
	}

	logger.Info().Int64("movie_id", id).Msg("Movie deleted")
	return response.Success(c, http.StatusOK, "movie_deleted", nil)
}

func (h *Handler) GetMovie(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_id", "movie id must be numeric")
	}

	result, err := h.usecase.GetMovieDetail(h.ctx, id)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "success", result)
}

func (h *Handler) GetMovies(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("pageNo"))
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}

	result, err := h.usecase.GetMovies(h.ctx, callerOf(c), page, limit)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "success", result)
}

func (h *Handler) GetLatestMovies(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.usecase.GetLatestMovies(h.ctx, limit)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "success", result)
}

func (h *Handler) SearchMovies(c echo.Context) error {
	title := c.QueryParam("title")
	if title == "" {
		return response.Error(c, http.StatusBadRequest, "invalid_query", "title query is required")
	}

	result, err := h.usecase.SearchMovies(h.ctx, callerOf(c), title)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "success", result)
}

func (h *Handler) SearchPublicMovies(c echo.Context) error {
	title := c.QueryParam("title")
	if title == "" {
		return response.Error(c, http.StatusBadRequest, "invalid_query", "title query is required")
	}

	result, err := h.usecase.SearchPublicMovies(h.ctx, title)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "success", result)
}

func (h *Handler) GetRelatedMovies(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_id", "movie id must be numeric")
	}

	result, err := h.usecase.GetRelatedMovies(h.ctx, id)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "success", result)
}

func (h *Handler) GetTopRatedMovies(c echo.Context) error {
	result, err := h.usecase.GetTopRatedMovies(h.ctx, c.QueryParam("type"))
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "success", result)
}

func (h *Handler) GetAppInfo(c echo.Context) error {
	result, err := h.usecase.GetAppInfo(h.ctx, callerOf(c))
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "success", result)
}
