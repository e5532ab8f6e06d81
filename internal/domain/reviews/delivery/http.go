package delivery

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/martinmanurung/cinevault/internal/domain/reviews"
	"github.com/martinmanurung/cinevault/pkg/jwt"
	"github.com/martinmanurung/cinevault/pkg/middleware"
	"github.com/martinmanurung/cinevault/pkg/response"
)

type ReviewUsecase interface {
	AddReview(ctx context.Context, callerExtID string, payload reviews.AddReviewRequest) (*reviews.ReviewResponse, error)
	UpdateReview(ctx context.Context, callerExtID string, reviewID int64, payload reviews.UpdateReviewRequest) (*reviews.ReviewResponse, error)
	DeleteReview(ctx context.Context, callerExtID string, reviewID int64) error
	GetMovieReviews(ctx context.Context, movieID int64) ([]reviews.ReviewResponse, error)
}

type Handler struct {
	ctx     context.Context
	usecase ReviewUsecase
}

func NewHandler(ctx context.Context, usecase ReviewUsecase) *Handler {
	return &Handler{
		ctx:     ctx,
		usecase: usecase,
	}
}

func (h *Handler) AddReview(c echo.Context) error {
	logger := middleware.GetLogger(c)

	extID, err := jwt.GetUserExtIDFromContext(c)
	if err != nil {
		return response.Error(c, http.StatusUnauthorized, "unauthorized", "invalid token")
	}

	var req reviews.AddReviewRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "validation_failed", err.Error())
	}

	result, err := h.usecase.AddReview(h.ctx, extID, req)
	if err != nil {
		logger.Warn().Err(err).Msg("Add review failed")
		return err
	}

	return response.Success(c, http.StatusCreated, "review_added", result)
}

func (h *Handler) UpdateReview(c echo.Context) error {
	extID, err := jwt.GetUserExtIDFromContext(c)
	if err != nil {
		return response.Error(c, http.StatusUnauthorized, "unauthorized", "invalid token")
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_id", "review id must be numeric")
	}

	var req reviews.UpdateReviewRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "validation_failed", err.Error())
	}

	result, err := h.usecase.UpdateReview(h.ctx, extID, id, req)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "review_updated", result)
}

func (h *Handler) DeleteReview(c echo.Context) error {
	extID, err := jwt.GetUserExtIDFromContext(c)
	if err != nil {
		return response.Error(c, http.StatusUnauthorized, "unauthorized", "invalid token")
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_id", "review id must be numeric")
	}

	if err := h.usecase.DeleteReview(h.ctx, extID, id); err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "review_deleted", nil)
}

func (h *Handler) GetMovieReviews(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_id", "movie id must be numeric")
	}

	result, err := h.usecase.GetMovieReviews(h.ctx, id)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "success", result)
}
