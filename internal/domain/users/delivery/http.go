package delivery

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/martinmanurung/cinevault/internal/domain/users"
	"github.com/martinmanurung/cinevault/pkg/jwt"
	"github.com/martinmanurung/cinevault/pkg/middleware"
	"github.com/martinmanurung/cinevault/pkg/response"
)

type UserUsecase interface {
	Signup(ctx context.Context, payload users.SignupRequest) (*users.AuthResponse, error)
	Signin(ctx context.Context, payload users.SigninRequest) (*users.AuthResponse, error)
	VerifyEmail(ctx context.Context, payload users.VerifyEmailRequest) (*users.AuthResponse, error)
	ResendVerifyEmail(ctx context.Context, payload users.ResendVerifyEmailRequest) error
	ForgotPassword(ctx context.Context, payload users.ForgotPasswordRequest) error
	CheckResetToken(ctx context.Context, payload users.TokenCheckRequest) (*users.TokenCheckResponse, error)
	ResetPassword(ctx context.Context, payload users.ResetPasswordRequest) error
	GetUserProfile(ctx context.Context, userExtID string) (*users.Profile, error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshToken(ctx context.Context, refreshToken string) (*users.RefreshTokenResponse, error)
}

type Handler struct {
	ctx     context.Context
	usecase UserUsecase
}

func NewHandler(ctx context.Context, usecase UserUsecase) *Handler {
	return &Handler{
		ctx:     ctx,
		usecase: usecase,
	}
}

func (h *Handler) Signup(c echo.Context) error {
	logger := middleware.GetLogger(c)

	var req users.SignupRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "validation_failed", err.Error())
	}

	result, err := h.usecase.Signup(h.ctx, req)
	if err != nil {
		logger.Warn().Err(err).Msg("Signup failed")
		return err
	}

	logger.Info().Msg("User signed up")
	return response.Success(c, http.StatusCreated, "user_registered_successfully", result)
}

func (h *Handler) Signin(c echo.Context) error {
	logger := middleware.GetLogger(c)

	var req users.SigninRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "validation_failed", err.Error())
	}

	result, err := h.usecase.Signin(h.ctx, req)
	if err != nil {
		logger.Warn().Msg("Signin failed")
		return err
	}

	logger.Info().Msg("User signed in")
	return response.Success(c, http.StatusOK, "login_successful", result)
}

func (h *Handler) VerifyEmail(c echo.Context) error {
	var req users.VerifyEmailRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "validation_failed", err.Error())
	}

	result, err := h.usecase.VerifyEmail(h.ctx, req)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "email_verified", result)
}

func (h *Handler) ResendVerifyEmail(c echo.Context) error {
	var req users.ResendVerifyEmailRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "validation_failed", err.Error())
	}

	if err := h.usecase.ResendVerifyEmail(h.ctx, req); err != nil {
		return err
	}

	return response.Success(c, http.StatusCreated, "verification_token_resent", nil)
}

func (h *Handler) ForgotPassword(c echo.Context) error {
	var req users.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "validation_failed", err.Error())
	}

	if err := h.usecase.ForgotPassword(h.ctx, req); err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "reset_link_sent", nil)
}

func (h *Handler) CheckResetToken(c echo.Context) error {
	var req users.TokenCheckRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "validation_failed", err.Error())
	}

	result, err := h.usecase.CheckResetToken(h.ctx, req)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "token_is_valid", result)
}

func (h *Handler) ResetPassword(c echo.Context) error {
	var req users.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "validation_failed", err.Error())
	}

	if err := h.usecase.ResetPassword(h.ctx, req); err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "password_reset_successfully", nil)
}

func (h *Handler) GetMe(c echo.Context) error {
	extID, err := jwt.GetUserExtIDFromContext(c)
	if err != nil {
		return response.Error(c, http.StatusUnauthorized, "unauthorized", "invalid token")
	}

	result, err := h.usecase.GetUserProfile(h.ctx, extID)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "success", result)
}

func (h *Handler) Logout(c echo.Context) error {
	var req users.LogoutRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "validation_failed", err.Error())
	}

	if err := h.usecase.Logout(h.ctx, req.RefreshToken); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) RefreshToken(c echo.Context) error {
	var req users.RefreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid_request_body", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "validation_failed", err.Error())
	}

	result, err := h.usecase.RefreshToken(h.ctx, req.RefreshToken)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, "token_refreshed_successfully", result)
}
