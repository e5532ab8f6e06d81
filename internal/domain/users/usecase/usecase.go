package usecase

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/martinmanurung/cinevault/internal/domain/users"
	"github.com/martinmanurung/cinevault/internal/platform/queue"
	"github.com/martinmanurung/cinevault/pkg/jwt"
	"github.com/martinmanurung/cinevault/pkg/otp"
	"github.com/martinmanurung/cinevault/pkg/response"
	"github.com/segmentio/ksuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserRepository interface {
	CreateNewUser(ctx context.Context, user *users.User) error
	FindUserByEmail(ctx context.Context, email string) (*users.User, error)
	FindUserByExtID(ctx context.Context, extID string) (*users.User, error)
	FindUserByID(ctx context.Context, userID int64) (*users.User, error)
	UpdateUser(ctx context.Context, userID int64, updates map[string]interface{}) error
	CreateRefreshToken(ctx context.Context, token users.UserRefreshToken) error
	FindRefreshToken(ctx context.Context, tokenHash string) (*users.UserRefreshToken, error)
	DeleteRefreshToken(ctx context.Context, tokenHash string) error
	CreateEmailVerificationToken(ctx context.Context, token *users.EmailVerificationToken) error
	FindEmailVerificationToken(ctx context.Context, ownerID int64) (*users.EmailVerificationToken, error)
	DeleteEmailVerificationToken(ctx context.Context, ownerID int64) error
	CreatePasswordResetToken(ctx context.Context, token *users.PasswordResetToken) error
	FindPasswordResetToken(ctx context.Context, ownerID int64) (*users.PasswordResetToken, error)
	DeletePasswordResetToken(ctx context.Context, ownerID int64) error
}

// MailPublisher is the slice of the queue service the auth flows need.
type MailPublisher interface {
	PublishMailJob(ctx context.Context, job queue.MailJob) error
}

type Usecase struct {
	repo        UserRepository
	jwtService  *jwt.JWTService
	mail        MailPublisher
	frontendURL string
}

func NewUsecase(repo UserRepository, jwtService *jwt.JWTService, mail MailPublisher, frontendURL string) *Usecase {
	return &Usecase{
		repo:        repo,
		jwtService:  jwtService,
		mail:        mail,
		frontendURL: frontendURL,
	}
}

func (u Usecase) Signup(ctx context.Context, payload users.SignupRequest) (*users.AuthResponse, error) {
	existing, err := u.repo.FindUserByEmail(ctx, payload.Email)
	if err != nil {
		return nil, response.InternalServerError(err)
	}

	if existing != nil {
		return nil, response.Conflict("email_already_exists")
	}

	hashPassword, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, response.InternalServerError(err)
	}

	user := &users.User{
		ExtID:     "user_" + ksuid.New().String(),
		Name:      payload.Name,
		Email:     payload.Email,
		Password:  string(hashPassword),
		Role:      users.RoleUser,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := u.repo.CreateNewUser(ctx, user); err != nil {
		// the unique index on email catches a racing signup
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, response.Conflict("email_already_exists")
		}
		return nil, response.InternalServerError(err)
	}

	if err := u.issueVerificationToken(ctx, user, "Email Verification"); err != nil {
		return nil, err
	}

	return u.authResponse(ctx, user, true)
}

func (u Usecase) Signin(ctx context.Context, payload users.SigninRequest) (*users.AuthResponse, error) {
	user, err := u.repo.FindUserByEmail(ctx, payload.Email)
	if err != nil {
		return nil, response.InternalServerError(err)
	}

	if user == nil {
		return nil, response.Unauthorized("invalid_credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.Password)); err != nil {
		return nil, response.Unauthorized("invalid_credentials")
	}

	return u.authResponse(ctx, user, true)
}

func (u Usecase) VerifyEmail(ctx context.Context, payload users.VerifyEmailRequest) (*users.AuthResponse, error) {
	user, err := u.repo.FindUserByExtID(ctx, payload.UserExtID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if user == nil {
		return nil, response.NotFound("user_not_found")
	}
	if user.IsVerified {
		return nil, response.BadRequest("user_already_verified", nil)
	}

	token, err := u.repo.FindEmailVerificationToken(ctx, user.ID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if token == nil || time.Now().After(token.ExpiresAt) {
		return nil, response.BadRequest("token_not_found_or_expired", nil)
	}

	if bcrypt.CompareHashAndPassword([]byte(token.TokenHash), []byte(payload.OTP)) != nil {
		return nil, response.BadRequest("invalid_otp", nil)
	}

	if err := u.repo.UpdateUser(ctx, user.ID, map[string]interface{}{
		"is_verified": true,
		"updated_at":  time.Now(),
	}); err != nil {
		return nil, response.InternalServerError(err)
	}

	if err := u.repo.DeleteEmailVerificationToken(ctx, user.ID); err != nil {
		return nil, response.InternalServerError(err)
	}

	user.IsVerified = true
	return u.authResponse(ctx, user, false)
}

func (u Usecase) ResendVerifyEmail(ctx context.Context, payload users.ResendVerifyEmailRequest) error {
	user, err := u.repo.FindUserByExtID(ctx, payload.UserExtID)
	if err != nil {
		return response.InternalServerError(err)
	}
	if user == nil {
		return response.NotFound("user_not_found")
	}
	if user.IsVerified {
		return response.BadRequest("user_already_verified", nil)
	}

	existing, err := u.repo.FindEmailVerificationToken(ctx, user.ID)
	if err != nil {
		return response.InternalServerError(err)
	}
	if existing != nil {
		if time.Now().Before(existing.ExpiresAt) {
			return response.BadRequest("token_still_valid_try_later", nil)
		}
		if err := u.repo.DeleteEmailVerificationToken(ctx, user.ID); err != nil {
			return response.InternalServerError(err)
		}
	}

	return u.issueVerificationToken(ctx, user, "Re-send Email Verification")
}

func (u Usecase) ForgotPassword(ctx context.Context, payload users.ForgotPasswordRequest) error {
	user, err := u.repo.FindUserByEmail(ctx, payload.Email)
	if err != nil {
		return response.InternalServerError(err)
	}
	if user == nil {
		return response.NotFound("user_not_found")
	}

	existing, err := u.repo.FindPasswordResetToken(ctx, user.ID)
	if err != nil {
		return response.InternalServerError(err)
	}
	if existing != nil {
		if time.Now().Before(existing.ExpiresAt) {
			return response.BadRequest("token_still_valid_try_later", nil)
		}
		if err := u.repo.DeletePasswordResetToken(ctx, user.ID); err != nil {
			return response.InternalServerError(err)
		}
	}

	rawToken, err := otp.GenerateResetToken()
	if err != nil {
		return response.InternalServerError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(rawToken), bcrypt.DefaultCost)
	if err != nil {
		return response.InternalServerError(err)
	}

	if err := u.repo.CreatePasswordResetToken(ctx, &users.PasswordResetToken{
		OwnerID:   user.ID,
		TokenHash: string(hash),
		ExpiresAt: time.Now().Add(users.TokenTTL),
		CreatedAt: time.Now(),
	}); err != nil {
		return response.InternalServerError(err)
	}

	resetURL := fmt.Sprintf("%s/auth/reset-password?token=%s&id=%s", u.frontendURL, rawToken, user.ExtID)

	job := queue.MailJob{
		To:       user.Email,
		Subject:  "Reset Password Link",
		HTMLBody: passwordResetBody(user.Email, resetURL),
	}
	if err := u.mail.PublishMailJob(ctx, job); err != nil {
		return response.DependencyFailure("mail_queue", err)
	}

	return nil
}

func (u Usecase) CheckResetToken(ctx context.Context, payload users.TokenCheckRequest) (*users.TokenCheckResponse, error) {
	if err := u.matchResetToken(ctx, payload.UserExtID, payload.Token); err != nil {
		return nil, err
	}
	return &users.TokenCheckResponse{Valid: true, Message: "token_is_valid"}, nil
}

func (u Usecase) ResetPassword(ctx context.Context, payload users.ResetPasswordRequest) error {
	if err := u.matchResetToken(ctx, payload.UserExtID, payload.Token); err != nil {
		return err
	}

	user, err := u.repo.FindUserByExtID(ctx, payload.UserExtID)
	if err != nil {
		return response.InternalServerError(err)
	}
	if user == nil {
		return response.NotFound("user_not_found")
	}

	hashPassword, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return response.InternalServerError(err)
	}

	if err := u.repo.UpdateUser(ctx, user.ID, map[string]interface{}{
		"password":   string(hashPassword),
		"updated_at": time.Now(),
	}); err != nil {
		return response.InternalServerError(err)
	}

	if err := u.repo.DeletePasswordResetToken(ctx, user.ID); err != nil {
		return response.InternalServerError(err)
	}

	// best-effort confirmation mail
	job := queue.MailJob{
		To:       user.Email,
		Subject:  "Password Changed",
		HTMLBody: passwordChangedBody(user.Name),
	}
	if err := u.mail.PublishMailJob(ctx, job); err != nil {
		return response.DependencyFailure("mail_queue", err)
	}

	return nil
}

func (u Usecase) GetUserProfile(ctx context.Context, userExtID string) (*users.Profile, error) {
	user, err := u.repo.FindUserByExtID(ctx, userExtID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}

	if user == nil {
		return nil, response.NotFound("user_not_found")
	}

	profile := profileOf(user)
	return &profile, nil
}

func (u Usecase) Logout(ctx context.Context, refreshToken string) error {
	tokenHash := hashRefreshToken(refreshToken)

	storedToken, err := u.repo.FindRefreshToken(ctx, tokenHash)
	if err != nil {
		return response.InternalServerError(err)
	}

	if storedToken == nil {
		return response.Unauthorized("invalid_refresh_token")
	}

	if err := u.repo.DeleteRefreshToken(ctx, tokenHash); err != nil {
		return response.InternalServerError(err)
	}

	return nil
}

func (u Usecase) RefreshToken(ctx context.Context, refreshToken string) (*users.RefreshTokenResponse, error) {
	tokenHash := hashRefreshToken(refreshToken)

	storedToken, err := u.repo.FindRefreshToken(ctx, tokenHash)
	if err != nil {
		return nil, response.InternalServerError(err)
	}

	if storedToken == nil {
		return nil, response.Unauthorized("invalid_or_expired_refresh_token")
	}

	user, err := u.repo.FindUserByExtID(ctx, storedToken.UserExtID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}

	if user == nil {
		return nil, response.NotFound("user_not_found")
	}

	accessToken, err := u.jwtService.GenerateToken(tokenSubjectOf(user))
	if err != nil {
		return nil, response.InternalServerError(err)
	}

	return &users.RefreshTokenResponse{
		AccessToken: accessToken,
	}, nil
}

// issueVerificationToken creates a fresh OTP for the user, stores its
// bcrypt hash and queues the verification mail.
func (u Usecase) issueVerificationToken(ctx context.Context, user *users.User, subject string) error {
	code, err := otp.GenerateNumeric(6)
	if err != nil {
		return response.InternalServerError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return response.InternalServerError(err)
	}

	if err := u.repo.CreateEmailVerificationToken(ctx, &users.EmailVerificationToken{
		OwnerID:   user.ID,
		TokenHash: string(hash),
		ExpiresAt: time.Now().Add(users.TokenTTL),
		CreatedAt: time.Now(),
	}); err != nil {
		return response.InternalServerError(err)
	}

	job := queue.MailJob{
		To:       user.Email,
		Subject:  subject,
		HTMLBody: verificationBody(user.Email, code),
	}
	if err := u.mail.PublishMailJob(ctx, job); err != nil {
		return response.DependencyFailure("mail_queue", err)
	}

	return nil
}

// authResponse issues the JWT (and optionally a refresh token) plus the
// serialized profile.
func (u Usecase) authResponse(ctx context.Context, user *users.User, withRefresh bool) (*users.AuthResponse, error) {
	token, err := u.jwtService.GenerateToken(tokenSubjectOf(user))
	if err != nil {
		return nil, response.InternalServerError(err)
	}

	resp := &users.AuthResponse{
		Token: token,
		User:  profileOf(user),
	}

	if withRefresh {
		refreshTokenBytes := make([]byte, 32)
		if _, err := rand.Read(refreshTokenBytes); err != nil {
			return nil, response.InternalServerError(err)
		}
		refreshToken := hex.EncodeToString(refreshTokenBytes)

		record := users.UserRefreshToken{
			UserExtID: user.ExtID,
			TokenHash: hashRefreshToken(refreshToken),
			ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
			CreatedAt: time.Now(),
		}

		if err := u.repo.CreateRefreshToken(ctx, record); err != nil {
			return nil, response.InternalServerError(err)
		}

		resp.RefreshToken = refreshToken
	}

	return resp, nil
}

func (u Usecase) matchResetToken(ctx context.Context, userExtID, rawToken string) error {
	user, err := u.repo.FindUserByExtID(ctx, userExtID)
	if err != nil {
		return response.InternalServerError(err)
	}
	if user == nil {
		return response.BadRequest("invalid_token", nil)
	}

	token, err := u.repo.FindPasswordResetToken(ctx, user.ID)
	if err != nil {
		return response.InternalServerError(err)
	}
	if token == nil || time.Now().After(token.ExpiresAt) {
		return response.BadRequest("invalid_token", nil)
	}

	if bcrypt.CompareHashAndPassword([]byte(token.TokenHash), []byte(rawToken)) != nil {
		return response.BadRequest("invalid_token", nil)
	}

	return nil
}

func hashRefreshToken(refreshToken string) string {
	hash := sha256.Sum256([]byte(refreshToken))
	return hex.EncodeToString(hash[:])
}

func tokenSubjectOf(user *users.User) jwt.TokenSubject {
	return jwt.TokenSubject{
		ExtID:      user.ExtID,
		Name:       user.Name,
		Email:      user.Email,
		IsVerified: user.IsVerified,
		Role:       user.Role,
	}
}

func profileOf(user *users.User) users.Profile {
	return users.Profile{
		ExtID:      user.ExtID,
		Name:       user.Name,
		Email:      user.Email,
		IsVerified: user.IsVerified,
		Role:       user.Role,
	}
}

func verificationBody(email, code string) string {
	return fmt.Sprintf(
		`<div><p>Hello %s</p><p>This is your verification token</p><h1>%s</h1><p>It expires in one hour.</p></div>`,
		email, code,
	)
}

func passwordResetBody(email, resetURL string) string {
	return fmt.Sprintf(
		`<div><p>Hello %s</p><p>Click the link below to reset your password. The link expires in one hour.</p><p><a href="%s">Change Password</a></p></div>`,
		email, resetURL,
	)
}

func passwordChangedBody(name string) string {
	return fmt.Sprintf(
		`<div><p>Hello %s</p><p>Your password was changed just now. If this was not you, reset it immediately.</p></div>`,
		name,
	)
}
