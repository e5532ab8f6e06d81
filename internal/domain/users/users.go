package users

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// TokenTTL is how long a one-time token (email verification OTP or
// password reset token) stays valid.
const TokenTTL = time.Hour

type User struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	ExtID      string    `json:"ext_id" gorm:"type:varchar(40);uniqueIndex;not null"`
	Name       string    `json:"name" gorm:"type:varchar(100);not null"`
	Email      string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Password   string    `json:"-" gorm:"type:varchar(100);not null"`
	IsVerified bool      `json:"is_verified" gorm:"not null;default:false"`
	Role       string    `json:"role" gorm:"type:varchar(20);not null;default:'user'"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

type UserRefreshToken struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserExtID string    `json:"user_ext_id" gorm:"column:user_ext_id;not null;index"`
	TokenHash string    `json:"token_hash" gorm:"uniqueIndex;type:varchar(64)"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (UserRefreshToken) TableName() string {
	return "user_refresh_tokens"
}

// EmailVerificationToken holds the bcrypt hash of a signup OTP. At most
// one live token per owner; a second request before expiry is rejected.
type EmailVerificationToken struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	OwnerID   int64     `json:"owner_id" gorm:"uniqueIndex;not null"`
	TokenHash string    `json:"-" gorm:"type:varchar(100);not null"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (EmailVerificationToken) TableName() string {
	return "email_verification_tokens"
}

// PasswordResetToken mirrors EmailVerificationToken for the reset flow.
type PasswordResetToken struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	OwnerID   int64     `json:"owner_id" gorm:"uniqueIndex;not null"`
	TokenHash string    `json:"-" gorm:"type:varchar(100);not null"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}

// Request DTOs

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type VerifyEmailRequest struct {
	UserExtID string `json:"user_id" validate:"required"`
	OTP       string `json:"otp" validate:"required,len=6,numeric"`
}

type ResendVerifyEmailRequest struct {
	UserExtID string `json:"user_id" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type TokenCheckRequest struct {
	UserExtID string `json:"user_id" validate:"required"`
	Token     string `json:"token" validate:"required"`
}

type ResetPasswordRequest struct {
	UserExtID string `json:"user_id" validate:"required"`
	Token     string `json:"token" validate:"required"`
	Password  string `json:"password" validate:"required,min=8"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Response DTOs

type Profile struct {
	ExtID      string `json:"ext_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	IsVerified bool   `json:"is_verified"`
	Role       string `json:"role"`
}

type AuthResponse struct {
	Token        string  `json:"token"`
	RefreshToken string  `json:"refresh_token,omitempty"`
	User         Profile `json:"user"`
}

type RefreshTokenResponse struct {
	AccessToken string `json:"access_token"`
}

type TokenCheckResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}
