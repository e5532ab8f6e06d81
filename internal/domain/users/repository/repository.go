package repository

import (
	"context"
	"errors"
	"time"

	"github.com/martinmanurung/cinevault/internal/domain/users"
	"gorm.io/gorm"
)

type User struct {
	db *gorm.DB
}

func NewUser(db *gorm.DB) *User {
	return &User{db: db}
}

func (u User) CreateNewUser(ctx context.Context, user *users.User) error {
	return u.db.WithContext(ctx).Create(user).Error
}

func (u User) FindUserByEmail(ctx context.Context, email string) (*users.User, error) {
	var user users.User
	err := u.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (u User) FindUserByExtID(ctx context.Context, extID string) (*users.User, error) {
	var user users.User
	err := u.db.WithContext(ctx).Where("ext_id = ?", extID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (u User) FindUserByID(ctx context.Context, userID int64) (*users.User, error) {
	var user users.User
	err := u.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (u User) UpdateUser(ctx context.Context, userID int64, updates map[string]interface{}) error {
	return u.db.WithContext(ctx).Model(&users.User{}).Where("id = ?", userID).Updates(updates).Error
}

func (u User) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := u.db.WithContext(ctx).Model(&users.User{}).Count(&count).Error
	return count, err
}

// Refresh tokens

func (u User) CreateRefreshToken(ctx context.Context, token users.UserRefreshToken) error {
	return u.db.WithContext(ctx).Create(&token).Error
}

func (u User) FindRefreshToken(ctx context.Context, tokenHash string) (*users.UserRefreshToken, error) {
	var token users.UserRefreshToken
	err := u.db.WithContext(ctx).
		Where("token_hash = ? AND expires_at > ?", tokenHash, time.Now()).
		First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

func (u User) DeleteRefreshToken(ctx context.Context, tokenHash string) error {
	return u.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		Delete(&users.UserRefreshToken{}).Error
}

// One-time tokens. Expired rows are not pruned eagerly; lookups filter
// on expires_at and the resend flows clear them.

func (u User) CreateEmailVerificationToken(ctx context.Context, token *users.EmailVerificationToken) error {
	return u.db.WithContext(ctx).Create(token).Error
}

func (u User) FindEmailVerificationToken(ctx context.Context, ownerID int64) (*users.EmailVerificationToken, error) {
	var token users.EmailVerificationToken
	err := u.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

func (u User) DeleteEmailVerificationToken(ctx context.Context, ownerID int64) error {
	return u.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Delete(&users.EmailVerificationToken{}).Error
}

func (u User) CreatePasswordResetToken(ctx context.Context, token *users.PasswordResetToken) error {
	return u.db.WithContext(ctx).Create(token).Error
}

func (u User) FindPasswordResetToken(ctx context.Context, ownerID int64) (*users.PasswordResetToken, error) {
	var token users.PasswordResetToken
	err := u.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

func (u User) DeletePasswordResetToken(ctx context.Context, ownerID int64) error {
	return u.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Delete(&users.PasswordResetToken{}).Error
}
