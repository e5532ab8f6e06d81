package repository

import (
	"context"
	"errors"

	"github.com/martinmanurung/cinevault/internal/domain/reviews"
	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// CreateReview inserts the review. The unique (owner, movie) index makes
// a second review from the same owner surface as gorm.ErrDuplicatedKey.
func (r *ReviewRepository) CreateReview(ctx context.Context, review *reviews.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *ReviewRepository) FindReviewByID(ctx context.Context, reviewID int64) (*reviews.Review, error) {
	var review reviews.Review
	err := r.db.WithContext(ctx).Where("id = ?", reviewID).First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepository) FindReviewByOwnerAndMovie(ctx context.Context, ownerID, movieID int64) (*reviews.Review, error) {
	var review reviews.Review
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND movie_id = ?", ownerID, movieID).
		First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepository) UpdateReview(ctx context.Context, reviewID int64, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&reviews.Review{}).Where("id = ?", reviewID).Updates(updates).Error
}

func (r *ReviewRepository) DeleteReview(ctx context.Context, reviewID int64) error {
	return r.db.WithContext(ctx).Delete(&reviews.Review{}, reviewID).Error
}

type reviewRow struct {
	ID      int64
	ExtID   string
	Name    string
	MovieID int64
	Rating  float64
	Content string
}

// FindReviewsByMovie returns the movie's reviews with the reviewer's
// public identity joined in.
func (r *ReviewRepository) FindReviewsByMovie(ctx context.Context, movieID int64) ([]reviews.ReviewResponse, error) {
	var rows []reviewRow
	err := r.db.WithContext(ctx).
		Table("reviews").
		Select("reviews.id, users.ext_id, users.name, reviews.movie_id, reviews.rating, reviews.content").
		Joins("JOIN users ON users.id = reviews.owner_id").
		Where("reviews.movie_id = ?", movieID).
		Order("reviews.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]reviews.ReviewResponse, 0, len(rows))
	for _, row := range rows {
		result = append(result, reviews.ReviewResponse{
			ID: row.ID,
			Owner: reviews.OwnerSummary{
				ExtID: row.ExtID,
				Name:  row.Name,
			},
			MovieID: row.MovieID,
			Rating:  row.Rating,
			Content: row.Content,
		})
	}
	return result, nil
}
