package reviews

import "time"

// Review is owned by its creator and always belongs to one movie. The
// composite unique index enforces one review per (owner, movie) even
// under racing create requests.
type Review struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	OwnerID   int64     `json:"owner_id" gorm:"not null;uniqueIndex:idx_reviews_owner_movie,priority:1"`
	MovieID   int64     `json:"movie_id" gorm:"not null;index;uniqueIndex:idx_reviews_owner_movie,priority:2"`
	Rating    float64   `json:"rating" gorm:"not null"`
	Content   string    `json:"content" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Review) TableName() string {
	return "reviews"
}

// Request DTOs

type AddReviewRequest struct {
	MovieID int64   `json:"movie_id" validate:"required"`
	Rating  float64 `json:"rating" validate:"required,gte=1,lte=10"`
	Content string  `json:"content"`
}

type UpdateReviewRequest struct {
	Rating  float64 `json:"rating" validate:"required,gte=1,lte=10"`
	Content string  `json:"content"`
}

// Response DTOs

type OwnerSummary struct {
	ExtID string `json:"ext_id"`
	Name  string `json:"name"`
}

type ReviewResponse struct {
	ID      int64        `json:"id"`
	Owner   OwnerSummary `json:"owner"`
	MovieID int64        `json:"movie_id"`
	Rating  float64      `json:"rating"`
	Content string       `json:"content"`
}
