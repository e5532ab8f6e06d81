package usecase

import (
	"context"
	"errors"

	"github.com/martinmanurung/cinevault/internal/access"
	"github.com/martinmanurung/cinevault/internal/domain/movies"
	"github.com/martinmanurung/cinevault/internal/domain/reviews"
	"github.com/martinmanurung/cinevault/internal/domain/users"
	"github.com/martinmanurung/cinevault/pkg/response"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	CreateReview(ctx context.Context, review *reviews.Review) error
	FindReviewByID(ctx context.Context, reviewID int64) (*reviews.Review, error)
	FindReviewByOwnerAndMovie(ctx context.Context, ownerID, movieID int64) (*reviews.Review, error)
	UpdateReview(ctx context.Context, reviewID int64, updates map[string]interface{}) error
	DeleteReview(ctx context.Context, reviewID int64) error
	FindReviewsByMovie(ctx context.Context, movieID int64) ([]reviews.ReviewResponse, error)
}

type UserFinder interface {
	FindUserByExtID(ctx context.Context, extID string) (*users.User, error)
}

type MovieFinder interface {
	FindMovieByID(ctx context.Context, movieID int64) (*movies.Movie, error)
}

type Usecase struct {
	repo       ReviewRepository
	userFinder UserFinder
	movies     MovieFinder
}

func NewUsecase(repo ReviewRepository, userFinder UserFinder, movieFinder MovieFinder) *Usecase {
	return &Usecase{
		repo:       repo,
		userFinder: userFinder,
		movies:     movieFinder,
	}
}

func (u *Usecase) callerOf(ctx context.Context, callerExtID string) (*users.User, error) {
	user, err := u.userFinder.FindUserByExtID(ctx, callerExtID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if user == nil {
		return nil, response.Unauthorized("unknown user")
	}
	return user, nil
}

// AddReview creates the caller's review for a public movie. One review
// per (owner, movie): the pre-check catches the common case and the
// unique index closes the race.
func (u *Usecase) AddReview(ctx context.Context, callerExtID string, payload reviews.AddReviewRequest) (*reviews.ReviewResponse, error) {
	caller, err := u.callerOf(ctx, callerExtID)
	if err != nil {
		return nil, err
	}

	movie, err := u.movies.FindMovieByID(ctx, payload.MovieID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if movie == nil || movie.Status != movies.StatusPublic {
		return nil, response.NotFound("movie not found")
	}

	existing, err := u.repo.FindReviewByOwnerAndMovie(ctx, caller.ID, payload.MovieID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if existing != nil {
		return nil, response.Conflict("you have already reviewed this movie")
	}

	review := reviews.Review{
		OwnerID: caller.ID,
		MovieID: payload.MovieID,
		Rating:  payload.Rating,
		Content: payload.Content,
	}
	if err := u.repo.CreateReview(ctx, &review); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, response.Conflict("you have already reviewed this movie")
		}
		return nil, response.InternalServerError(err)
	}

	return &reviews.ReviewResponse{
		ID: review.ID,
		Owner: reviews.OwnerSummary{
			ExtID: caller.ExtID,
			Name:  caller.Name,
		},
		MovieID: review.MovieID,
		Rating:  review.Rating,
		Content: review.Content,
	}, nil
}

func (u *Usecase) UpdateReview(ctx context.Context, callerExtID string, reviewID int64, payload reviews.UpdateReviewRequest) (*reviews.ReviewResponse, error) {
	caller, err := u.callerOf(ctx, callerExtID)
	if err != nil {
		return nil, err
	}

	review, err := u.repo.FindReviewByID(ctx, reviewID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if review == nil {
		return nil, response.NotFound("review not found")
	}

	actor := access.Caller{UserID: caller.ID, Role: caller.Role}
	if !access.Can(actor, access.ActionUpdate, access.Resource{OwnerID: review.OwnerID}) {
		return nil, response.Unauthorized("only the review owner can edit it")
	}

	updates := map[string]interface{}{
		"rating":  payload.Rating,
		"content": payload.Content,
	}
	if err := u.repo.UpdateReview(ctx, reviewID, updates); err != nil {
		return nil, response.InternalServerError(err)
	}

	return &reviews.ReviewResponse{
		ID: review.ID,
		Owner: reviews.OwnerSummary{
			ExtID: caller.ExtID,
			Name:  caller.Name,
		},
		MovieID: review.MovieID,
		Rating:  payload.Rating,
		Content: payload.Content,
	}, nil
}

func (u *Usecase) DeleteReview(ctx context.Context, callerExtID string, reviewID int64) error {
	caller, err := u.callerOf(ctx, callerExtID)
	if err != nil {
		return err
	}

	review, err := u.repo.FindReviewByID(ctx, reviewID)
	if err != nil {
		return response.InternalServerError(err)
	}
	if review == nil {
		return response.NotFound("review not found")
	}

	actor := access.Caller{UserID: caller.ID, Role: caller.Role}
	if !access.Can(actor, access.ActionDelete, access.Resource{OwnerID: review.OwnerID}) {
		return response.Unauthorized("only the review owner or an admin can delete it")
	}

	if err := u.repo.DeleteReview(ctx, reviewID); err != nil {
		return response.InternalServerError(err)
	}
	return nil
}

func (u *Usecase) GetMovieReviews(ctx context.Context, movieID int64) ([]reviews.ReviewResponse, error) {
	movie, err := u.movies.FindMovieByID(ctx, movieID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if movie == nil {
		return nil, response.NotFound("movie not found")
	}

	result, err := u.repo.FindReviewsByMovie(ctx, movieID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	return result, nil
}
