package ratings

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
)

// Aggregate is the derived {average, count} pair for one movie's
// reviews. It is computed on read and never stored. A movie with zero
// reviews has no aggregate at all (nil), which is distinct from an
// average of 0.0.
type Aggregate struct {
	RatingAverage string `json:"ratingAverage"`
	ReviewCount   int64  `json:"reviewCount"`
}

// RankedMovie is the projection used by the related and top-rated
// listings: id, title, poster urls and the rating aggregate.
type RankedMovie struct {
	ID                int64      `json:"id"`
	Title             string     `json:"title"`
	Poster            string     `json:"poster,omitempty"`
	ResponsivePosters []string   `json:"responsive_posters,omitempty"`
	Reviews           *Aggregate `json:"reviews"`
}

const rankingLimit = 5

type Aggregator struct {
	db *gorm.DB
}

func NewAggregator(db *gorm.DB) *Aggregator {
	return &Aggregator{db: db}
}

// AverageRating groups the movie's reviews into {average, count}.
func (a *Aggregator) AverageRating(ctx context.Context, movieID int64) (*Aggregate, error) {
	var row struct {
		RatingAverage float64
		ReviewCount   int64
	}

	err := a.db.WithContext(ctx).
		Table("reviews").
		Select("COALESCE(AVG(rating), 0) AS rating_average, COUNT(*) AS review_count").
		Where("movie_id = ?", movieID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	if row.ReviewCount == 0 {
		return nil, nil
	}

	return &Aggregate{
		RatingAverage: fmt.Sprintf("%.1f", row.RatingAverage),
		ReviewCount:   row.ReviewCount,
	}, nil
}

// RelatedByTags finds up to 5 movies sharing at least one tag with the
// given movie, excluding the movie itself. Ordering beyond the store
// default is not guaranteed.
func (a *Aggregator) RelatedByTags(ctx context.Context, movieID int64) ([]RankedMovie, error) {
	var tags []string
	err := a.db.WithContext(ctx).
		Table("movie_tags").
		Where("movie_id = ?", movieID).
		Pluck("tag", &tags).Error
	if err != nil {
		return nil, err
	}

	if len(tags) == 0 {
		return []RankedMovie{}, nil
	}

	var rows []movieRow
	err = a.db.WithContext(ctx).
		Table("movies").
		Select("DISTINCT movies.id, movies.title, movies.poster_url, movies.poster_responsive").
		Joins("JOIN movie_tags ON movie_tags.movie_id = movies.id").
		Where("movie_tags.tag IN ?", tags).
		Where("movies.id <> ?", movieID).
		Limit(rankingLimit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return a.augment(ctx, rows)
}

// TopRated lists public movies that have at least one review, sorted by
// review count descending, capped at 5, optionally filtered by type.
func (a *Aggregator) TopRated(ctx context.Context, movieType string) ([]RankedMovie, error) {
	query := a.db.WithContext(ctx).
		Table("movies").
		Select("movies.id, movies.title, movies.poster_url, movies.poster_responsive, COUNT(reviews.id) AS review_count").
		Joins("JOIN reviews ON reviews.movie_id = movies.id").
		Where("movies.status = ?", "public")

	if movieType != "" {
		query = query.Where("movies.type = ?", movieType)
	}

	var rows []movieRow
	err := query.
		Group("movies.id, movies.title, movies.poster_url, movies.poster_responsive").
		Order("review_count DESC").
		Limit(rankingLimit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return a.augment(ctx, rows)
}

type movieRow struct {
	ID               int64
	Title            string
	PosterURL        string
	PosterResponsive string
}

// augment attaches each movie's rating aggregate to the projection.
func (a *Aggregator) augment(ctx context.Context, rows []movieRow) ([]RankedMovie, error) {
	results := make([]RankedMovie, 0, len(rows))
	for _, row := range rows {
		aggregate, err := a.AverageRating(ctx, row.ID)
		if err != nil {
			return nil, err
		}

		var responsive []string
		if row.PosterResponsive != "" {
			// poster_responsive is a JSON array column
			if err := json.Unmarshal([]byte(row.PosterResponsive), &responsive); err != nil {
				responsive = nil
			}
		}

		results = append(results, RankedMovie{
			ID:                row.ID,
			Title:             row.Title,
			Poster:            row.PosterURL,
			ResponsivePosters: responsive,
			Reviews:           aggregate,
		})
	}
	return results, nil
}
