package movies

import (
	"time"

	"github.com/martinmanurung/cinevault/internal/domain/ratings"
)

const (
	StatusPublic  = "public"
	StatusPrivate = "private"
)

// Genres is the fixed vocabulary a movie's genres are validated against.
var Genres = []string{
	"Action", "Adventure", "Animation", "Comedy", "Crime", "Documentary",
	"Drama", "Family", "Fantasy", "History", "Horror", "Music", "Mystery",
	"Romance", "Science Fiction", "TV Movie", "Thriller", "War", "Western",
}

func IsValidGenre(genre string) bool {
	for _, g := range Genres {
		if g == genre {
			return true
		}
	}
	return false
}

// Movie represents a catalog entry. Poster and trailer live in the
// external asset store; only url + asset id (and derived poster sizes)
// are recorded here.
type Movie struct {
	ID               int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title            string    `json:"title" gorm:"type:varchar(255);uniqueIndex;not null"`
	StoryLine        string    `json:"story_line" gorm:"type:text"`
	DirectorID       *int64    `json:"director_id" gorm:"index"`
	ReleaseDate      time.Time `json:"release_date" gorm:"type:date"`
	Status           string    `json:"status" gorm:"type:varchar(10);not null;default:'private'"`
	Type             string    `json:"type" gorm:"type:varchar(50);not null"`
	Language         string    `json:"language" gorm:"type:varchar(50);not null"`
	Genres           []string  `json:"genres" gorm:"serializer:json;type:text"`
	PosterURL        string    `json:"poster_url" gorm:"type:varchar(512)"`
	PosterAssetID    string    `json:"poster_asset_id" gorm:"type:varchar(255)"`
	PosterResponsive []string  `json:"poster_responsive" gorm:"serializer:json;type:text"`
	TrailerURL       string    `json:"trailer_url" gorm:"type:varchar(512)"`
	TrailerAssetID   string    `json:"trailer_asset_id" gorm:"type:varchar(255)"`
	CreatedAt        time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Movie) TableName() string {
	return "movies"
}

// MovieTag is one row per (movie, tag). Kept relational so that
// related-by-tag lookups stay a plain join.
type MovieTag struct {
	MovieID int64  `json:"movie_id" gorm:"primaryKey;autoIncrement:false"`
	Tag     string `json:"tag" gorm:"primaryKey;type:varchar(100)"`
}

func (MovieTag) TableName() string {
	return "movie_tags"
}

// CastMember is an (actor, role, lead flag) tuple owned by a movie.
// Position preserves the order cast was submitted in.
type CastMember struct {
	ID        int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	MovieID   int64  `json:"movie_id" gorm:"index;not null"`
	ActorID   int64  `json:"actor_id" gorm:"index;not null"`
	RoleAs    string `json:"role_as" gorm:"type:varchar(255)"`
	LeadActor bool   `json:"lead_actor"`
	Position  int    `json:"position"`
}

func (CastMember) TableName() string {
	return "movie_cast"
}

// MovieWriter links a movie to a writer, ordered by Position.
type MovieWriter struct {
	MovieID  int64 `json:"movie_id" gorm:"primaryKey;autoIncrement:false"`
	WriterID int64 `json:"writer_id" gorm:"primaryKey;autoIncrement:false"`
	Position int   `json:"position"`
}

func (MovieWriter) TableName() string {
	return "movie_writers"
}

// Request DTOs

type CastEntry struct {
	ActorID   int64  `json:"actor" validate:"required"`
	RoleAs    string `json:"roleAs" validate:"required"`
	LeadActor bool   `json:"leadActor"`
}

type TrailerPayload struct {
	URL     string `json:"url" validate:"required,url"`
	AssetID string `json:"asset_id" validate:"required"`
}

// CreateMovieRequest arrives as a multipart form; cast, writers, genres
// tags and trailer are JSON-encoded fields next to the poster file.
type CreateMovieRequest struct {
	Title       string          `form:"title" validate:"required,min=1,max=255"`
	StoryLine   string          `form:"story_line" validate:"required"`
	DirectorID  *int64          `json:"-" form:"-"`
	ReleaseDate string          `form:"release_date" validate:"required"` // Format: YYYY-MM-DD
	Status      string          `form:"status" validate:"required,oneof=public private"`
	Type        string          `form:"type" validate:"required"`
	Language    string          `form:"language" validate:"required"`
	Genres      []string        `json:"-" form:"-" validate:"required,min=1"`
	Tags        []string        `json:"-" form:"-" validate:"required,min=1"`
	Cast        []CastEntry     `json:"-" form:"-" validate:"required,min=1,dive"`
	Writers     []int64         `json:"-" form:"-"`
	Trailer     *TrailerPayload `json:"-" form:"-" validate:"required"`
}

// UpdateMovieRequest carries the same fields; absent/falsy ones fall
// back to the stored values instead of clearing them.
type UpdateMovieRequest struct {
	Title       string          `form:"title"`
	StoryLine   string          `form:"story_line"`
	DirectorID  *int64          `json:"-" form:"-"`
	ReleaseDate string          `form:"release_date"`
	Status      string          `form:"status" validate:"omitempty,oneof=public private"`
	Type        string          `form:"type"`
	Language    string          `form:"language"`
	Genres      []string        `json:"-" form:"-"`
	Tags        []string        `json:"-" form:"-"`
	Cast        []CastEntry     `json:"-" form:"-" validate:"omitempty,dive"`
	Writers     []int64         `json:"-" form:"-"`
	Trailer     *TrailerPayload `json:"-" form:"-"`
}

// Response DTOs

type PersonSummary struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

type CastEntryResponse struct {
	ID        int64         `json:"id"`
	Profile   PersonSummary `json:"profile"`
	RoleAs    string        `json:"role_as"`
	LeadActor bool          `json:"lead_actor"`
}

type PosterResponse struct {
	URL        string   `json:"url,omitempty"`
	Responsive []string `json:"responsive,omitempty"`
}

type MovieDetailResponse struct {
	ID          int64               `json:"id"`
	Title       string              `json:"title"`
	StoryLine   string              `json:"story_line"`
	Cast        []CastEntryResponse `json:"cast"`
	Writers     []PersonSummary     `json:"writers"`
	Director    *PersonSummary      `json:"director,omitempty"`
	ReleaseDate string              `json:"release_date"`
	Status      string              `json:"status"`
	Genres      []string            `json:"genres"`
	Tags        []string            `json:"tags"`
	Language    string              `json:"language"`
	Poster      PosterResponse      `json:"poster"`
	TrailerURL  string              `json:"trailer_url"`
	Type        string              `json:"type"`
	Reviews     *ratings.Aggregate  `json:"reviews"`
}

type MovieListItem struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	StoryLine   string         `json:"story_line,omitempty"`
	Status      string         `json:"status,omitempty"`
	Poster      PosterResponse `json:"poster"`
	TrailerURL  string         `json:"trailer_url,omitempty"`
	ReleaseDate string         `json:"release_date,omitempty"`
}

type MovieListWithCount struct {
	Results []MovieListItem `json:"results"`
	Count   int64           `json:"count"`
}

type CreateMovieResponse struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type UploadTrailerResponse struct {
	URL     string `json:"url"`
	AssetID string `json:"asset_id"`
}

type AppInfoResponse struct {
	Movies  int64 `json:"movies"`
	Reviews int64 `json:"reviews"`
	Users   int64 `json:"users"`
}
