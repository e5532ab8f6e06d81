package people

import "time"

const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Actor, Director and Writer are the three person collections of the
// catalog. Avatars live in the external asset store.

type Actor struct {
	ID            int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name          string    `json:"name" gorm:"type:varchar(255);not null;index"`
	About         string    `json:"about" gorm:"type:text"`
	Gender        string    `json:"gender" gorm:"type:varchar(10);not null"`
	AvatarURL     string    `json:"avatar_url" gorm:"type:varchar(512)"`
	AvatarAssetID string    `json:"-" gorm:"type:varchar(255)"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Actor) TableName() string {
	return "actors"
}

type Director struct {
	ID            int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name          string    `json:"name" gorm:"type:varchar(255);not null;index"`
	About         string    `json:"about" gorm:"type:text"`
	AvatarURL     string    `json:"avatar_url" gorm:"type:varchar(512)"`
	AvatarAssetID string    `json:"-" gorm:"type:varchar(255)"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Director) TableName() string {
	return "directors"
}

type Writer struct {
	ID            int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name          string    `json:"name" gorm:"type:varchar(255);not null;index"`
	About         string    `json:"about" gorm:"type:text"`
	AvatarURL     string    `json:"avatar_url" gorm:"type:varchar(512)"`
	AvatarAssetID string    `json:"-" gorm:"type:varchar(255)"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Writer) TableName() string {
	return "writers"
}

// Request DTOs

type CreateActorRequest struct {
	Name   string `form:"name" validate:"required,min=1,max=255"`
	About  string `form:"about" validate:"required"`
	Gender string `form:"gender" validate:"required,oneof=male female"`
}

type UpdateActorRequest struct {
	Name   string `form:"name"`
	About  string `form:"about"`
	Gender string `form:"gender" validate:"omitempty,oneof=male female"`
}

type CreatePersonRequest struct {
	Name  string `form:"name" validate:"required,min=1,max=255"`
	About string `form:"about"`
}

type UpdatePersonRequest struct {
	Name  string `form:"name"`
	About string `form:"about"`
}

// Response DTOs

type ActorResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	About  string `json:"about"`
	Gender string `json:"gender"`
	Avatar string `json:"avatar,omitempty"`
}

type PersonResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	About  string `json:"about,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

type ActorListWithCount struct {
	Results []ActorResponse `json:"results"`
	Count   int64           `json:"count"`
}

type PersonListWithCount struct {
	Results []PersonResponse `json:"results"`
	Count   int64            `json:"count"`
}
