package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/martinmanurung/cinevault/internal/domain/movies"
	"github.com/martinmanurung/cinevault/internal/domain/people"
	"gorm.io/gorm"
)

type PeopleRepository struct {
	db *gorm.DB
}

func NewPeopleRepository(db *gorm.DB) *PeopleRepository {
	return &PeopleRepository{db: db}
}

// Actors

func (r *PeopleRepository) CreateActor(ctx context.Context, actor *people.Actor) error {
	return r.db.WithContext(ctx).Create(actor).Error
}

func (r *PeopleRepository) FindActorByID(ctx context.Context, actorID int64) (*people.Actor, error) {
	var actor people.Actor
	err := r.db.WithContext(ctx).Where("id = ?", actorID).First(&actor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &actor, nil
}

func (r *PeopleRepository) UpdateActor(ctx context.Context, actorID int64, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&people.Actor{}).Where("id = ?", actorID).Updates(updates).Error
}

// DeleteActor removes the actor and every cast entry referencing them,
// in one transaction. Movies themselves are untouched.
func (r *PeopleRepository) DeleteActor(ctx context.Context, actorID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("actor_id = ?", actorID).Delete(&movies.CastMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&people.Actor{}, actorID).Error
	})
}

func (r *PeopleRepository) SearchActorsByName(ctx context.Context, name string) ([]people.Actor, error) {
	var actors []people.Actor
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%").
		Order("created_at DESC").
		Find(&actors).Error
	return actors, err
}

func (r *PeopleRepository) FindLatestActors(ctx context.Context, limit int) ([]people.Actor, error) {
	var actors []people.Actor
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&actors).Error
	return actors, err
}

func (r *PeopleRepository) FindActors(ctx context.Context, page, limit int) ([]people.Actor, int64, error) {
	var actors []people.Actor
	var count int64

	if err := r.db.WithContext(ctx).Model(&people.Actor{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(page * limit).
		Limit(limit).
		Find(&actors).Error
	return actors, count, err
}

// Directors

func (r *PeopleRepository) CreateDirector(ctx context.Context, director *people.Director) error {
	return r.db.WithContext(ctx).Create(director).Error
}

func (r *PeopleRepository) FindDirectorByID(ctx context.Context, directorID int64) (*people.Director, error) {
	var director people.Director
	err := r.db.WithContext(ctx).Where("id = ?", directorID).First(&director).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &director, nil
}

func (r *PeopleRepository) UpdateDirector(ctx context.Context, directorID int64, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&people.Director{}).Where("id = ?", directorID).Updates(updates).Error
}

// DeleteDirector clears the director reference on every movie that
// points at them, then removes the director.
func (r *PeopleRepository) DeleteDirector(ctx context.Context, directorID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&movies.Movie{}).
			Where("director_id = ?", directorID).
			Update("director_id", nil).Error
		if err != nil {
			return err
		}
		return tx.Delete(&people.Director{}, directorID).Error
	})
}

func (r *PeopleRepository) SearchDirectorsByName(ctx context.Context, name string) ([]people.Director, error) {
	var directors []people.Director
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%").
		Order("created_at DESC").
		Find(&directors).Error
	return directors, err
}

func (r *PeopleRepository) FindDirectors(ctx context.Context, page, limit int) ([]people.Director, int64, error) {
	var directors []people.Director
	var count int64

	if err := r.db.WithContext(ctx).Model(&people.Director{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(page * limit).
		Limit(limit).
		Find(&directors).Error
	return directors, count, err
}

// Writers

func (r *PeopleRepository) CreateWriter(ctx context.Context, writer *people.Writer) error {
	return r.db.WithContext(ctx).Create(writer).Error
}

func (r *PeopleRepository) FindWriterByID(ctx context.Context, writerID int64) (*people.Writer, error) {
	var writer people.Writer
	err := r.db.WithContext(ctx).Where("id = ?", writerID).First(&writer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &writer, nil
}

func (r *PeopleRepository) UpdateWriter(ctx context.Context, writerID int64, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&people.Writer{}).Where("id = ?", writerID).Updates(updates).Error
}

// DeleteWriter removes the writer and their links on every movie's
// writer list, in one transaction.
func (r *PeopleRepository) DeleteWriter(ctx context.Context, writerID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("writer_id = ?", writerID).Delete(&movies.MovieWriter{}).Error; err != nil {
			return err
		}
		return tx.Delete(&people.Writer{}, writerID).Error
	})
}

func (r *PeopleRepository) SearchWritersByName(ctx context.Context, name string) ([]people.Writer, error) {
	var writers []people.Writer
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%").
		Order("created_at DESC").
		Find(&writers).Error
	return writers, err
}

func (r *PeopleRepository) FindWriters(ctx context.Context, page, limit int) ([]people.Writer, int64, error) {
	var writers []people.Writer
	var count int64

	if err := r.db.WithContext(ctx).Model(&people.Writer{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(page * limit).
		Limit(limit).
		Find(&writers).Error
	return writers, count, err
}
