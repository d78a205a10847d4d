package repository

import (
	"context"
	"errors"

	"github.com/lotkeeper/lotkeeper/internal/application/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, app *domain.Application) error {
	return db.WithContext(ctx).Create(app).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, app *domain.Application) error {
	if app == nil || app.ID == 0 {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Save(app).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Application, error) {
	var item domain.Application
	err := db.WithContext(ctx).Where(`id = ?`, id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.Application, error) {
	var items []domain.Application
	err := db.WithContext(ctx).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
