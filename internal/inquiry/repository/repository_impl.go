package repository

import (
	"context"
	"errors"

	"github.com/lotkeeper/lotkeeper/internal/inquiry/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, inquiry *domain.Inquiry) error {
	return db.WithContext(ctx).Create(inquiry).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, inquiry *domain.Inquiry) error {
	if inquiry == nil || inquiry.ID == 0 {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Save(inquiry).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Inquiry, error) {
	var item domain.Inquiry
	err := db.WithContext(ctx).Where(`id = ?`, id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.Inquiry, error) {
	var items []domain.Inquiry
	err := db.WithContext(ctx).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
