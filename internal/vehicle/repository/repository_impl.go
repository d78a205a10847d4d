package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lotkeeper/lotkeeper/internal/vehicle/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, v *domain.Vehicle) error {
	return db.WithContext(ctx).Create(v).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, v *domain.Vehicle) error {
	if v == nil || v.ID == 0 {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Save(v).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Exec(`DELETE FROM vehicles WHERE id = ?`, id).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Vehicle, error) {
	return r.findOne(ctx, db, `id = ?`, id)
}

func (r *repo) FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Vehicle, error) {
	return r.findOne(ctx, db, `slug = ?`, slug)
}

func (r *repo) FindByVIN(ctx context.Context, db *gorm.DB, vin string) (*domain.Vehicle, error) {
	vin = strings.ToUpper(strings.TrimSpace(vin))
	if vin == "" {
		return nil, nil
	}
	return r.findOne(ctx, db, `vin = ?`, vin)
}

func (r *repo) findOne(ctx context.Context, db *gorm.DB, where string, arg any) (*domain.Vehicle, error) {
	var v domain.Vehicle
	err := db.WithContext(ctx).Where(where, arg).First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *repo) SlugExists(ctx context.Context, db *gorm.DB, slug string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM vehicles WHERE slug = ?`, slug,
	).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.Vehicle, error) {
	var items []domain.Vehicle
	err := db.WithContext(ctx).
		Order("banner_new DESC").
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Search(ctx context.Context, db *gorm.DB, filter domain.SearchFilter) ([]domain.Vehicle, error) {
	stmt := db.WithContext(ctx).Model(&domain.Vehicle{})

	if filter.Make != "" {
		stmt = stmt.Where("LOWER(make) = ?", strings.ToLower(filter.Make))
	}
	if filter.Model != "" {
		stmt = stmt.Where("LOWER(model) = ?", strings.ToLower(filter.Model))
	}
	if filter.YearMin > 0 {
		stmt = stmt.Where("year >= ?", filter.YearMin)
	}
	if filter.YearMax > 0 {
		stmt = stmt.Where("year <= ?", filter.YearMax)
	}
	if filter.MaxPrice > 0 {
		stmt = stmt.Where("price <= ?", filter.MaxPrice)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}

	var items []domain.Vehicle
	err := stmt.
		Order("banner_new DESC").
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) DeleteAll(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Exec(`DELETE FROM vehicles`).Error
}

func (r *repo) ExpireNewBanners(ctx context.Context, db *gorm.DB, cutoff, now time.Time) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE vehicles
		 SET banner_new = ?, updated_at = ?
		 WHERE banner_new = ? AND created_at < ?`,
		false,
		now,
		true,
		cutoff,
	)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
