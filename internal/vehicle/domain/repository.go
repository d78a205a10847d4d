package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, v *Vehicle) error
	Update(ctx context.Context, db *gorm.DB, v *Vehicle) error
	Delete(ctx context.Context, db *gorm.DB, id int64) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Vehicle, error)
	FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*Vehicle, error)
	FindByVIN(ctx context.Context, db *gorm.DB, vin string) (*Vehicle, error)
	SlugExists(ctx context.Context, db *gorm.DB, slug string) (bool, error)
	List(ctx context.Context, db *gorm.DB) ([]Vehicle, error)
	Search(ctx context.Context, db *gorm.DB, filter SearchFilter) ([]Vehicle, error)
	DeleteAll(ctx context.Context, db *gorm.DB) error
	ExpireNewBanners(ctx context.Context, db *gorm.DB, cutoff, now time.Time) (int64, error)
}

// SearchFilter is the resolved form of SearchRequest with year tokens already
// mapped to inclusive bounds. Zero values mean "no constraint".
type SearchFilter struct {
	Make     string
	Model    string
	YearMin  int
	YearMax  int
	MaxPrice int64
	Status   string
}
