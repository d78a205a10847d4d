package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Vehicle, error)
	GetBySlug(ctx context.Context, slug string) (*Vehicle, error)
	GetByID(ctx context.Context, id string) (*Vehicle, error)
	List(ctx context.Context) ([]Vehicle, error)
	Search(ctx context.Context, req SearchRequest) ([]Vehicle, error)
	Update(ctx context.Context, req UpdateRequest) (*Vehicle, error)
	Delete(ctx context.Context, id string) error
	SetImages(ctx context.Context, id string, images []string) (*Vehicle, error)
	AddImage(ctx context.Context, id string, url string) (*Vehicle, error)

	// Upsert creates or fully replaces a vehicle keyed by VIN. The stored slug
	// and creation timestamp survive updates. The boolean reports creation.
	Upsert(ctx context.Context, rec UpsertRecord) (*Vehicle, bool, error)

	// ReplaceAll truncates the inventory and inserts every record in one
	// transaction. Only the explicit bulk-import path may call it.
	ReplaceAll(ctx context.Context, recs []UpsertRecord) (int, error)

	ApplyHistory(ctx context.Context, id string, summary HistorySummary) (*Vehicle, error)
	ExpireNewBanners(ctx context.Context, cutoff time.Time) (int64, error)
}

type CreateRequest struct {
	VIN           string   `json:"vin"`
	StockNumber   string   `json:"stock_number"`
	Slug          string   `json:"slug"`
	Year          int      `json:"year"`
	Make          string   `json:"make"`
	Model         string   `json:"model"`
	Mileage       int      `json:"mileage"`
	Price         int64    `json:"price"`
	ExteriorColor string   `json:"exterior_color"`
	InteriorColor string   `json:"interior_color"`
	Description   string   `json:"description"`
	Notes         string   `json:"notes"`
	Status        string   `json:"status"`
	Images        []string `json:"images"`
	BannerNew     *bool    `json:"banner_new"`
}

type UpdateRequest struct {
	ID              string
	StockNumber     *string `json:"stock_number"`
	Year            *int    `json:"year"`
	Make            *string `json:"make"`
	Model           *string `json:"model"`
	Mileage         *int    `json:"mileage"`
	Price           *int64  `json:"price"`
	ExteriorColor   *string `json:"exterior_color"`
	InteriorColor   *string `json:"interior_color"`
	Description     *string `json:"description"`
	Notes           *string `json:"notes"`
	Status          *string `json:"status"`
	BannerNew       *bool   `json:"banner_new"`
	BannerReduced   *bool   `json:"banner_reduced"`
	BannerGreatDeal *bool   `json:"banner_great_deal"`
	BannerSold      *bool   `json:"banner_sold"`
}

// SearchRequest filters the storefront listing. Year accepts the range tokens
// "2020+", "2015-2019" and "2010-2014" as well as a plain year.
type SearchRequest struct {
	Make     string
	Model    string
	Year     string
	MaxPrice int64
	Status   string
}

// UpsertRecord is the normalized intermediate shape produced by the source row
// parser and consumed unchanged by the upsert engine.
type UpsertRecord struct {
	VIN           string
	StockNumber   string
	Year          int
	Make          string
	Model         string
	Mileage       int
	Price         int64
	ExteriorColor string
	InteriorColor string
	Description   string
	Notes         string
	Status        VehicleStatus
	Images        []string
}

// HistorySummary is the slice of a provider report that gets folded back onto
// the vehicle record.
type HistorySummary struct {
	Provider       string
	Score          int
	AccidentCount  int
	OwnerCount     int
	ServiceRecords int
	TitleStatus    TitleStatus
	ReportURL      string
	CheckedAt      time.Time
}

var (
	ErrInvalidYear  = errors.New("invalid_year")
	ErrInvalidMake  = errors.New("invalid_make")
	ErrInvalidModel = errors.New("invalid_model")
	ErrInvalidID    = errors.New("invalid_id")
	ErrInvalidImage = errors.New("invalid_image")
	ErrNotFound     = errors.New("not_found")
	ErrSlugConflict = errors.New("slug_conflict")
	ErrVINConflict  = errors.New("vin_conflict")
)
