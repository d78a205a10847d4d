package domain

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// VehicleStatus is the sale lifecycle state shown on the storefront.
type VehicleStatus string

const (
	StatusForSale VehicleStatus = "for-sale"
	StatusPending VehicleStatus = "pending"
	StatusSold    VehicleStatus = "sold"
)

// NormalizeStatus maps free-form source text onto the status enum. Anything
// unrecognized is treated as for-sale.
func NormalizeStatus(raw string) VehicleStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(StatusPending):
		return StatusPending
	case string(StatusSold):
		return StatusSold
	default:
		return StatusForSale
	}
}

// TitleStatus is the shared vocabulary all history providers map into.
type TitleStatus string

const (
	TitleClean   TitleStatus = "clean"
	TitleBranded TitleStatus = "branded"
	TitleLemon   TitleStatus = "lemon"
	TitleFlood   TitleStatus = "flood"
	TitleSalvage TitleStatus = "salvage"
	TitleUnknown TitleStatus = "unknown"
)

type Vehicle struct {
	ID          int64  `json:"id" gorm:"primaryKey"`
	VIN         string `json:"vin" gorm:"column:vin;type:text;index:ix_vehicles_vin"`
	StockNumber string `json:"stock_number" gorm:"type:text"`
	Slug        string `json:"slug" gorm:"type:text;not null;uniqueIndex:ux_vehicles_slug"`

	Year          int           `json:"year" gorm:"not null"`
	Make          string        `json:"make" gorm:"type:text;not null"`
	Model         string        `json:"model" gorm:"type:text;not null"`
	Mileage       int           `json:"mileage" gorm:"not null;default:0"`
	Price         int64         `json:"price" gorm:"not null;default:0"`
	ExteriorColor string        `json:"exterior_color" gorm:"type:text"`
	InteriorColor string        `json:"interior_color" gorm:"type:text"`
	Description   string        `json:"description" gorm:"type:text"`
	Notes         string        `json:"notes" gorm:"type:text"`
	Status        VehicleStatus `json:"status" gorm:"type:text;not null;default:'for-sale'"`

	// Ordered; the first entry is the featured image.
	Images datatypes.JSONSlice[string] `json:"images" gorm:"type:jsonb"`

	HistoryScore     *int        `json:"history_score,omitempty"`
	AccidentCount    *int        `json:"accident_count,omitempty"`
	OwnerCount       *int        `json:"owner_count,omitempty"`
	ServiceRecords   *int        `json:"service_records,omitempty"`
	TitleStatus      TitleStatus `json:"title_status" gorm:"type:text;not null;default:'unknown'"`
	HistoryProvider  string      `json:"history_provider,omitempty" gorm:"type:text"`
	HistoryReportURL string      `json:"history_report_url,omitempty" gorm:"type:text"`
	HistoryCheckedAt *time.Time  `json:"history_checked_at,omitempty"`

	BannerNew       bool `json:"banner_new" gorm:"not null;default:false"`
	BannerReduced   bool `json:"banner_reduced" gorm:"not null;default:false"`
	BannerGreatDeal bool `json:"banner_great_deal" gorm:"not null;default:false"`
	BannerSold      bool `json:"banner_sold" gorm:"not null;default:false"`

	MetaTitle       string                      `json:"meta_title" gorm:"type:text"`
	MetaDescription string                      `json:"meta_description" gorm:"type:text"`
	KeyFeatures     datatypes.JSONSlice[string] `json:"key_features" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Vehicle) TableName() string { return "vehicles" }
