package domain

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type InquiryStatus string

const (
	InquiryPending  InquiryStatus = "pending"
	InquiryReviewed InquiryStatus = "reviewed"
	InquiryClosed   InquiryStatus = "closed"
)

type Inquiry struct {
	ID        int64         `json:"id,string" gorm:"primaryKey"`
	VehicleID *int64        `json:"vehicle_id,string,omitempty" gorm:"index:ix_inquiries_vehicle_id"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	Email     string        `json:"email"`
	Phone     *string       `json:"phone,omitempty"`
	Message   string        `json:"message"`
	Status    InquiryStatus `json:"status" gorm:"type:varchar(16);default:pending"`
	Notes     string        `json:"notes,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func (Inquiry) TableName() string {
	return "inquiries"
}

type CreateRequest struct {
	VehicleID *int64  `json:"vehicle_id,string,omitempty"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone,omitempty"`
	Message   string  `json:"message"`
}

type UpdateRequest struct {
	Status *InquiryStatus `json:"status,omitempty"`
	Notes  *string        `json:"notes,omitempty"`
}

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, inquiry *Inquiry) error
	Update(ctx context.Context, db *gorm.DB, inquiry *Inquiry) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Inquiry, error)
	List(ctx context.Context, db *gorm.DB) ([]Inquiry, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Inquiry, error)
	Get(ctx context.Context, id string) (*Inquiry, error)
	List(ctx context.Context) ([]Inquiry, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Inquiry, error)
}

var (
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidEmail   = errors.New("invalid_email")
	ErrInvalidMessage = errors.New("invalid_message")
	ErrInvalidStatus  = errors.New("invalid_status")
	ErrInvalidID      = errors.New("invalid_inquiry_id")
	ErrNotFound       = errors.New("inquiry_not_found")
)
