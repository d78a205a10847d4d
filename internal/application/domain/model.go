package domain

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationReviewed ApplicationStatus = "reviewed"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationDeclined ApplicationStatus = "declined"
)

// Application is a financing submission. Append-only apart from the admin
// status and notes fields.
type Application struct {
	ID               int64             `json:"id,string" gorm:"primaryKey"`
	VehicleID        *int64            `json:"vehicle_id,string,omitempty" gorm:"index:ix_applications_vehicle_id"`
	FirstName        string            `json:"first_name"`
	LastName         string            `json:"last_name"`
	Email            string            `json:"email"`
	Phone            *string           `json:"phone,omitempty"`
	EmploymentStatus string            `json:"employment_status,omitempty"`
	MonthlyIncome    int64             `json:"monthly_income,omitempty"`
	DownPayment      int64             `json:"down_payment,omitempty"`
	Status           ApplicationStatus `json:"status" gorm:"type:varchar(16);default:pending"`
	Notes            string            `json:"notes,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

func (Application) TableName() string {
	return "customer_applications"
}

type CreateRequest struct {
	VehicleID        *int64  `json:"vehicle_id,string,omitempty"`
	FirstName        string  `json:"first_name"`
	LastName         string  `json:"last_name"`
	Email            string  `json:"email"`
	Phone            *string `json:"phone,omitempty"`
	EmploymentStatus string  `json:"employment_status,omitempty"`
	MonthlyIncome    int64   `json:"monthly_income,omitempty"`
	DownPayment      int64   `json:"down_payment,omitempty"`
}

type UpdateRequest struct {
	Status *ApplicationStatus `json:"status,omitempty"`
	Notes  *string            `json:"notes,omitempty"`
}

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, app *Application) error
	Update(ctx context.Context, db *gorm.DB, app *Application) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Application, error)
	List(ctx context.Context, db *gorm.DB) ([]Application, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Application, error)
	Get(ctx context.Context, id string) (*Application, error)
	List(ctx context.Context) ([]Application, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Application, error)
}

var (
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidEmail  = errors.New("invalid_email")
	ErrInvalidStatus = errors.New("invalid_status")
	ErrInvalidID     = errors.New("invalid_application_id")
	ErrNotFound      = errors.New("application_not_found")
)
