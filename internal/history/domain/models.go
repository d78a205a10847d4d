package domain

import (
	"errors"
	"time"

	vehicledomain "github.com/lotkeeper/lotkeeper/internal/vehicle/domain"
)

// RequestStatus tracks an asynchronously requested report.
type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestCompleted RequestStatus = "completed"
	RequestFailed    RequestStatus = "failed"
)

// Report is the normalized shape shared by every provider. Only the summary
// fields are folded back onto the vehicle; the detail slices are display-only.
type Report struct {
	Provider       string                    `json:"provider"`
	VIN            string                    `json:"vin"`
	TitleStatus    vehicledomain.TitleStatus `json:"title_status"`
	Confidence     int                       `json:"confidence"`
	OwnerCount     int                       `json:"owner_count"`
	AccidentCount  int                       `json:"accident_count"`
	ServiceRecords int                       `json:"service_records"`
	ReportURL      string                    `json:"report_url,omitempty"`
	CheckedAt      time.Time                 `json:"checked_at"`

	TitleEvents    []TitleEvent     `json:"title_events,omitempty"`
	OwnershipSpans []OwnershipSpan  `json:"ownership_spans,omitempty"`
	Accidents      []AccidentRecord `json:"accidents,omitempty"`
	ServiceEvents  []ServiceEvent   `json:"service_events,omitempty"`
}

type TitleEvent struct {
	Date   time.Time `json:"date"`
	State  string    `json:"state"`
	Status string    `json:"status"`
}

type OwnershipSpan struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end,omitempty"`
	OwnerType string    `json:"owner_type"`
	State     string    `json:"state"`
}

type AccidentRecord struct {
	Date     time.Time `json:"date"`
	Severity string    `json:"severity"`
	Detail   string    `json:"detail"`
}

type ServiceEvent struct {
	Date     time.Time `json:"date"`
	Odometer int       `json:"odometer,omitempty"`
	Detail   string    `json:"detail"`
}

var (
	ErrInvalidVIN     = errors.New("invalid_vin")
	ErrNotAvailable   = errors.New("report_not_available")
	ErrUnauthorized   = errors.New("provider_unauthorized")
	ErrProviderFailed = errors.New("provider_failed")
)
