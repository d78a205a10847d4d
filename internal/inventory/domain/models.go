package domain

import (
	"context"
	"errors"

	vehicledomain "github.com/lotkeeper/lotkeeper/internal/vehicle/domain"
)

// SourceRow is the normalized intermediate record produced by the row parser
// and consumed unchanged by the resolver and the upsert engine.
type SourceRow struct {
	Status        string
	StockNumber   string
	VIN           string
	Year          int
	Make          string
	Model         string
	Mileage       int
	Price         int64
	ExteriorColor string
	InteriorColor string
	Description   string
	Notes         string
	ImageRefs     []string
	ProviderCode  string
}

// Record converts the row into the upsert engine's input shape.
func (r *SourceRow) Record(images []string) vehicledomain.UpsertRecord {
	return vehicledomain.UpsertRecord{
		VIN:           r.VIN,
		StockNumber:   r.StockNumber,
		Year:          r.Year,
		Make:          r.Make,
		Model:         r.Model,
		Mileage:       r.Mileage,
		Price:         r.Price,
		ExteriorColor: r.ExteriorColor,
		InteriorColor: r.InteriorColor,
		Description:   r.Description,
		Notes:         r.Notes,
		Status:        vehicledomain.NormalizeStatus(r.Status),
		Images:        images,
	}
}

// Summary is the terminal result returned to the sync caller.
type Summary struct {
	Processed int `json:"processed"`
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// RowSource supplies the external dataset, row by row, in source order.
type RowSource interface {
	FetchRows(ctx context.Context) ([][]string, error)
}

type Service interface {
	// SyncIncremental runs parser -> resolver -> upsert across the configured
	// source. Rows fail independently; the batch always runs to the end.
	SyncIncremental(ctx context.Context) (*Summary, error)

	// ReplaceFromText is the destructive full-reset path: it truncates the
	// inventory and inserts every accepted row from pasted tab-separated text
	// inside one transaction.
	ReplaceFromText(ctx context.Context, text string) (*Summary, error)
}

var (
	// ErrRowRejected marks rows skipped by policy, not by failure.
	ErrRowRejected = errors.New("row_rejected")

	ErrSyncInProgress = errors.New("sync_in_progress")
	ErrNoSource       = errors.New("source_not_configured")
	ErrEmptyInput     = errors.New("empty_input")
)
