package domain

import "context"

// Provider is the uniform contract every vehicle-history backend implements.
type Provider interface {
	Name() string
	Authenticate(ctx context.Context) (bool, error)
	GetReport(ctx context.Context, vin string) (*Report, error)
	RequestReport(ctx context.Context, vin string) (string, error)
	GetStatus(ctx context.Context, requestID string) (RequestStatus, error)
}

// Service aggregates the fixed, ordered provider set.
type Service interface {
	// GetBestReport queries every authenticating provider and returns the
	// report with the highest confidence; ties keep the first encountered.
	// (nil, nil) means no provider had a report, which is not an error.
	GetBestReport(ctx context.Context, vin string) (*Report, error)

	// GetReport tries the preferred provider first, then falls through the
	// remaining providers in fixed order, returning the first success.
	GetReport(ctx context.Context, vin, preferred string) (*Report, error)

	RequestReport(ctx context.Context, vin, provider string) (string, error)
	GetStatus(ctx context.Context, provider, requestID string) (RequestStatus, error)
}
