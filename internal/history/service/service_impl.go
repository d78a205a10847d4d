package service

import (
	"context"
	"strings"

	"github.com/lotkeeper/lotkeeper/internal/history/domain"
	"github.com/lotkeeper/lotkeeper/internal/history/providers"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Registry *providers.Registry
}

type Service struct {
	log      *zap.Logger
	registry *providers.Registry
}

func New(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("history.service"),
		registry: p.Registry,
	}
}

func (s *Service) GetBestReport(ctx context.Context, vin string) (*domain.Report, error) {
	vin = strings.ToUpper(strings.TrimSpace(vin))
	if vin == "" {
		return nil, domain.ErrInvalidVIN
	}

	var best *domain.Report
	for _, provider := range s.registry.Ordered() {
		report := s.tryProvider(ctx, provider, vin)
		if report == nil {
			continue
		}
		// Strictly greater keeps the first provider on ties.
		if best == nil || report.Confidence > best.Confidence {
			best = report
		}
	}
	return best, nil
}

func (s *Service) GetReport(ctx context.Context, vin, preferred string) (*domain.Report, error) {
	vin = strings.ToUpper(strings.TrimSpace(vin))
	if vin == "" {
		return nil, domain.ErrInvalidVIN
	}

	tried := map[string]bool{}
	if preferred != "" {
		if provider, ok := s.registry.ByName(preferred); ok {
			tried[provider.Name()] = true
			if report := s.tryProvider(ctx, provider, vin); report != nil {
				return report, nil
			}
		}
	}

	for _, provider := range s.registry.Ordered() {
		if tried[provider.Name()] {
			continue
		}
		if report := s.tryProvider(ctx, provider, vin); report != nil {
			return report, nil
		}
	}
	return nil, nil
}

func (s *Service) RequestReport(ctx context.Context, vin, providerName string) (string, error) {
	vin = strings.ToUpper(strings.TrimSpace(vin))
	if vin == "" {
		return "", domain.ErrInvalidVIN
	}
	provider, ok := s.registry.ByName(providerName)
	if !ok {
		return "", domain.ErrProviderFailed
	}
	return provider.RequestReport(ctx, vin)
}

func (s *Service) GetStatus(ctx context.Context, providerName, requestID string) (domain.RequestStatus, error) {
	provider, ok := s.registry.ByName(providerName)
	if !ok {
		return domain.RequestFailed, domain.ErrProviderFailed
	}
	return provider.GetStatus(ctx, requestID)
}

// tryProvider runs the auth-then-fetch sequence and converts every failure
// into a skip. One misbehaving provider never blocks the rest.
func (s *Service) tryProvider(ctx context.Context, provider domain.Provider, vin string) *domain.Report {
	authenticated, err := provider.Authenticate(ctx)
	if err != nil {
		s.log.Warn("provider authentication failed",
			zap.String("provider", provider.Name()),
			zap.Error(err),
		)
		return nil
	}
	if !authenticated {
		return nil
	}

	report, err := provider.GetReport(ctx, vin)
	if err != nil {
		s.log.Warn("provider report fetch failed",
			zap.String("provider", provider.Name()),
			zap.String("vin", vin),
			zap.Error(err),
		)
		return nil
	}
	return report
}
