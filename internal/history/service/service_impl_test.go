package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lotkeeper/lotkeeper/internal/history/domain"
	"github.com/lotkeeper/lotkeeper/internal/history/providers"
)

type stubProvider struct {
	name       string
	authOK     bool
	authErr    error
	report     *domain.Report
	reportErr  error
	fetchCalls int
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Authenticate(ctx context.Context) (bool, error) {
	return p.authOK, p.authErr
}

func (p *stubProvider) GetReport(ctx context.Context, vin string) (*domain.Report, error) {
	p.fetchCalls++
	if p.reportErr != nil {
		return nil, p.reportErr
	}
	return p.report, nil
}

func (p *stubProvider) RequestReport(ctx context.Context, vin string) (string, error) {
	return "req-" + p.name, nil
}

func (p *stubProvider) GetStatus(ctx context.Context, requestID string) (domain.RequestStatus, error) {
	return domain.RequestCompleted, nil
}

func newTestService(t *testing.T, provs ...domain.Provider) domain.Service {
	t.Helper()
	return New(Params{
		Log:      zap.NewNop(),
		Registry: providers.NewRegistry(provs...),
	})
}

func report(provider string, confidence int) *domain.Report {
	return &domain.Report{
		Provider:   provider,
		VIN:        "1HGBH41JXMN109186",
		Confidence: confidence,
	}
}

func TestGetBestReportPicksHighestConfidence(t *testing.T) {
	a := &stubProvider{name: "carfax", authOK: true, report: report("carfax", 80)}
	b := &stubProvider{name: "autocheck", authOK: true, report: report("autocheck", 95)}
	svc := newTestService(t, a, b)

	best, err := svc.GetBestReport(context.Background(), "1HGBH41JXMN109186")
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, "autocheck", best.Provider)
}

func TestGetBestReportTieKeepsFirst(t *testing.T) {
	a := &stubProvider{name: "carfax", authOK: true, report: report("carfax", 90)}
	b := &stubProvider{name: "autocheck", authOK: true, report: report("autocheck", 90)}
	svc := newTestService(t, a, b)

	best, err := svc.GetBestReport(context.Background(), "1HGBH41JXMN109186")
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, "carfax", best.Provider)
}

func TestGetBestReportSkipsFailedAuth(t *testing.T) {
	a := &stubProvider{name: "carfax", authErr: errors.New("bad key")}
	b := &stubProvider{name: "autocheck", authOK: true, report: report("autocheck", 70)}
	svc := newTestService(t, a, b)

	best, err := svc.GetBestReport(context.Background(), "1HGBH41JXMN109186")
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, "autocheck", best.Provider)
	assert.Zero(t, a.fetchCalls)
}

func TestGetBestReportAllFailedIsNotAnError(t *testing.T) {
	a := &stubProvider{name: "carfax", authOK: true, reportErr: domain.ErrNotAvailable}
	b := &stubProvider{name: "autocheck", authErr: errors.New("down")}
	svc := newTestService(t, a, b)

	best, err := svc.GetBestReport(context.Background(), "1HGBH41JXMN109186")
	require.NoError(t, err)
	assert.Nil(t, best)
}

func TestGetReportPrefersNamedProvider(t *testing.T) {
	a := &stubProvider{name: "carfax", authOK: true, report: report("carfax", 50)}
	b := &stubProvider{name: "autocheck", authOK: true, report: report("autocheck", 95)}
	svc := newTestService(t, a, b)

	got, err := svc.GetReport(context.Background(), "1HGBH41JXMN109186", "carfax")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "carfax", got.Provider)
	assert.Zero(t, b.fetchCalls)
}

func TestGetReportFallsThroughOnPreferredFailure(t *testing.T) {
	a := &stubProvider{name: "carfax", authOK: true, reportErr: domain.ErrNotAvailable}
	b := &stubProvider{name: "autocheck", authOK: true, report: report("autocheck", 60)}
	svc := newTestService(t, a, b)

	got, err := svc.GetReport(context.Background(), "1HGBH41JXMN109186", "carfax")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "autocheck", got.Provider)
	assert.Equal(t, 1, a.fetchCalls)
}

func TestGetBestReportRejectsEmptyVIN(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.GetBestReport(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidVIN)
}
