package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lotkeeper/lotkeeper/internal/config"
	"github.com/lotkeeper/lotkeeper/internal/inventory/domain"
	vehicledomain "github.com/lotkeeper/lotkeeper/internal/vehicle/domain"
)

type stubSource struct {
	rows [][]string
	err  error

	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *stubSource) FetchRows(ctx context.Context) ([][]string, error) {
	if s.started != nil {
		s.once.Do(func() { close(s.started) })
	}
	if s.release != nil {
		<-s.release
	}
	return s.rows, s.err
}

type stubVehicles struct {
	vehicledomain.Service

	mu       sync.Mutex
	upserts  []vehicledomain.UpsertRecord
	existing map[string]bool
	failVINs map[string]bool
	replaced []vehicledomain.UpsertRecord
}

func (s *stubVehicles) Upsert(ctx context.Context, rec vehicledomain.UpsertRecord) (*vehicledomain.Vehicle, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failVINs[rec.VIN] {
		return nil, false, errors.New("storage down")
	}
	s.upserts = append(s.upserts, rec)
	created := !s.existing[rec.VIN]
	return &vehicledomain.Vehicle{VIN: rec.VIN}, created, nil
}

func (s *stubVehicles) ReplaceAll(ctx context.Context, recs []vehicledomain.UpsertRecord) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaced = recs
	return len(recs), nil
}

func testConfig() config.Config {
	cfg := config.Config{}
	cfg.Sync.ImageWidth = 800
	return cfg
}

func newSyncService(src domain.RowSource, vehicles vehicledomain.Service) domain.Service {
	return New(Params{
		Log:      zap.NewNop(),
		Cfg:      testConfig(),
		Vehicles: vehicles,
		Source:   src,
	})
}

func row(status, vin, year, make, model, price string, images ...string) []string {
	cells := []string{status, "A1", vin, year, make, model, "10000", price, "Blue", "Black", "desc", "notes"}
	cells = append(cells, images...)
	return cells
}

func TestSyncIncrementalCounts(t *testing.T) {
	src := &stubSource{rows: [][]string{
		row("For Sale", "VIN00000000000001", "2020", "Honda", "Civic", "18500"),
		row("Sold", "VIN00000000000002", "2019", "Ford", "F-150", "25000"),
		row("For Sale", "VIN00000000000003", "", "Toyota", "Camry", "15000"),
		row("For Sale", "VIN00000000000004", "2021", "Mazda", "CX-5", "27000"),
		row("For Sale", "VIN00000000000005", "2018", "Kia", "Soul", "12000"),
	}}
	vehicles := &stubVehicles{
		existing: map[string]bool{"VIN00000000000004": true},
		failVINs: map[string]bool{"VIN00000000000005": true},
	}
	svc := newSyncService(src, vehicles)

	summary, err := svc.SyncIncremental(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Processed)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, 1, summary.Failed)
}

func TestSyncResolvesDriveImages(t *testing.T) {
	src := &stubSource{rows: [][]string{
		row("For Sale", "VIN00000000000001", "2020", "Honda", "Civic", "18500",
			"https://drive.google.com/file/d/ABC123/view", "", "https://cdn.example.com/2.jpg"),
	}}
	vehicles := &stubVehicles{}
	svc := newSyncService(src, vehicles)

	_, err := svc.SyncIncremental(context.Background())
	require.NoError(t, err)

	require.Len(t, vehicles.upserts, 1)
	imgs := vehicles.upserts[0].Images
	require.Len(t, imgs, 2)
	assert.Equal(t, "https://drive.google.com/thumbnail?id=ABC123&sz=w800", imgs[0])
	assert.Equal(t, "https://cdn.example.com/2.jpg", imgs[1])
}

func TestSyncOverlapGuard(t *testing.T) {
	src := &stubSource{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc := newSyncService(src, &stubVehicles{})

	done := make(chan error, 1)
	go func() {
		_, err := svc.SyncIncremental(context.Background())
		done <- err
	}()

	// The first run holds the lock inside FetchRows until released.
	select {
	case <-src.started:
	case <-time.After(time.Second):
		t.Fatal("first sync never started")
	}

	_, err := svc.SyncIncremental(context.Background())
	assert.ErrorIs(t, err, domain.ErrSyncInProgress)

	close(src.release)
	require.NoError(t, <-done)

	_, err = svc.SyncIncremental(context.Background())
	require.NoError(t, err)
}

func TestSyncWithoutSource(t *testing.T) {
	svc := newSyncService(nil, &stubVehicles{})
	_, err := svc.SyncIncremental(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoSource)
}

func TestReplaceFromText(t *testing.T) {
	vehicles := &stubVehicles{}
	svc := newSyncService(nil, vehicles)

	text := strings.Join([]string{
		"Status\tStock\tVIN\tYear\tMake\tModel\tMileage\tPrice",
		strings.Join(row("For Sale", "VIN00000000000001", "2020", "Honda", "Civic", "$18,500"), "\t"),
		strings.Join(row("Sold", "VIN00000000000002", "2019", "Ford", "F-150", "25000"), "\t"),
	}, "\n")

	summary, err := svc.ReplaceFromText(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Skipped)
	require.Len(t, vehicles.replaced, 1)
	assert.Equal(t, int64(18500), vehicles.replaced[0].Price)
}

func TestReplaceFromTextEmpty(t *testing.T) {
	svc := newSyncService(nil, &stubVehicles{})
	_, err := svc.ReplaceFromText(context.Background(), "\n\n")
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
}
