package service

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/lotkeeper/lotkeeper/internal/config"
	"github.com/lotkeeper/lotkeeper/internal/images"
	"github.com/lotkeeper/lotkeeper/internal/inventory/domain"
	"github.com/lotkeeper/lotkeeper/internal/inventory/parser"
	obsmetrics "github.com/lotkeeper/lotkeeper/internal/observability/metrics"
	vehicledomain "github.com/lotkeeper/lotkeeper/internal/vehicle/domain"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Cfg      config.Config
	Vehicles vehicledomain.Service
	Source   domain.RowSource        `optional:"true"`
	Metrics  *obsmetrics.SyncMetrics `optional:"true"`
}

type service struct {
	log        *zap.Logger
	vehicles   vehicledomain.Service
	source     domain.RowSource
	metrics    *obsmetrics.SyncMetrics
	imageWidth int

	// mu serializes sync runs; an attempt while one is active fails fast
	// instead of queueing.
	mu sync.Mutex
}

func New(p Params) domain.Service {
	return &service{
		log:        p.Log.Named("inventory"),
		vehicles:   p.Vehicles,
		source:     p.Source,
		metrics:    p.Metrics,
		imageWidth: p.Cfg.Sync.ImageWidth,
	}
}

func (s *service) SyncIncremental(ctx context.Context) (*domain.Summary, error) {
	if s.source == nil {
		return nil, domain.ErrNoSource
	}
	if !s.mu.TryLock() {
		return nil, domain.ErrSyncInProgress
	}
	defer s.mu.Unlock()

	rows, err := s.source.FetchRows(ctx)
	if err != nil {
		s.log.Error("fetch source rows", zap.Error(err))
		return nil, err
	}

	summary := &domain.Summary{}
	for i, cells := range rows {
		summary.Processed++

		row, err := parser.ParseRow(cells)
		if err != nil {
			if errors.Is(err, domain.ErrRowRejected) {
				summary.Skipped++
				s.log.Debug("row skipped", zap.Int("row", i), zap.String("reason", err.Error()))
			} else {
				summary.Failed++
				s.log.Warn("row parse failed", zap.Int("row", i), zap.Error(err))
			}
			continue
		}

		urls := images.ResolveAll(row.ImageRefs, s.imageWidth)
		_, created, err := s.vehicles.Upsert(ctx, row.Record(urls))
		if err != nil {
			summary.Failed++
			s.log.Warn("row upsert failed",
				zap.Int("row", i),
				zap.String("vin", row.VIN),
				zap.Error(err))
			continue
		}
		if created {
			summary.Created++
		} else {
			summary.Updated++
		}
	}

	s.recordRows(summary)
	s.log.Info("incremental sync finished",
		zap.Int("processed", summary.Processed),
		zap.Int("created", summary.Created),
		zap.Int("updated", summary.Updated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed))
	return summary, nil
}

func (s *service) ReplaceFromText(ctx context.Context, text string) (*domain.Summary, error) {
	if !s.mu.TryLock() {
		return nil, domain.ErrSyncInProgress
	}
	defer s.mu.Unlock()

	raw := parser.ParseSheet(text)
	if len(raw) == 0 {
		return nil, domain.ErrEmptyInput
	}

	summary := &domain.Summary{}
	var records []vehicledomain.UpsertRecord
	for i, cells := range raw {
		summary.Processed++

		row, err := parser.ParseRow(cells)
		if err != nil {
			summary.Skipped++
			s.log.Debug("row skipped", zap.Int("row", i), zap.String("reason", err.Error()))
			continue
		}
		records = append(records, row.Record(images.ResolveAll(row.ImageRefs, s.imageWidth)))
	}

	inserted, err := s.vehicles.ReplaceAll(ctx, records)
	if err != nil {
		s.log.Error("bulk replace failed", zap.Error(err))
		return nil, err
	}
	summary.Created = inserted

	s.recordRows(summary)
	s.log.Info("bulk replace finished",
		zap.Int("processed", summary.Processed),
		zap.Int("inserted", inserted),
		zap.Int("skipped", summary.Skipped))
	return summary, nil
}

func (s *service) recordRows(summary *domain.Summary) {
	if s.metrics == nil {
		return
	}
	s.metrics.AddRows("created", summary.Created)
	s.metrics.AddRows("updated", summary.Updated)
	s.metrics.AddRows("skipped", summary.Skipped)
	s.metrics.AddRows("failed", summary.Failed)
}
