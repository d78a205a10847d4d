// Package scheduler runs the recurring background jobs: the daily inventory
// sync and the hourly new-banner expiry sweep.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/lotkeeper/lotkeeper/internal/clock"
	"github.com/lotkeeper/lotkeeper/internal/config"
	inventorydomain "github.com/lotkeeper/lotkeeper/internal/inventory/domain"
	obsmetrics "github.com/lotkeeper/lotkeeper/internal/observability/metrics"
	vehicledomain "github.com/lotkeeper/lotkeeper/internal/vehicle/domain"
)

const bannerExpirySpec = "0 * * * *"

type Params struct {
	fx.In

	Log       *zap.Logger
	Cfg       config.Config
	Clock     clock.Clock
	Inventory inventorydomain.Service
	Vehicles  vehicledomain.Service
	Metrics   *obsmetrics.SyncMetrics `optional:"true"`
}

type Scheduler struct {
	log           *zap.Logger
	clock         clock.Clock
	inventory     inventorydomain.Service
	vehicles      vehicledomain.Service
	metrics       *obsmetrics.SyncMetrics
	cron          *cron.Cron
	syncSpec      string
	bannerMaxDays int
}

func New(p Params) (*Scheduler, error) {
	loc, err := time.LoadLocation(p.Cfg.Sync.Timezone)
	if err != nil {
		return nil, err
	}
	return &Scheduler{
		log:           p.Log.Named("scheduler"),
		clock:         p.Clock,
		inventory:     p.Inventory,
		vehicles:      p.Vehicles,
		metrics:       p.Metrics,
		cron:          cron.New(cron.WithLocation(loc)),
		syncSpec:      p.Cfg.Sync.CronSpec,
		bannerMaxDays: p.Cfg.Sync.BannerNewMaxDays,
	}, nil
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.syncSpec, func() {
		s.RunSync(context.Background())
	}); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(bannerExpirySpec, func() {
		s.RunBannerExpiry(context.Background())
	}); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("scheduler started",
		zap.String("sync_spec", s.syncSpec),
		zap.String("banner_spec", bannerExpirySpec))
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("scheduler stopped")
}

// RunSync executes one scheduled sync pass. Overlap with an already running
// sync turns into a warn and a skipped run, never an error.
func (s *Scheduler) RunSync(ctx context.Context) {
	started := s.clock.Now()
	summary, err := s.inventory.SyncIncremental(ctx)
	s.observe("inventory_sync", "scheduled", started, err)
	if err != nil {
		if errors.Is(err, inventorydomain.ErrSyncInProgress) {
			s.log.Warn("scheduled sync skipped, previous run still in progress")
			return
		}
		if errors.Is(err, inventorydomain.ErrNoSource) {
			s.log.Debug("scheduled sync skipped, no source configured")
			return
		}
		s.log.Error("scheduled sync failed", zap.Error(err))
		return
	}
	s.log.Info("scheduled sync complete",
		zap.Int("created", summary.Created),
		zap.Int("updated", summary.Updated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed))
}

// RunBannerExpiry clears the new banner from vehicles older than the
// configured window.
func (s *Scheduler) RunBannerExpiry(ctx context.Context) {
	started := s.clock.Now()
	cutoff := started.AddDate(0, 0, -s.bannerMaxDays)
	expired, err := s.vehicles.ExpireNewBanners(ctx, cutoff)
	s.observe("banner_expiry", "scheduled", started, err)
	if err != nil {
		s.log.Error("banner expiry failed", zap.Error(err))
		return
	}
	if expired > 0 {
		s.log.Info("expired new banners", zap.Int64("count", expired))
	}
}

func (s *Scheduler) observe(job, trigger string, started time.Time, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveJob(job, s.clock.Now().Sub(started))
	if job == "inventory_sync" {
		s.metrics.IncRun(trigger, err)
	}
}
