// Package scheduler runs the proxy's background jobs.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/roylee0704/gron"
	"ndexplorer/internal/providers"
	"ndexplorer/internal/structures"
)

type SchedulerInterface interface {
	Init()
	Stop()
	// WarmNow runs the device warm-up once, synchronously.
	WarmNow() error
}

type DevicesWarmer interface {
	WarmDevices(ctx context.Context) error
}

type Scheduler struct {
	config *structures.Config
	logger providers.Logger
	warmer DevicesWarmer
	cron   *gron.Cron
	opsMu  sync.Mutex
}

// Init schedules the device warm-up every cache.warmup. Nothing is scheduled
// when the cache or the warm-up is disabled.
func (s *Scheduler) Init() {
	interval := s.config.Cache.Warmup
	if !s.config.Cache.Enabled || interval <= 0 {
		s.logger.Infof(providers.TypeApp, "Devices warm-up disabled")
		return
	}

	s.cron = gron.New()
	s.cron.AddFunc(gron.Every(interval), func() {
		_ = s.WarmNow()
	})
	s.cron.Start()
	s.logger.Infof(providers.TypeApp, "Devices warm-up every %s", interval)
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) WarmNow() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	timeout := s.config.NextDNS.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.warmer.WarmDevices(ctx); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while warming devices cache: %s", err)
		return err
	}
	s.logger.Debugf(providers.TypeApp, "Devices cache warmed")
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, warmer DevicesWarmer) SchedulerInterface {
	return &Scheduler{
		config: config,
		logger: logger,
		warmer: warmer,
	}
}
