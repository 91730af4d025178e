package storage

import (
	"context"
	"reviewguard/internal/providers"
	"reviewguard/internal/storage/interfaces"
	"reviewguard/internal/structures"
	"sync"
	"time"

	"github.com/roylee0704/gron"
)

type Scheduler struct {
	config    *structures.Config
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
	persister interfaces.PersisterInterface
	sweeper   interfaces.SweeperInterface
	cron      *gron.Cron
	opsMu     sync.Mutex
}

// Init starts the periodic jobs: snapshots for persistent backends and the
// idle-device sweep when it is enabled.
func (s *Scheduler) Init() {
	sweepEvery := s.config.Storage.SweepInterval
	sweep := s.sweeper != nil && s.config.Storage.IdleTTL > 0 && sweepEvery > 0
	if s.persister == nil && !sweep {
		return
	}
	s.cron = gron.New()

	if s.persister != nil {
		s.cron.AddFunc(gron.Every(s.config.Storage.File.SaveInterval), func() {
			if err := s.persist(); err != nil {
				return
			}
			s.logger.Debugf(providers.TypeStore, "Persisted device state to %s", s.config.Storage.File.Path)
		})
	}
	if sweep {
		s.cron.AddFunc(gron.Every(sweepEvery), func() {
			s.Sweep()
		})
	}

	s.cron.Start()
}

// Sweep runs one idle-device sweep.
func (s *Scheduler) Sweep() {
	if s.sweeper == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if _, err := s.sweeper.SweepIdle(ctx); err != nil {
		s.logger.Errorf(providers.TypeStore, "Idle sweep failed: %s", err)
	}
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	if s.persister == nil {
		return nil
	}
	s.opsMu.Lock()
	defer s.opsMu.Unlock()
	return s.persister.Restore()
}

func (s *Scheduler) Persist() error {
	if s.persister == nil {
		return nil
	}
	s.logger.Infof(providers.TypeStore, "Persisting device state...")
	return s.persist()
}

func (s *Scheduler) persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	start := time.Now()
	err := s.persister.Persist()
	s.metrics.ObservePersistenceDuration(time.Since(start))
	if err != nil {
		s.logger.Errorf(providers.TypeStore, "Error while persisting device state: %s", err)
	}
	return err
}

// findPersister unwraps decorating stores until one implements Persister.
func findPersister(store interfaces.StoreInterface) interfaces.PersisterInterface {
	for store != nil {
		if p, ok := store.(interfaces.PersisterInterface); ok {
			return p
		}
		u, ok := store.(interface {
			Unwrap() interfaces.StoreInterface
		})
		if !ok {
			return nil
		}
		store = u.Unwrap()
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface, store interfaces.StoreInterface, sweeper interfaces.SweeperInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:    config,
		logger:    logger,
		metrics:   metrics,
		persister: findPersister(store),
		sweeper:   sweeper,
	}
}
