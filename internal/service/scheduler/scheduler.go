package service_scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

const jobTimeout = time.Minute

//go:generate mockery --name=Refresher --output=./mocks --filename=refresher.go
type Refresher interface {
	Refresh(ctx context.Context) error
}

//go:generate mockery --name=Reaper --output=./mocks --filename=reaper.go
type Reaper interface {
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// Scheduler runs the periodic housekeeping jobs: reloading the catalog
// snapshot and purging sessions past their lifetime.
type Scheduler struct {
	sched  gocron.Scheduler
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Scheduler)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

func New(opts ...Option) (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	s := &Scheduler{
		sched:  sched,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// AddCatalogRefresh reloads the catalog every interval. The first run
// happens on Start.
func (s *Scheduler) AddCatalogRefresh(r Refresher, every time.Duration) error {
	_, err := s.sched.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()

			if err := r.Refresh(ctx); err != nil {
				s.logger.Error("catalog refresh failed, keeping previous snapshot",
					slog.String("error", err.Error()),
				)
			}
		}),
		gocron.WithName("catalog_refresh"),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	return err
}

// AddSessionPurge deletes sessions older than ttl every interval.
func (s *Scheduler) AddSessionPurge(r Reaper, ttl, every time.Duration) error {
	_, err := s.sched.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()

			n, err := r.DeleteExpired(ctx, s.now().Add(-ttl))
			if err != nil {
				s.logger.Error("session purge failed", slog.String("error", err.Error()))
				return
			}
			if n > 0 {
				s.logger.Info("expired sessions purged", slog.Int64("sessions", n))
			}
		}),
		gocron.WithName("session_purge"),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	return err
}

func (s *Scheduler) Start() {
	s.sched.Start()
}

func (s *Scheduler) Shutdown() error {
	return s.sched.Shutdown()
}
