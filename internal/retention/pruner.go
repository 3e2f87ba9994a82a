package retention

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const timeoutDuration = 30 * time.Second

type searchPruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type pruneObserver interface {
	ObservePrune(removed int64, d time.Duration, err error)
}

// Pruner periodically removes search history entries older than the retention window.
type Pruner struct {
	repo      searchPruner
	observer  pruneObserver
	logger    zerolog.Logger
	cron      *cron.Cron
	cancel    context.CancelFunc
	spec      string
	retention time.Duration
	now       func() time.Time
}

// New constructs a Pruner. spec is a six-field cron expression (seconds first).
func New(
	repo searchPruner,
	observer pruneObserver,
	logger zerolog.Logger,
	spec string,
	retention time.Duration,
) *Pruner {
	logger = logger.With().Str("component", "Pruner").Logger()
	return &Pruner{
		repo:      repo,
		observer:  observer,
		logger:    logger,
		cron:      cron.New(cron.WithSeconds()),
		spec:      spec,
		retention: retention,
		now:       time.Now,
	}
}

// Start schedules the prune job. A non-positive retention disables pruning.
func (p *Pruner) Start(ctx context.Context) error {
	if p.retention <= 0 {
		p.logger.Info().Msg("history retention disabled, pruner not started")
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	if _, err := p.cron.AddFunc(p.spec, func() {
		if _, err := p.RunOnce(ctx); err != nil {
			p.logger.Error().Err(err).Msg("scheduled prune failed")
		}
	}); err != nil {
		cancel()
		p.logger.Error().Err(err).Str("spec", p.spec).Msg("failed to schedule prune job")
		return err
	}

	p.cron.Start()
	p.logger.Info().
		Str("spec", p.spec).
		Dur("retention", p.retention).
		Msg("history pruner started")
	return nil
}

// Stop cancels the schedule and waits for a running prune to finish.
func (p *Pruner) Stop() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	stopCtx := p.cron.Stop()
	<-stopCtx.Done()
	p.logger.Info().Msg("history pruner stopped")
}

// RunOnce deletes every entry older than now minus the retention window.
func (p *Pruner) RunOnce(ctx context.Context) (int64, error) {
	if p.retention <= 0 {
		return 0, errors.New("retention window must be positive")
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, timeoutDuration)
	defer cancel()

	cutoff := p.now().Add(-p.retention)
	p.logger.Debug().Time("cutoff", cutoff).Msg("pruning search history")

	removed, err := p.repo.DeleteOlderThan(ctx, cutoff)
	dur := time.Since(start)
	p.observer.ObservePrune(removed, dur, err)
	if err != nil {
		p.logger.Error().Err(err).Time("cutoff", cutoff).Msg("failed to prune search history")
		return 0, err
	}

	p.logger.Info().
		Int64("removed", removed).
		Dur("duration", dur).
		Msg("search history pruned")
	return removed, nil
}
