package scheduler

import (
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Autosaver persists pending dataset changes; *session.Session implements it
type Autosaver interface {
	Autosave() (bool, error)
}

// Pruner deletes old activity rows; *db.DB implements it
type Pruner interface {
	PruneActivity(before time.Time) (int64, error)
}

// Scheduler manages scheduled jobs
type Scheduler struct {
	scheduler gocron.Scheduler
	autosaver Autosaver
	pruner    Pruner
	clock     clockwork.Clock
	logger    *zap.Logger
	cfg       Config
}

// Config holds scheduler configuration
type Config struct {
	Location         *time.Location // nil means UTC
	AutosaveInterval time.Duration // zero disables autosave
	Retention        time.Duration
	Clock            clockwork.Clock
}

// New creates a new scheduler
func New(autosaver Autosaver, pruner Pruner, logger *zap.Logger, cfg Config) (*Scheduler, error) {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s, err := gocron.NewScheduler(gocron.WithLocation(cfg.Location), gocron.WithClock(cfg.Clock))
	if err != nil {
		return nil, err
	}

	return &Scheduler{
		scheduler: s,
		autosaver: autosaver,
		pruner:    pruner,
		clock:     cfg.Clock,
		logger:    logger,
		cfg:       cfg,
	}, nil
}

// Start registers all jobs and starts the scheduler
func (s *Scheduler) Start() error {
	if s.cfg.AutosaveInterval > 0 && s.autosaver != nil {
		_, err := s.scheduler.NewJob(
			gocron.DurationJob(s.cfg.AutosaveInterval),
			gocron.NewTask(s.autosave),
			gocron.WithName("autosave"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return err
		}
	}

	// Prune activity log daily at 03:00 local time
	if s.pruner != nil && s.cfg.Retention > 0 {
		_, err := s.scheduler.NewJob(
			gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0))),
			gocron.NewTask(s.pruneActivity),
			gocron.WithName("prune-activity"),
		)
		if err != nil {
			return err
		}
	}

	s.scheduler.Start()
	s.logger.Info("scheduler started", zap.Int("jobs", len(s.scheduler.Jobs())))
	return nil
}

// Stop stops the scheduler and runs a final autosave
func (s *Scheduler) Stop() error {
	err := s.scheduler.Shutdown()
	if s.cfg.AutosaveInterval > 0 {
		s.autosave()
	}
	return err
}

// Jobs returns the names of the registered jobs
func (s *Scheduler) Jobs() []string {
	jobs := s.scheduler.Jobs()
	names := make([]string, 0, len(jobs))
	for _, j := range jobs {
		names = append(names, j.Name())
	}
	return names
}

func (s *Scheduler) autosave() {
	if s.autosaver == nil {
		return
	}
	saved, err := s.autosaver.Autosave()
	if err != nil {
		s.logger.Error("autosave failed", zap.Error(err))
		return
	}
	if saved {
		s.logger.Info("dataset autosaved")
	}
}

func (s *Scheduler) pruneActivity() {
	cutoff := s.clock.Now().Add(-s.cfg.Retention)
	removed, err := s.pruner.PruneActivity(cutoff)
	if err != nil {
		s.logger.Error("pruning activity", zap.Error(err))
		return
	}
	if removed > 0 {
		s.logger.Info("pruned activity", zap.Int64("rows", removed), zap.Time("before", cutoff))
	}
}
