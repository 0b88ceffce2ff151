package listing

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/job-tracker/internal/logging"
	"github.com/jonathan/job-tracker/internal/types"
	"github.com/robfig/cron/v3"
)

// JobStore is the job access the sweeper needs.
type JobStore interface {
	ListJobs(ctx context.Context) ([]types.Job, error)
	MergeJob(ctx context.Context, id string, fields map[string]any) error
}

// Sweeper closes postings whose deadline has passed.
type Sweeper struct {
	jobs JobStore
	log  *logging.Logger
	now  func() time.Time
	cron *cron.Cron
}

// NewSweeper creates a sweeper. loc is the timezone whose calendar days
// decide expiry; nil means local time.
func NewSweeper(jobs JobStore, loc *time.Location, log *logging.Logger) *Sweeper {
	if log == nil {
		log = logging.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Sweeper{
		jobs: jobs,
		log:  log.Named("sweeper"),
		now:  func() time.Time { return time.Now().In(loc) },
	}
}

// Now returns the sweeper's notion of the current time.
func (s *Sweeper) Now() time.Time {
	return s.now()
}

// Reconcile closes the expired jobs in a snapshot and returns the updated
// copy without waiting for a re-read. Each transition is written as a merge
// of {status: closed, openings: 0}; writing the same merge twice is harmless.
// Write failures are logged and the remaining transitions still applied.
func (s *Sweeper) Reconcile(ctx context.Context, jobs []types.Job) []types.Job {
	transitions := ReconcileExpired(jobs, s.now())
	if len(transitions) == 0 {
		return jobs
	}

	applied := make([]Transition, 0, len(transitions))
	for _, t := range transitions {
		err := s.jobs.MergeJob(ctx, t.JobID, map[string]any{
			"status":   types.JobClosed,
			"openings": 0,
		})
		if err != nil {
			s.log.Error("failed to close expired job", "job_id", t.JobID, "error", err)
			continue
		}
		applied = append(applied, t)
	}
	if len(applied) > 0 {
		s.log.Info("closed expired jobs", "count", len(applied))
	}
	return ApplyTransitions(jobs, applied)
}

// SweepAll reads every job and reconciles it. It returns the number of jobs
// closed.
func (s *Sweeper) SweepAll(ctx context.Context) (int, error) {
	jobs, err := s.jobs.ListJobs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load jobs for sweep: %w", err)
	}
	before := countActive(jobs)
	after := countActive(s.Reconcile(ctx, jobs))
	return before - after, nil
}

func countActive(jobs []types.Job) int {
	n := 0
	for i := range jobs {
		if jobs[i].IsActive() {
			n++
		}
	}
	return n
}

// Start runs SweepAll on a cron schedule such as "@every 5m" until Stop.
func (s *Sweeper) Start(ctx context.Context, spec string) error {
	logger := cronLogger{log: s.log}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	_, err := c.AddFunc(spec, func() {
		n, err := s.SweepAll(ctx)
		if err != nil {
			s.log.Error("scheduled sweep failed", "error", err)
			return
		}
		s.log.Debug("scheduled sweep finished", "closed", n)
	})
	if err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", spec, err)
	}
	s.cron = c
	c.Start()
	s.log.Info("expiry sweep scheduled", "schedule", spec)
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

// cronLogger routes cron's own logging through our logger.
type cronLogger struct {
	log *logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(msg, append(keysAndValues, "error", err)...)
}
