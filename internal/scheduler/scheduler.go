// Package scheduler implements the background reminder check: a periodic
// scan that announces each due reminder exactly once and marks it fired
// through the store's write path.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"

	"obrador/internal/logfields"
	"obrador/internal/metrics"
	"obrador/internal/notify"
	"obrador/internal/store"
)

// DefaultCheckInterval is short enough that a reminder fires within that
// tolerance of its due time, long enough to avoid excess wake-ups.
const DefaultCheckInterval = 30 * time.Second

// Scheduler periodically scans reminders and fires the due ones. Start is
// idempotent: only one concurrent timer ever exists.
type Scheduler struct {
	store    *store.Store
	notifier notify.Notifier
	alerter  notify.Alerter
	rec      metrics.Recorder
	clock    clockwork.Clock
	interval time.Duration

	mu      sync.Mutex
	sched   gocron.Scheduler
	started bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithInterval overrides the check interval.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) { s.interval = d }
}

// WithAlerter sets the blocking fallback used when notifications are denied.
func WithAlerter(a notify.Alerter) Option {
	return func(s *Scheduler) { s.alerter = a }
}

// WithClock injects a clock for deterministic tests.
func WithClock(clock clockwork.Clock) Option {
	return func(s *Scheduler) { s.clock = clock }
}

// WithRecorder injects a metrics recorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(s *Scheduler) { s.rec = rec }
}

// New creates a scheduler bound to the given store and notifier.
func New(st *store.Store, notifier notify.Notifier, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:    st,
		notifier: notifier,
		alerter:  notify.WriterAlerter{},
		rec:      metrics.NoopRecorder{},
		clock:    clockwork.NewRealClock(),
		interval: DefaultCheckInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins the periodic check. Starting an already-running scheduler is
// a no-op.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		slog.Debug("reminder scheduler already running")
		return nil
	}

	sched, err := gocron.NewScheduler(gocron.WithClock(s.clock))
	if err != nil {
		return fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.checkDue),
		gocron.WithName("reminder-check"),
	)
	if err != nil {
		return fmt.Errorf("failed to create reminder check job: %w", err)
	}

	slog.Info("starting reminder scheduler", "interval", s.interval.String())
	sched.Start()
	s.sched = sched
	s.started = true
	return nil
}

// Stop gracefully shuts the scheduler down. Stopping a stopped scheduler is
// a no-op.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	slog.Info("stopping reminder scheduler")
	err := s.sched.Shutdown()
	s.sched = nil
	s.started = false
	return err
}

// checkDue is one scheduler tick: announce every due unfired reminder once,
// in stored order, and mark each fired. A failed persist after marking does
// not re-queue the reminder (at-most-once delivery).
func (s *Scheduler) checkDue() {
	ctx := context.Background()
	now := s.clock.Now()

	due := s.store.DueReminders(now)
	if len(due) == 0 {
		return
	}
	slog.Info("reminders due", logfields.Count(len(due)))

	for _, r := range due {
		outcome := notify.Deliver(ctx, s.notifier, s.alerter,
			"Recordatorio: "+r.Title, reminderBody(r.Notes))
		s.rec.IncNotification(metrics.NotifyOutcome(outcome))
		slog.Info("reminder fired",
			logfields.ReminderTitle(r.Title),
			logfields.EntityID(r.ID),
			slog.String("outcome", string(outcome)))

		if err := s.store.MarkReminderFired(ctx, r.ID); err != nil {
			// Already logged by the store; the in-memory flag prevents a
			// duplicate announcement on the next tick.
			continue
		}
	}
}

func reminderBody(notes string) string {
	body := "¡Es hora!"
	if notes != "" {
		body += " " + notes
	}
	return body
}
