// Package jobs runs periodic maintenance from the console process.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/adminconsole/internal/client/notice"
	"github.com/dmitrijs2005/adminconsole/internal/logging"
	"github.com/robfig/cron/v3"
)

// Purger removes expired accounts and reports how many were removed.
type Purger interface {
	PurgeExpiredAccounts(ctx context.Context) (int, error)
}

// Authenticator reports whether a session is active.
type Authenticator interface {
	Authenticated() bool
}

// AuthFunc adapts a function to Authenticator.
type AuthFunc func() bool

func (f AuthFunc) Authenticated() bool { return f() }

type Scheduler struct {
	cron    *cron.Cron
	purger  Purger
	auth    Authenticator
	sink    notice.Sink
	log     logging.Logger
	timeout time.Duration
}

// NewScheduler builds a scheduler whose specs include a seconds field.
func NewScheduler(purger Purger, auth Authenticator, sink notice.Sink, log logging.Logger) *Scheduler {
	if sink == nil {
		sink = notice.Discard
	}
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		purger:  purger,
		auth:    auth,
		sink:    sink,
		log:     log,
		timeout: 30 * time.Second,
	}
}

// Start schedules the purge on spec. An empty spec disables it.
func (s *Scheduler) Start(spec string) error {
	if spec == "" {
		return nil
	}
	if _, err := s.cron.AddFunc(spec, s.RunPurge); err != nil {
		return fmt.Errorf("purge schedule %q: %w", spec, err)
	}
	s.cron.Start()
	s.log.Info(context.Background(), "purge scheduled", "spec", spec)
	return nil
}

// Stop stops the cron and waits up to 5s for a running job.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
	}
}

// RunPurge purges once, skipping when no session is active.
func (s *Scheduler) RunPurge() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if !s.auth.Authenticated() {
		s.log.Debug(ctx, "purge skipped: not logged in")
		return
	}

	n, err := s.purger.PurgeExpiredAccounts(ctx)
	if err != nil {
		s.log.Error(ctx, "scheduled purge failed", "error", err)
		s.sink.Notify(notice.Notice{Level: notice.Error, Title: "Scheduled purge", Message: err.Error()})
		return
	}
	s.sink.Notify(notice.Notice{
		Level:   notice.Info,
		Title:   "Scheduled purge",
		Message: fmt.Sprintf("%d expired account(s) removed", n),
	})
}
