// Package notice carries user-facing outcome messages (success, info,
// warning, error) from the console core to whatever presents them.
package notice

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/adminconsole/internal/logging"
)

type Level string

const (
	Success Level = "success"
	Info    Level = "info"
	Warning Level = "warning"
	Error   Level = "error"
)

type Notice struct {
	Level   Level
	Title   string
	Message string
}

// Sink receives notices. Implementations must be safe for concurrent use.
type Sink interface {
	Notify(n Notice)
}

// FuncSink adapts a function to Sink.
type FuncSink func(Notice)

func (f FuncSink) Notify(n Notice) { f(n) }

// Discard drops every notice.
var Discard Sink = FuncSink(func(Notice) {})

// Recorder keeps every notice it receives.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(n Notice) {
	r.mu.Lock()
	r.notices = append(r.notices, n)
	r.mu.Unlock()
}

// All returns a copy of the received notices, oldest first.
func (r *Recorder) All() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Last returns the most recent notice.
func (r *Recorder) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.notices = nil
	r.mu.Unlock()
}

// LogSink writes notices through a Logger; errors at warn level.
type LogSink struct {
	Log logging.Logger
}

func (s LogSink) Notify(n Notice) {
	ctx := context.Background()
	if n.Level == Error {
		s.Log.Warn(ctx, n.Title, "message", n.Message, "notice", string(n.Level))
		return
	}
	s.Log.Info(ctx, n.Title, "message", n.Message, "notice", string(n.Level))
}

// Multi fans a notice out to several sinks.
func Multi(sinks ...Sink) Sink {
	return FuncSink(func(n Notice) {
		for _, s := range sinks {
			s.Notify(n)
		}
	})
}
