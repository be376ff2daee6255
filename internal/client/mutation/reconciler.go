// Package mutation applies operator actions (status changes, activation,
// deletion) to the page held by a query controller.
//
// Every action has a Policy. ServerConfirmed actions call the API first and
// touch the local page only after the call succeeded; on failure the page
// is left as it was. LocalOnly actions change the page immediately and make
// no API call: the contract has no route for report or ticket status
// changes, nor for deleting them, so those edits live only until the next
// fetch replaces the page.
package mutation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/adminconsole/internal/client/client"
	"github.com/dmitrijs2005/adminconsole/internal/client/models"
	"github.com/dmitrijs2005/adminconsole/internal/client/notice"
	"github.com/dmitrijs2005/adminconsole/internal/logging"
	"github.com/google/uuid"
)

type Policy int

const (
	ServerConfirmed Policy = iota
	LocalOnly
)

func (p Policy) String() string {
	if p == LocalOnly {
		return "local-only"
	}
	return "server-confirmed"
}

type Action string

const (
	ActionActivate   Action = "activate"
	ActionDeactivate Action = "deactivate"
	ActionBan        Action = "ban"
	ActionSetStatus  Action = "setstatus"
	ActionResolve    Action = "resolve"
	ActionDelete     Action = "delete"
)

var (
	ErrNoPendingDelete = errors.New("no pending delete for this token")
	ErrItemNotFound    = errors.New("item is not on the current page")
	ErrUnsupported     = errors.New("action not supported for this collection")
)

// Target is the page a reconciler edits; *query.Controller implements it.
type Target[T any] interface {
	Kind() models.Kind
	Find(id int64) (T, bool)
	UpdateItems(fn func(items []T) []T)
}

type rule struct {
	policy Policy
	status string
	call   func(ctx context.Context, id int64) error
	done   string
}

type pendingDelete struct {
	token string
	id    int64
}

// Reconciler applies actions to one collection.
type Reconciler[T models.Mutable[T]] struct {
	target Target[T]
	rules  map[Action]rule
	sink   notice.Sink
	log    logging.Logger

	mu      sync.Mutex
	pending *pendingDelete
}

func newReconciler[T models.Mutable[T]](target Target[T], rules map[Action]rule, sink notice.Sink, log logging.Logger) *Reconciler[T] {
	if sink == nil {
		sink = notice.Discard
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Reconciler[T]{
		target: target,
		rules:  rules,
		sink:   sink,
		log:    log.With("kind", string(target.Kind())),
	}
}

// ForAccounts: activation, deactivation and deletion are confirmed by the
// server; banning has no route and is local-only.
func ForAccounts(target Target[models.Account], api client.Client, sink notice.Sink, log logging.Logger) *Reconciler[models.Account] {
	return newReconciler(target, map[Action]rule{
		ActionActivate:   {policy: ServerConfirmed, status: models.AccountActive, call: api.ActivateAccount, done: "Account activated."},
		ActionDeactivate: {policy: ServerConfirmed, status: models.AccountInactive, call: api.DeactivateAccount, done: "Account deactivated."},
		ActionBan:        {policy: LocalOnly, status: models.AccountBanned, done: "Account banned."},
		ActionDelete:     {policy: ServerConfirmed, call: api.DeleteAccount, done: "Account deleted."},
	}, sink, log)
}

func ForReports(target Target[models.Report], sink notice.Sink, log logging.Logger) *Reconciler[models.Report] {
	return newReconciler(target, map[Action]rule{
		ActionSetStatus: {policy: LocalOnly, done: "Report status updated."},
		ActionResolve:   {policy: LocalOnly, status: models.ReportResolved, done: "Report resolved."},
		ActionDelete:    {policy: LocalOnly, done: "Report deleted."},
	}, sink, log)
}

func ForTickets(target Target[models.Ticket], sink notice.Sink, log logging.Logger) *Reconciler[models.Ticket] {
	return newReconciler(target, map[Action]rule{
		ActionSetStatus: {policy: LocalOnly, done: "Ticket status updated."},
		ActionResolve:   {policy: LocalOnly, status: models.TicketResolved, done: "Ticket marked as answered."},
		ActionDelete:    {policy: LocalOnly, done: "Message deleted."},
	}, sink, log)
}

// Policy reports how action is reconciled; ok is false when unsupported.
func (r *Reconciler[T]) Policy(action Action) (Policy, bool) {
	rl, ok := r.rules[action]
	return rl.policy, ok
}

// Actions lists the supported actions.
func (r *Reconciler[T]) Actions() []Action {
	out := make([]Action, 0, len(r.rules))
	for _, a := range []Action{ActionActivate, ActionDeactivate, ActionBan, ActionSetStatus, ActionResolve, ActionDelete} {
		if _, ok := r.rules[a]; ok {
			out = append(out, a)
		}
	}
	return out
}

// Apply runs a fixed-status action (activate, deactivate, ban, resolve).
func (r *Reconciler[T]) Apply(ctx context.Context, action Action, id int64) error {
	rl, ok := r.rules[action]
	if !ok || rl.status == "" {
		return fmt.Errorf("%s on %s: %w", action, r.target.Kind(), ErrUnsupported)
	}
	return r.transition(ctx, action, rl, id, rl.status)
}

// SetStatus moves item id to the given status label or server code.
func (r *Reconciler[T]) SetStatus(ctx context.Context, id int64, status string) error {
	rl, ok := r.rules[ActionSetStatus]
	if !ok {
		return fmt.Errorf("%s on %s: %w", ActionSetStatus, r.target.Kind(), ErrUnsupported)
	}
	label, err := models.ParseStatus(r.target.Kind(), status)
	if err != nil || label == models.StatusAll {
		return &client.ValidationError{Field: "status", Message: fmt.Sprintf("%q is not a %s status", status, r.target.Kind())}
	}
	return r.transition(ctx, ActionSetStatus, rl, id, label)
}

func (r *Reconciler[T]) transition(ctx context.Context, action Action, rl rule, id int64, status string) error {
	if _, ok := r.target.Find(id); !ok {
		return fmt.Errorf("%s %d: %w", action, id, ErrItemNotFound)
	}

	if rl.policy == ServerConfirmed {
		if err := rl.call(ctx, id); err != nil {
			r.fail(ctx, action, id, err)
			return err
		}
	}

	r.target.UpdateItems(func(items []T) []T {
		for i := range items {
			if items[i].ItemID() == id {
				items[i] = items[i].WithStatus(status)
			}
		}
		return items
	})

	r.log.Info(ctx, "item updated", "action", string(action), "id", id, "status", status, "policy", rl.policy.String())
	r.sink.Notify(notice.Notice{Level: notice.Success, Title: "Success", Message: rl.done})
	return nil
}

func (r *Reconciler[T]) fail(ctx context.Context, action Action, id int64, err error) {
	r.log.Warn(ctx, "action failed", "action", string(action), "id", id, "error", err)
	r.sink.Notify(notice.Notice{
		Level:   notice.Error,
		Title:   "Error",
		Message: fmt.Sprintf("%s %s %d failed: %s", action, r.target.Kind(), id, client.UserMessage(err)),
	})
}

// RequestDelete records a pending delete for id and returns the token that
// ConfirmDelete expects. A new request replaces the previous one.
func (r *Reconciler[T]) RequestDelete(id int64) (string, error) {
	if _, ok := r.rules[ActionDelete]; !ok {
		return "", fmt.Errorf("%s on %s: %w", ActionDelete, r.target.Kind(), ErrUnsupported)
	}
	if _, ok := r.target.Find(id); !ok {
		return "", fmt.Errorf("%s %d: %w", ActionDelete, id, ErrItemNotFound)
	}

	token := uuid.NewString()
	r.mu.Lock()
	r.pending = &pendingDelete{token: token, id: id}
	r.mu.Unlock()
	return token, nil
}

// PendingDelete returns the id awaiting confirmation.
func (r *Reconciler[T]) PendingDelete() (int64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending == nil {
		return 0, false
	}
	return r.pending.id, true
}

// CancelDelete drops the pending delete without side effects.
func (r *Reconciler[T]) CancelDelete() {
	r.mu.Lock()
	r.pending = nil
	r.mu.Unlock()
}

// ConfirmDelete performs the pending delete identified by token. The
// pending entry is consumed whether or not the delete succeeds.
func (r *Reconciler[T]) ConfirmDelete(ctx context.Context, token string) error {
	r.mu.Lock()
	p := r.pending
	if p == nil || p.token != token {
		r.mu.Unlock()
		return ErrNoPendingDelete
	}
	r.pending = nil
	r.mu.Unlock()

	rl := r.rules[ActionDelete]
	if rl.policy == ServerConfirmed {
		if err := rl.call(ctx, p.id); err != nil {
			r.fail(ctx, ActionDelete, p.id, err)
			return err
		}
	}

	r.target.UpdateItems(func(items []T) []T {
		out := items[:0]
		for _, it := range items {
			if it.ItemID() != p.id {
				out = append(out, it)
			}
		}
		return out
	})

	r.log.Info(ctx, "item deleted", "id", p.id, "policy", rl.policy.String())
	r.sink.Notify(notice.Notice{Level: notice.Success, Title: "Success", Message: rl.done})
	return nil
}
