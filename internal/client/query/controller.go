package query

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/adminconsole/internal/client/client"
	"github.com/dmitrijs2005/adminconsole/internal/client/models"
	"github.com/dmitrijs2005/adminconsole/internal/client/notice"
	"github.com/dmitrijs2005/adminconsole/internal/logging"
)

// DefaultLimit is the page size used when Options.Limit is not set.
const DefaultLimit = 12

// SessionSource is the read side of the session manager.
type SessionSource interface {
	Loading() bool
	Current() models.Session
	Subscribe(fn func(models.Session)) (unsubscribe func())
}

// Fetcher loads one page of a collection.
type Fetcher[T any] func(ctx context.Context, q client.ListQuery) (models.Page[T], error)

// State is a snapshot of a controller.
type State[T any] struct {
	Kind       models.Kind
	Items      []T
	Total      int
	Page       int
	Limit      int
	Search     string
	Status     string
	Reference  string
	Loading    bool
	Generation uint64
}

type Options struct {
	Limit int
	Sink  notice.Sink
	Log   logging.Logger
}

// Controller holds the QueryState of one collection.
type Controller[T models.Item] struct {
	kind    models.Kind
	fetch   Fetcher[T]
	session SessionSource
	sink    notice.Sink
	log     logging.Logger

	mu          sync.Mutex
	state       State[T]
	err         error
	discarded   int
	authed      bool
	token       string
	ctx         context.Context
	unsubscribe func()

	wg sync.WaitGroup
}

// New returns a detached controller; call Attach to start fetching.
func New[T models.Item](kind models.Kind, fetch Fetcher[T], session SessionSource, opts Options) *Controller[T] {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Sink == nil {
		opts.Sink = notice.Discard
	}
	if opts.Log == nil {
		opts.Log = logging.Nop()
	}
	return &Controller[T]{
		kind:    kind,
		fetch:   fetch,
		session: session,
		sink:    opts.Sink,
		log:     opts.Log.With("kind", string(kind)),
		state: State[T]{
			Kind:   kind,
			Page:   1,
			Limit:  opts.Limit,
			Status: models.StatusAll,
		},
	}
}

func NewAccounts(c client.Client, s SessionSource, opts Options) *Controller[models.Account] {
	return New(models.KindAccounts, c.ListAccounts, s, opts)
}

func NewReports(c client.Client, s SessionSource, opts Options) *Controller[models.Report] {
	return New(models.KindReports, c.ListReports, s, opts)
}

func NewTickets(c client.Client, s SessionSource, opts Options) *Controller[models.Ticket] {
	return New(models.KindTickets, c.ListTickets, s, opts)
}

func (c *Controller[T]) Kind() models.Kind { return c.kind }

// Attach subscribes to session transitions and fetches right away when the
// session is already authenticated. ctx bounds every fetch.
func (c *Controller[T]) Attach(ctx context.Context) {
	c.mu.Lock()
	if c.unsubscribe != nil {
		c.mu.Unlock()
		return
	}
	c.ctx = ctx
	c.unsubscribe = func() {}
	c.mu.Unlock()

	unsubscribe := c.session.Subscribe(c.onSession)

	c.mu.Lock()
	c.unsubscribe = unsubscribe
	c.mu.Unlock()

	if !c.session.Loading() {
		c.onSession(c.session.Current())
	}
}

// Detach stops following the session and drops in-flight responses.
func (c *Controller[T]) Detach() {
	c.mu.Lock()
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.authed = false
	c.state.Generation++
	c.state.Loading = false
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (c *Controller[T]) onSession(s models.Session) {
	c.mu.Lock()
	if !s.Authenticated() {
		wasAuthed := c.authed
		c.authed = false
		c.token = ""
		c.state.Generation++
		c.state.Items = nil
		c.state.Total = 0
		c.state.Loading = false
		c.err = nil
		c.mu.Unlock()
		if wasAuthed {
			c.log.Debug(c.ctx, "session ended, page cleared")
		}
		return
	}

	if c.authed && c.token == s.Token {
		c.mu.Unlock()
		return
	}
	c.authed = true
	c.token = s.Token
	c.startLocked()
	c.mu.Unlock()
}

// startLocked issues a fetch for the current inputs. c.mu must be held.
func (c *Controller[T]) startLocked() {
	if !c.authed {
		return
	}
	c.state.Generation++
	c.state.Loading = true
	gen := c.state.Generation
	q := c.listQueryLocked()
	ctx := c.ctx

	c.log.Debug(ctx, "fetch issued", "generation", gen, "page", q.Page, "limit", q.Limit)

	c.wg.Add(1)
	go c.run(ctx, gen, q)
}

func (c *Controller[T]) listQueryLocked() client.ListQuery {
	q := client.ListQuery{
		Page:   c.state.Page,
		Limit:  c.state.Limit,
		Search: c.state.Search,
	}
	if code, ok := (models.StatusFilter{Kind: c.kind, Label: c.state.Status}).ServerCode(); ok {
		q.Status = code
	}
	if c.state.Reference != "" && c.state.Reference != models.StatusAll {
		q.Reference = c.state.Reference
	}
	return q
}

func (c *Controller[T]) run(ctx context.Context, gen uint64, q client.ListQuery) {
	defer c.wg.Done()

	page, err := c.fetch(ctx, q)

	c.mu.Lock()
	if gen != c.state.Generation {
		c.discarded++
		c.mu.Unlock()
		c.log.Debug(ctx, "stale response discarded", "generation", gen)
		return
	}
	c.state.Loading = false
	if err != nil {
		c.err = err
		c.mu.Unlock()
		c.log.Warn(ctx, "fetch failed", "generation", gen, "error", err)
		c.sink.Notify(notice.Notice{
			Level:   notice.Error,
			Title:   "Error",
			Message: fmt.Sprintf("could not load %s: %s", c.kind, client.UserMessage(err)),
		})
		return
	}

	items := page.Items
	if len(items) > c.state.Limit {
		c.log.Warn(ctx, "server returned more items than the limit", "got", len(items), "limit", c.state.Limit)
		items = items[:c.state.Limit]
	}
	c.err = nil
	c.state.Items = items
	c.state.Total = page.Total
	c.mu.Unlock()

	c.log.Debug(ctx, "page applied", "generation", gen, "items", len(items), "total", page.Total)
}

// Wait blocks until every issued fetch has returned.
func (c *Controller[T]) Wait() { c.wg.Wait() }

// State returns a snapshot; Items is a copy.
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Items = append([]T(nil), c.state.Items...)
	return s
}

// Err is the failure of the latest applied fetch, nil after a success.
func (c *Controller[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Discarded counts responses dropped because a newer fetch had started.
func (c *Controller[T]) Discarded() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.discarded
}

func (c *Controller[T]) HasNext() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Page*c.state.Limit < c.state.Total
}

func (c *Controller[T]) HasPrev() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Page > 1
}

// SetPage moves to page n (minimum 1).
func (c *Controller[T]) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Page == n {
		return
	}
	c.state.Page = n
	c.startLocked()
}

// SetLimit changes the page size; non-positive values are ignored.
func (c *Controller[T]) SetLimit(n int) {
	if n <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Limit == n {
		return
	}
	c.state.Limit = n
	c.startLocked()
}

// SetSearch changes the search term and goes back to page 1.
func (c *Controller[T]) SetSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Search == term {
		return
	}
	c.state.Search = term
	c.state.Page = 1
	c.startLocked()
}

// SetStatus changes the status filter and goes back to page 1. label may
// be a status label, a server code or "Todos".
func (c *Controller[T]) SetStatus(label string) error {
	status, err := models.ParseStatus(c.kind, label)
	if err != nil {
		return &client.ValidationError{Field: "status", Message: err.Error()}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Status == status {
		return nil
	}
	c.state.Status = status
	c.state.Page = 1
	c.startLocked()
	return nil
}

// SetReference filters reports by reference type and goes back to page 1.
func (c *Controller[T]) SetReference(code string) error {
	if c.kind != models.KindReports {
		return &client.ValidationError{Field: "reference", Message: fmt.Sprintf("not supported for %s", c.kind)}
	}
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" || code == strings.ToLower(models.StatusAll) {
		code = ""
	} else if _, ok := models.ReferenceTypes[code]; !ok {
		return &client.ValidationError{Field: "reference", Message: fmt.Sprintf("unknown reference type %q", code)}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Reference == code {
		return nil
	}
	c.state.Reference = code
	c.state.Page = 1
	c.startLocked()
	return nil
}

// NextPage advances when a next page exists.
func (c *Controller[T]) NextPage() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Page*c.state.Limit >= c.state.Total {
		return false
	}
	c.state.Page++
	c.startLocked()
	return true
}

// PrevPage goes back when the current page is not the first.
func (c *Controller[T]) PrevPage() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Page <= 1 {
		return false
	}
	c.state.Page--
	c.startLocked()
	return true
}

// Refresh re-issues the fetch for the current inputs.
func (c *Controller[T]) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startLocked()
}

// Find returns the item with id on the current page.
func (c *Controller[T]) Find(id int64) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.state.Items {
		if it.ItemID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// UpdateItems replaces the page with fn's result. fn receives a copy.
// Removed items are subtracted from Total.
func (c *Controller[T]) UpdateItems(fn func(items []T) []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	before := len(c.state.Items)
	next := fn(append([]T(nil), c.state.Items...))
	if removed := before - len(next); removed > 0 {
		c.state.Total = max(c.state.Total-removed, 0)
	}
	c.state.Items = next
}
