// Package clienttest provides a scriptable in-memory client.Client for
// tests of the packages built on the API client.
package clienttest

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/adminconsole/internal/client/client"
	"github.com/dmitrijs2005/adminconsole/internal/client/models"
)

// Fake records every call and delegates to the matching hook when set.
// Unset hooks succeed with zero values.
type Fake struct {
	mu     sync.Mutex
	token  string
	calls  []string
	tokens []string

	LoginFn         func(ctx context.Context, email, password string) (*client.LoginResult, error)
	RegisterFn      func(ctx context.Context, req client.RegisterRequest) error
	UpdateUserFn    func(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error)
	DeleteUserFn    func(ctx context.Context, id int64) error
	ListAccountsFn  func(ctx context.Context, q client.ListQuery) (models.Page[models.Account], error)
	ActivateFn      func(ctx context.Context, id int64) error
	DeactivateFn    func(ctx context.Context, id int64) error
	DeleteAccountFn func(ctx context.Context, id int64) error
	ListReportsFn   func(ctx context.Context, q client.ListQuery) (models.Page[models.Report], error)
	ListTicketsFn   func(ctx context.Context, q client.ListQuery) (models.Page[models.Ticket], error)
	StatsFn         func(ctx context.Context) (*models.Stats, error)
	SystemInfoFn    func(ctx context.Context) (*models.SystemInfo, error)
	ResetFn         func(ctx context.Context, confirm string) (*models.ResetResult, error)
	PurgeFn         func(ctx context.Context) (*models.PurgeResult, error)
}

var _ client.Client = (*Fake)(nil)

func (f *Fake) record(format string, args ...any) {
	f.mu.Lock()
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	f.mu.Unlock()
}

// Calls returns the recorded calls, e.g. "login a@b.com" or "activate 7".
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Tokens returns every token installed with SetToken or ClearToken ("").
func (f *Fake) Tokens() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.tokens...)
}

func (f *Fake) SetToken(token string) {
	f.mu.Lock()
	f.token = token
	f.tokens = append(f.tokens, token)
	f.mu.Unlock()
}

func (f *Fake) ClearToken() { f.SetToken("") }

func (f *Fake) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *Fake) Login(ctx context.Context, email, password string) (*client.LoginResult, error) {
	f.record("login %s", email)
	if f.LoginFn != nil {
		return f.LoginFn(ctx, email, password)
	}
	return &client.LoginResult{Token: "token-" + email, User: &models.User{ID: 1, Email: email, Role: "admin"}}, nil
}

func (f *Fake) Register(ctx context.Context, req client.RegisterRequest) error {
	f.record("register %s %s", req.Email, req.Type)
	if f.RegisterFn != nil {
		return f.RegisterFn(ctx, req)
	}
	return nil
}

func (f *Fake) UpdateUser(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error) {
	f.record("update user %d", id)
	if f.UpdateUserFn != nil {
		return f.UpdateUserFn(ctx, id, upd)
	}
	return &models.User{ID: id}, nil
}

func (f *Fake) DeleteUser(ctx context.Context, id int64) error {
	f.record("delete user %d", id)
	if f.DeleteUserFn != nil {
		return f.DeleteUserFn(ctx, id)
	}
	return nil
}

func (f *Fake) ListAccounts(ctx context.Context, q client.ListQuery) (models.Page[models.Account], error) {
	f.record("list accounts %s", q.Values().Encode())
	if f.ListAccountsFn != nil {
		return f.ListAccountsFn(ctx, q)
	}
	return models.Page[models.Account]{}, nil
}

func (f *Fake) ActivateAccount(ctx context.Context, id int64) error {
	f.record("activate %d", id)
	if f.ActivateFn != nil {
		return f.ActivateFn(ctx, id)
	}
	return nil
}

func (f *Fake) DeactivateAccount(ctx context.Context, id int64) error {
	f.record("deactivate %d", id)
	if f.DeactivateFn != nil {
		return f.DeactivateFn(ctx, id)
	}
	return nil
}

func (f *Fake) DeleteAccount(ctx context.Context, id int64) error {
	f.record("delete account %d", id)
	if f.DeleteAccountFn != nil {
		return f.DeleteAccountFn(ctx, id)
	}
	return nil
}

func (f *Fake) ListReports(ctx context.Context, q client.ListQuery) (models.Page[models.Report], error) {
	f.record("list reports %s", q.Values().Encode())
	if f.ListReportsFn != nil {
		return f.ListReportsFn(ctx, q)
	}
	return models.Page[models.Report]{}, nil
}

func (f *Fake) ListTickets(ctx context.Context, q client.ListQuery) (models.Page[models.Ticket], error) {
	f.record("list tickets %s", q.Values().Encode())
	if f.ListTicketsFn != nil {
		return f.ListTicketsFn(ctx, q)
	}
	return models.Page[models.Ticket]{}, nil
}

func (f *Fake) Stats(ctx context.Context) (*models.Stats, error) {
	f.record("stats")
	if f.StatsFn != nil {
		return f.StatsFn(ctx)
	}
	return &models.Stats{}, nil
}

func (f *Fake) SystemInfo(ctx context.Context) (*models.SystemInfo, error) {
	f.record("system info")
	if f.SystemInfoFn != nil {
		return f.SystemInfoFn(ctx)
	}
	return &models.SystemInfo{}, nil
}

func (f *Fake) ResetDatabase(ctx context.Context, confirm string) (*models.ResetResult, error) {
	f.record("reset %s", confirm)
	if f.ResetFn != nil {
		return f.ResetFn(ctx, confirm)
	}
	return &models.ResetResult{}, nil
}

func (f *Fake) PurgeUsers(ctx context.Context) (*models.PurgeResult, error) {
	f.record("purge")
	if f.PurgeFn != nil {
		return f.PurgeFn(ctx)
	}
	return &models.PurgeResult{}, nil
}
