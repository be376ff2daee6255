// Package services contains the application services of the admin console.
// This file defines the session manager: login, registration, profile
// update, account deletion, logout and the startup restore from the
// credential store.
package services

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/adminconsole/internal/client/client"
	"github.com/dmitrijs2005/adminconsole/internal/client/credentials"
	"github.com/dmitrijs2005/adminconsole/internal/client/models"
	"github.com/dmitrijs2005/adminconsole/internal/common"
	"github.com/dmitrijs2005/adminconsole/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// SessionManager owns the process-wide Session. It is the only writer of
// the credential store and of the API client's bearer token.
type SessionManager struct {
	client client.Client
	store  credentials.Store
	log    logging.Logger

	// writeMu pairs every credential store write with the session swap it
	// belongs to, so the stored token and user always describe one session.
	writeMu sync.Mutex

	mu        sync.Mutex
	session   models.Session
	loading   bool
	listeners map[int]func(models.Session)
	nextID    int
}

// NewSessionManager returns a manager in the loading state; call Init.
func NewSessionManager(c client.Client, store credentials.Store, log logging.Logger) *SessionManager {
	return &SessionManager{
		client:    c,
		store:     store,
		log:       log,
		loading:   true,
		listeners: make(map[int]func(models.Session)),
	}
}

// Init restores the session from the credential store without any network
// call. Partial or corrupt entries are cleared and the session starts
// unauthenticated.
func (m *SessionManager) Init(ctx context.Context) error {
	restored, err := m.readStore(ctx)
	if err != nil {
		m.log.Warn(ctx, "credential store read failed", "error", err)
	}

	m.mu.Lock()
	m.loading = false
	if restored.Authenticated() {
		m.session = restored
		m.client.SetToken(restored.Token)
	} else {
		m.session = models.Session{}
		m.client.ClearToken()
	}
	snap := m.session.Clone()
	m.mu.Unlock()

	if snap.Authenticated() {
		m.log.Info(ctx, "session restored", "user_id", snap.User.ID, "email", snap.User.Email)
	} else {
		m.log.Debug(ctx, "no stored session")
	}
	m.notify(snap)
	return err
}

func (m *SessionManager) readStore(ctx context.Context) (models.Session, error) {
	token, err := m.store.Get(ctx, common.CredentialTokenKey)
	if err != nil {
		return models.Session{}, err
	}
	rawUser, err := m.store.Get(ctx, common.CredentialUserKey)
	if err != nil {
		return models.Session{}, err
	}
	if len(token) == 0 && len(rawUser) == 0 {
		return models.Session{}, nil
	}

	var user models.User
	if len(token) == 0 || len(rawUser) == 0 || json.Unmarshal(rawUser, &user) != nil {
		m.log.Warn(ctx, "discarding incomplete stored credentials")
		if err := m.store.Clear(ctx, common.CredentialTokenKey, common.CredentialUserKey); err != nil {
			return models.Session{}, err
		}
		return models.Session{}, nil
	}
	return models.Session{User: &user, Token: string(token)}, nil
}

// Loading is true until Init has completed.
func (m *SessionManager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Current returns a copy of the session.
func (m *SessionManager) Current() models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Clone()
}

// Subscribe registers fn to be called after every session transition.
func (m *SessionManager) Subscribe(fn func(models.Session)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

func (m *SessionManager) notify(s models.Session) {
	m.mu.Lock()
	fns := make([]func(models.Session), 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(s.Clone())
	}
}

// publish swaps the session and the bearer token in one critical section.
func (m *SessionManager) publish(s models.Session) {
	m.mu.Lock()
	m.session = s
	if s.Authenticated() {
		m.client.SetToken(s.Token)
	} else {
		m.client.ClearToken()
	}
	snap := m.session.Clone()
	m.mu.Unlock()

	m.notify(snap)
}

// Login authenticates against the API and persists the credentials. On any
// failure the session stays unauthenticated.
func (m *SessionManager) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, client.Required("email")
	}
	if password == "" {
		return nil, client.Required("password")
	}

	res, err := m.client.Login(ctx, email, password)
	if err != nil {
		m.log.Info(ctx, "login failed", "email", email, "error", err)
		return nil, &client.AuthError{Err: err}
	}

	rawUser, err := json.Marshal(res.User)
	if err != nil {
		return nil, &client.AuthError{Err: err}
	}
	m.writeMu.Lock()
	err = m.store.SaveAll(ctx, map[string][]byte{
		common.CredentialTokenKey: []byte(res.Token),
		common.CredentialUserKey:  rawUser,
	})
	if err != nil {
		m.writeMu.Unlock()
		m.log.Error(ctx, "persisting credentials failed", "error", err)
		return nil, &client.AuthError{Err: err}
	}
	m.publish(models.Session{User: res.User, Token: res.Token})
	m.writeMu.Unlock()
	m.log.Info(ctx, "logged in", "user_id", res.User.ID, "role", res.User.Role)

	u := *res.User
	return &u, nil
}

// Register creates the account and then logs in with the same credentials.
func (m *SessionManager) Register(ctx context.Context, name, email, password, userType string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	switch {
	case name == "":
		return nil, client.Required("name")
	case email == "":
		return nil, client.Required("email")
	case password == "":
		return nil, client.Required("password")
	}

	if userType == "" {
		userType = models.UserTypeCandidate
	}
	switch userType {
	case models.UserTypeCandidate, models.UserTypeCompany:
	default:
		return nil, &client.ValidationError{Field: "type", Message: "must be usuario or empresa"}
	}

	req := client.RegisterRequest{Name: name, Email: email, Password: password, Type: userType}
	if err := m.client.Register(ctx, req); err != nil {
		return nil, err
	}
	m.log.Info(ctx, "registered", "email", email, "type", userType)

	return m.Login(ctx, email, password)
}

// UpdateProfile sends upd for the current user and replaces the stored
// record with the server's answer. Without a session it does nothing. If the
// session changed while the request was in flight, the server's answer is
// returned but neither the store nor the session is touched.
func (m *SessionManager) UpdateProfile(ctx context.Context, upd models.UserUpdate) (*models.User, error) {
	cur := m.Current()
	if !cur.Authenticated() {
		m.log.Debug(ctx, "profile update ignored without session")
		return nil, nil
	}
	if upd.Empty() {
		return nil, &client.ValidationError{Field: "profile", Message: "nothing to update"}
	}

	user, err := m.client.UpdateUser(ctx, cur.User.ID, upd)
	if err != nil {
		return nil, err
	}

	rawUser, err := json.Marshal(user)
	if err != nil {
		return nil, err
	}

	m.writeMu.Lock()
	if m.Current().Token != cur.Token {
		m.writeMu.Unlock()
		m.log.Info(ctx, "session changed during profile update, stored user kept", "user_id", user.ID)
		u := *user
		return &u, nil
	}
	if err := m.store.Set(ctx, common.CredentialUserKey, rawUser); err != nil {
		m.writeMu.Unlock()
		return nil, err
	}
	m.publish(models.Session{User: user, Token: cur.Token})
	m.writeMu.Unlock()
	m.log.Info(ctx, "profile updated", "user_id", user.ID)

	u := *user
	return &u, nil
}

// DeleteAccount deletes the current user on the server and logs out.
// Without a session it does nothing.
func (m *SessionManager) DeleteAccount(ctx context.Context) error {
	cur := m.Current()
	if !cur.Authenticated() {
		return nil
	}
	if err := m.client.DeleteUser(ctx, cur.User.ID); err != nil {
		return err
	}
	m.log.Info(ctx, "account deleted", "user_id", cur.User.ID)
	m.Logout(ctx)
	return nil
}

// Logout clears the session, the stored credentials and the bearer token.
// Store failures are logged; the in-memory session is cleared regardless.
func (m *SessionManager) Logout(ctx context.Context) {
	m.writeMu.Lock()
	if err := m.store.Clear(ctx, common.CredentialTokenKey, common.CredentialUserKey); err != nil {
		m.log.Warn(ctx, "clearing stored credentials failed", "error", err)
	}
	m.publish(models.Session{})
	m.writeMu.Unlock()
	m.log.Info(ctx, "logged out")
}

// TokenExpiry reads the exp claim of the current token without verifying
// its signature. ok is false when there is no token or no exp claim.
func (m *SessionManager) TokenExpiry() (exp time.Time, ok bool) {
	tok := m.Current().Token
	if tok == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return time.Time{}, false
	}
	t, err := claims.GetExpirationTime()
	if err != nil || t == nil {
		return time.Time{}, false
	}
	return t.Time, true
}
