// Package store is the in-memory data set behind the development backend:
// login-capable users (which double as administered accounts), abuse reports,
// support tickets and a short activity feed.
package store

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/adminconsole/internal/client/models"
	"github.com/dmitrijs2005/adminconsole/internal/common"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactive           = errors.New("account is not active")
	ErrValidation         = errors.New("validation error")
)

// Roles carried in issued tokens.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// DateLayout is the timestamp format used in every record.
const DateLayout = "2006-01-02 15:04"

const activityLimit = 10

// User is an account together with its credential.
type User struct {
	models.Account
	Role         string
	PasswordHash []byte
}

// Public is the user record returned by the auth and profile routes.
func (u User) Public() models.User {
	return models.User{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, Type: u.Type}
}

// Filter selects one page of a collection. Status is a server code
// (e.g. "em_atendimento"); Reference only applies to reports.
type Filter struct {
	Page      int
	Limit     int
	Search    string
	Status    string
	Reference string
}

func (f Filter) bounds(n int) (int, int) {
	page, limit := f.Page, f.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 12
	}
	start := (page - 1) * limit
	if start > n {
		start = n
	}
	end := start + limit
	if end > n {
		end = n
	}
	return start, end
}

// Option customizes a Store.
type Option func(*Store)

// WithBcryptCost overrides the password hashing cost. Tests use
// bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Store) { s.cost = cost }
}

// WithClock overrides the time source used for new records.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	users    map[int64]*User
	reports  []models.Report
	tickets  []models.Ticket
	activity []models.Activity
	nextID   int64
	cost     int
	now      func() time.Time
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		users:  make(map[int64]*User),
		nextID: 1,
		cost:   bcrypt.DefaultCost,
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) stamp() string {
	return s.now().Format(DateLayout)
}

func (s *Store) hash(password string) ([]byte, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return h, nil
}

func (s *Store) byEmailLocked(email string) *User {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u
		}
	}
	return nil
}

func (s *Store) logLocked(kind, description string) {
	entry := models.Activity{Type: kind, Description: description, Date: s.stamp()}
	s.activity = append([]models.Activity{entry}, s.activity...)
	if len(s.activity) > activityLimit {
		s.activity = s.activity[:activityLimit]
	}
}

func (s *Store) insertLocked(u *User) {
	if u.ID == 0 {
		u.ID = s.nextID
	}
	if u.ID >= s.nextID {
		s.nextID = u.ID + 1
	}
	s.users[u.ID] = u
}

// Authenticate checks an email/password pair. Inactive and banned accounts
// cannot log in.
func (s *Store) Authenticate(email, password string) (User, error) {
	s.mu.RLock()
	u := s.byEmailLocked(strings.TrimSpace(email))
	var snapshot User
	if u != nil {
		snapshot = *u
	}
	s.mu.RUnlock()

	if u == nil {
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(snapshot.PasswordHash, []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	if snapshot.Status != models.AccountActive {
		return User{}, ErrInactive
	}
	return snapshot, nil
}

// Register creates an active account. An empty type means a candidate.
// Admin accounts come only from Seed and Reset.
func (s *Store) Register(name, email, password, kind string) (User, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return User{}, fmt.Errorf("%w: nome, email and senha are required", ErrValidation)
	}
	if kind == "" {
		kind = models.UserTypeCandidate
	}
	switch kind {
	case models.UserTypeCandidate, models.UserTypeCompany:
	case models.UserTypeAdmin:
		return User{}, fmt.Errorf("%w: tipo %q cannot be self-registered", ErrValidation, kind)
	default:
		return User{}, fmt.Errorf("%w: unknown tipo %q", ErrValidation, kind)
	}

	hash, err := s.hash(password)
	if err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.byEmailLocked(email) != nil {
		return User{}, ErrAlreadyExists
	}
	u := &User{
		Account: models.Account{
			Name:      name,
			Email:     email,
			Type:      kind,
			Status:    models.AccountActive,
			CreatedAt: s.stamp(),
		},
		Role:         RoleUser,
		PasswordHash: hash,
	}
	s.insertLocked(u)
	s.logLocked("usuario", "Novo usuário cadastrado: "+name)
	return *u, nil
}

// User returns the user with the given id.
func (s *Store) User(id int64) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return *u, nil
}

// UpdateUser applies the non-nil fields of upd.
func (s *Store) UpdateUser(id int64, upd models.UserUpdate) (User, error) {
	var hash []byte
	if upd.Password != nil {
		if *upd.Password == "" {
			return User{}, fmt.Errorf("%w: senha must not be empty", ErrValidation)
		}
		h, err := s.hash(*upd.Password)
		if err != nil {
			return User{}, err
		}
		hash = h
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	if upd.Email != nil {
		email := strings.TrimSpace(*upd.Email)
		if email == "" {
			return User{}, fmt.Errorf("%w: email must not be empty", ErrValidation)
		}
		if other := s.byEmailLocked(email); other != nil && other.ID != id {
			return User{}, ErrAlreadyExists
		}
		u.Email = email
	}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return User{}, fmt.Errorf("%w: nome must not be empty", ErrValidation)
		}
		u.Name = name
	}
	if hash != nil {
		u.PasswordHash = hash
	}
	return *u, nil
}

// DeleteUser removes an account.
func (s *Store) DeleteUser(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(id, true)
}

// SetAccountStatus changes the status of a non-admin account.
func (s *Store) SetAccountStatus(id int64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok || u.Role == RoleAdmin {
		return ErrNotFound
	}
	u.Status = status
	s.logLocked("usuario", fmt.Sprintf("Conta %s: %s", strings.ToLower(status), u.Name))
	return nil
}

// DeleteAccount removes a non-admin account.
func (s *Store) DeleteAccount(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(id, false)
}

func (s *Store) deleteLocked(id int64, allowAdmin bool) error {
	u, ok := s.users[id]
	if !ok || (!allowAdmin && u.Role == RoleAdmin) {
		return ErrNotFound
	}
	delete(s.users, id)
	s.logLocked("usuario", "Conta removida: "+u.Name)
	return nil
}

func matches(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}

func statusLabel(kind models.Kind, code string) (string, bool) {
	if code == "" {
		return "", true
	}
	return models.LabelForCode(kind, code)
}

// ListAccounts pages non-admin accounts ordered by id. Search matches name
// and email, Status is an account status code.
func (s *Store) ListAccounts(f Filter) (models.Page[models.Account], error) {
	label, ok := statusLabel(models.KindAccounts, f.Status)
	if !ok {
		return models.Page[models.Account]{}, fmt.Errorf("%w: unknown status %q", ErrValidation, f.Status)
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))

	s.mu.RLock()
	all := make([]models.Account, 0, len(s.users))
	for _, u := range s.users {
		if u.Role == RoleAdmin {
			continue
		}
		if label != "" && u.Status != label {
			continue
		}
		if !matches(search, u.Name, u.Email) {
			continue
		}
		all = append(all, u.Account)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	start, end := f.bounds(len(all))
	return models.Page[models.Account]{Items: all[start:end], Total: len(all)}, nil
}

// ListReports pages reports. Search matches description, reporter name and
// reason, Reference filters on the referenced entity type.
func (s *Store) ListReports(f Filter) (models.Page[models.Report], error) {
	label, ok := statusLabel(models.KindReports, f.Status)
	if !ok {
		return models.Page[models.Report]{}, fmt.Errorf("%w: unknown status %q", ErrValidation, f.Status)
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))

	s.mu.RLock()
	all := make([]models.Report, 0, len(s.reports))
	for _, r := range s.reports {
		if label != "" && r.Status != label {
			continue
		}
		if f.Reference != "" && r.ReferenceType != f.Reference {
			continue
		}
		if !matches(search, r.Description, r.ReporterName, r.Reason) {
			continue
		}
		all = append(all, r)
	}
	s.mu.RUnlock()

	start, end := f.bounds(len(all))
	return models.Page[models.Report]{Items: all[start:end], Total: len(all)}, nil
}

// ListTickets pages support tickets. Search matches name, email and message.
func (s *Store) ListTickets(f Filter) (models.Page[models.Ticket], error) {
	label, ok := statusLabel(models.KindTickets, f.Status)
	if !ok {
		return models.Page[models.Ticket]{}, fmt.Errorf("%w: unknown status %q", ErrValidation, f.Status)
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))

	s.mu.RLock()
	all := make([]models.Ticket, 0, len(s.tickets))
	for _, t := range s.tickets {
		if label != "" && t.Status != label {
			continue
		}
		if !matches(search, t.Name, t.Email, t.Message) {
			continue
		}
		all = append(all, t)
	}
	s.mu.RUnlock()

	start, end := f.bounds(len(all))
	return models.Page[models.Ticket]{Items: all[start:end], Total: len(all)}, nil
}

// Stats summarizes the data set for the dashboard.
func (s *Store) Stats() models.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st models.Stats
	for _, u := range s.users {
		if u.Role == RoleAdmin {
			continue
		}
		st.Accounts.Total++
		if u.Status == models.AccountActive {
			st.Accounts.Active++
		}
		if u.Type == models.UserTypeCompany {
			st.Accounts.Companies++
		}
	}
	for _, r := range s.reports {
		st.Reports.Total++
		switch r.Status {
		case models.ReportPending:
			st.Reports.Pending++
		case models.ReportResolved:
			st.Reports.Resolved++
		}
	}
	st.Activity = append([]models.Activity{}, s.activity...)
	return st
}

// PurgeInactive removes every inactive non-admin account and returns how
// many were removed.
func (s *Store) PurgeInactive() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, u := range s.users {
		if u.Role != RoleAdmin && u.Status == models.AccountInactive {
			delete(s.users, id)
			removed++
		}
	}
	if removed > 0 {
		s.logLocked("sistema", fmt.Sprintf("%d contas inativas removidas", removed))
	}
	return removed
}

// Reset wipes the data set and creates a single administrator with a fresh
// random password, which is returned.
func (s *Store) Reset(adminEmail string) (string, error) {
	password, err := common.MakeRandHexString(6)
	if err != nil {
		return "", fmt.Errorf("generate password: %w", err)
	}
	hash, err := s.hash(password)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = make(map[int64]*User)
	s.reports = nil
	s.tickets = nil
	s.activity = nil
	s.nextID = 1
	s.insertLocked(s.adminLocked(adminEmail, hash))
	s.logLocked("sistema", "Banco de dados reiniciado")
	return password, nil
}

func (s *Store) adminLocked(email string, hash []byte) *User {
	return &User{
		Account: models.Account{
			Name:      "Administrador",
			Email:     email,
			Type:      models.UserTypeAdmin,
			Status:    models.AccountActive,
			CreatedAt: s.stamp(),
		},
		Role:         RoleAdmin,
		PasswordHash: hash,
	}
}
