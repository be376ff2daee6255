package client

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/adminconsole/internal/client/models"
)

// Client is the admin API contract consumed by the console.
type Client interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Register(ctx context.Context, req RegisterRequest) error
	UpdateUser(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error

	ListAccounts(ctx context.Context, q ListQuery) (models.Page[models.Account], error)
	ActivateAccount(ctx context.Context, id int64) error
	DeactivateAccount(ctx context.Context, id int64) error
	DeleteAccount(ctx context.Context, id int64) error

	ListReports(ctx context.Context, q ListQuery) (models.Page[models.Report], error)
	ListTickets(ctx context.Context, q ListQuery) (models.Page[models.Ticket], error)

	Stats(ctx context.Context) (*models.Stats, error)
	SystemInfo(ctx context.Context) (*models.SystemInfo, error)
	ResetDatabase(ctx context.Context, confirm string) (*models.ResetResult, error)
	PurgeUsers(ctx context.Context) (*models.PurgeResult, error)

	// SetToken installs the bearer token sent with every authorized call.
	SetToken(token string)
	ClearToken()
	Token() string
}

type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type RegisterRequest struct {
	Name     string `json:"nome"`
	Email    string `json:"email"`
	Password string `json:"senha"`
	Type     string `json:"tipo"`
}

// ListQuery selects one page of a collection. Status and Reference are
// already in server vocabulary; empty values are not sent.
type ListQuery struct {
	Page      int
	Limit     int
	Search    string
	Status    string
	Reference string
}

// Values encodes q as query parameters.
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("limit", strconv.Itoa(q.Limit))
	if s := strings.TrimSpace(q.Search); s != "" {
		v.Set("busca", s)
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.Reference != "" {
		v.Set("tipo", q.Reference)
	}
	return v
}
