package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/adminconsole/internal/client/models"
	"github.com/dmitrijs2005/adminconsole/internal/common"
	"github.com/dmitrijs2005/adminconsole/internal/logging"
	"github.com/google/uuid"
)

// HTTPClient implements Client over JSON/HTTP.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	log     logging.Logger

	mu    sync.RWMutex
	token string
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient returns a client for the API rooted at baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration, log logging.Logger) *HTTPClient {
	if log == nil {
		log = logging.Nop()
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *HTTPClient) ClearToken() { c.SetToken("") }

func (c *HTTPClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type call struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
	out    any
	public bool
}

func (c *HTTPClient) do(ctx context.Context, cl call) error {
	var body io.Reader
	if cl.body != nil {
		b, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", cl.op, err)
		}
		body = bytes.NewReader(b)
	}

	u := c.baseURL + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u, body)
	if err != nil {
		return fmt.Errorf("%s: %w", cl.op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, reqID)
	if !cl.public {
		if tok := c.Token(); tok != "" {
			req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn(ctx, "request failed", "op", cl.op, "request_id", reqID, "error", err)
		return c.mapError(cl.op, 0, "", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.mapError(cl.op, resp.StatusCode, "", err)
	}

	c.log.Debug(ctx, "api call", "op", cl.op, "method", cl.method, "path", cl.path,
		"status", resp.StatusCode, "request_id", reqID)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.mapError(cl.op, resp.StatusCode, serverMessage(raw), nil)
	}

	if cl.out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, cl.out); err != nil {
		return &RequestError{Op: cl.op, Status: resp.StatusCode, Err: fmt.Errorf("%w: %v", ErrBadResponse, err)}
	}
	return nil
}

func (c *HTTPClient) mapError(op string, status int, msg string, err error) error {
	var sentinel error
	switch {
	case err != nil && errors.Is(err, context.Canceled):
		sentinel = err
	case err != nil && status == 0:
		sentinel = fmt.Errorf("%w: %v", ErrUnavailable, err)
	case err != nil:
		sentinel = err
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		sentinel = ErrUnauthorized
	case status == http.StatusNotFound:
		sentinel = ErrNotFound
	case status == http.StatusBadGateway, status == http.StatusServiceUnavailable, status == http.StatusGatewayTimeout:
		sentinel = ErrUnavailable
	default:
		sentinel = fmt.Errorf("unexpected status %d", status)
	}
	return &RequestError{Op: op, Status: status, Message: msg, Err: sentinel}
}

// serverMessage extracts the human-readable text of an error body.
func serverMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &body) != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	in := map[string]string{"email": email, "senha": password}
	var out LoginResult
	if err := c.do(ctx, call{op: "login", method: http.MethodPost, path: "/auth/login", body: in, out: &out, public: true}); err != nil {
		return nil, err
	}
	if out.Token == "" || out.User == nil {
		return nil, &RequestError{Op: "login", Status: http.StatusOK, Err: ErrBadResponse}
	}
	return &out, nil
}

func (c *HTTPClient) Register(ctx context.Context, req RegisterRequest) error {
	return c.do(ctx, call{op: "register", method: http.MethodPost, path: "/auth/register", body: req, public: true})
}

func (c *HTTPClient) UpdateUser(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, call{op: "update user", method: http.MethodPut, path: idPath("/users/%d", id), body: upd, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, call{op: "delete user", method: http.MethodDelete, path: idPath("/users/%d", id)})
}

func (c *HTTPClient) ListAccounts(ctx context.Context, q ListQuery) (models.Page[models.Account], error) {
	var out models.Page[models.Account]
	err := c.do(ctx, call{op: "list accounts", method: http.MethodGet, path: "/admin/usuarios", query: q.Values(), out: &out})
	return out, err
}

func (c *HTTPClient) ActivateAccount(ctx context.Context, id int64) error {
	return c.do(ctx, call{op: "activate account", method: http.MethodPut, path: idPath("/admin/usuarios/%d/ativar", id)})
}

func (c *HTTPClient) DeactivateAccount(ctx context.Context, id int64) error {
	return c.do(ctx, call{op: "deactivate account", method: http.MethodPut, path: idPath("/admin/usuarios/%d/desativar", id)})
}

func (c *HTTPClient) DeleteAccount(ctx context.Context, id int64) error {
	return c.do(ctx, call{op: "delete account", method: http.MethodDelete, path: idPath("/admin/usuarios/%d", id)})
}

func (c *HTTPClient) ListReports(ctx context.Context, q ListQuery) (models.Page[models.Report], error) {
	var out models.Page[models.Report]
	err := c.do(ctx, call{op: "list reports", method: http.MethodGet, path: "/admin/denuncias", query: q.Values(), out: &out})
	return out, err
}

func (c *HTTPClient) ListTickets(ctx context.Context, q ListQuery) (models.Page[models.Ticket], error) {
	var out models.Page[models.Ticket]
	err := c.do(ctx, call{op: "list tickets", method: http.MethodGet, path: "/admin/apoio", query: q.Values(), out: &out})
	return out, err
}

func (c *HTTPClient) Stats(ctx context.Context) (*models.Stats, error) {
	var out models.Stats
	if err := c.do(ctx, call{op: "stats", method: http.MethodGet, path: "/admin/stats/overview", out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) SystemInfo(ctx context.Context) (*models.SystemInfo, error) {
	var out models.SystemInfo
	if err := c.do(ctx, call{op: "system info", method: http.MethodGet, path: "/admin/system/info", out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ResetDatabase(ctx context.Context, confirm string) (*models.ResetResult, error) {
	var out models.ResetResult
	in := map[string]string{"confirm": confirm}
	if err := c.do(ctx, call{op: "reset", method: http.MethodPost, path: "/admin/maintenance/reset", body: in, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) PurgeUsers(ctx context.Context) (*models.PurgeResult, error) {
	var out models.PurgeResult
	if err := c.do(ctx, call{op: "purge users", method: http.MethodPost, path: "/admin/maintenance/purge-users", out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}
