package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/adminconsole/internal/client/models"
	"github.com/dmitrijs2005/adminconsole/internal/common"
	"github.com/dmitrijs2005/adminconsole/internal/devserver/auth"
	"github.com/dmitrijs2005/adminconsole/internal/devserver/store"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = []byte("test-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestEngine(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	s := store.New(store.WithBcryptCost(bcrypt.MinCost))
	require.NoError(t, s.Seed("admin@admin.com", "admin123"))
	h := NewHandler(s, Options{
		Secret:     testSecret,
		TokenTTL:   time.Hour,
		AdminEmail: "admin@admin.com",
		Version:    "1.2.3",
		NodeEnv:    "test",
		Now:        func() time.Time { return time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC) },
	}, zerolog.Nop())
	return NewEngine(h, zerolog.Nop(), false), s
}

func tokenFor(t *testing.T, id int64, role string) string {
	t.Helper()
	tok, err := auth.GenerateToken(id, "x@x", role, testSecret, time.Hour)
	require.NoError(t, err)
	return tok
}

func send(t *testing.T, e *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestLogin(t *testing.T) {
	e, _ := newTestEngine(t)

	w := send(t, e, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "admin@admin.com", "senha": "admin123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[loginResponse](t, w)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "admin", resp.User.Role)

	claims, err := auth.ParseToken(resp.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	w = send(t, e, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "admin@admin.com", "senha": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_credentials", decode[map[string]string](t, w)["error"])

	w = send(t, e, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "pedro@email.com", "senha": store.SamplePassword})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = send(t, e, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "admin@admin.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister(t *testing.T) {
	e, _ := newTestEngine(t)

	body := map[string]string{"nome": "Nova", "email": "nova@x.com", "senha": "pw", "tipo": "empresa"}
	w := send(t, e, http.MethodPost, "/api/auth/register", "", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = send(t, e, http.MethodPost, "/api/auth/register", "", body)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = send(t, e, http.MethodPost, "/api/auth/register", "", map[string]string{"nome": "x", "email": "y@x", "senha": "pw", "tipo": "robot"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_AdminTypeRejected(t *testing.T) {
	e, _ := newTestEngine(t)

	body := map[string]string{"nome": "Mallory", "email": "m@x.com", "senha": "pw", "tipo": "admin"}
	w := send(t, e, http.MethodPost, "/api/auth/register", "", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(t, e, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "m@x.com", "senha": "pw"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware(t *testing.T) {
	e, s := newTestEngine(t)

	w := send(t, e, http.MethodGet, "/api/admin/usuarios", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "missing_token", decode[map[string]string](t, w)["error"])

	w = send(t, e, http.MethodGet, "/api/admin/usuarios", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	expired, err := auth.GenerateToken(6, "admin@admin.com", "admin", testSecret, -time.Minute)
	require.NoError(t, err)
	w = send(t, e, http.MethodGet, "/api/admin/usuarios", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "token_expired", decode[map[string]string](t, w)["error"])

	w = send(t, e, http.MethodGet, "/api/admin/usuarios", tokenFor(t, 1, store.RoleUser), nil)
	assert.Equal(t, http.StatusForbidden, w.Code, "non-admins cannot reach admin routes")

	require.NoError(t, s.SetAccountStatus(4, models.AccountInactive))
	w = send(t, e, http.MethodPut, "/api/users/4", tokenFor(t, 4, store.RoleUser), map[string]string{"nome": "x"})
	assert.Equal(t, http.StatusForbidden, w.Code, "inactive users are rejected")

	w = send(t, e, http.MethodGet, "/api/admin/usuarios", tokenFor(t, 99, store.RoleAdmin), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "token for a deleted user")
}

func TestRequestID(t *testing.T) {
	e, _ := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(common.RequestIDHeaderName, "abc")
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get(common.RequestIDHeaderName))

	w = send(t, e, http.MethodGet, "/healthz", "", nil)
	assert.Len(t, w.Header().Get(common.RequestIDHeaderName), 36)
}

func TestUsersRoutes(t *testing.T) {
	e, s := newTestEngine(t)
	joao := tokenFor(t, 1, store.RoleUser)

	w := send(t, e, http.MethodPut, "/api/users/1", joao, map[string]string{"nome": "João S."})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "João S.", decode[models.User](t, w).Name)

	w = send(t, e, http.MethodPut, "/api/users/4", joao, map[string]string{"nome": "hijack"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = send(t, e, http.MethodPut, "/api/users/abc", joao, map[string]string{"nome": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(t, e, http.MethodPut, "/api/users/1", joao, map[string]string{"email": "ana@email.com"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = send(t, e, http.MethodDelete, "/api/users/1", joao, nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, err := s.User(1)
	assert.ErrorIs(t, err, store.ErrNotFound)

	admin := tokenFor(t, 6, store.RoleAdmin)
	w = send(t, e, http.MethodPut, "/api/users/4", admin, map[string]string{"nome": "Ana O."})
	assert.Equal(t, http.StatusOK, w.Code, "admins may edit anyone")
}

func TestListRoutes(t *testing.T) {
	e, _ := newTestEngine(t)
	admin := tokenFor(t, 6, store.RoleAdmin)

	w := send(t, e, http.MethodGet, "/api/admin/usuarios?page=1&limit=2&busca=email", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	accounts := decode[models.Page[models.Account]](t, w)
	assert.Equal(t, 3, accounts.Total)
	assert.Len(t, accounts.Items, 2)

	w = send(t, e, http.MethodGet, "/api/admin/denuncias?status=pendente&tipo=vaga", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	reports := decode[models.Page[models.Report]](t, w)
	require.Equal(t, 1, reports.Total)
	assert.Equal(t, "fraude", reports.Items[0].Reason)

	w = send(t, e, http.MethodGet, "/api/admin/apoio?status=em_atendimento", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	tickets := decode[models.Page[models.Ticket]](t, w)
	require.Equal(t, 1, tickets.Total)
	assert.Equal(t, "Maria Santos", tickets.Items[0].Name)

	w = send(t, e, http.MethodGet, "/api/admin/apoio?status=Pendente", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "labels are not accepted as codes")

	for _, q := range []string{"page=0", "page=x", "limit=0", "limit=1000"} {
		w = send(t, e, http.MethodGet, "/api/admin/usuarios?"+q, admin, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestAccountActions(t *testing.T) {
	e, s := newTestEngine(t)
	admin := tokenFor(t, 6, store.RoleAdmin)

	w := send(t, e, http.MethodPut, "/api/admin/usuarios/3/ativar", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	u, err := s.User(3)
	require.NoError(t, err)
	assert.Equal(t, models.AccountActive, u.Status)

	w = send(t, e, http.MethodPut, "/api/admin/usuarios/3/desativar", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	u, err = s.User(3)
	require.NoError(t, err)
	assert.Equal(t, models.AccountInactive, u.Status)

	w = send(t, e, http.MethodPut, "/api/admin/usuarios/42/ativar", admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = send(t, e, http.MethodDelete, "/api/admin/usuarios/2", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = send(t, e, http.MethodDelete, "/api/admin/usuarios/2", admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDashboardRoutes(t *testing.T) {
	e, _ := newTestEngine(t)
	admin := tokenFor(t, 6, store.RoleAdmin)

	w := send(t, e, http.MethodGet, "/api/admin/stats/overview", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	st := decode[models.Stats](t, w)
	assert.Equal(t, 5, st.Accounts.Total)
	assert.Equal(t, 2, st.Reports.Pending)
	assert.NotEmpty(t, st.Activity)

	w = send(t, e, http.MethodGet, "/api/admin/system/info", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	info := decode[models.SystemInfo](t, w)
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, "test", info.NodeEnv)
	assert.Equal(t, time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC), info.ServerTime)
}

func TestMaintenanceRoutes(t *testing.T) {
	e, _ := newTestEngine(t)
	admin := tokenFor(t, 6, store.RoleAdmin)

	w := send(t, e, http.MethodPost, "/api/admin/maintenance/purge-users", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[models.PurgeResult](t, w).Removed)

	w = send(t, e, http.MethodPost, "/api/admin/maintenance/reset", admin, map[string]string{"confirm": "reset"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(t, e, http.MethodPost, "/api/admin/maintenance/reset", admin, map[string]string{"confirm": common.ResetConfirmationPhrase})
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[models.ResetResult](t, w)
	assert.Equal(t, "admin@admin.com", res.Admin.Email)
	assert.NotEmpty(t, res.Admin.Password)

	w = send(t, e, http.MethodGet, "/api/admin/stats/overview", admin, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "the old admin id is gone after reset")

	w = send(t, e, http.MethodPost, "/api/auth/login", "", map[string]string{"email": res.Admin.Email, "senha": res.Admin.Password})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecovery(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID(), Recovery(zerolog.Nop()))
	engine.GET("/boom", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal_server_error", decode[map[string]string](t, w)["error"])
}
