// Package httpapi exposes the development backend over HTTP with gin. It
// serves the admin REST contract the console's API client speaks, under
// the /api prefix.
package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/adminconsole/internal/client/models"
	"github.com/dmitrijs2005/adminconsole/internal/common"
	"github.com/dmitrijs2005/adminconsole/internal/devserver/auth"
	"github.com/dmitrijs2005/adminconsole/internal/devserver/store"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const maxLimit = 100

// Options configures a Handler.
type Options struct {
	Secret     []byte
	TokenTTL   time.Duration
	AdminEmail string
	Version    string
	NodeEnv    string
	Now        func() time.Time
}

// Handler serves every route of the admin contract from a store.Store.
type Handler struct {
	store *store.Store
	opts  Options
	log   zerolog.Logger
}

// NewHandler builds a Handler. A nil Options.Now means time.Now.
func NewHandler(s *store.Store, opts Options, log zerolog.Logger) *Handler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Handler{store: s, opts: opts, log: log}
}

// Register mounts the routes on r.
func (h *Handler) Register(r *gin.RouterGroup) {
	authGroup := r.Group("/auth")
	authGroup.POST("/login", h.login)
	authGroup.POST("/register", h.register)

	protected := r.Group("", Auth(h.opts.Secret, h.store))
	protected.PUT("/users/:id", h.updateUser)
	protected.DELETE("/users/:id", h.deleteUser)

	admin := protected.Group("/admin", RequireRoles(store.RoleAdmin))
	admin.GET("/usuarios", h.listAccounts)
	admin.PUT("/usuarios/:id/ativar", h.setAccountStatus(models.AccountActive))
	admin.PUT("/usuarios/:id/desativar", h.setAccountStatus(models.AccountInactive))
	admin.DELETE("/usuarios/:id", h.deleteAccount)
	admin.GET("/denuncias", h.listReports)
	admin.GET("/apoio", h.listTickets)
	admin.GET("/stats/overview", h.stats)
	admin.GET("/system/info", h.systemInfo)
	admin.POST("/maintenance/reset", h.reset)
	admin.POST("/maintenance/purge-users", h.purgeUsers)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		abort(c, http.StatusBadRequest, "invalid_request", "email e senha são obrigatórios")
		return
	}

	user, err := h.store.Authenticate(req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Email, user.Role, h.opts.Secret, h.opts.TokenTTL)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{Token: token, User: user.Public()})
}

type registerRequest struct {
	Name     string `json:"nome"`
	Email    string `json:"email"`
	Password string `json:"senha"`
	Type     string `json:"tipo"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "invalid_request", "corpo inválido")
		return
	}

	user, err := h.store.Register(req.Name, req.Email, req.Password, req.Type)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user.Public()})
}

// selfOrAdmin resolves the :id parameter and checks the caller may act on it.
func (h *Handler) selfOrAdmin(c *gin.Context) (int64, bool) {
	id, ok := pathID(c)
	if !ok {
		return 0, false
	}
	me, _ := currentUser(c)
	if me.ID != id && me.Role != store.RoleAdmin {
		abort(c, http.StatusForbidden, "forbidden", "operação não permitida")
		return 0, false
	}
	return id, true
}

func (h *Handler) updateUser(c *gin.Context) {
	id, ok := h.selfOrAdmin(c)
	if !ok {
		return
	}

	var upd models.UserUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		abort(c, http.StatusBadRequest, "invalid_request", "corpo inválido")
		return
	}

	user, err := h.store.UpdateUser(id, upd)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, user.Public())
}

func (h *Handler) deleteUser(c *gin.Context) {
	id, ok := h.selfOrAdmin(c)
	if !ok {
		return
	}
	if err := h.store.DeleteUser(id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "conta removida"})
}

func (h *Handler) listAccounts(c *gin.Context) {
	f, ok := filter(c)
	if !ok {
		return
	}
	page, err := h.store.ListAccounts(f)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) setAccountStatus(status string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		if err := h.store.SetAccountStatus(id, status); err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "status atualizado", "status": status})
	}
}

func (h *Handler) deleteAccount(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteAccount(id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "conta removida"})
}

func (h *Handler) listReports(c *gin.Context) {
	f, ok := filter(c)
	if !ok {
		return
	}
	page, err := h.store.ListReports(f)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) listTickets(c *gin.Context) {
	f, ok := filter(c)
	if !ok {
		return
	}
	page, err := h.store.ListTickets(f)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Stats())
}

func (h *Handler) systemInfo(c *gin.Context) {
	c.JSON(http.StatusOK, models.SystemInfo{
		Version:    h.opts.Version,
		NodeEnv:    h.opts.NodeEnv,
		ServerTime: h.opts.Now().UTC(),
	})
}

type resetRequest struct {
	Confirm string `json:"confirm"`
}

func (h *Handler) reset(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Confirm != common.ResetConfirmationPhrase {
		abort(c, http.StatusBadRequest, "confirmation_required", "confirmação inválida")
		return
	}

	password, err := h.store.Reset(h.opts.AdminEmail)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.log.Warn().Str("admin", h.opts.AdminEmail).Msg("database reset")

	var out models.ResetResult
	out.Admin.Email = h.opts.AdminEmail
	out.Admin.Password = password
	c.JSON(http.StatusOK, out)
}

func (h *Handler) purgeUsers(c *gin.Context) {
	removed := h.store.PurgeInactive()
	h.log.Info().Int("removed", removed).Msg("inactive accounts purged")
	c.JSON(http.StatusOK, models.PurgeResult{Removed: removed})
}

// fail maps store errors onto HTTP statuses.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrInvalidCredentials):
		abort(c, http.StatusUnauthorized, "invalid_credentials", "email ou senha inválidos")
	case errors.Is(err, store.ErrInactive):
		abort(c, http.StatusForbidden, "user_inactive", "conta inativa")
	case errors.Is(err, store.ErrNotFound):
		abort(c, http.StatusNotFound, "not_found", "registro não encontrado")
	case errors.Is(err, store.ErrAlreadyExists):
		abort(c, http.StatusConflict, "already_exists", "email já cadastrado")
	case errors.Is(err, store.ErrValidation):
		abort(c, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		h.log.Error().Err(err).Str("request_id", c.GetString(ctxRequestID)).Msg("request failed")
		abort(c, http.StatusInternalServerError, "internal_server_error", "erro interno do servidor")
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abort(c, http.StatusBadRequest, "invalid_id", "id inválido")
		return 0, false
	}
	return id, true
}

func filter(c *gin.Context) (store.Filter, bool) {
	f := store.Filter{
		Page:      1,
		Limit:     12,
		Search:    c.Query("busca"),
		Status:    c.Query("status"),
		Reference: c.Query("tipo"),
	}
	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			abort(c, http.StatusBadRequest, "invalid_page", "page inválido")
			return f, false
		}
		f.Page = n
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxLimit {
			abort(c, http.StatusBadRequest, "invalid_limit", "limit inválido")
			return f, false
		}
		f.Limit = n
	}
	return f, true
}
