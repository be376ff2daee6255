package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/adminconsole/internal/client/models"
	"github.com/dmitrijs2005/adminconsole/internal/common"
	"github.com/dmitrijs2005/adminconsole/internal/devserver/auth"
	"github.com/dmitrijs2005/adminconsole/internal/devserver/store"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	ctxRequestID = "request_id"
	ctxClaims    = "access_claims"
	ctxUser      = "current_user"
)

// RequestID echoes the caller's X-Request-Id or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(common.RequestIDHeaderName)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(ctxRequestID, requestID)
		c.Writer.Header().Set(common.RequestIDHeaderName, requestID)

		c.Next()
	}
}

// Logger writes one line per request; 4xx at warn, 5xx at error.
func Logger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("client_ip", c.ClientIP()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("request_id", c.GetString(ctxRequestID)).
			Msg("http request")
	}
}

// Recovery turns a handler panic into a 500.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Interface("error", r).
					Str("request_id", c.GetString(ctxRequestID)).
					Msg("panic recovered")
				abort(c, http.StatusInternalServerError, "internal_server_error", "erro interno do servidor")
			}
		}()
		c.Next()
	}
}

// Auth requires a valid bearer token whose user still exists and is active.
func Auth(secret []byte, users *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeaderName)
		if !strings.HasPrefix(header, common.BearerPrefix) {
			abort(c, http.StatusUnauthorized, "missing_token", "token ausente")
			return
		}

		claims, err := auth.ParseToken(strings.TrimPrefix(header, common.BearerPrefix), secret)
		if err != nil {
			code, msg := "invalid_token", "token inválido"
			if errors.Is(err, common.ErrTokenExpired) {
				code, msg = "token_expired", "token expirado"
			}
			abort(c, http.StatusUnauthorized, code, msg)
			return
		}

		user, err := users.User(claims.UserID)
		if err != nil {
			abort(c, http.StatusUnauthorized, "user_not_found", "usuário não encontrado")
			return
		}
		if user.Status != models.AccountActive {
			abort(c, http.StatusForbidden, "user_inactive", "conta inativa")
			return
		}

		c.Set(ctxClaims, *claims)
		c.Set(ctxUser, user)

		c.Next()
	}
}

// RequireRoles lets through only users holding one of roles. It must run
// after Auth.
func RequireRoles(roles ...string) gin.HandlerFunc {
	roleSet := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "unauthorized", "não autenticado")
			return
		}
		if _, ok := roleSet[user.Role]; !ok {
			abort(c, http.StatusForbidden, "forbidden", "acesso restrito a administradores")
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) (store.User, bool) {
	v, ok := c.Get(ctxUser)
	if !ok {
		return store.User{}, false
	}
	u, ok := v.(store.User)
	return u, ok
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": code, "message": message})
}
