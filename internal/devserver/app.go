// Package devserver wires the development backend: an in-memory data set
// served over the admin REST contract so the console can be run and tested
// without the production API.
package devserver

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/adminconsole/internal/common"
	"github.com/dmitrijs2005/adminconsole/internal/devserver/config"
	"github.com/dmitrijs2005/adminconsole/internal/devserver/httpapi"
	"github.com/dmitrijs2005/adminconsole/internal/devserver/store"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type App struct {
	config *config.Config
	logger zerolog.Logger
	engine *gin.Engine
}

// NewApp seeds the store and builds the HTTP engine. Logs go to out.
func NewApp(c *config.Config, out io.Writer) (*App, error) {
	logger, err := newLogger(c.LogFormat, c.LogLevel, out)
	if err != nil {
		return nil, err
	}

	if c.SecretKey == "" {
		key, err := common.MakeRandHexString(32)
		if err != nil {
			return nil, fmt.Errorf("generate secret key: %w", err)
		}
		c.SecretKey = key
		logger.Warn().Msg("no secret key configured, tokens will not survive a restart")
	}

	s := store.New()
	if err := s.Seed(c.AdminEmail, c.AdminPassword); err != nil {
		return nil, fmt.Errorf("seed store: %w", err)
	}

	h := httpapi.NewHandler(s, httpapi.Options{
		Secret:     []byte(c.SecretKey),
		TokenTTL:   c.TokenTTL,
		AdminEmail: c.AdminEmail,
		Version:    c.Version,
		NodeEnv:    c.NodeEnv,
	}, logger)

	engine := httpapi.NewEngine(h, logger, c.NodeEnv == "production")

	return &App{config: c, logger: logger, engine: engine}, nil
}

// Engine exposes the HTTP handler, mainly for httptest.
func (app *App) Engine() *gin.Engine {
	return app.engine
}

func newLogger(format, level string, out io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	switch strings.ToLower(format) {
	case "", "console":
		w := zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
		return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
	case "json":
		return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q", format)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info().
		Str("admin", app.config.AdminEmail).
		Str("env", app.config.NodeEnv).
		Msg("Starting dev server...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		srv := httpapi.NewHTTPServer(app.config.Addr, app.engine, app.logger)
		if err := srv.Run(ctx); err != nil {
			app.logger.Error().Err(err).Msg("http server stopped")
			cancelFunc()
		}
	}()

	wg.Wait()
}
