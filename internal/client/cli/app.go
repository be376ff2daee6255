package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/adminconsole/internal/client/client"
	"github.com/dmitrijs2005/adminconsole/internal/client/config"
	"github.com/dmitrijs2005/adminconsole/internal/client/credentials"
	"github.com/dmitrijs2005/adminconsole/internal/client/jobs"
	"github.com/dmitrijs2005/adminconsole/internal/client/models"
	"github.com/dmitrijs2005/adminconsole/internal/client/notice"
	"github.com/dmitrijs2005/adminconsole/internal/client/services"
	"github.com/dmitrijs2005/adminconsole/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config    *config.Config
	log       logging.Logger
	api       client.Client
	store     credentials.Store
	session   *services.SessionManager
	admin     *services.AdminService
	scheduler *jobs.Scheduler
	notices   notice.Sink

	views  map[models.Kind]collection
	active models.Kind

	mu   sync.Mutex
	mode Mode

	reader *bufio.Reader
	out    io.Writer
}

// NewApp builds the console from cfg. Logs go to stderr so they do not mix
// with command output.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stderr)
	if err != nil {
		return nil, err
	}

	store, err := credentials.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("error opening credential store: %w", err)
	}

	api := client.NewHTTPClient(cfg.APIBaseURL, cfg.RequestTimeout, log.With("component", "api"))

	return newApp(cfg, log, api, store, bufio.NewReader(os.Stdin), os.Stdout), nil
}

// newApp wires the core around already built collaborators.
func newApp(cfg *config.Config, log logging.Logger, api client.Client, store credentials.Store, reader *bufio.Reader, out io.Writer) *App {
	a := &App{
		config: cfg,
		log:    log,
		api:    api,
		store:  store,
		reader: reader,
		out:    out,
		active: models.KindAccounts,
	}
	a.notices = notice.Multi(notice.LogSink{Log: log.With("component", "notice")}, notice.FuncSink(a.printNotice))
	a.session = services.NewSessionManager(api, store, log.With("component", "session"))
	a.admin = services.NewAdminService(api, a.session, log.With("component", "admin"))
	a.scheduler = jobs.NewScheduler(a.admin, jobs.AuthFunc(func() bool {
		return a.session.Current().Authenticated()
	}), a.notices, log.With("component", "jobs"))
	a.views = newViews(api, a.session, a.notices, log, cfg.PageLimit)
	return a
}

func (a *App) printNotice(n notice.Notice) {
	fmt.Fprintf(a.out, "[%s] %s: %s\n", n.Level, n.Title, n.Message)
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) isLoggedIn() bool {
	return a.session.Current().Authenticated()
}

func (a *App) getStatus() string {
	var parts []string
	if u := a.session.Current().User; u != nil {
		parts = append(parts, u.Email)
	}
	if m := a.Mode(); m != "" {
		parts = append(parts, string(m))
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Run restores the session, starts background work and blocks in the REPL
// until the operator exits or stdin closes.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.close()

	if err := a.session.Init(ctx); err != nil {
		a.log.Warn(ctx, "restoring session failed", "error", err)
	}
	if exp, ok := a.session.TokenExpiry(); ok {
		a.log.Info(ctx, "session restored", "expires", exp.Format(time.RFC3339))
	}

	for _, v := range a.views {
		v.Attach(ctx)
	}

	if err := a.scheduler.Start(a.config.PurgeSchedule); err != nil {
		return err
	}
	defer a.scheduler.Stop()

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	printlnFn("Admin console (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
	return nil
}

func (a *App) close() {
	for _, v := range a.views {
		v.Detach()
	}
	if err := a.store.Close(); err != nil {
		a.log.Warn(context.Background(), "closing credential store failed", "error", err)
	}
}

// StartOnlineStatusWatcher checks the backend once right away and then every
// interval until ctx is done. Only an unreachable backend counts as offline; auth failures still
// prove connectivity.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.admin.Ping(pingCtx)
	cancel()

	if err != nil && !errors.Is(err, client.ErrUnauthorized) {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}
