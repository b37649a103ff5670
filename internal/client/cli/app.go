package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dmitrijs2005/ubadesk/internal/client/client"
	"github.com/dmitrijs2005/ubadesk/internal/client/config"
	"github.com/dmitrijs2005/ubadesk/internal/client/guard"
	"github.com/dmitrijs2005/ubadesk/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/ubadesk/internal/client/session"
	"github.com/dmitrijs2005/ubadesk/internal/filex"
	"github.com/dmitrijs2005/ubadesk/internal/logging"
)

type Mode string

const (
	ModeUnknown Mode = ""
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// sessionIface is the part of *session.Manager the CLI drives.
type sessionIface interface {
	Restore(ctx context.Context) error
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, email, password string) error
	Refresh(ctx context.Context) error
	Logout()
	Snapshot() session.State
}

type pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	config  *config.Config
	session sessionIface
	guard   *guard.Guard
	api     pinger
	logger  logging.Logger
	reader  *bufio.Reader
	out     io.Writer
	closers []io.Closer

	modeMu sync.Mutex
	mode   Mode
}

// NewApp opens the local database, builds the API client and loads the
// persisted session.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	dir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, filepath.Join(dir, config.DatabaseFile))
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	creds := client.NewCredentials()
	api, err := client.NewHTTPClient(c.ServerURL, c.HealthAddr, c.RequestTimeout, creds)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a := &App{
		config:  c,
		api:     api,
		logger:  logger,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		closers: []io.Closer{api, db},
	}

	store := metadata.NewTokenStore(metadata.NewSQLiteRepository(db))
	mgr, err := session.New(ctx, api, store, creds, a, logger)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.session = mgr
	a.guard = guard.New(mgr, a)

	return a, nil
}

func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// Navigate implements session.Navigator for a terminal: routes become hints.
func (a *App) Navigate(route string) {
	switch route {
	case session.RouteLogin:
		fmt.Fprintln(a.out, "You are not logged in. Type 'login' or 'register'.")
	case session.RouteHome:
		fmt.Fprintln(a.out, "Access denied: administrator rights required.")
	default:
		fmt.Fprintln(a.out, "->", route)
	}
}

func (a *App) Mode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		fmt.Fprintf(a.out, "Switched to %s mode\n", mode)
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.Snapshot().IsAuthenticated()
}

// Run restores the session, starts the connectivity watcher and blocks in
// the REPL until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.Close(); err != nil {
			a.logger.Error(ctx, "close", "error", err)
		}
	}()

	fmt.Fprintln(a.out, "Welcome to ubadesk CLI (type 'help' for commands)")

	if err := a.session.Restore(ctx); err != nil && !errors.Is(err, session.ErrSuperseded) {
		a.logger.Error(ctx, "restore session", "error", err)
	}
	if s := a.session.Snapshot(); s.User != nil {
		fmt.Fprintf(a.out, "Welcome back, %s\n", s.User.Email)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}

// StartOnlineStatusWatcher pings the server every interval and flips the
// mode between online and offline. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.api.Ping(pingCtx)
			cancel()

			if err != nil {
				if ctx.Err() != nil {
					return
				}
				a.logger.Debug(ctx, "ping failed", "error", err)
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}

func (a *App) getStatus() string {
	s := ""
	st := a.session.Snapshot()
	switch {
	case st.Status == session.StatusLoading:
		s = "loading "
	case st.User != nil:
		s = st.User.Email + " "
	}
	if m := a.Mode(); m != ModeUnknown {
		s += string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}
