// Package server wires the auth API: it opens PostgreSQL, applies the
// schema, bootstraps the administrator and runs the HTTP and gRPC health
// servers until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/ubadesk/internal/logging"
	"github.com/dmitrijs2005/ubadesk/internal/server/cache"
	"github.com/dmitrijs2005/ubadesk/internal/server/config"
	"github.com/dmitrijs2005/ubadesk/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/ubadesk/internal/server/rest"
	"github.com/dmitrijs2005/ubadesk/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"

	gs "github.com/dmitrijs2005/ubadesk/internal/server/grpc"
)

const (
	startupTimeout  = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

// openDB and newRepoManager are seams for tests.
var (
	openDB = func(dsn string) (*sql.DB, error) {
		return sql.Open("pgx", dsn)
	}
	newRepoManager = func() repomanager.RepositoryManager {
		return repomanager.NewPostgresRepositoryManager()
	}
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	userService *services.UserService
	handler     http.Handler
	closers     []io.Closer
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app := &App{config: c, logger: logger, db: db, closers: []io.Closer{db}}

	if err := app.init(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}

	return app, nil
}

func (app *App) init(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	if err := app.db.PingContext(ctx); err != nil {
		return fmt.Errorf("db ping error: %w", err)
	}

	rm := newRepoManager()
	if err := rm.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}

	profiles := app.initCache(ctx)

	app.userService = services.NewUserService(app.db, rm, profiles, app.config, app.logger.With("module", "users"))

	if app.config.AdminPassword != "" {
		created, err := app.userService.EnsureAdmin(ctx, app.config.AdminEmail, app.config.AdminPassword)
		if err != nil {
			return err
		}
		if created {
			app.logger.Info(ctx, "Administrator account created", "email", app.config.AdminEmail)
		}
	}

	app.handler = rest.NewRouter(rest.RouterConfig{
		Handler:        rest.NewHandler(app.logger.With("module", "http"), app.userService, app.db),
		Metrics:        rest.NewMetrics(),
		Logger:         app.logger.With("module", "http"),
		RateLimitRPS:   app.config.RateLimitRPS,
		RateLimitBurst: app.config.RateLimitBurst,
	})

	return nil
}

// initCache connects to Redis when configured. An unreachable Redis is
// logged and profile caching is disabled.
func (app *App) initCache(ctx context.Context) cache.ProfileCache {
	if app.config.RedisAddr == "" {
		return cache.Nop{}
	}

	rc, err := cache.NewRedisCache(ctx, cache.Options{
		Addr:     app.config.RedisAddr,
		Password: app.config.RedisPassword,
		DB:       app.config.RedisDB,
		TTL:      app.config.CacheTTL,
	})
	if err != nil {
		app.logger.Warn(ctx, "profile cache disabled", "error", err)
		return cache.Nop{}
	}

	app.closers = append(app.closers, rc)
	return rc
}

// Handler returns the HTTP router.
func (app *App) Handler() http.Handler {
	return app.handler
}

// Close releases the database and cache connections.
func (app *App) Close() error {
	var errs []error
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startHTTPServer(ctx context.Context) error {
	listen, err := net.Listen("tcp", app.config.HTTPAddr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           app.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			app.logger.Error(ctx, "HTTP shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (app *App) startGRPCServer(ctx context.Context) error {
	if app.config.HealthAddr == "" {
		return nil
	}
	s := gs.NewHealthServer(app.config.HealthAddr, app.logger, app.db, 5*time.Second)
	return s.Run(ctx)
}

// Run serves until ctx is cancelled, a shutdown signal arrives or either
// server fails. It returns the first server error, if any.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	run := func(name string, fn func(context.Context) error) {
		defer wg.Done()
		if err := fn(ctx); err != nil {
			app.logger.Error(ctx, "server failed", "server", name, "error", err)
			errOnce.Do(func() { firstErr = err })
			cancelFunc()
		}
	}

	wg.Add(2)
	go run("http", app.startHTTPServer)
	go run("grpc", app.startGRPCServer)

	wg.Wait()

	app.logger.Info(ctx, "App stopped")
	return firstErr
}
