// Package server wires the Identity & Data Service together: PostgreSQL
// storage and migrations, the revocation store, Prometheus metrics, and the
// gRPC endpoint, with graceful shutdown on SIGINT/SIGTERM/SIGQUIT.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/questlog/internal/logging"
	"github.com/dmitrijs2005/questlog/internal/server/config"
	gs "github.com/dmitrijs2005/questlog/internal/server/grpc"
	"github.com/dmitrijs2005/questlog/internal/server/metrics"
	"github.com/dmitrijs2005/questlog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/questlog/internal/server/revocation"
	"github.com/dmitrijs2005/questlog/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	metrics  *metrics.Recorder
	accounts *services.AccountService
	closers  []func() error
}

// Seams for tests.
var (
	sqlOpen = sql.Open

	runMigrations = func(ctx context.Context, m repomanager.RepositoryManager, db *sql.DB) error {
		return m.RunMigrations(ctx, db)
	}

	newRevocationStore = func(ctx context.Context, cfg *config.Config) (revocation.Store, func() error, error) {
		if cfg.RedisAddr == "" {
			return revocation.NewMemoryStore(), nil, nil
		}
		client, err := revocation.NewRedisClient(ctx, cfg.RedisAddr, "")
		if err != nil {
			return nil, nil, err
		}
		return revocation.NewRedisStore(client), client.Close, nil
	}
)

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, cfg.LogLevel, "json")

	db, err := sqlOpen("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app := &App{config: cfg, logger: logger, db: db, closers: []func() error{db.Close}}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := runMigrations(ctx, rm, db); err != nil {
		app.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	store, closeStore, err := newRevocationStore(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("revocation store error: %w", err)
	}
	if closeStore != nil {
		app.closers = append(app.closers, closeStore)
	}

	app.metrics = metrics.NewRecorder()
	app.accounts = services.NewAccountService(db, rm, store, app.metrics, logger, cfg)

	return app, nil
}

func (app *App) Close() error {
	var errs []error
	for i := len(app.closers) - 1; i >= 0; i-- {
		errs = append(errs, app.closers[i]())
	}
	app.closers = nil
	return errors.Join(errs...)
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
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

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.accounts, app.config.SecretKey)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "gRPC server failed", "error", err)
		cancelFunc()
	}
}

func (app *App) startMetricsServer(ctx context.Context, cancelFunc context.CancelFunc) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", app.metrics.Handler())
	srv := &http.Server{Addr: app.config.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	app.logger.Info(ctx, "Starting metrics server", "address", app.config.MetricsAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, "metrics server failed", "error", err)
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a signal arrives, then releases the
// database and revocation store.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	if app.config.MetricsAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startMetricsServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	if err := app.Close(); err != nil {
		app.logger.Error(context.Background(), "shutdown error", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")
}
