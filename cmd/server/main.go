package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gorm.io/gorm"

	"spizka/internal/config"
	"spizka/internal/db"
	"spizka/internal/db/mock"
	"spizka/internal/handlers"
	applog "spizka/internal/log"
	"spizka/internal/server"
)

// serverLifecycle abstracts the HTTP server so run can be exercised with a
// stub.
type serverLifecycle interface {
	Start() error
	Stop() error
}

var (
	loadConfigFunc      = config.Load
	setLogLevelFunc     = applog.SetLevel
	newMockDatabaseFunc = mock.New
	configureDatabase   = db.Configure
	newServerFunc       = func(cfg server.Config) (serverLifecycle, error) {
		return server.New(cfg)
	}
	warmVocabularyFunc   = handlers.WarmVocabulary
	subscribeShutdownSig = func() (<-chan os.Signal, func()) {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
		return sigCh, func() { signal.Stop(sigCh) }
	}
)

func main() {
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	cfg, err := loadConfigFunc()
	if err != nil {
		applog.Error(ctx, "invalid configuration", "error", err)
		return 1
	}
	if err := setLogLevelFunc(cfg.Logging.Level); err != nil {
		applog.Error(ctx, "invalid log level", "error", err, "level", cfg.Logging.Level)
		return 1
	}

	database, ok := openDatabase(ctx, cfg)
	if !ok {
		return 1
	}

	srv, err := newServerFunc(server.Config{
		Addr: cfg.Server.Addr,
		Session: server.SessionConfig{
			Lifetime:     cfg.Session.Lifetime,
			CookieName:   cfg.Session.CookieName,
			CookieDomain: cfg.Session.CookieDomain,
			CookieSecure: cfg.Session.CookieSecure,
		},
		Database: database,
		Engine:   cfg.Engine,
	})
	if err != nil {
		applog.Error(ctx, "failed to initialize server", "error", err)
		return 1
	}

	warmVocabularyFunc(ctx)

	startErr := make(chan error, 1)
	go func() {
		applog.Info(ctx, "starting http server", "addr", cfg.Server.Addr)
		startErr <- srv.Start()
	}()

	shutdownCh, unsubscribe := subscribeShutdownSig()
	defer unsubscribe()

	select {
	case err := <-startErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			applog.Error(ctx, "server encountered an error", "error", err)
			return 1
		}
	case <-shutdownCh:
		applog.Info(ctx, "shutting down http server")
		if err := srv.Stop(); err != nil {
			applog.Error(ctx, "graceful shutdown failed", "error", err)
			return 1
		}
	}
	return 0
}

// openDatabase connects to the configured database, or the seeded in-memory
// mock when DATABASE_USE_MOCK is set. A missing database is not fatal; the
// API answers 503 until one is configured.
func openDatabase(ctx context.Context, cfg config.Config) (*gorm.DB, bool) {
	if cfg.Database.UseMock {
		database, err := newMockDatabaseFunc(ctx)
		if err != nil {
			applog.Error(ctx, "failed to initialize mock database", "error", err)
			return nil, false
		}
		applog.Info(ctx, "using seeded in-memory database")
		return database, true
	}

	if cfg.Database.URL == "" {
		applog.Warn(ctx, "no database configured, api will be unavailable")
		return nil, true
	}

	database, err := configureDatabase(cfg.Database)
	if err != nil {
		applog.Error(ctx, "failed to connect to database", "error", err)
		return nil, false
	}
	return database, true
}
