package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexedwards/scs/v2"
	"gorm.io/gorm"

	"winecalc/internal/config"
	"winecalc/internal/db"
	"winecalc/internal/db/mock"
	"winecalc/internal/handlers"
	applog "winecalc/internal/log"
	"winecalc/internal/server"
	"winecalc/internal/session"
)

type serverLifecycle interface {
	Start() error
	Stop() error
}

var (
	loadConfigFunc      = config.Load
	setLogLevelFunc     = applog.SetLevel
	newMockDatabaseFunc = mock.New
	configureDatabase   = db.Configure
	dialRedisFunc       = dialRedis
	newServerFunc       = func(cfg server.Config) (serverLifecycle, error) {
		return server.New(cfg)
	}
	subscribeShutdownSig = func() (<-chan os.Signal, func()) {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)
		return ch, func() { signal.Stop(ch) }
	}
)

func main() {
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	cfg, err := loadConfigFunc()
	if err != nil {
		applog.Error(ctx, "failed to load configuration", "error", err)
		return 1
	}
	if err := setLogLevelFunc(cfg.Logging.Level); err != nil {
		applog.Error(ctx, "invalid log level", "level", cfg.Logging.Level, "error", err)
		return 1
	}

	var database *gorm.DB
	if cfg.Database.UseMock {
		applog.Info(ctx, "using mock database")
		database, err = newMockDatabaseFunc(ctx)
	} else {
		database, err = configureDatabase(ctx, cfg.Database)
	}
	if err != nil {
		applog.Error(ctx, "failed to configure database", "error", err)
		return 1
	}

	sessionCfg := server.SessionConfig{
		Lifetime:     cfg.Auth.Session.Lifetime,
		CookieName:   cfg.Auth.Session.CookieName,
		CookieDomain: cfg.Auth.Session.CookieDomain,
		CookieSecure: cfg.Auth.Session.CookieSecure,
	}
	if cfg.Redis.URL != "" {
		store, closeStore, err := dialRedisFunc(ctx, cfg.Redis)
		if err != nil {
			applog.Error(ctx, "failed to connect session store", "error", err)
			return 1
		}
		defer closeStore()
		sessionCfg.Store = store
		applog.Info(ctx, "sessions stored in redis", "prefix", cfg.Redis.Prefix)
	}

	srv, err := newServerFunc(server.Config{
		Addr:     cfg.Server.Addr,
		Session:  sessionCfg,
		Database: database,
		Blend: handlers.BlendSettings{
			TopK:          cfg.Blend.TopK,
			MaxIterations: cfg.Blend.MaxIterations,
			Seed:          cfg.Blend.Seed,
		},
	})
	if err != nil {
		applog.Error(ctx, "failed to build server", "error", err)
		return 1
	}

	shutdown, unsubscribe := subscribeShutdownSig()
	defer unsubscribe()

	startErr := make(chan error, 1)
	go func() {
		applog.Info(ctx, "starting http server", "addr", cfg.Server.Addr)
		startErr <- srv.Start()
	}()

	select {
	case err := <-startErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			applog.Error(ctx, "server encountered an error", "error", err)
			return 1
		}
		return 0
	case sig := <-shutdown:
		applog.Info(ctx, "shutting down http server", "signal", sig.String())
	}

	if err := srv.Stop(); err != nil {
		applog.Error(ctx, "graceful shutdown failed", "error", err)
		return 1
	}
	if err := <-startErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		applog.Error(ctx, "server stopped with error", "error", err)
		return 1
	}
	return 0
}

func dialRedis(ctx context.Context, cfg config.RedisConfig) (scs.Store, func(), error) {
	store, client, err := session.Dial(ctx, cfg.URL, cfg.Prefix)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {
		if err := client.Close(); err != nil {
			applog.Warn(context.Background(), "failed to close redis client", "error", err)
		}
	}, nil
}
