// Package app wires configuration, storage, the completion provider and the
// brand pipeline into a Service.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/metalagman/brandcraft/internal/brand"
	"github.com/metalagman/brandcraft/internal/completion"
	"github.com/metalagman/brandcraft/internal/config"
	"github.com/metalagman/brandcraft/internal/db"
	"github.com/metalagman/brandcraft/internal/logging"
	"github.com/metalagman/brandcraft/internal/metrics"
	"github.com/metalagman/brandcraft/internal/pipeline"
	"github.com/metalagman/brandcraft/internal/store"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
)

// Params configures New.
type Params struct {
	Config config.Config
	// DryRun replaces the configured provider with canned responses.
	DryRun bool
	// Stdout and Stderr receive exec agent output.
	Stdout io.Writer
	Stderr io.Writer
}

// App is a started Service plus the resources it owns.
type App struct {
	*Service
	fx *fx.App
}

// New builds and starts the application graph.
func New(ctx context.Context, p Params) (*App, error) {
	if p.DryRun {
		p.Config.Provider.Type = config.ProviderStub
	}
	if err := p.Config.Validate(); err != nil {
		return nil, err
	}

	var svc *Service
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(p),
		fx.Provide(
			func(p Params) config.Config { return p.Config },
			openDatabase,
			provideReportStore,
			store.NewJournal,
			metrics.New,
			provideProvider,
			provideOrchestrator,
			newService,
		),
		fx.Invoke(registerMetricsTextfile),
		fx.Populate(&svc),
	)
	if err := fxApp.Err(); err != nil {
		return nil, fmt.Errorf("build app: %w", err)
	}
	if err := fxApp.Start(ctx); err != nil {
		return nil, fmt.Errorf("start app: %w", err)
	}
	return &App{Service: svc, fx: fxApp}, nil
}

// Close releases resources and flushes metrics.
func (a *App) Close(ctx context.Context) error {
	if err := a.fx.Stop(ctx); err != nil {
		return fmt.Errorf("stop app: %w", err)
	}
	return nil
}

func openDatabase(lc fx.Lifecycle, cfg config.Config) (*sql.DB, error) {
	database, err := db.Open(cfg.Storage.Path)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return database.Close() },
	})
	return database, nil
}

func provideReportStore(lc fx.Lifecycle, cfg config.Config, database *sql.DB) (store.ReportStore, error) {
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Storage.RedisAddr,
			Password: cfg.Storage.RedisPassword,
			DB:       cfg.Storage.RedisDB,
		})
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := client.Ping(ctx).Err(); err != nil {
					return fmt.Errorf("connect redis %s: %w", cfg.Storage.RedisAddr, err)
				}
				return nil
			},
			OnStop: func(context.Context) error { return client.Close() },
		})
		return store.NewRedisReports(client, store.DefaultRedisPrefix, cfg.Storage.RedisTTL), nil
	case config.BackendSQLite:
		return store.NewSQLiteReports(database), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func provideProvider(p Params) (pipeline.CompletionProvider, error) {
	// Client construction does not block; the context only scopes setup.
	return completion.New(context.Background(), p.Config, completion.Options{
		Stdout: p.Stdout,
		Stderr: p.Stderr,
	})
}

func provideOrchestrator(
	cfg config.Config,
	provider pipeline.CompletionProvider,
	journal *store.Journal,
	recorder *metrics.Recorder,
) (*pipeline.Orchestrator, error) {
	return brand.NewOrchestrator(provider, brand.Options{
		CallTimeout: cfg.Pipeline.CallTimeout,
		Observers: []pipeline.Observer{
			logging.NewPipelineObserver(log.Logger),
			journal,
			recorder,
		},
	})
}

func registerMetricsTextfile(lc fx.Lifecycle, cfg config.Config, recorder *metrics.Recorder) {
	if cfg.Metrics.Textfile == "" {
		return
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return recorder.WriteTextfile(cfg.Metrics.Textfile)
		},
	})
}
