package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/majormatch-backend/internal/data/db"
	apphttp "github.com/yungbote/majormatch-backend/internal/http"
	"github.com/yungbote/majormatch-backend/internal/observability"
	"github.com/yungbote/majormatch-backend/internal/platform/logger"
	"github.com/yungbote/majormatch-backend/internal/similarcases"
)

const collectorInterval = 15 * time.Second

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Metrics  *observability.Metrics
	Clients  Clients
	Repos    Repos
	Services Services
	Server   *apphttp.Server

	pg           *db.PostgresService
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
	bg           sync.WaitGroup
}

// bootstrap builds the logger and configuration shared by every command.
func bootstrap() (*logger.Logger, Config, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, Config{}, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading configuration...")
	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, Config{}, err
	}
	logger.ConfigureRedaction(logger.Redaction{
		Enabled:  cfg.Log.RedactionEnabled,
		HashSalt: cfg.Log.HashSalt,
	})
	return log, cfg, nil
}

func openPostgres(log *logger.Logger, cfg Config) (*db.PostgresService, error) {
	return db.NewPostgresService(log, db.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		Name:            cfg.Postgres.Name,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetimeSeconds) * time.Second,
	})
}

func migrate(log *logger.Logger, gdb *gorm.DB) error {
	log.Info("Running migrations...")
	if err := db.Migrate(gdb); err != nil {
		return fmt.Errorf("postgres migrate: %w", err)
	}
	return nil
}

func New(ctx context.Context) (*App, error) {
	log, cfg, err := bootstrap()
	if err != nil {
		return nil, err
	}

	metrics := observability.Init(log)
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.Otel.Enabled,
		ServiceName: cfg.Otel.ServiceName,
		Environment: cfg.App.Environment,
		Version:     cfg.App.Version,
		Endpoint:    cfg.Otel.Endpoint,
		Headers:     observability.ParseHeaders(cfg.Otel.Headers),
		Insecure:    cfg.Otel.Insecure,
		SampleRatio: cfg.Otel.SampleRatio,
	})

	pg, err := openPostgres(log, cfg)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	theDB := pg.DB()
	if cfg.App.AutoMigrate {
		if err := migrate(log, theDB); err != nil {
			_ = pg.Close()
			log.Sync()
			return nil, err
		}
	}

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = pg.Close()
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	serviceset, err := wireServices(theDB, log, cfg, reposet, clients)
	if err != nil {
		clients.Close()
		_ = pg.Close()
		log.Sync()
		return nil, err
	}
	handlerset := wireHandlers(log, serviceset, theDB, clients.Redis)
	middleware := wireMiddleware(log, serviceset)

	return &App{
		Log:          log,
		DB:           theDB,
		Cfg:          cfg,
		Metrics:      metrics,
		Clients:      clients,
		Repos:        reposet,
		Services:     serviceset,
		Server:       wireServer(log, cfg, metrics, handlerset, middleware),
		pg:           pg,
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches the background collectors and, when configured, case seeding.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Cfg.Metrics.Enabled && a.Metrics != nil {
		a.Metrics.StartPostgresCollector(ctx, a.Log, a.DB, collectorInterval)
		if a.Clients.Redis != nil {
			a.Metrics.StartRedisCollector(ctx, a.Log, a.Clients.Redis, collectorInterval)
		}
	}

	if a.Cfg.Pinecone.SeedOnStart && a.Services.Cases.Enabled() {
		a.bg.Add(1)
		go func() {
			defer a.bg.Done()
			seedCases(ctx, a.Log, a.Services.Cases)
		}()
	}
}

func seedCases(ctx context.Context, log *logger.Logger, cases *similarcases.Retriever) int {
	if err := cases.EnsureIndex(ctx); err != nil {
		log.Warn("Case index bootstrap failed", "error", err)
		return 0
	}
	n, err := cases.Seed(ctx)
	if err != nil {
		log.Warn("Case seeding failed", "error", err)
		return n
	}
	log.Info("Case index ready", "seeded", n)
	return n
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Listening", "addr", a.Cfg.Addr())
	return a.Server.Run(a.Cfg.Addr())
}

// Shutdown drains HTTP, stops background work and releases clients.
func (a *App) Shutdown(ctx context.Context) error {
	if a == nil {
		return nil
	}
	var errs []error
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.bg.Wait()
	if a.Services.Assistant != nil {
		a.Services.Assistant.Wait()
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("otel shutdown: %w", err))
		}
	}
	a.Clients.Close()
	if a.pg != nil {
		if err := a.pg.Close(); err != nil {
			errs = append(errs, fmt.Errorf("postgres close: %w", err))
		}
	}
	a.Log.Sync()
	return errors.Join(errs...)
}

// Migrate applies the schema and exits.
func Migrate(ctx context.Context) error {
	log, cfg, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	pg, err := openPostgres(log, cfg)
	if err != nil {
		return fmt.Errorf("init postgres: %w", err)
	}
	defer pg.Close()
	if err := migrate(log, pg.DB().WithContext(ctx)); err != nil {
		return err
	}
	log.Info("Migrations complete")
	return nil
}

// SeedCases creates the case index if needed and loads the bundled corpus.
func SeedCases(ctx context.Context) (int, error) {
	log, cfg, err := bootstrap()
	if err != nil {
		return 0, err
	}
	defer log.Sync()

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		return 0, err
	}
	defer clients.Close()

	cases := wireCaseRetriever(log, cfg, clients)
	if !cases.Enabled() {
		return 0, similarcases.ErrDisabled
	}
	if err := cases.EnsureIndex(ctx); err != nil {
		return 0, fmt.Errorf("ensure case index: %w", err)
	}
	n, err := cases.Seed(ctx)
	if err != nil {
		return n, fmt.Errorf("seed cases: %w", err)
	}
	return n, nil
}
