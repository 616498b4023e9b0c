package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/attendance-register/internal/repository"
	"github.com/noah-isme/attendance-register/internal/service"
	"github.com/noah-isme/attendance-register/pkg/cache"
	"github.com/noah-isme/attendance-register/pkg/config"
	"github.com/noah-isme/attendance-register/pkg/database"
	"github.com/noah-isme/attendance-register/pkg/kvstore"
	"github.com/noah-isme/attendance-register/pkg/storage"
)

// App is the wired register: backend, store, services.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	KV       kvstore.Store
	Metrics  *service.MetricsService
	Repo     *repository.RegisterRepository
	Register *service.RegisterService
	Exports  *service.ExportService
}

// NewApp opens the configured backend, loads both collections and builds
// the services on top of them.
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := service.NewMetricsService()

	backend, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	kv := kvstore.Instrument(backend, metrics)

	now := time.Now
	repo := repository.NewRegisterRepository(kv, repository.NewIDGenerator(now), logger.Named("repository"))
	repo.LoadAll(ctx)

	register := service.NewRegisterService(
		repo,
		service.NewMessageBoard(cfg.Register.MessageTTL, now),
		metrics,
		validator.New(),
		logger.Named("register"),
		service.RegisterConfig{Location: cfg.Register.Location(), Now: now},
	)

	exports := service.NewExportService(register, nil, logger.Named("export"))
	if cfg.Storage.ExportDir != "" {
		files, err := storage.NewLocalStorage(cfg.Storage.ExportDir)
		if err != nil {
			_ = kv.Close()
			return nil, err
		}
		exports = service.NewExportService(register, files, logger.Named("export"))
	}

	logger.Info("storage opened",
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.Int("students", len(repo.Students())),
		zap.Int("attendance_records", len(repo.Records())),
	)

	return &App{
		Config:   cfg,
		Logger:   logger,
		KV:       kv,
		Metrics:  metrics,
		Repo:     repo,
		Register: register,
		Exports:  exports,
	}, nil
}

// Ready reports whether the backend answers a read.
func (a *App) Ready(ctx context.Context) error {
	if _, err := a.KV.Get(ctx, repository.StudentsKey); err != nil && !errors.Is(err, kvstore.ErrNotFound) {
		return err
	}
	return nil
}

// Close releases the backend.
func (a *App) Close() error {
	return a.KV.Close()
}

func openStore(ctx context.Context, cfg *config.Config) (kvstore.Store, error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		return kvstore.NewMemoryStore(), nil
	case config.StorageFile, "":
		return kvstore.NewFileStore(cfg.Storage.Dir)
	case config.StorageRedis:
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return kvstore.NewRedisStore(client, cfg.Redis.KeyPrefix), nil
	case config.StoragePostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return migrated(ctx, kvstore.NewSQLStore(db))
	case config.StorageSQLite:
		db, err := database.NewSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		return migrated(ctx, kvstore.NewSQLStore(db))
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func migrated(ctx context.Context, store *kvstore.SQLStore) (kvstore.Store, error) {
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}
