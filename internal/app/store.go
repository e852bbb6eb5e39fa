// Package app assembles the task store selected by configuration.
package app

import (
	"context"

	"todo_backend/internal/config"
	"todo_backend/internal/db"
	"todo_backend/internal/logger"
	"todo_backend/internal/migrations"
	"todo_backend/internal/repository"
	"todo_backend/internal/service"
)

// Store is a task store that can report its health.
type Store interface {
	service.TaskStore
	Ping(ctx context.Context) error
}

// OpenStore returns the configured store and a cleanup func that is always
// safe to call.
func OpenStore(ctx context.Context, cfg *config.Config) (Store, func(), error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		logger.Warn("using in-memory task store; data is lost on exit")
		return repository.NewMemoryTaskRepository(), func() {}, nil
	}

	pool := db.Connect(cfg.DatabaseURL)
	if cfg.AutoMigrate {
		if err := migrations.Apply(ctx, pool); err != nil {
			pool.Close()
			return nil, func() {}, err
		}
		logger.Info("migrations applied")
	}
	return repository.NewTaskRepository(pool), pool.Close, nil
}
