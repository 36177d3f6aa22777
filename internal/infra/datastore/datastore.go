package datastore

import (
	"context"

	"github.com/kawabatas/prompt-deploy/internal/domain/repository"
)

// DataStore is an app-facing facade for the local deployment journal.
type DataStore interface {
	Ping(ctx context.Context) error
	Close() error

	// 個別の実装
	Deployments() repository.DeploymentRepository
}

// Config captures DB driver and path parameters.
type Config struct {
	Driver string // e.g. "sqlite" (default)
	Path   string // DB file path
}

// Open selects and opens a datastore by driver.
func Open(ctx context.Context, cfg Config) (DataStore, error) {
	switch cfg.Driver {
	case "sqlite":
		return openSQLite(ctx, cfg)
	default:
		return openSQLite(ctx, cfg)
	}
}
