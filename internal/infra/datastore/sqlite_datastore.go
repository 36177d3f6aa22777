package datastore

import (
	"context"
	"database/sql"

	"github.com/kawabatas/prompt-deploy/internal/domain/repository"
	sqlitedriver "github.com/kawabatas/prompt-deploy/internal/infra/datastore/sqlite"
)

type sqliteStore struct {
	db *sql.DB

	deployments repository.DeploymentRepository
}

func (s *sqliteStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }
func (s *sqliteStore) Close() error                   { return s.db.Close() }

func (s *sqliteStore) Deployments() repository.DeploymentRepository { return s.deployments }

func openSQLite(ctx context.Context, cfg Config) (DataStore, error) {
	db, err := sqlitedriver.OpenAndInit(ctx, cfg.Path)
	if err != nil {
		return nil, err
	}
	return &sqliteStore{
		db:          db,
		deployments: sqlitedriver.NewDeploymentRepo(db),
	}, nil
}
