package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kawabatas/prompt-deploy/internal/domain/model"
)

type DeploymentRepo struct{ db *sql.DB }

func NewDeploymentRepo(db *sql.DB) *DeploymentRepo { return &DeploymentRepo{db: db} }

func (r *DeploymentRepo) Record(ctx context.Context, d model.Deployment) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO deployments (artifact, environment, action, outcome, operator, message, started_at, finished_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, d.Artifact, string(d.Environment), d.Action, string(d.Outcome), d.Operator, d.Message, d.StartedAt, d.FinishedAt)
	return err
}

func (r *DeploymentRepo) List(ctx context.Context, env model.Environment, limit int) ([]model.Deployment, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("invalid limit: %d", limit)
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, artifact, environment, action, outcome, operator, message, started_at, finished_at
FROM deployments
WHERE environment = ?
ORDER BY id DESC
LIMIT ?
`, string(env), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Deployment
	for rows.Next() {
		var d model.Deployment
		var envStr, outcome string
		if err := rows.Scan(&d.ID, &d.Artifact, &envStr, &d.Action, &outcome, &d.Operator, &d.Message, &d.StartedAt, &d.FinishedAt); err != nil {
			return nil, err
		}
		d.Environment = model.Environment(envStr)
		d.Outcome = model.Outcome(outcome)
		out = append(out, d)
	}
	return out, rows.Err()
}
