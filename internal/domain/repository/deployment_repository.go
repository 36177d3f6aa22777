package repository

import (
	"context"

	"github.com/kawabatas/prompt-deploy/internal/domain/model"
)

// DeploymentRepository abstracts journal persistence regardless of the underlying DB.
type DeploymentRepository interface {
	Record(ctx context.Context, d model.Deployment) error
	List(ctx context.Context, env model.Environment, limit int) ([]model.Deployment, error)
}
