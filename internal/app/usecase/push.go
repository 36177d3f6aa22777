package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/kawabatas/prompt-deploy/internal/domain/model"
	"github.com/kawabatas/prompt-deploy/internal/domain/repository"
	"github.com/kawabatas/prompt-deploy/internal/infra/locking"
	"github.com/kawabatas/prompt-deploy/internal/infra/runner"
	"github.com/kawabatas/prompt-deploy/internal/infra/storage"
	"github.com/kawabatas/prompt-deploy/internal/util/clock"
)

// Pusher deploys a staged artifact into one environment with the
// lock → backup → push → validate → commit/rollback sequence.
type Pusher struct {
	store     storage.ObjectStore
	locks     *locking.Manager
	staging   *Staging
	validator runner.Validator
	journal   repository.DeploymentRepository // nil のとき履歴なし
	owner     string
	logger    *slog.Logger
}

func NewPusher(store storage.ObjectStore, locks *locking.Manager, staging *Staging,
	validator runner.Validator, journal repository.DeploymentRepository, owner string, logger *slog.Logger) *Pusher {
	return &Pusher{store: store, locks: locks, staging: staging, validator: validator,
		journal: journal, owner: owner, logger: logger}
}

// Push runs the single-environment safe deploy for name into env.
// The lock is released exactly once on every exit path.
func (p *Pusher) Push(ctx context.Context, name string, env model.Environment, skipTests bool) (model.Outcome, error) {
	if err := model.ValidateArtifactName(name); err != nil {
		return model.OutcomeAborted, err
	}
	if !skipTests && p.validator == nil {
		return model.OutcomeAborted, errors.New("no validation command configured (set VALIDATE_COMMAND or pass --skip-tests)")
	}
	content, err := p.staging.ReadEntry(name)
	if err != nil {
		return model.OutcomeAborted, err
	}

	key := model.ArtifactKey(name, env)
	lockKey := model.LockKey(key)

	ok, holder, err := p.locks.Acquire(ctx, lockKey, p.owner)
	if err != nil {
		return model.OutcomeAborted, err
	}
	if !ok {
		return model.OutcomeAborted, &ContentionError{Key: key, Owner: holder.Owner, Remaining: holder.Remaining}
	}
	defer p.locks.Release(ctx, lockKey)

	started := clock.Now()
	outcome, err := deployWithBackup(ctx, p.store, p.validator, p.logger,
		key, env, content, skipTests, p.staging.backupPath(name, env))

	p.record(ctx, model.Deployment{
		Artifact: name, Environment: env, Action: "push",
		Outcome: outcome, Operator: p.owner,
		Message:   errMessage(err),
		StartedAt: started, FinishedAt: clock.Now(),
	})
	return outcome, err
}

// record writes a journal row. Best-effort: a journal problem never changes
// the result of a deployment that already reached its terminal state.
func (p *Pusher) record(ctx context.Context, d model.Deployment) {
	if p.journal == nil {
		return
	}
	if err := p.journal.Record(context.WithoutCancel(ctx), d); err != nil {
		p.logger.Warn("journal record failed", slog.Any("error", err))
	}
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
