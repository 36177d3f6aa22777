package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/kawabatas/prompt-deploy/internal/domain/model"
	"github.com/kawabatas/prompt-deploy/internal/domain/repository"
	"github.com/kawabatas/prompt-deploy/internal/infra/locking"
	"github.com/kawabatas/prompt-deploy/internal/infra/runner"
	"github.com/kawabatas/prompt-deploy/internal/infra/storage"
	"github.com/kawabatas/prompt-deploy/internal/util/clock"
)

// Promoter copies the current dev content of an artifact into prod, behind a
// diff review and an interactive confirmation gate. It is the highest
// blast-radius operation in the tool and refuses to run unattended.
type Promoter struct {
	store     storage.ObjectStore
	locks     *locking.Manager
	staging   *Staging
	validator runner.Validator
	journal   repository.DeploymentRepository
	confirm   Confirmer
	owner     string
	out       io.Writer // diff review destination
	logger    *slog.Logger
}

func NewPromoter(store storage.ObjectStore, locks *locking.Manager, staging *Staging,
	validator runner.Validator, journal repository.DeploymentRepository,
	confirm Confirmer, owner string, out io.Writer, logger *slog.Logger) *Promoter {
	return &Promoter{store: store, locks: locks, staging: staging, validator: validator,
		journal: journal, confirm: confirm, owner: owner, out: out, logger: logger}
}

// Promote runs the dev → prod promotion for name. Nothing in prod is touched
// before the operator has seen the diff and typed "yes".
func (p *Promoter) Promote(ctx context.Context, name string, skipTests bool) (model.Outcome, error) {
	if err := model.ValidateArtifactName(name); err != nil {
		return model.OutcomeAborted, err
	}
	if !skipTests && p.validator == nil {
		return model.OutcomeAborted, errors.New("no validation command configured (set VALIDATE_COMMAND or pass --skip-tests)")
	}
	devKey := model.ArtifactKey(name, model.EnvDev)
	prodKey := model.ArtifactKey(name, model.EnvProd)

	devContent, err := p.store.Get(ctx, devKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return model.OutcomeAborted, ErrNothingToPromote
		}
		return model.OutcomeAborted, err
	}

	prodContent, err := p.store.Get(ctx, prodKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		fmt.Fprintf(p.out, "%s does not exist in prod yet: this is a first deployment.\n", name)
		prodContent = ""
	case err != nil:
		return model.OutcomeAborted, err
	}

	diff, err := renderDiff(prodKey, prodContent, devKey, devContent)
	if err != nil {
		return model.OutcomeAborted, err
	}
	if diff == "" {
		fmt.Fprintln(p.out, "prod already matches dev (no differences).")
	} else {
		fmt.Fprint(p.out, diff)
	}

	yes, err := p.confirm.Confirm(fmt.Sprintf("Promote %s to prod? Type 'yes' to continue: ", name))
	if err != nil {
		return model.OutcomeAborted, err
	}
	if !yes {
		p.logger.Info("promotion declined", slog.String("artifact", name))
		return model.OutcomeDeclined, nil
	}

	lockKey := model.LockKey(prodKey)
	ok, holder, err := p.locks.Acquire(ctx, lockKey, p.owner)
	if err != nil {
		return model.OutcomeAborted, err
	}
	if !ok {
		return model.OutcomeAborted, &ContentionError{Key: prodKey, Owner: holder.Owner, Remaining: holder.Remaining}
	}
	defer p.locks.Release(ctx, lockKey)

	started := clock.Now()
	outcome, err := deployWithBackup(ctx, p.store, p.validator, p.logger,
		prodKey, model.EnvProd, devContent, skipTests, p.staging.backupPath(name, model.EnvProd))

	p.record(ctx, model.Deployment{
		Artifact: name, Environment: model.EnvProd, Action: "promote",
		Outcome: outcome, Operator: p.owner,
		Message:   errMessage(err),
		StartedAt: started, FinishedAt: clock.Now(),
	})
	return outcome, err
}

func (p *Promoter) record(ctx context.Context, d model.Deployment) {
	if p.journal == nil {
		return
	}
	if err := p.journal.Record(context.WithoutCancel(ctx), d); err != nil {
		p.logger.Warn("journal record failed", slog.Any("error", err))
	}
}
