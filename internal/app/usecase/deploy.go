package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/kawabatas/prompt-deploy/internal/domain/model"
	"github.com/kawabatas/prompt-deploy/internal/infra/runner"
	"github.com/kawabatas/prompt-deploy/internal/infra/storage"
)

// deployWithBackup is the shared backup → write → validate → commit/rollback
// sequence behind push and promote. The caller holds the lock for key and
// releases it after this returns.
//
// The backup is tri-state: a prior object exists (restore on rollback), no
// prior object exists (delete on rollback — distinct from "empty content"),
// or the state could not be determined, which aborts before any mutation.
func deployWithBackup(ctx context.Context, store storage.ObjectStore, validator runner.Validator,
	logger *slog.Logger, key string, env model.Environment, content string, skipTests bool,
	backupFile string) (model.Outcome, error) {

	prev, err := store.Get(ctx, key)
	hadPrev := err == nil
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		// バックアップ状態が不明のまま先へ進まない
		return model.OutcomeAborted, fmt.Errorf("backup read %s: %w", key, err)
	}

	if hadPrev {
		if err := os.WriteFile(backupFile, []byte(prev), 0644); err != nil {
			return model.OutcomeAborted, fmt.Errorf("write backup file: %w", err)
		}
		defer os.Remove(backupFile)
		logger.Info("backed up current content", slog.String("key", key), slog.String("backup", backupFile))
	} else {
		logger.Info("no prior content; first deployment", slog.String("key", key))
	}

	// ここが外部から見える変更点
	if err := store.Put(ctx, key, content); err != nil {
		return model.OutcomeAborted, fmt.Errorf("push %s: %w", key, err)
	}
	logger.Info("pushed new content", slog.String("key", key))

	if skipTests {
		logger.Info("validation skipped", slog.String("key", key))
		return model.OutcomeCommitted, nil
	}

	verr := validator.Validate(ctx, env)
	if verr == nil {
		logger.Info("validation passed", slog.String("key", key))
		return model.OutcomeCommitted, nil
	}
	logger.Warn("validation failed; rolling back", slog.String("key", key), slog.Any("error", verr))

	// 中断によって検証が落ちた場合でもロールバックは最後まで走らせる
	rbctx := context.WithoutCancel(ctx)
	if hadPrev {
		if rerr := store.Put(rbctx, key, prev); rerr != nil {
			return model.OutcomeAborted, &RollbackError{Validation: verr, Rollback: rerr}
		}
		logger.Info("restored previous content", slog.String("key", key))
		return model.OutcomeRolledBackRestored, fmt.Errorf("validation failed, previous content restored: %w", verr)
	}
	if rerr := store.Delete(rbctx, key); rerr != nil && !errors.Is(rerr, storage.ErrNotFound) {
		return model.OutcomeAborted, &RollbackError{Validation: verr, Rollback: rerr}
	}
	logger.Info("deleted pushed content; key is absent again", slog.String("key", key))
	return model.OutcomeRolledBackDeleted, fmt.Errorf("validation failed, deployment deleted: %w", verr)
}
