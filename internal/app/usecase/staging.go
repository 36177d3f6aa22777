package usecase

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/kawabatas/prompt-deploy/internal/domain/model"
	"github.com/kawabatas/prompt-deploy/internal/infra/locking"
	"github.com/kawabatas/prompt-deploy/internal/infra/storage"
)

// Staging manages the operator's local working copies: one file per artifact
// name under the staging directory, edited between pull and push.
type Staging struct {
	store  storage.ObjectStore
	locks  *locking.Manager
	dir    string
	owner  string
	editor string
	logger *slog.Logger
}

func NewStaging(store storage.ObjectStore, locks *locking.Manager, dir, owner, editor string, logger *slog.Logger) *Staging {
	return &Staging{store: store, locks: locks, dir: dir, owner: owner, editor: editor, logger: logger}
}

// EntryPath returns the staging file for an artifact name.
func (s *Staging) EntryPath(name string) string {
	return filepath.Join(s.dir, name+".txt")
}

// backupPath is the transient snapshot file used while a deploy is in flight.
func (s *Staging) backupPath(name string, env model.Environment) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s.%s.bak", name, env))
}

// ReadEntry returns the staged content for name.
func (s *Staging) ReadEntry(name string) (string, error) {
	b, err := os.ReadFile(s.EntryPath(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s is not staged: pull or edit it first", name)
		}
		return "", err
	}
	return string(b), nil
}

// Pull fetches the remote artifact into the staging directory. The lock is
// taken first so a pull never observes a half-finished push; contention takes
// priority over fetching and aborts without touching the store further.
func (s *Staging) Pull(ctx context.Context, name string, env model.Environment) error {
	if err := model.ValidateArtifactName(name); err != nil {
		return err
	}
	key := model.ArtifactKey(name, env)
	lockKey := model.LockKey(key)

	ok, holder, err := s.locks.Acquire(ctx, lockKey, s.owner)
	if err != nil {
		return err
	}
	if !ok {
		return &ContentionError{Key: key, Owner: holder.Owner, Remaining: holder.Remaining}
	}
	defer s.locks.Release(ctx, lockKey)

	content, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s does not exist in %s (use edit to stage a first version)", name, env)
		}
		return err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}
	if err := os.WriteFile(s.EntryPath(name), []byte(content), 0644); err != nil {
		return err
	}
	s.logger.Info("pulled artifact", slog.String("artifact", name), slog.String("env", string(env)), slog.String("path", s.EntryPath(name)))
	return nil
}

// Diff renders a line-level diff of the remote content against the local
// staging entry. No lock is required: the comparison mutates nothing. An
// empty result means no differences.
func (s *Staging) Diff(ctx context.Context, name string, env model.Environment) (string, error) {
	if err := model.ValidateArtifactName(name); err != nil {
		return "", err
	}
	local, err := s.ReadEntry(name)
	if err != nil {
		return "", err
	}

	key := model.ArtifactKey(name, env)
	remote, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			remote = ""
		} else {
			return "", err
		}
	}
	return renderDiff(key, remote, s.EntryPath(name), local)
}

// Edit opens the staging entry in the operator's editor, creating an empty
// entry first when none exists (the path for staging a brand-new artifact).
func (s *Staging) Edit(ctx context.Context, name string) error {
	if err := model.ValidateArtifactName(name); err != nil {
		return err
	}
	path := s.EntryPath(name)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(s.dir, 0755); err != nil {
			return err
		}
		if err := os.WriteFile(path, nil, 0644); err != nil {
			return err
		}
	}

	cmd := exec.CommandContext(ctx, s.editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor %s: %w", s.editor, err)
	}
	return nil
}
