package usecase

import (
	"errors"
	"fmt"
	"time"
)

// ErrNonInteractive is returned when a promotion is attempted without an
// interactive stdin. Promotion is deliberately excluded from unattended
// automation, so this aborts before any mutation.
var ErrNonInteractive = errors.New("promotion requires an interactive terminal for confirmation")

// ErrNothingToPromote is returned when the dev artifact does not exist.
var ErrNothingToPromote = errors.New("nothing to promote: artifact does not exist in dev")

// ContentionError reports a live lock held by another operator. It occurs
// before any mutation; the caller aborts with no further side effects.
type ContentionError struct {
	Key       string
	Owner     string
	Remaining time.Duration
}

func (e *ContentionError) Error() string {
	return fmt.Sprintf("%s is locked by %s for another %s", e.Key, e.Owner, e.Remaining.Round(time.Second))
}

// RollbackError is the most severe failure mode: validation failed and the
// rollback itself also failed, so the remote key may match neither the old
// nor the new content. It must never be conflated with a plain validation
// failure.
type RollbackError struct {
	Validation error
	Rollback   error
}

func (e *RollbackError) Error() string {
	return fmt.Sprintf("validation failed (%v) and rollback also failed: %v — remote state is ambiguous", e.Validation, e.Rollback)
}

func (e *RollbackError) Unwrap() error { return e.Rollback }
