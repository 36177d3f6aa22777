package runner

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/kawabatas/prompt-deploy/internal/domain/model"
)

// Validator checks a freshly deployed artifact in the given environment.
// A nil return means the deployment is good; any error triggers rollback.
type Validator interface {
	Validate(ctx context.Context, env model.Environment) error
}

// Command runs an external validation command with the environment name
// appended as the last argument. Output is streamed to the operator's
// terminal, not captured; exit code 0 is a pass, anything else a failure.
type Command struct {
	Argv []string
}

var _ Validator = (*Command)(nil)

// Parse splits a VALIDATE_COMMAND value on whitespace.
// シェル経由では実行しないため、クォートは解釈されない。
func Parse(command string) (*Command, error) {
	argv := strings.Fields(command)
	if len(argv) == 0 {
		return nil, fmt.Errorf("validate command is empty")
	}
	return &Command{Argv: argv}, nil
}

func (c *Command) Validate(ctx context.Context, env model.Environment) error {
	args := append(append([]string{}, c.Argv[1:]...), string(env))
	cmd := exec.CommandContext(ctx, c.Argv[0], args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		// 中断による失敗は検証失敗と区別できるようにする
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("validation interrupted: %w", ctxErr)
		}
		return fmt.Errorf("validation command %q: %w", strings.Join(c.Argv, " "), err)
	}
	return nil
}
