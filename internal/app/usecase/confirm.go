package usecase

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Confirmer asks the operator for an explicit go-ahead. Only a literal,
// case-insensitive "yes" proceeds.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// StdinConfirmer reads a single line from standard input. A non-interactive
// stream (pipe, CI) yields ErrNonInteractive instead of a decline so the
// caller can tell "human said no" from "no human present".
type StdinConfirmer struct{}

var _ Confirmer = StdinConfirmer{}

func (StdinConfirmer) Confirm(prompt string) (bool, error) {
	fd := os.Stdin.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return false, ErrNonInteractive
	}
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && strings.TrimSpace(line) == "" {
		// EOF など。入力が取れなければ進めない
		return false, nil
	}
	return strings.EqualFold(strings.TrimSpace(line), "yes"), nil
}
