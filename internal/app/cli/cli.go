// Package cli defines the promptctl command tree. Commands stay thin: they
// parse arguments and hand off to the usecase services wired in cmd/promptctl.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kawabatas/prompt-deploy/internal/app/usecase"
	"github.com/kawabatas/prompt-deploy/internal/domain/model"
	"github.com/kawabatas/prompt-deploy/internal/domain/repository"
	"github.com/spf13/cobra"
)

// App bundles the services the commands run against.
type App struct {
	Staging     *usecase.Staging
	Pusher      *usecase.Pusher
	Promoter    *usecase.Promoter
	Deployments repository.DeploymentRepository // nil のとき history は使えない
	Logger      *slog.Logger
}

// NewRootCmd builds the promptctl command tree.
func (a *App) NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "promptctl",
		Short:         "Manage versioned prompt artifacts across dev and prod",
		SilenceUsage:  false,
		SilenceErrors: true,
	}
	root.AddCommand(
		a.newPullCmd(),
		a.newDiffCmd(),
		a.newEditCmd(),
		a.newPushCmd(),
		a.newPromoteCmd(),
		a.newHistoryCmd(),
	)
	return root
}

func (a *App) newPullCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pull <env> <artifact>",
		Short: "Fetch the remote artifact into the local staging directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := model.ParseEnvironment(args[0])
			if err != nil {
				return err
			}
			return a.Staging.Pull(cmd.Context(), args[1], env)
		},
	}
}

func (a *App) newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <env> <artifact>",
		Short: "Diff the remote artifact against the local staging entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := model.ParseEnvironment(args[0])
			if err != nil {
				return err
			}
			diff, err := a.Staging.Diff(cmd.Context(), args[1], env)
			if err != nil {
				return err
			}
			if diff == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "no differences")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), diff)
			return nil
		},
	}
}

func (a *App) newEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <artifact>",
		Short: "Open the local staging entry in $EDITOR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Staging.Edit(cmd.Context(), args[0])
		},
	}
}

func (a *App) newPushCmd() *cobra.Command {
	var skipTests bool
	cmd := &cobra.Command{
		Use:   "push <env> <artifact>",
		Short: "Deploy the staged artifact into one environment (backup, push, validate, rollback)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := model.ParseEnvironment(args[0])
			if err != nil {
				return err
			}
			outcome, err := a.Pusher.Push(cmd.Context(), args[1], env, skipTests)
			return a.report(cmd, args[1], outcome, err)
		},
	}
	cmd.Flags().BoolVar(&skipTests, "skip-tests", false, "skip the validation run after pushing")
	return cmd
}

func (a *App) newPromoteCmd() *cobra.Command {
	var skipTests bool
	cmd := &cobra.Command{
		Use:   "promote <artifact>",
		Short: "Copy the dev artifact into prod after diff review and confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outcome, err := a.Promoter.Promote(cmd.Context(), args[0], skipTests)
			return a.report(cmd, args[0], outcome, err)
		},
	}
	cmd.Flags().BoolVar(&skipTests, "skip-tests", false, "skip the validation run after promoting")
	return cmd
}

func (a *App) newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history <env>",
		Short: "List recent deployments recorded in the local journal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := model.ParseEnvironment(args[0])
			if err != nil {
				return err
			}
			if a.Deployments == nil {
				return fmt.Errorf("no deployment journal configured (set JOURNAL_DB)")
			}
			rows, err := a.Deployments.List(cmd.Context(), env, limit)
			if err != nil {
				return err
			}
			for _, d := range rows {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-8s %-22s %-10s %s\n",
					d.FinishedAt.Format("2006-01-02 15:04:05"), d.Action, d.Outcome, d.Artifact, d.Operator)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of rows to show")
	return cmd
}

// report prints the terminal status line and decides whether the run counts
// as an error for exit-code purposes.
func (a *App) report(cmd *cobra.Command, name string, outcome model.Outcome, err error) error {
	switch outcome {
	case model.OutcomeCommitted:
		fmt.Fprintf(cmd.OutOrStdout(), "%s: committed\n", name)
	case model.OutcomeDeclined:
		fmt.Fprintf(cmd.OutOrStdout(), "%s: promotion declined, nothing changed\n", name)
	case model.OutcomeRolledBackRestored:
		fmt.Fprintf(cmd.OutOrStdout(), "%s: validation failed, previous content restored\n", name)
	case model.OutcomeRolledBackDeleted:
		fmt.Fprintf(cmd.OutOrStdout(), "%s: validation failed, deployment deleted\n", name)
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "%s: aborted\n", name)
	}
	return err
}

// ExitCode maps a command error to the process exit status: 0 success,
// 1 handled failure, 2 rollback failure (remote state ambiguous),
// 130 operator interrupt.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var rb *usecase.RollbackError
	if errors.As(err, &rb) {
		return 2
	}
	if errors.Is(err, context.Canceled) {
		return 130
	}
	return 1
}
