package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/shipyard-build/shipyard/internal/cli/shared"
	"github.com/shipyard-build/shipyard/internal/logging"
	"github.com/shipyard-build/shipyard/internal/script"
)

type appContext struct {
	scriptPath string
	distPath   string
	verbosity  int

	logger zerolog.Logger
}

func NewRootCmd(version string) *cobra.Command {
	ctx := &appContext{}
	cmd := &cobra.Command{
		Use:   "shipyard",
		Short: "Evaluate packaging scripts and build distributable artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ctx.logger = logging.Setup(ctx.verbosity)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&ctx.scriptPath, "script", "build.ship", "path to build script")
	cmd.PersistentFlags().StringVar(&ctx.distPath, "dist", "dist", "directory to write artifacts to")
	cmd.PersistentFlags().CountVarP(&ctx.verbosity, "verbose", "v", "increase log verbosity")

	cmd.AddCommand(newRunCmd(ctx))
	cmd.AddCommand(newBuildCmd(ctx))
	cmd.AddCommand(newPipelinesCmd(ctx))
	cmd.AddCommand(newVersionCmd(version))

	return cmd
}

func Execute(version string) int {
	if err := NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return mapExitCode(err)
	}
	return shared.ExitOK
}

func mapExitCode(err error) int {
	var codeErr *exitCodeError
	if errors.As(err, &codeErr) {
		return codeErr.code
	}
	return shared.ExitError
}

// evaluateScript evaluates the build script and returns its environment
// with a frozen pipeline registry, ready for execution.
func evaluateScript(ctx *appContext) (*script.Environment, error) {
	scriptPath, err := filepath.Abs(ctx.scriptPath)
	if err != nil {
		return nil, err
	}
	distPath, err := filepath.Abs(ctx.distPath)
	if err != nil {
		return nil, err
	}

	env := script.NewEnvironment(filepath.Dir(scriptPath), distPath, ctx.logger)
	if _, err := script.EvaluateFile(scriptPath, env); err != nil {
		return nil, newExitCodeError(shared.ExitEvalFailed, err)
	}
	env.Registry.Freeze()
	return env, nil
}

type exitCodeError struct {
	code int
	err  error
}

func newExitCodeError(code int, err error) *exitCodeError {
	return &exitCodeError{code: code, err: err}
}

func (e *exitCodeError) Error() string {
	return e.err.Error()
}

func (e *exitCodeError) Unwrap() error {
	return e.err
}
