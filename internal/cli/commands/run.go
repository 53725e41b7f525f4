package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/shipyard-build/shipyard/internal/cli/shared"
	"github.com/shipyard-build/shipyard/internal/pipeline"
	"github.com/shipyard-build/shipyard/internal/script"
)

func newRunCmd(ctx *appContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate the build script and execute all pipelines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := evaluateScript(ctx)
			if err != nil {
				return err
			}
			if err := env.Registry.ExecuteAll(executionContext(env)); err != nil {
				return newExitCodeError(shared.ExitPipelineFailed, err)
			}
			return nil
		},
	}
	return cmd
}

func newBuildCmd(ctx *appContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <pipeline>",
		Short: "Execute one named pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := evaluateScript(ctx)
			if err != nil {
				return err
			}
			if err := env.Registry.ExecuteNamed(executionContext(env), args[0]); err != nil {
				var notFound *pipeline.NotFoundError
				if errors.As(err, &notFound) {
					return newExitCodeError(shared.ExitPipelineUndefined, err)
				}
				return newExitCodeError(shared.ExitPipelineFailed, err)
			}
			return nil
		},
	}
	return cmd
}

func executionContext(env *script.Environment) *pipeline.Context {
	return &pipeline.Context{
		Logger: env.Logger,
		Runner: pipeline.ExecRunner{},
	}
}
