package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newPipelinesCmd(ctx *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "pipelines",
		Short: "List pipelines declared by the build script",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := evaluateScript(ctx)
			if err != nil {
				return err
			}
			for _, p := range env.Registry.Pipelines() {
				kinds := make([]string, len(p.Steps))
				for i, s := range p.Steps {
					kinds[i] = s.Kind()
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", p.Name, strings.Join(kinds, ", "))
			}
			return nil
		},
	}
}
