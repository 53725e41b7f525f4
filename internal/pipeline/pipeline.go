// Package pipeline holds the packaging pipeline model: steps, pipelines and
// the registry that accumulates them during script evaluation and executes
// them afterwards.
package pipeline

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Context carries the collaborators a step needs at execution time.
type Context struct {
	// DistPath is the directory artifacts are written to. The registry
	// sets it per pipeline from the pipeline's captured dist path.
	DistPath string
	Logger   zerolog.Logger
	Runner   ToolRunner
}

// Step is one packaging action. Steps own an independent snapshot of their
// data and are immutable once constructed.
type Step interface {
	// Kind names the step variant for progress events and errors.
	Kind() string
	Run(ctx *Context) error
}

// Pipeline is a named ordered sequence of steps with a captured output
// directory.
type Pipeline struct {
	Name     string
	DistPath string
	Steps    []Step
}

// Execute runs each step in declared order. The first failing step aborts
// the remaining steps; artifacts already produced are not rolled back.
func (p *Pipeline) Execute(ctx *Context) error {
	stepCtx := &Context{
		DistPath: p.DistPath,
		Logger:   ctx.Logger.With().Str("pipeline", p.Name).Logger(),
		Runner:   ctx.Runner,
	}

	for i, step := range p.Steps {
		stepCtx.Logger.Info().Int("step", i+1).Str("kind", step.Kind()).Msg("executing step")
		if err := step.Run(stepCtx); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step.Kind(), err)
		}
	}

	stepCtx.Logger.Info().Msg("pipeline complete")
	return nil
}
