package script

import (
	"errors"
	"fmt"

	"go.starlark.net/starlark"
)

// EvaluateFile evaluates a build script against env and returns the
// script's global bindings. Pipelines declared by the script accumulate in
// env.Registry; callers freeze the registry before executing anything.
// Script print() output is routed to the event sink.
func EvaluateFile(path string, env *Environment) (starlark.StringDict, error) {
	thread := &starlark.Thread{
		Name: "shipyard",
		Print: func(_ *starlark.Thread, msg string) {
			env.Logger.Info().Str("script", path).Msg(msg)
		},
	}

	env.Logger.Info().Str("script", path).Msg("evaluating")

	globals, err := starlark.ExecFile(thread, path, nil, env.Predeclared())
	if err != nil {
		var evalErr *starlark.EvalError
		if errors.As(err, &evalErr) {
			return nil, fmt.Errorf("evaluating %s: %s\n%s", path, evalErr.Msg, evalErr.Backtrace())
		}
		return nil, fmt.Errorf("evaluating %s: %w", path, err)
	}

	return globals, nil
}
