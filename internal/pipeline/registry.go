package pipeline

import (
	"errors"
	"fmt"
)

// NotFoundError reports a named pipeline absent from the registry.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("pipeline %q is not defined", e.Name)
}

// ErrFrozen is returned when a pipeline is declared after evaluation
// completed.
var ErrFrozen = errors.New("pipeline registry is frozen")

// Registry accumulates pipelines in declaration order during script
// evaluation. Freezing it marks the transition from the mutable evaluation
// phase to the read-only execution phase; evaluation always fully precedes
// execution.
type Registry struct {
	pipelines []*Pipeline
	frozen    bool
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Add(p *Pipeline) error {
	if r.frozen {
		return ErrFrozen
	}
	r.pipelines = append(r.pipelines, p)
	return nil
}

func (r *Registry) Freeze() {
	r.frozen = true
}

func (r *Registry) Pipelines() []*Pipeline {
	return r.pipelines
}

// ExecuteAll runs every pipeline in declaration order, aborting at the
// first failure.
func (r *Registry) ExecuteAll(ctx *Context) error {
	for _, p := range r.pipelines {
		if err := p.Execute(ctx); err != nil {
			return fmt.Errorf("pipeline %q: %w", p.Name, err)
		}
	}
	return nil
}

// ExecuteNamed runs the first pipeline whose name equals name. Duplicate
// names are allowed; later declarations are never reached by lookup.
func (r *Registry) ExecuteNamed(ctx *Context, name string) error {
	for _, p := range r.pipelines {
		if p.Name == name {
			if err := p.Execute(ctx); err != nil {
				return fmt.Errorf("pipeline %q: %w", p.Name, err)
			}
			return nil
		}
	}
	return &NotFoundError{Name: name}
}
