package pipeline

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
)

// ToolRunner runs an external packaging tool in a working directory,
// forwarding its stdout line by line. The tool itself is a black box; the
// engine only needs this interface.
type ToolRunner interface {
	Run(dir, name string, args []string, line func(string)) error
}

// ToolError reports a tool that exited non-zero or whose output could not
// be read.
type ToolError struct {
	Tool string
	Err  error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s: %v", e.Tool, e.Err)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// ExecRunner runs tools as subprocesses. There is no timeout or
// cancellation; the tool runs to completion.
type ExecRunner struct{}

func (ExecRunner) Run(dir, name string, args []string, line func(string)) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stderr = os.Stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return &ToolError{Tool: name, Err: err}
	}
	if err := cmd.Start(); err != nil {
		return &ToolError{Tool: name, Err: err}
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		_ = cmd.Wait()
		return &ToolError{Tool: name, Err: err}
	}

	if err := cmd.Wait(); err != nil {
		return &ToolError{Tool: name, Err: err}
	}
	return nil
}
