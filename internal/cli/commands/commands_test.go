package commands

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/shipyard-build/shipyard/internal/cli/shared"
)

func TestMapExitCode(t *testing.T) {
	if got := mapExitCode(newExitCodeError(shared.ExitPipelineFailed, errors.New("x"))); got != shared.ExitPipelineFailed {
		t.Fatalf("expected %d got %d", shared.ExitPipelineFailed, got)
	}
	if got := mapExitCode(errors.New("other")); got != shared.ExitError {
		t.Fatalf("expected %d got %d", shared.ExitError, got)
	}
}

func writeScript(t *testing.T, dir, source string) string {
	t.Helper()
	path := filepath.Join(dir, "build.ship")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("write build.ship: %v", err)
	}
	return path
}

func testAppContext(t *testing.T, source string) *appContext {
	t.Helper()
	temp := t.TempDir()
	if err := os.WriteFile(filepath.Join(temp, "payload.txt"), []byte("payload"), 0o644); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	return &appContext{
		scriptPath: writeScript(t, temp, source),
		distPath:   filepath.Join(temp, "dist"),
		logger:     zerolog.Nop(),
	}
}

const tarScript = `
m = file_manifest_from_files(files = glob(include = "*.txt"))
pipeline(name = "release", steps = [tar_archive(filename = "bundle.tar", manifest = m)])
`

func TestRunCommandBuildsArtifacts(t *testing.T) {
	ctx := testAppContext(t, tarScript)

	cmd := newRunCmd(ctx)
	cmd.SetArgs(nil)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(ctx.distPath, "bundle.tar")); err != nil {
		t.Fatalf("bundle.tar missing: %v", err)
	}
}

func TestBuildCommandReturnsDefinedExitCodes(t *testing.T) {
	ctx := testAppContext(t, tarScript)

	cmd := newBuildCmd(ctx)
	cmd.SetArgs([]string{"missing"})
	err := cmd.Execute()
	if err == nil {
		t.Fatalf("expected undefined pipeline error")
	}
	var exitErr *exitCodeError
	if !errors.As(err, &exitErr) || exitErr.code != shared.ExitPipelineUndefined {
		t.Fatalf("expected ExitPipelineUndefined, err=%v", err)
	}

	cmd = newBuildCmd(ctx)
	cmd.SetArgs([]string{"release"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(ctx.distPath, "bundle.tar")); err != nil {
		t.Fatalf("bundle.tar missing: %v", err)
	}
}

func TestRunCommandReturnsEvalFailedForBrokenScript(t *testing.T) {
	ctx := testAppContext(t, `pipeline(name = 7)`)

	cmd := newRunCmd(ctx)
	cmd.SetArgs(nil)
	err := cmd.Execute()
	if err == nil {
		t.Fatalf("expected evaluation failure")
	}
	var exitErr *exitCodeError
	if !errors.As(err, &exitErr) || exitErr.code != shared.ExitEvalFailed {
		t.Fatalf("expected ExitEvalFailed, err=%v", err)
	}
}

func TestRunCommandReturnsEvalFailedWhenScriptMissing(t *testing.T) {
	ctx := &appContext{
		scriptPath: filepath.Join(t.TempDir(), "missing.ship"),
		distPath:   t.TempDir(),
		logger:     zerolog.Nop(),
	}

	cmd := newRunCmd(ctx)
	cmd.SetArgs(nil)
	err := cmd.Execute()
	if err == nil {
		t.Fatalf("expected missing script error")
	}
	var exitErr *exitCodeError
	if !errors.As(err, &exitErr) || exitErr.code != shared.ExitEvalFailed {
		t.Fatalf("expected ExitEvalFailed, err=%v", err)
	}
}

func TestPipelinesCommandListsDeclarations(t *testing.T) {
	ctx := testAppContext(t, tarScript)

	var out bytes.Buffer
	cmd := newPipelinesCmd(ctx)
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("pipelines failed: %v", err)
	}

	if !strings.Contains(out.String(), "release\ttar_archive") {
		t.Fatalf("unexpected listing:\n%s", out.String())
	}
}

func TestVersionCommandPrintsVersion(t *testing.T) {
	var out bytes.Buffer
	cmd := newVersionCmd("1.2.3")
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if strings.TrimSpace(out.String()) != "1.2.3" {
		t.Fatalf("unexpected output: %q", out.String())
	}
}
