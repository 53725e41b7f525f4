package script

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"go.starlark.net/starlark"

	"github.com/shipyard-build/shipyard/internal/pipeline"
)

func scriptDir(t *testing.T) string {
	t.Helper()
	temp, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("resolving temp dir: %v", err)
	}
	for _, name := range []string{"a.txt", "b.txt", "skip.txt"} {
		if err := os.WriteFile(filepath.Join(temp, name), []byte(name), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return temp
}

func evaluate(t *testing.T, dir, source string) (*Environment, starlark.StringDict) {
	t.Helper()
	path := filepath.Join(dir, "build.ship")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	env := NewEnvironment(dir, filepath.Join(dir, "dist"), zerolog.Nop())
	globals, err := EvaluateFile(path, env)
	if err != nil {
		t.Fatalf("EvaluateFile returned error: %v", err)
	}
	return env, globals
}

func TestEvaluateTarPipeline(t *testing.T) {
	dir := scriptDir(t)
	env, globals := evaluate(t, dir, `
files = glob(include = "*.txt", exclude = "skip.txt")
m = file_manifest_from_files(files = files)
t = tar_archive(filename = "bundle.tar.gz", manifest = m)
pipeline(name = "release", steps = [t])

file_count = len(files)
pipeline_count = len(PIPELINES)
manifest_is_truthy = bool(m)
`)

	fileCount, err := starlark.AsInt32(globals["file_count"])
	if err != nil || fileCount != 2 {
		t.Fatalf("unexpected file_count: %v (err=%v)", globals["file_count"], err)
	}
	pipelineCount, err := starlark.AsInt32(globals["pipeline_count"])
	if err != nil || pipelineCount != 1 {
		t.Fatalf("unexpected pipeline_count: %v (err=%v)", globals["pipeline_count"], err)
	}
	if globals["manifest_is_truthy"] != starlark.False {
		t.Fatalf("manifest should be falsy, got %v", globals["manifest_is_truthy"])
	}

	pipelines := env.Registry.Pipelines()
	if len(pipelines) != 1 || pipelines[0].Name != "release" {
		t.Fatalf("unexpected registry contents: %v", pipelines)
	}
	if pipelines[0].DistPath != filepath.Join(dir, "dist") {
		t.Fatalf("unexpected dist path: %s", pipelines[0].DistPath)
	}

	step, ok := pipelines[0].Steps[0].(*pipeline.TarArchiveStep)
	if !ok {
		t.Fatalf("unexpected step type %T", pipelines[0].Steps[0])
	}
	if step.DestName != "bundle.tar.gz" {
		t.Fatalf("unexpected dest name: %s", step.DestName)
	}
	if got := step.Manifest.Paths(); len(got) != 2 || got[0] != "a.txt" || got[1] != "b.txt" {
		t.Fatalf("unexpected manifest keys: %v", got)
	}
}

func TestEvaluateDebPipeline(t *testing.T) {
	dir := scriptDir(t)
	env, _ := evaluate(t, dir, `
m = file_manifest_from_files(files = glob(include = "*.txt"), prefix = "usr/share/app")
ctrl = debian_control_binary_package(
    package = "app",
    version = "0.1.0",
    architecture = "amd64",
    maintainer = "Dev One <one@example.com>",
    description = "demo package",
    depends = ["libc6", "libssl3"],
)
pipeline(name = "deb", steps = [debian_deb_archive(control_binary_package = ctrl, files = m)])
`)

	step, ok := env.Registry.Pipelines()[0].Steps[0].(*pipeline.DebArchiveStep)
	if !ok {
		t.Fatalf("unexpected step type %T", env.Registry.Pipelines()[0].Steps[0])
	}
	if v, _ := step.Paragraph.Get("Package"); v != "app" {
		t.Fatalf("unexpected Package: %s", v)
	}
	if v, _ := step.Paragraph.Get("Depends"); v != "libc6, libssl3" {
		t.Fatalf("unexpected Depends: %s", v)
	}
	if got := step.Manifest.Paths(); len(got) != 3 || !strings.HasPrefix(got[0], "usr/share/app/") {
		t.Fatalf("unexpected manifest keys: %v", got)
	}
}

func TestEvaluateSnapPipeline(t *testing.T) {
	dir := scriptDir(t)
	env, _ := evaluate(t, dir, `
m = file_manifest_from_files(files = glob(include = "a.txt"))
s = snap(
    name = "app",
    description = "demo snap",
    summary = "demo",
    version = "1.0",
    base = "core22",
    apps = {"app": snap_app(command = "bin/app")},
    parts = {"app": snap_part(plugin = "dump", source = ".")},
)
pipeline(name = "snap", steps = [
    snapcraft(args = ["snap"], snap = s, build_path = "snap-build", manifest = m),
])
`)

	step, ok := env.Registry.Pipelines()[0].Steps[0].(*pipeline.SnapcraftStep)
	if !ok {
		t.Fatalf("unexpected step type %T", env.Registry.Pipelines()[0].Steps[0])
	}
	if step.Snap.Name != "app" || step.Snap.Base != "core22" {
		t.Fatalf("unexpected snap descriptor: %+v", step.Snap)
	}
	if step.Snap.Apps["app"].Command != "bin/app" {
		t.Fatalf("unexpected app entry: %+v", step.Snap.Apps)
	}
	if step.Snap.Parts["app"].Plugin != "dump" {
		t.Fatalf("unexpected part entry: %+v", step.Snap.Parts)
	}
	if step.BuildPath != "snap-build" || len(step.Args) != 1 || step.Args[0] != "snap" {
		t.Fatalf("unexpected invocation: path=%s args=%v", step.BuildPath, step.Args)
	}
}

func TestEvaluateTypeErrorAborts(t *testing.T) {
	dir := scriptDir(t)
	path := filepath.Join(dir, "build.ship")
	source := `
m = file_manifest_from_files(files = glob(include = "a.txt"))
tar_archive(filename = 7, manifest = m)
`
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	env := NewEnvironment(dir, filepath.Join(dir, "dist"), zerolog.Nop())
	_, err := EvaluateFile(path, env)
	if err == nil {
		t.Fatalf("expected evaluation failure")
	}
	if !strings.Contains(err.Error(), "argument filename expects type string; got int") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEvaluatePredeclaredConstants(t *testing.T) {
	dir := scriptDir(t)
	_, globals := evaluate(t, dir, `
cwd = CWD
dist = DIST_PATH
`)

	if got := globals["cwd"]; got != starlark.String(dir) {
		t.Fatalf("unexpected CWD binding: %v", got)
	}
	if got := globals["dist"]; got != starlark.String(filepath.Join(dir, "dist")) {
		t.Fatalf("unexpected DIST_PATH binding: %v", got)
	}
}

func TestEvaluateDebianControlRendersVcsPair(t *testing.T) {
	dir := scriptDir(t)
	_, globals := evaluate(t, dir, `
ctrl = debian_control(
    source = "app",
    maintainer = "Dev One <one@example.com>",
    standards_version = "4.6.2",
    uploaders = ["a@example.com", "b@example.com"],
    vcs_type = "Git",
    vcs_value = "https://example.com/app.git",
    binary_packages = [
        debian_control_source_binary_package(
            package = "app",
            architecture = "any",
            description = "demo",
        ),
    ],
)
repr_text = str(ctrl)
`)

	text := string(globals["repr_text"].(starlark.String))
	if !strings.Contains(text, "Vcs-Git=https://example.com/app.git") {
		t.Fatalf("Vcs pair missing from control: %s", text)
	}
	if !strings.Contains(text, "Uploaders=a@example.com, b@example.com") {
		t.Fatalf("Uploaders not comma-joined: %s", text)
	}
}
