// Package snapmeta models the subset of snapcraft.yaml used to drive
// snapcraft invocations.
package snapmeta

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Part is a snapcraft.yaml parts.* entry.
// See https://snapcraft.io/docs/snapcraft-parts-metadata.
type Part struct {
	After            []string          `yaml:"after,omitempty"`
	BuildEnvironment map[string]string `yaml:"build-environment,omitempty"`
	BuildPackages    []string          `yaml:"build-packages,omitempty"`
	BuildSnaps       []string          `yaml:"build-snaps,omitempty"`
	Filesets         []string          `yaml:"filesets,omitempty"`
	Organize         map[string]string `yaml:"organize,omitempty"`
	OverrideBuild    string            `yaml:"override-build,omitempty"`
	OverridePrime    string            `yaml:"override-prime,omitempty"`
	OverridePull     string            `yaml:"override-pull,omitempty"`
	OverrideStage    string            `yaml:"override-stage,omitempty"`
	ParseInfo        string            `yaml:"parse-info,omitempty"`
	Plugin           string            `yaml:"plugin,omitempty"`
	Prime            []string          `yaml:"prime,omitempty"`
	Source           string            `yaml:"source,omitempty"`
	SourceBranch     string            `yaml:"source-branch,omitempty"`
	SourceChecksum   string            `yaml:"source-checksum,omitempty"`
	SourceCommit     string            `yaml:"source-commit,omitempty"`
	SourceSubdir     string            `yaml:"source-subdir,omitempty"`
	SourceTag        string            `yaml:"source-tag,omitempty"`
	SourceType       string            `yaml:"source-type,omitempty"`
	Stage            []string          `yaml:"stage,omitempty"`
	StagePackages    []string          `yaml:"stage-packages,omitempty"`
	StageSnaps       []string          `yaml:"stage-snaps,omitempty"`
}

// App is a snapcraft.yaml apps.* entry.
// See https://snapcraft.io/docs/snapcraft-app-and-service-metadata.
type App struct {
	Adapter          string            `yaml:"adapter,omitempty"`
	Command          string            `yaml:"command,omitempty"`
	CommandChain     []string          `yaml:"command-chain,omitempty"`
	CommonID         string            `yaml:"common-id,omitempty"`
	Daemon           string            `yaml:"daemon,omitempty"`
	Desktop          string            `yaml:"desktop,omitempty"`
	Environment      map[string]string `yaml:"environment,omitempty"`
	ListenStream     string            `yaml:"listen-stream,omitempty"`
	Plugs            []string          `yaml:"plugs,omitempty"`
	PostStopCommand  string            `yaml:"post-stop-command,omitempty"`
	RestartCondition string            `yaml:"restart-condition,omitempty"`
	Slots            []string          `yaml:"slots,omitempty"`
	StopCommand      string            `yaml:"stop-command,omitempty"`
	StopTimeout      string            `yaml:"stop-timeout,omitempty"`
}

// Snap is a full snapcraft.yaml file.
// See https://snapcraft.io/docs/snapcraft-top-level-metadata.
type Snap struct {
	AdoptInfo   string          `yaml:"adopt-info,omitempty"`
	Base        string          `yaml:"base,omitempty"`
	Confinement string          `yaml:"confinement,omitempty"`
	Description string          `yaml:"description"`
	Grade       string          `yaml:"grade,omitempty"`
	Icon        string          `yaml:"icon,omitempty"`
	License     string          `yaml:"license,omitempty"`
	Name        string          `yaml:"name"`
	Summary     string          `yaml:"summary"`
	Title       string          `yaml:"title,omitempty"`
	SnapType    string          `yaml:"type,omitempty"`
	Version     string          `yaml:"version"`
	Apps        map[string]App  `yaml:"apps"`
	Parts       map[string]Part `yaml:"parts"`
}

// WriteFile renders the descriptor as YAML at path, creating parent
// directories as needed.
func (s *Snap) WriteFile(path string) error {
	content, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("rendering snapcraft.yaml: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	return os.WriteFile(path, content, 0o644)
}
