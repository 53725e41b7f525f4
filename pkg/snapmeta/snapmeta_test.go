package snapmeta

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestWriteFileRoundTrip(t *testing.T) {
	snap := &Snap{
		Name:        "app",
		Version:     "1.2.3",
		Summary:     "short summary",
		Description: "longer description",
		Base:        "core22",
		Confinement: "strict",
		Apps: map[string]App{
			"app": {Command: "bin/app", Plugs: []string{"network"}},
		},
		Parts: map[string]Part{
			"app": {Plugin: "dump", Source: "."},
		},
	}

	path := filepath.Join(t.TempDir(), "snap", "snapcraft.yaml")
	if err := snap.WriteFile(path); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapcraft.yaml: %v", err)
	}

	var loaded Snap
	if err := yaml.Unmarshal(content, &loaded); err != nil {
		t.Fatalf("unmarshal snapcraft.yaml: %v", err)
	}
	if loaded.Name != "app" || loaded.Version != "1.2.3" {
		t.Fatalf("unexpected top level fields: %+v", loaded)
	}
	if loaded.Apps["app"].Command != "bin/app" {
		t.Fatalf("unexpected app command: %+v", loaded.Apps["app"])
	}
	if loaded.Parts["app"].Plugin != "dump" {
		t.Fatalf("unexpected part plugin: %+v", loaded.Parts["app"])
	}
}

func TestWriteFileOmitsEmptyOptionalFields(t *testing.T) {
	snap := &Snap{Name: "app", Version: "1.0", Summary: "s", Description: "d"}

	path := filepath.Join(t.TempDir(), "snapcraft.yaml")
	if err := snap.WriteFile(path); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapcraft.yaml: %v", err)
	}
	if strings.Contains(string(content), "confinement:") {
		t.Fatalf("empty optional field serialized:\n%s", content)
	}
}
