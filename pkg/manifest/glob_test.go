package manifest

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func sortedPaths(files []SourceFile) []string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	sort.Strings(paths)
	return paths
}

func TestResolveIncludeExclude(t *testing.T) {
	temp := t.TempDir()
	writeFile(t, filepath.Join(temp, "a.txt"), "a")
	writeFile(t, filepath.Join(temp, "b.txt"), "b")
	writeFile(t, filepath.Join(temp, "skip.txt"), "skip")
	writeFile(t, filepath.Join(temp, "other.bin"), "bin")

	files, err := Resolve(temp, []string{"*.txt"}, []string{"skip.txt"})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	got := sortedPaths(files)
	want := []string{filepath.Join(temp, "a.txt"), filepath.Join(temp, "b.txt")}
	if len(got) != len(want) {
		t.Fatalf("expected %d files, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected match set: %v", got)
		}
	}
}

func TestResolveRecursivePattern(t *testing.T) {
	temp := t.TempDir()
	writeFile(t, filepath.Join(temp, "top.conf"), "top")
	writeFile(t, filepath.Join(temp, "nested", "deep", "inner.conf"), "inner")
	writeFile(t, filepath.Join(temp, "nested", "readme.md"), "md")

	files, err := Resolve(temp, []string{"**/*.conf"}, nil)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected two matches, got %v", sortedPaths(files))
	}
}

func TestResolveSkipsDirectories(t *testing.T) {
	temp := t.TempDir()
	writeFile(t, filepath.Join(temp, "dir.d", "inner.txt"), "x")
	writeFile(t, filepath.Join(temp, "plain.d"), "file named like a dir")

	files, err := Resolve(temp, []string{"*.d"}, nil)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected only the regular file, got %v", sortedPaths(files))
	}
	if files[0].Path != filepath.Join(temp, "plain.d") {
		t.Fatalf("unexpected match: %s", files[0].Path)
	}
}

func TestResolveAbsolutePattern(t *testing.T) {
	temp := t.TempDir()
	writeFile(t, filepath.Join(temp, "abs.txt"), "abs")

	files, err := Resolve("/nonexistent-cwd", []string{filepath.Join(temp, "*.txt")}, nil)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(files) != 1 || files[0].Path != filepath.Join(temp, "abs.txt") {
		t.Fatalf("unexpected matches: %v", sortedPaths(files))
	}
}

func TestResolveNoMatches(t *testing.T) {
	temp := t.TempDir()

	files, err := Resolve(temp, []string{"*.none"}, nil)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected no matches, got %v", sortedPaths(files))
	}
}
