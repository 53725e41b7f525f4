package manifest

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// RelativePathError reports a source file that is not a descendant of the
// declared relative root.
type RelativePathError struct {
	Path string
	Root string
}

func (e *RelativePathError) Error() string {
	return fmt.Sprintf("%s is not relative to %s", e.Path, e.Root)
}

// FromFiles builds a manifest from resolved source files. Each file path
// must be a descendant of relativeRoot; the descendant suffix becomes the
// archive-relative path, with prefix path-joined in front when given.
// Source paths are canonicalized so archive builders read real file content
// regardless of working directory changes between declaration and execution.
func FromFiles(files []SourceFile, relativeRoot, prefix string) (*FileManifest, error) {
	m := NewFileManifest()

	for _, f := range files {
		rel, err := filepath.Rel(relativeRoot, f.Path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil, &RelativePathError{Path: f.Path, Root: relativeRoot}
		}

		key := filepath.ToSlash(rel)
		if prefix != "" {
			key = path.Join(prefix, key)
		}

		source, err := filepath.EvalSymlinks(f.Path)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", f.Path, err)
		}
		m.Add(key, source)
	}

	return m, nil
}

// InstallFiles materializes the manifest under destDir, creating
// intermediate directories as needed and preserving source file modes.
func InstallFiles(destDir string, m *FileManifest) error {
	for _, rel := range m.Paths() {
		source, _ := m.Source(rel)
		dest := filepath.Join(destDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", rel, err)
		}
		if err := copyFile(source, dest); err != nil {
			return fmt.Errorf("installing %s: %w", rel, err)
		}
	}
	return nil
}

func copyFile(source, dest string) error {
	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
