package manifest

import (
	"fmt"
	"sort"
	"strings"
)

// SourceFile wraps one resolved absolute path to a regular file.
type SourceFile struct {
	Path string
}

// FileManifest maps archive-relative paths to absolute source paths.
// Relative paths use forward slashes and never start with "/". Iteration
// follows lexicographic key order, so archive output built from a manifest
// depends only on its content.
type FileManifest struct {
	files map[string]string
}

func NewFileManifest() *FileManifest {
	return &FileManifest{files: map[string]string{}}
}

// Add records rel as coming from source. A later Add with the same rel
// overwrites the earlier entry.
func (m *FileManifest) Add(rel, source string) {
	m.files[rel] = source
}

func (m *FileManifest) Len() int {
	return len(m.files)
}

// Paths returns the archive-relative paths in lexicographic order.
func (m *FileManifest) Paths() []string {
	paths := make([]string, 0, len(m.files))
	for rel := range m.files {
		paths = append(paths, rel)
	}
	sort.Strings(paths)
	return paths
}

func (m *FileManifest) Source(rel string) (string, bool) {
	source, ok := m.files[rel]
	return source, ok
}

// Clone returns an independent copy. Steps snapshot their manifest so that
// mutating the original after step construction has no effect on them.
func (m *FileManifest) Clone() *FileManifest {
	clone := NewFileManifest()
	for rel, source := range m.files {
		clone.files[rel] = source
	}
	return clone
}

func (m *FileManifest) String() string {
	var b strings.Builder
	b.WriteString("FileManifest<")
	for i, rel := range m.Paths() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%s", rel, m.files[rel])
	}
	b.WriteString(">")
	return b.String()
}
