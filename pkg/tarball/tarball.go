// Package tarball writes deterministic tar archives from file manifests.
package tarball

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"

	"github.com/shipyard-build/shipyard/pkg/manifest"
)

// Format selects the stream encoding for a tarball destination.
type Format int

const (
	FormatTar Format = iota
	FormatTarGzip
	FormatTarXz
)

// FormatForName picks the encoding from the destination filename.
func FormatForName(name string) Format {
	switch {
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return FormatTarGzip
	case strings.HasSuffix(name, ".tar.xz"), strings.HasSuffix(name, ".txz"):
		return FormatTarXz
	default:
		return FormatTar
	}
}

// Write streams the manifest as a tar archive to w. Entries appear in
// manifest key order with fixed uid/gid and the given mtime, so output
// bytes depend only on the manifest content and mtime. A read failure on
// any entry aborts the whole write.
func Write(w io.Writer, format Format, m *manifest.FileManifest, mtime time.Time) error {
	var tw *tar.Writer

	switch format {
	case FormatTarGzip:
		gz := gzip.NewWriter(w)
		defer gz.Close()
		tw = tar.NewWriter(gz)
	case FormatTarXz:
		xzw, err := xz.NewWriter(w)
		if err != nil {
			return fmt.Errorf("opening xz stream: %w", err)
		}
		defer xzw.Close()
		tw = tar.NewWriter(xzw)
	default:
		tw = tar.NewWriter(w)
	}

	for _, rel := range m.Paths() {
		source, _ := m.Source(rel)
		if err := appendFile(tw, rel, source, mtime); err != nil {
			return err
		}
	}

	return tw.Close()
}

func appendFile(tw *tar.Writer, rel, source string, mtime time.Time) error {
	in, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("reading %s: %w", source, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("reading %s: %w", source, err)
	}

	hdr := &tar.Header{
		Name:    rel,
		Mode:    FileMode(info.Mode()),
		Size:    info.Size(),
		ModTime: mtime,
		Format:  tar.FormatGNU,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("appending %s: %w", rel, err)
	}
	if _, err := io.Copy(tw, in); err != nil {
		return fmt.Errorf("appending %s: %w", rel, err)
	}
	return nil
}

// FileMode maps a source file mode onto the fixed archive modes: 0755 for
// executables, 0644 for everything else.
func FileMode(mode os.FileMode) int64 {
	if mode&0o111 != 0 {
		return 0o755
	}
	return 0o644
}
