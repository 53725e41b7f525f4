package deb

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/linuxerwang/ar"

	"github.com/shipyard-build/shipyard/pkg/digest"
	"github.com/shipyard-build/shipyard/pkg/manifest"
	"github.com/shipyard-build/shipyard/pkg/tarball"
)

// Write produces a .deb package: an ar container holding debian-binary,
// control.tar and data.tar, strictly in that order. The member timestamp is
// captured once at the start of the build.
//
// The format is documented at
// https://manpages.debian.org/unstable/dpkg-dev/deb.5.en.html.
func Write(w io.Writer, control *ControlFile, m *manifest.FileManifest) error {
	return WriteWithTime(w, control, m, time.Now())
}

// WriteWithTime is Write with an explicit timestamp. Building twice from
// identical inputs and the same timestamp produces byte-identical output.
func WriteWithTime(w io.Writer, control *ControlFile, m *manifest.FileManifest, mtime time.Time) error {
	arw := ar.NewWriter(w)
	if err := arw.WriteGlobalHeader(); err != nil {
		return fmt.Errorf("writing ar header: %w", err)
	}

	if err := writeMember(arw, "debian-binary", []byte("2.0\n"), mtime); err != nil {
		return err
	}

	var controlTar bytes.Buffer
	if err := buildControlTar(&controlTar, control, m, mtime); err != nil {
		return err
	}
	if err := writeMember(arw, "control.tar", controlTar.Bytes(), mtime); err != nil {
		return err
	}

	var dataTar bytes.Buffer
	if err := buildDataTar(&dataTar, m, mtime); err != nil {
		return err
	}
	// TODO compress data.tar once the format negotiation story is settled.
	return writeMember(arw, "data.tar", dataTar.Bytes(), mtime)
}

func writeMember(arw *ar.Writer, name string, data []byte, mtime time.Time) error {
	hdr := &ar.Header{
		Name:    name,
		Size:    int64(len(data)),
		ModTime: mtime,
		Mode:    0o644,
		Uid:     0,
		Gid:     0,
	}
	if err := arw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("writing header for %s: %w", name, err)
	}
	if _, err := arw.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// buildControlTar writes a plain tar stream with exactly two members in
// order: control and md5sums.
func buildControlTar(w io.Writer, control *ControlFile, m *manifest.FileManifest, mtime time.Time) error {
	tw := tar.NewWriter(w)

	controlData := control.Render()
	if err := appendMember(tw, "control", controlData, mtime); err != nil {
		return err
	}

	sums, err := MD5Sums(m)
	if err != nil {
		return fmt.Errorf("computing md5sums: %w", err)
	}
	if err := appendMember(tw, "md5sums", sums, mtime); err != nil {
		return err
	}

	return tw.Close()
}

func appendMember(tw *tar.Writer, name string, data []byte, mtime time.Time) error {
	hdr := &tar.Header{
		Name:    name,
		Mode:    0o644,
		Size:    int64(len(data)),
		ModTime: mtime,
		Format:  tar.FormatGNU,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("appending %s: %w", name, err)
	}
	if _, err := tw.Write(data); err != nil {
		return fmt.Errorf("appending %s: %w", name, err)
	}
	return nil
}

// MD5Sums renders the md5sums control member: one line per manifest entry
// in key order, lowercase hex digest, two spaces, relative path.
func MD5Sums(m *manifest.FileManifest) ([]byte, error) {
	var b bytes.Buffer
	for _, rel := range m.Paths() {
		source, _ := m.Source(rel)
		content, err := os.ReadFile(source)
		if err != nil {
			return nil, err
		}
		b.WriteString(digest.MD5Hex(content))
		b.WriteString("  ")
		b.WriteString(rel)
		b.WriteByte('\n')
	}
	return b.Bytes(), nil
}

// buildDataTar writes a plain tar stream with one member per manifest
// entry, paths rewritten with a "./" prefix per .deb convention. Only
// regular files are emitted; no directory entries.
func buildDataTar(w io.Writer, m *manifest.FileManifest, mtime time.Time) error {
	tw := tar.NewWriter(w)

	for _, rel := range m.Paths() {
		source, _ := m.Source(rel)
		info, err := os.Stat(source)
		if err != nil {
			return fmt.Errorf("reading %s: %w", source, err)
		}
		content, err := os.ReadFile(source)
		if err != nil {
			return fmt.Errorf("reading %s: %w", source, err)
		}

		hdr := &tar.Header{
			Name:    "./" + rel,
			Mode:    tarball.FileMode(info.Mode()),
			Size:    int64(len(content)),
			ModTime: mtime,
			Format:  tar.FormatGNU,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return fmt.Errorf("appending %s: %w", rel, err)
		}
		if _, err := tw.Write(content); err != nil {
			return fmt.Errorf("appending %s: %w", rel, err)
		}
	}

	return tw.Close()
}
