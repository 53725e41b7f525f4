package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shipyard-build/shipyard/pkg/deb"
	"github.com/shipyard-build/shipyard/pkg/digest"
	"github.com/shipyard-build/shipyard/pkg/manifest"
	"github.com/shipyard-build/shipyard/pkg/snapmeta"
	"github.com/shipyard-build/shipyard/pkg/tarball"
)

// TarArchiveStep produces a tar archive in the dist path. Destinations
// ending in .tar.gz/.tgz or .tar.xz/.txz get whole-stream compression.
type TarArchiveStep struct {
	DestName string
	Manifest *manifest.FileManifest
}

func (s *TarArchiveStep) Kind() string { return "tar_archive" }

func (s *TarArchiveStep) Run(ctx *Context) error {
	dest := filepath.Join(ctx.DistPath, s.DestName)
	ctx.Logger.Info().Str("path", dest).Msg("writing tarball")

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", dest, err)
	}
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	if err := tarball.Write(out, tarball.FormatForName(s.DestName), s.Manifest, time.Now()); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", dest, err)
	}

	return reportArtifact(ctx, dest)
}

// DebArchiveStep produces a Debian binary package named
// <Package>_<Version>.deb in the dist path.
type DebArchiveStep struct {
	Paragraph deb.ControlParagraph
	Manifest  *manifest.FileManifest
}

func (s *DebArchiveStep) Kind() string { return "debian_deb_archive" }

func (s *DebArchiveStep) Run(ctx *Context) error {
	pkg, ok := s.Paragraph.Get("Package")
	if !ok {
		return fmt.Errorf("control paragraph has no Package field")
	}
	version, ok := s.Paragraph.Get("Version")
	if !ok {
		return fmt.Errorf("control paragraph has no Version field")
	}

	dest := filepath.Join(ctx.DistPath, fmt.Sprintf("%s_%s.deb", pkg, version))
	ctx.Logger.Info().Str("path", dest).Msg("writing Debian package")

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", dest, err)
	}
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}

	control := &deb.ControlFile{}
	control.AddParagraph(s.Paragraph.Clone())

	if err := deb.Write(out, control, s.Manifest); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", dest, err)
	}

	return reportArtifact(ctx, dest)
}

// SnapcraftStep invokes snapcraft from a stable build path whose contents
// are replaced by the step's manifest before invocation. snapcraft mounts
// the path into its build environment and does not notice when the source
// directory changes between invocations, hence the stable path.
type SnapcraftStep struct {
	Args      []string
	Snap      *snapmeta.Snap
	BuildPath string
	Manifest  *manifest.FileManifest
}

func (s *SnapcraftStep) Kind() string { return "snapcraft" }

func (s *SnapcraftStep) Run(ctx *Context) error {
	if err := os.MkdirAll(s.BuildPath, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", s.BuildPath, err)
	}
	if err := clearDir(s.BuildPath); err != nil {
		return err
	}
	if err := manifest.InstallFiles(s.BuildPath, s.Manifest); err != nil {
		return err
	}
	if err := s.Snap.WriteFile(filepath.Join(s.BuildPath, "snap", "snapcraft.yaml")); err != nil {
		return err
	}

	ctx.Logger.Info().Str("path", s.BuildPath).Strs("args", s.Args).Msg("running snapcraft")
	return ctx.Runner.Run(s.BuildPath, "snapcraft", s.Args, func(line string) {
		ctx.Logger.Info().Str("tool", "snapcraft").Msg(line)
	})
}

func clearDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", dir, err)
	}
	for _, entry := range entries {
		p := filepath.Join(dir, entry.Name())
		if err := os.RemoveAll(p); err != nil {
			return fmt.Errorf("removing %s: %w", p, err)
		}
	}
	return nil
}

// reportArtifact logs the BLAKE3 digest of a produced artifact.
func reportArtifact(ctx *Context, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading artifact %s: %w", path, err)
	}
	ctx.Logger.Info().Str("path", path).Str("blake3", digest.BLAKE3Hex(content)).Msg("artifact written")
	return nil
}
