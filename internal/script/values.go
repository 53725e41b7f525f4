package script

import (
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/shipyard-build/shipyard/pkg/deb"
	"github.com/shipyard-build/shipyard/pkg/manifest"
	"github.com/shipyard-build/shipyard/pkg/snapmeta"

	"github.com/shipyard-build/shipyard/internal/pipeline"
)

// Type tags of the native values the dialect exposes.
const (
	typeSourceFile          = "SourceFile"
	typeFileManifest        = "FileManifest"
	typeTarArchive          = "TarArchive"
	typePipeline            = "Pipeline"
	typeControl             = "DebianControl"
	typeControlBinary       = "DebianControlBinaryPackage"
	typeControlSourceBinary = "DebianControlSourceBinaryPackage"
	typeDebArchive          = "DebianDebArchive"
	typeSnap                = "Snap"
	typeSnapApp             = "SnapApp"
	typeSnapPart            = "SnapPart"
	typeSnapcraft           = "Snapcraft"
)

// nativeValue adapts a domain object into an opaque, immutable script
// value. It supports neither arithmetic, indexing nor iteration; equality
// and ordering compare canonical string representations. The string form
// is computed once at construction since the wrapped object never changes.
type nativeValue struct {
	typeName string
	repr     string
	truth    bool
	data     any
}

var _ starlark.Comparable = (*nativeValue)(nil)

func (v *nativeValue) String() string        { return v.repr }
func (v *nativeValue) Type() string          { return v.typeName }
func (v *nativeValue) Freeze()               {}
func (v *nativeValue) Truth() starlark.Bool  { return starlark.Bool(v.truth) }
func (v *nativeValue) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: %s", v.typeName) }

func (v *nativeValue) CompareSameType(op syntax.Token, y starlark.Value, _ int) (bool, error) {
	x, yr := v.repr, y.String()
	switch op {
	case syntax.EQL:
		return x == yr, nil
	case syntax.NEQ:
		return x != yr, nil
	case syntax.LT:
		return x < yr, nil
	case syntax.LE:
		return x <= yr, nil
	case syntax.GT:
		return x > yr, nil
	case syntax.GE:
		return x >= yr, nil
	default:
		return false, fmt.Errorf("unsupported comparison %s for type %s", op, v.typeName)
	}
}

// nativeData extracts the domain object wrapped by a native value,
// signalling TypeMismatch when the value has a different type tag.
func nativeData[T any](name, typeName string, v starlark.Value) (T, error) {
	var zero T
	nv, ok := v.(*nativeValue)
	if !ok || nv.typeName != typeName {
		return zero, mismatch(name, typeName, v)
	}
	return nv.data.(T), nil
}

func newSourceFileValue(f manifest.SourceFile) *nativeValue {
	return &nativeValue{
		typeName: typeSourceFile,
		repr:     fmt.Sprintf("SourceFile<path=%s>", f.Path),
		data:     f,
	}
}

func newManifestValue(m *manifest.FileManifest) *nativeValue {
	return &nativeValue{
		typeName: typeFileManifest,
		repr:     m.String(),
		data:     m,
	}
}

func newTarArchiveValue(step *pipeline.TarArchiveStep) *nativeValue {
	return &nativeValue{
		typeName: typeTarArchive,
		repr:     fmt.Sprintf("TarArchive<dest_name=%s, file_manifest=%s>", step.DestName, step.Manifest),
		data:     step,
	}
}

func newPipelineValue(p *pipeline.Pipeline) *nativeValue {
	kinds := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		kinds[i] = s.Kind()
	}
	return &nativeValue{
		typeName: typePipeline,
		repr:     fmt.Sprintf("Pipeline<name=%s, steps=%v>", p.Name, kinds),
		data:     p,
	}
}

func newControlValue(paragraphs []deb.ControlParagraph) *nativeValue {
	return &nativeValue{
		typeName: typeControl,
		repr:     fmt.Sprintf("DebianControl<%s>", paragraphsRepr(paragraphs)),
		truth:    true,
		data:     paragraphs,
	}
}

func newControlBinaryValue(p deb.ControlParagraph) *nativeValue {
	return &nativeValue{
		typeName: typeControlBinary,
		repr:     fmt.Sprintf("DebianControlBinaryPackage<%s>", paragraphsRepr([]deb.ControlParagraph{p})),
		truth:    true,
		data:     p,
	}
}

func newControlSourceBinaryValue(p deb.ControlParagraph) *nativeValue {
	return &nativeValue{
		typeName: typeControlSourceBinary,
		repr:     fmt.Sprintf("DebianControlSourceBinaryPackage<%s>", paragraphsRepr([]deb.ControlParagraph{p})),
		truth:    true,
		data:     p,
	}
}

func newDebArchiveValue(step *pipeline.DebArchiveStep) *nativeValue {
	return &nativeValue{
		typeName: typeDebArchive,
		repr: fmt.Sprintf("DebianDebArchive<control_file=%s, files=%s>",
			paragraphsRepr([]deb.ControlParagraph{step.Paragraph}), step.Manifest),
		truth: true,
		data:  step,
	}
}

func newSnapValue(s *snapmeta.Snap) *nativeValue {
	return &nativeValue{
		typeName: typeSnap,
		repr:     fmt.Sprintf("Snap<name=%s, version=%s>", s.Name, s.Version),
		truth:    true,
		data:     s,
	}
}

func newSnapAppValue(app snapmeta.App) *nativeValue {
	return &nativeValue{
		typeName: typeSnapApp,
		repr:     fmt.Sprintf("SnapApp<%+v>", app),
		truth:    true,
		data:     app,
	}
}

func newSnapPartValue(part snapmeta.Part) *nativeValue {
	return &nativeValue{
		typeName: typeSnapPart,
		repr:     fmt.Sprintf("SnapPart<%+v>", part),
		truth:    true,
		data:     part,
	}
}

func newSnapcraftValue(step *pipeline.SnapcraftStep) *nativeValue {
	return &nativeValue{
		typeName: typeSnapcraft,
		repr:     fmt.Sprintf("Snapcraft<snap=%s, build_path=%s, manifest=%s>", step.Snap.Name, step.BuildPath, step.Manifest),
		truth:    true,
		data:     step,
	}
}

func paragraphsRepr(paragraphs []deb.ControlParagraph) string {
	s := ""
	for i, p := range paragraphs {
		if i > 0 {
			s += "; "
		}
		for j, e := range p.Entries() {
			if j > 0 {
				s += ", "
			}
			s += fmt.Sprintf("%s=%s", e.Key, e.Value)
		}
	}
	return s
}
