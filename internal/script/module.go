// Package script defines the Starlark dialect used by build scripts: the
// bridge validating dynamically typed script values, the native domain
// values, and the constructor functions registered into the global
// namespace.
package script

import (
	"github.com/rs/zerolog"
	"go.starlark.net/starlark"

	"github.com/shipyard-build/shipyard/pkg/manifest"

	"github.com/shipyard-build/shipyard/internal/pipeline"
)

// Environment holds the state a build script evaluates against. Scripts
// see CWD, DIST_PATH and the live PIPELINES list; pipelines declared by
// the script accumulate in Registry in declaration order.
type Environment struct {
	CWD      string
	DistPath string
	Registry *pipeline.Registry
	Logger   zerolog.Logger

	pipelines *starlark.List
}

func NewEnvironment(cwd, distPath string, logger zerolog.Logger) *Environment {
	return &Environment{
		CWD:       cwd,
		DistPath:  distPath,
		Registry:  pipeline.NewRegistry(),
		Logger:    logger,
		pipelines: starlark.NewList(nil),
	}
}

// Predeclared builds the global namespace for script evaluation.
func (e *Environment) Predeclared() starlark.StringDict {
	return starlark.StringDict{
		"CWD":       starlark.String(e.CWD),
		"DIST_PATH": starlark.String(e.DistPath),
		"PIPELINES": e.pipelines,

		"glob":                     starlark.NewBuiltin("glob", e.globFn),
		"file_manifest_from_files": starlark.NewBuiltin("file_manifest_from_files", e.fileManifestFromFilesFn),
		"tar_archive":              starlark.NewBuiltin("tar_archive", e.tarArchiveFn),
		"pipeline":                 starlark.NewBuiltin("pipeline", e.pipelineFn),

		"debian_control":                       starlark.NewBuiltin("debian_control", e.debianControlFn),
		"debian_control_binary_package":        starlark.NewBuiltin("debian_control_binary_package", e.debianControlBinaryPackageFn),
		"debian_control_source_binary_package": starlark.NewBuiltin("debian_control_source_binary_package", e.debianControlSourceBinaryPackageFn),
		"debian_deb_archive":                   starlark.NewBuiltin("debian_deb_archive", e.debianDebArchiveFn),

		"snap":      starlark.NewBuiltin("snap", e.snapFn),
		"snap_app":  starlark.NewBuiltin("snap_app", e.snapAppFn),
		"snap_part": starlark.NewBuiltin("snap_part", e.snapPartFn),
		"snapcraft": starlark.NewBuiltin("snapcraft", e.snapcraftFn),
	}
}

// glob(include, exclude=None) resolves file patterns to SourceFile values.
// Both arguments accept a string or a list of strings.
func (e *Environment) globFn(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var includeV starlark.Value
	excludeV := starlark.Value(starlark.None)
	if err := starlark.UnpackArgs("glob", args, kwargs, "include", &includeV, "exclude?", &excludeV); err != nil {
		return nil, err
	}

	include, err := stringOrStringList("include", includeV)
	if err != nil {
		return nil, err
	}
	var exclude []string
	if _, isNone := excludeV.(starlark.NoneType); !isNone {
		exclude, err = stringOrStringList("exclude", excludeV)
		if err != nil {
			return nil, err
		}
	}

	files, err := manifest.Resolve(e.CWD, include, exclude)
	if err != nil {
		return nil, err
	}

	values := make([]starlark.Value, len(files))
	for i, f := range files {
		values[i] = newSourceFileValue(f)
	}
	return starlark.NewList(values), nil
}

// file_manifest_from_files(files, relative_to=None, prefix=None) builds a
// FileManifest from a list of SourceFile values. relative_to defaults to
// the script's working directory.
func (e *Environment) fileManifestFromFilesFn(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var filesV starlark.Value
	relativeToV := starlark.Value(starlark.None)
	prefixV := starlark.Value(starlark.None)
	if err := starlark.UnpackArgs("file_manifest_from_files", args, kwargs,
		"files", &filesV, "relative_to?", &relativeToV, "prefix?", &prefixV); err != nil {
		return nil, err
	}

	elems, err := requiredListOf("files", typeSourceFile, filesV)
	if err != nil {
		return nil, err
	}
	files := make([]manifest.SourceFile, len(elems))
	for i, elem := range elems {
		f, err := nativeData[manifest.SourceFile]("files", typeSourceFile, elem)
		if err != nil {
			return nil, err
		}
		files[i] = f
	}

	relativeTo, ok, err := optionalString("relative_to", relativeToV)
	if err != nil {
		return nil, err
	}
	if !ok {
		relativeTo = e.CWD
	}
	prefix, _, err := optionalString("prefix", prefixV)
	if err != nil {
		return nil, err
	}

	m, err := manifest.FromFiles(files, relativeTo, prefix)
	if err != nil {
		return nil, err
	}
	return newManifestValue(m), nil
}

// tar_archive(filename, manifest) declares a step producing a tar archive.
// The manifest is snapshotted; later mutation of the original is not
// reflected in the step.
func (e *Environment) tarArchiveFn(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var filenameV, manifestV starlark.Value
	if err := starlark.UnpackArgs("tar_archive", args, kwargs, "filename", &filenameV, "manifest", &manifestV); err != nil {
		return nil, err
	}

	filename, err := requiredString("filename", filenameV)
	if err != nil {
		return nil, err
	}
	m, err := nativeData[*manifest.FileManifest]("manifest", typeFileManifest, manifestV)
	if err != nil {
		return nil, err
	}

	return newTarArchiveValue(&pipeline.TarArchiveStep{
		DestName: filename,
		Manifest: m.Clone(),
	}), nil
}

// pipeline(name, steps=None) declares a pipeline and appends it to the
// registry and the PIPELINES list.
func (e *Environment) pipelineFn(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var nameV starlark.Value
	stepsV := starlark.Value(starlark.None)
	if err := starlark.UnpackArgs("pipeline", args, kwargs, "name", &nameV, "steps?", &stepsV); err != nil {
		return nil, err
	}

	name, err := requiredString("name", nameV)
	if err != nil {
		return nil, err
	}

	var steps []pipeline.Step
	if _, isNone := stepsV.(starlark.NoneType); !isNone {
		list, ok := stepsV.(*starlark.List)
		if !ok {
			return nil, mismatch("steps", "list", stepsV)
		}
		for i := 0; i < list.Len(); i++ {
			step, err := asStep(list.Index(i))
			if err != nil {
				return nil, err
			}
			steps = append(steps, step)
		}
	}

	p := &pipeline.Pipeline{
		Name:     name,
		DistPath: e.DistPath,
		Steps:    steps,
	}
	if err := e.Registry.Add(p); err != nil {
		return nil, err
	}

	value := newPipelineValue(p)
	if err := e.pipelines.Append(value); err != nil {
		return nil, err
	}
	return value, nil
}

func asStep(v starlark.Value) (pipeline.Step, error) {
	switch v.Type() {
	case typeTarArchive:
		return nativeData[*pipeline.TarArchiveStep]("steps", typeTarArchive, v)
	case typeDebArchive:
		return nativeData[*pipeline.DebArchiveStep]("steps", typeDebArchive, v)
	case typeSnapcraft:
		return nativeData[*pipeline.SnapcraftStep]("steps", typeSnapcraft, v)
	default:
		return nil, mismatch("steps", "TarArchive, DebianDebArchive or Snapcraft", v)
	}
}
