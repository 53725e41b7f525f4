package script

import (
	"go.starlark.net/starlark"

	"github.com/shipyard-build/shipyard/pkg/manifest"
	"github.com/shipyard-build/shipyard/pkg/snapmeta"

	"github.com/shipyard-build/shipyard/internal/pipeline"
)

// strArgs extracts string arguments, remembering the first contract
// violation.
type strArgs struct {
	err error
}

func (a *strArgs) req(name string, v starlark.Value) string {
	if a.err != nil {
		return ""
	}
	s, err := requiredString(name, v)
	if err != nil {
		a.err = err
	}
	return s
}

func (a *strArgs) opt(name string, v starlark.Value) string {
	if a.err != nil {
		return ""
	}
	s, _, err := optionalString(name, v)
	if err != nil {
		a.err = err
	}
	return s
}

func (e *Environment) warnUnsupported(fn, arg string, v starlark.Value) {
	if _, isNone := v.(starlark.NoneType); !isNone {
		e.Logger.Warn().Msgf("%s argument to %s() not yet supported", arg, fn)
	}
}

// snap_part(**kwargs) builds a snapcraft.yaml parts.* entry. Keys use `_`
// where snapcraft.yaml uses `-`.
func (e *Environment) snapPartFn(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	names := []string{
		"after", "build_environment", "build_packages", "build_snaps",
		"filesets", "organize", "override_build", "override_prime",
		"override_pull", "override_stage", "parse_info", "plugin", "prime",
		"source", "source_branch", "source_checksum", "source_commit",
		"source_depth", "source_subdir", "source_tag", "source_type",
		"stage", "stage_packages", "stage_snaps",
	}
	values := noneValues(len(names))
	if err := starlark.UnpackArgs("snap_part", args, kwargs, optionalPairs(names, values)...); err != nil {
		return nil, err
	}
	byName := argMap(names, values)

	for _, unsupported := range []string{
		"after", "build_environment", "build_packages", "build_snaps",
		"filesets", "organize", "prime", "source_depth", "stage",
		"stage_packages", "stage_snaps",
	} {
		e.warnUnsupported("snap_part", unsupported, *byName[unsupported])
	}

	a := &strArgs{}
	part := snapmeta.Part{
		OverrideBuild:  a.opt("override_build", *byName["override_build"]),
		OverridePrime:  a.opt("override_prime", *byName["override_prime"]),
		OverridePull:   a.opt("override_pull", *byName["override_pull"]),
		OverrideStage:  a.opt("override_stage", *byName["override_stage"]),
		ParseInfo:      a.opt("parse_info", *byName["parse_info"]),
		Plugin:         a.opt("plugin", *byName["plugin"]),
		Source:         a.opt("source", *byName["source"]),
		SourceBranch:   a.opt("source_branch", *byName["source_branch"]),
		SourceChecksum: a.opt("source_checksum", *byName["source_checksum"]),
		SourceCommit:   a.opt("source_commit", *byName["source_commit"]),
		SourceSubdir:   a.opt("source_subdir", *byName["source_subdir"]),
		SourceTag:      a.opt("source_tag", *byName["source_tag"]),
		SourceType:     a.opt("source_type", *byName["source_type"]),
	}
	if a.err != nil {
		return nil, a.err
	}

	return newSnapPartValue(part), nil
}

// snap_app(**kwargs) builds a snapcraft.yaml apps.* entry.
func (e *Environment) snapAppFn(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	names := []string{
		"adapter", "command", "command_chain", "common_id", "daemon",
		"desktop", "environment", "listen_stream", "plugs",
		"post_stop_command", "restart_condition", "slots", "socket",
		"socket_mode", "stop_command", "stop_timeout",
	}
	values := noneValues(len(names))
	if err := starlark.UnpackArgs("snap_app", args, kwargs, optionalPairs(names, values)...); err != nil {
		return nil, err
	}
	byName := argMap(names, values)

	for _, unsupported := range []string{
		"command_chain", "environment", "plugs", "slots", "socket", "socket_mode",
	} {
		e.warnUnsupported("snap_app", unsupported, *byName[unsupported])
	}

	a := &strArgs{}
	app := snapmeta.App{
		Adapter:          a.opt("adapter", *byName["adapter"]),
		Command:          a.opt("command", *byName["command"]),
		CommonID:         a.opt("common_id", *byName["common_id"]),
		Daemon:           a.opt("daemon", *byName["daemon"]),
		Desktop:          a.opt("desktop", *byName["desktop"]),
		ListenStream:     a.opt("listen_stream", *byName["listen_stream"]),
		PostStopCommand:  a.opt("post_stop_command", *byName["post_stop_command"]),
		RestartCondition: a.opt("restart_condition", *byName["restart_condition"]),
		StopCommand:      a.opt("stop_command", *byName["stop_command"]),
		StopTimeout:      a.opt("stop_timeout", *byName["stop_timeout"]),
	}
	if a.err != nil {
		return nil, a.err
	}

	return newSnapAppValue(app), nil
}

// snap(name, description, summary, version, **kwargs) builds a full
// snapcraft.yaml descriptor.
func (e *Environment) snapFn(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	nameV := starlark.Value(starlark.None)
	descriptionV := starlark.Value(starlark.None)
	summaryV := starlark.Value(starlark.None)
	versionV := starlark.Value(starlark.None)
	adoptInfoV := starlark.Value(starlark.None)
	assumesV := starlark.Value(starlark.None)
	baseV := starlark.Value(starlark.None)
	confinementV := starlark.Value(starlark.None)
	gradeV := starlark.Value(starlark.None)
	iconV := starlark.Value(starlark.None)
	licenseV := starlark.Value(starlark.None)
	plugsV := starlark.Value(starlark.None)
	slotsV := starlark.Value(starlark.None)
	titleV := starlark.Value(starlark.None)
	snapTypeV := starlark.Value(starlark.None)
	partsV := starlark.Value(starlark.None)
	appsV := starlark.Value(starlark.None)

	if err := starlark.UnpackArgs("snap", args, kwargs,
		"name", &nameV,
		"description", &descriptionV,
		"summary", &summaryV,
		"version", &versionV,
		"adopt_info?", &adoptInfoV,
		"assumes?", &assumesV,
		"base?", &baseV,
		"confinement?", &confinementV,
		"grade?", &gradeV,
		"icon?", &iconV,
		"license?", &licenseV,
		"plugs?", &plugsV,
		"slots?", &slotsV,
		"title?", &titleV,
		"snap_type?", &snapTypeV,
		"parts?", &partsV,
		"apps?", &appsV); err != nil {
		return nil, err
	}

	appItems, err := requiredDictOf("apps", "string", typeSnapApp, appsV)
	if err != nil {
		return nil, err
	}
	partItems, err := requiredDictOf("parts", "string", typeSnapPart, partsV)
	if err != nil {
		return nil, err
	}

	e.warnUnsupported("snap", "assumes", assumesV)
	e.warnUnsupported("snap", "plugs", plugsV)
	e.warnUnsupported("snap", "slots", slotsV)

	apps := make(map[string]snapmeta.App, len(appItems))
	for _, item := range appItems {
		app, err := nativeData[snapmeta.App]("apps", typeSnapApp, item[1])
		if err != nil {
			return nil, err
		}
		apps[string(item[0].(starlark.String))] = app
	}
	parts := make(map[string]snapmeta.Part, len(partItems))
	for _, item := range partItems {
		part, err := nativeData[snapmeta.Part]("parts", typeSnapPart, item[1])
		if err != nil {
			return nil, err
		}
		parts[string(item[0].(starlark.String))] = part
	}

	a := &strArgs{}
	s := &snapmeta.Snap{
		AdoptInfo:   a.opt("adopt_info", adoptInfoV),
		Base:        a.opt("base", baseV),
		Confinement: a.opt("confinement", confinementV),
		Description: a.req("description", descriptionV),
		Grade:       a.opt("grade", gradeV),
		Icon:        a.opt("icon", iconV),
		License:     a.opt("license", licenseV),
		Name:        a.req("name", nameV),
		Summary:     a.req("summary", summaryV),
		Title:       a.opt("title", titleV),
		SnapType:    a.opt("snap_type", snapTypeV),
		Version:     a.req("version", versionV),
		Apps:        apps,
		Parts:       parts,
	}
	if a.err != nil {
		return nil, a.err
	}

	return newSnapValue(s), nil
}

// snapcraft(args, snap, build_path, manifest) declares a step invoking the
// snapcraft tool from a stable build path populated from the manifest.
func (e *Environment) snapcraftFn(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var argsV, snapV, buildPathV, manifestV starlark.Value
	if err := starlark.UnpackArgs("snapcraft", args, kwargs,
		"args", &argsV, "snap", &snapV, "build_path", &buildPathV, "manifest", &manifestV); err != nil {
		return nil, err
	}

	toolArgs, err := requiredStringList("args", argsV)
	if err != nil {
		return nil, err
	}
	s, err := nativeData[*snapmeta.Snap]("snap", typeSnap, snapV)
	if err != nil {
		return nil, err
	}
	buildPath, err := requiredString("build_path", buildPathV)
	if err != nil {
		return nil, err
	}
	m, err := nativeData[*manifest.FileManifest]("manifest", typeFileManifest, manifestV)
	if err != nil {
		return nil, err
	}

	return newSnapcraftValue(&pipeline.SnapcraftStep{
		Args:      toolArgs,
		Snap:      s,
		BuildPath: buildPath,
		Manifest:  m.Clone(),
	}), nil
}

func noneValues(n int) []starlark.Value {
	values := make([]starlark.Value, n)
	for i := range values {
		values[i] = starlark.None
	}
	return values
}

func optionalPairs(names []string, values []starlark.Value) []any {
	pairs := make([]any, 0, len(names)*2)
	for i, name := range names {
		pairs = append(pairs, name+"?", &values[i])
	}
	return pairs
}

func argMap(names []string, values []starlark.Value) map[string]*starlark.Value {
	byName := make(map[string]*starlark.Value, len(names))
	for i, name := range names {
		byName[name] = &values[i]
	}
	return byName
}
