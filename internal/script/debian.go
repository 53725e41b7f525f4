package script

import (
	"fmt"
	"strings"

	"go.starlark.net/starlark"

	"github.com/shipyard-build/shipyard/pkg/deb"
	"github.com/shipyard-build/shipyard/pkg/manifest"

	"github.com/shipyard-build/shipyard/internal/pipeline"
)

// paragraphBuilder accumulates control fields in declaration order,
// remembering the first argument-contract violation.
type paragraphBuilder struct {
	p   deb.ControlParagraph
	err error
}

func (b *paragraphBuilder) required(field, name string, v starlark.Value) {
	if b.err != nil {
		return
	}
	s, err := requiredString(name, v)
	if err != nil {
		b.err = err
		return
	}
	b.p.Add(field, s)
}

func (b *paragraphBuilder) optional(field, name string, v starlark.Value) {
	if b.err != nil {
		return
	}
	s, ok, err := optionalString(name, v)
	if err != nil {
		b.err = err
		return
	}
	if ok {
		b.p.Add(field, s)
	}
}

// optionalList serializes a list field as a single comma-joined value,
// element order preserved.
func (b *paragraphBuilder) optionalList(field, name string, v starlark.Value) {
	if b.err != nil {
		return
	}
	values, ok, err := optionalStringList(name, v)
	if err != nil {
		b.err = err
		return
	}
	if ok {
		b.p.Add(field, strings.Join(values, ", "))
	}
}

// debian_control_source_binary_package(...) builds the binary package
// paragraph that accompanies a source paragraph in a debian/control file.
func (e *Environment) debianControlSourceBinaryPackageFn(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	packageV := starlark.Value(starlark.None)
	architectureV := starlark.Value(starlark.None)
	descriptionV := starlark.Value(starlark.None)
	sectionV := starlark.Value(starlark.None)
	priorityV := starlark.Value(starlark.None)
	essentialV := starlark.Value(starlark.None)
	homepageV := starlark.Value(starlark.None)
	builtUsingV := starlark.Value(starlark.None)
	packageTypeV := starlark.Value(starlark.None)
	dependsV := starlark.Value(starlark.None)
	preDependsV := starlark.Value(starlark.None)
	recommendsV := starlark.Value(starlark.None)
	suggestsV := starlark.Value(starlark.None)
	enhancesV := starlark.Value(starlark.None)
	breaksV := starlark.Value(starlark.None)
	conflictsV := starlark.Value(starlark.None)

	if err := starlark.UnpackArgs("debian_control_source_binary_package", args, kwargs,
		"package", &packageV,
		"architecture", &architectureV,
		"description", &descriptionV,
		"section?", &sectionV,
		"priority?", &priorityV,
		"essential?", &essentialV,
		"homepage?", &homepageV,
		"built_using?", &builtUsingV,
		"package_type?", &packageTypeV,
		"depends?", &dependsV,
		"pre_depends?", &preDependsV,
		"recommends?", &recommendsV,
		"suggests?", &suggestsV,
		"enhances?", &enhancesV,
		"breaks?", &breaksV,
		"conflicts?", &conflictsV); err != nil {
		return nil, err
	}

	b := &paragraphBuilder{}
	b.required("Package", "package", packageV)
	b.required("Architecture", "architecture", architectureV)
	b.required("Description", "description", descriptionV)
	b.optional("Section", "section", sectionV)
	b.optional("Priority", "priority", priorityV)
	b.optional("Essential", "essential", essentialV)
	b.optional("Homepage", "homepage", homepageV)
	b.optional("Built-Using", "built_using", builtUsingV)
	b.optional("Package-Type", "package_type", packageTypeV)
	b.optionalList("Depends", "depends", dependsV)
	b.optionalList("Pre-Depends", "pre_depends", preDependsV)
	b.optionalList("Recommends", "recommends", recommendsV)
	b.optionalList("Suggests", "suggests", suggestsV)
	b.optionalList("Enhances", "enhances", enhancesV)
	b.optionalList("Breaks", "breaks", breaksV)
	b.optionalList("Conflicts", "conflicts", conflictsV)
	if b.err != nil {
		return nil, b.err
	}

	return newControlSourceBinaryValue(b.p), nil
}

// debian_control(...) builds a full debian/control file: a source
// paragraph followed by its binary package paragraphs.
func (e *Environment) debianControlFn(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	sourceV := starlark.Value(starlark.None)
	maintainerV := starlark.Value(starlark.None)
	standardsVersionV := starlark.Value(starlark.None)
	uploadersV := starlark.Value(starlark.None)
	sectionV := starlark.Value(starlark.None)
	priorityV := starlark.Value(starlark.None)
	buildDependsV := starlark.Value(starlark.None)
	homepageV := starlark.Value(starlark.None)
	vcsTypeV := starlark.Value(starlark.None)
	vcsValueV := starlark.Value(starlark.None)
	vcsBrowserV := starlark.Value(starlark.None)
	rulesRequiresRootV := starlark.Value(starlark.None)
	binaryPackagesV := starlark.Value(starlark.None)

	if err := starlark.UnpackArgs("debian_control", args, kwargs,
		"source", &sourceV,
		"maintainer", &maintainerV,
		"standards_version", &standardsVersionV,
		"uploaders?", &uploadersV,
		"section?", &sectionV,
		"priority?", &priorityV,
		"build_depends?", &buildDependsV,
		"homepage?", &homepageV,
		"vcs_type?", &vcsTypeV,
		"vcs_value?", &vcsValueV,
		"vcs_browser?", &vcsBrowserV,
		"rules_requires_root?", &rulesRequiresRootV,
		"binary_packages?", &binaryPackagesV); err != nil {
		return nil, err
	}

	b := &paragraphBuilder{}
	b.required("Source", "source", sourceV)
	b.required("Maintainer", "maintainer", maintainerV)
	b.required("Standards-Version", "standards_version", standardsVersionV)
	b.optionalList("Uploaders", "uploaders", uploadersV)
	b.optional("Section", "section", sectionV)
	b.optional("Priority", "priority", priorityV)
	b.optionalList("Build-Depends", "build_depends", buildDependsV)
	b.optional("Homepage", "homepage", homepageV)
	if b.err != nil {
		return nil, b.err
	}

	vcsType, okType, err := optionalString("vcs_type", vcsTypeV)
	if err != nil {
		return nil, err
	}
	vcsValue, okValue, err := optionalString("vcs_value", vcsValueV)
	if err != nil {
		return nil, err
	}
	if okType && okValue {
		b.p.Add(fmt.Sprintf("Vcs-%s", vcsType), vcsValue)
	}
	b.optional("Vcs-Browser", "vcs_browser", vcsBrowserV)
	b.optional("Rules-Requires-Root", "rules_requires_root", rulesRequiresRootV)
	if b.err != nil {
		return nil, b.err
	}

	packages, err := requiredListOf("binary_packages", typeControlSourceBinary, binaryPackagesV)
	if err != nil {
		return nil, err
	}

	paragraphs := []deb.ControlParagraph{b.p}
	for _, pkg := range packages {
		paragraph, err := nativeData[deb.ControlParagraph]("binary_packages", typeControlSourceBinary, pkg)
		if err != nil {
			return nil, err
		}
		paragraphs = append(paragraphs, paragraph.Clone())
	}

	return newControlValue(paragraphs), nil
}

// debian_control_binary_package(...) builds the control paragraph embedded
// in a .deb's control.tar.
func (e *Environment) debianControlBinaryPackageFn(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	packageV := starlark.Value(starlark.None)
	versionV := starlark.Value(starlark.None)
	architectureV := starlark.Value(starlark.None)
	maintainerV := starlark.Value(starlark.None)
	descriptionV := starlark.Value(starlark.None)
	sourceV := starlark.Value(starlark.None)
	sectionV := starlark.Value(starlark.None)
	priorityV := starlark.Value(starlark.None)
	essentialV := starlark.Value(starlark.None)
	dependsV := starlark.Value(starlark.None)
	preDependsV := starlark.Value(starlark.None)
	recommendsV := starlark.Value(starlark.None)
	suggestsV := starlark.Value(starlark.None)
	enhancesV := starlark.Value(starlark.None)
	breaksV := starlark.Value(starlark.None)
	conflictsV := starlark.Value(starlark.None)
	installedSizeV := starlark.Value(starlark.None)
	homepageV := starlark.Value(starlark.None)
	builtUsingV := starlark.Value(starlark.None)

	if err := starlark.UnpackArgs("debian_control_binary_package", args, kwargs,
		"package", &packageV,
		"version", &versionV,
		"architecture", &architectureV,
		"maintainer", &maintainerV,
		"description", &descriptionV,
		"source?", &sourceV,
		"section?", &sectionV,
		"priority?", &priorityV,
		"essential?", &essentialV,
		"depends?", &dependsV,
		"pre_depends?", &preDependsV,
		"recommends?", &recommendsV,
		"suggests?", &suggestsV,
		"enhances?", &enhancesV,
		"breaks?", &breaksV,
		"conflicts?", &conflictsV,
		"installed_size?", &installedSizeV,
		"homepage?", &homepageV,
		"built_using?", &builtUsingV); err != nil {
		return nil, err
	}

	b := &paragraphBuilder{}
	b.required("Package", "package", packageV)
	b.required("Version", "version", versionV)
	b.required("Architecture", "architecture", architectureV)
	b.required("Maintainer", "maintainer", maintainerV)
	b.required("Description", "description", descriptionV)
	b.optional("Source", "source", sourceV)
	b.optional("Section", "section", sectionV)
	b.optional("Priority", "priority", priorityV)
	b.optional("Essential", "essential", essentialV)
	b.optionalList("Depends", "depends", dependsV)
	b.optionalList("Pre-Depends", "pre_depends", preDependsV)
	b.optionalList("Recommends", "recommends", recommendsV)
	b.optionalList("Suggests", "suggests", suggestsV)
	b.optionalList("Enhances", "enhances", enhancesV)
	b.optionalList("Breaks", "breaks", breaksV)
	b.optionalList("Conflicts", "conflicts", conflictsV)
	b.optional("Installed-Size", "installed_size", installedSizeV)
	b.optional("Homepage", "homepage", homepageV)
	b.optional("Built-Using", "built_using", builtUsingV)
	if b.err != nil {
		return nil, b.err
	}

	return newControlBinaryValue(b.p), nil
}

// debian_deb_archive(control_binary_package, files) declares a step
// producing a .deb from a control paragraph and a file manifest.
func (e *Environment) debianDebArchiveFn(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var controlV, filesV starlark.Value
	if err := starlark.UnpackArgs("debian_deb_archive", args, kwargs,
		"control_binary_package", &controlV, "files", &filesV); err != nil {
		return nil, err
	}

	paragraph, err := nativeData[deb.ControlParagraph]("control_binary_package", typeControlBinary, controlV)
	if err != nil {
		return nil, err
	}
	m, err := nativeData[*manifest.FileManifest]("files", typeFileManifest, filesV)
	if err != nil {
		return nil, err
	}

	return newDebArchiveValue(&pipeline.DebArchiveStep{
		Paragraph: paragraph.Clone(),
		Manifest:  m.Clone(),
	}), nil
}
