package script

import (
	"testing"

	"go.starlark.net/syntax"

	"github.com/shipyard-build/shipyard/pkg/deb"
	"github.com/shipyard-build/shipyard/pkg/manifest"
)

func TestNativeValueEquality(t *testing.T) {
	a := newSourceFileValue(manifest.SourceFile{Path: "/tmp/a"})
	b := newSourceFileValue(manifest.SourceFile{Path: "/tmp/a"})
	c := newSourceFileValue(manifest.SourceFile{Path: "/tmp/c"})

	eq, err := a.CompareSameType(syntax.EQL, b, 0)
	if err != nil || !eq {
		t.Fatalf("identical values not equal: eq=%v err=%v", eq, err)
	}
	eq, err = a.CompareSameType(syntax.EQL, c, 0)
	if err != nil || eq {
		t.Fatalf("distinct values compared equal: eq=%v err=%v", eq, err)
	}
}

func TestNativeValueUnhashable(t *testing.T) {
	v := newManifestValue(manifest.NewFileManifest())
	if _, err := v.Hash(); err == nil {
		t.Fatalf("expected hash error")
	}
}

func TestNativeValueTruth(t *testing.T) {
	if newManifestValue(manifest.NewFileManifest()).Truth() {
		t.Fatalf("manifest value should be falsy")
	}
	var p deb.ControlParagraph
	p.Add("Package", "app")
	if !newControlBinaryValue(p).Truth() {
		t.Fatalf("control value should be truthy")
	}
}
