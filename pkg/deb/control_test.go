package deb

import (
	"testing"
)

func TestControlParagraphGetFirstMatch(t *testing.T) {
	var p ControlParagraph
	p.Add("Package", "app")
	p.Add("Package", "shadowed")

	v, ok := p.Get("Package")
	if !ok || v != "app" {
		t.Fatalf("unexpected lookup result: %q (ok=%v)", v, ok)
	}
	if _, ok := p.Get("Missing"); ok {
		t.Fatalf("lookup of absent key succeeded")
	}
}

func TestControlParagraphCloneIsIndependent(t *testing.T) {
	var p ControlParagraph
	p.Add("Package", "app")

	clone := p.Clone()
	p.Add("Version", "1.0")

	if len(clone.Entries()) != 1 {
		t.Fatalf("clone grew with original: %d entries", len(clone.Entries()))
	}
}

func TestControlFileRender(t *testing.T) {
	var source ControlParagraph
	source.Add("Source", "app")
	source.Add("Maintainer", "Dev One <one@example.com>")

	var binary ControlParagraph
	binary.Add("Package", "app")
	binary.Add("Depends", "libc6, libssl3")

	var f ControlFile
	f.AddParagraph(source)
	f.AddParagraph(binary)

	want := "Source: app\n" +
		"Maintainer: Dev One <one@example.com>\n" +
		"\n" +
		"Package: app\n" +
		"Depends: libc6, libssl3\n"
	if got := string(f.Render()); got != want {
		t.Fatalf("unexpected render:\n%s", got)
	}
}
