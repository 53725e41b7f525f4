// Package deb builds Debian binary packages: control metadata rendering and
// the .deb ar container with its nested control.tar and data.tar streams.
package deb

import (
	"bytes"
)

// ControlEntry is one key/value field of a control paragraph.
type ControlEntry struct {
	Key   string
	Value string
}

// ControlParagraph is an ordered set of control fields. Multi-value fields
// (Depends, Build-Depends, ...) are stored as a single comma-joined string
// with list element order preserved.
type ControlParagraph struct {
	entries []ControlEntry
}

func (p *ControlParagraph) Add(key, value string) {
	p.entries = append(p.entries, ControlEntry{Key: key, Value: value})
}

// Get returns the first value recorded for key.
func (p *ControlParagraph) Get(key string) (string, bool) {
	for _, e := range p.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

func (p *ControlParagraph) Entries() []ControlEntry {
	return p.entries
}

func (p *ControlParagraph) Clone() ControlParagraph {
	clone := ControlParagraph{entries: make([]ControlEntry, len(p.entries))}
	copy(clone.entries, p.entries)
	return clone
}

// ControlFile is one or more paragraphs: a source paragraph optionally
// followed by binary package paragraphs.
type ControlFile struct {
	paragraphs []ControlParagraph
}

func (f *ControlFile) AddParagraph(p ControlParagraph) {
	f.paragraphs = append(f.paragraphs, p)
}

func (f *ControlFile) Paragraphs() []ControlParagraph {
	return f.paragraphs
}

// Render serializes the control file as "Key: Value" lines with a blank
// line between paragraphs.
func (f *ControlFile) Render() []byte {
	var b bytes.Buffer
	for i, p := range f.paragraphs {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, e := range p.entries {
			b.WriteString(e.Key)
			b.WriteString(": ")
			b.WriteString(e.Value)
			b.WriteByte('\n')
		}
	}
	return b.Bytes()
}
