// Package unitfile provides the thin read surface this tool needs over
// systemd unit files: key lookup with a fallback, section membership, and
// list-valued keys. Parsing is delegated to go-systemd's unit deserializer;
// anything beyond key lookup is out of scope here.
package unitfile

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/coreos/go-systemd/v22/unit"
)

// File is a parsed unit file.
type File struct {
	opts []*unit.UnitOption
}

// Parse reads a unit file from r.
func Parse(r io.Reader) (*File, error) {
	opts, err := unit.Deserialize(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse unit file: %w", err)
	}
	return &File{opts: opts}, nil
}

// ParseFile reads and parses the unit file at path.
func ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open unit file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// HasSection reports whether the file contains the named section.
func (f *File) HasSection(section string) bool {
	for _, opt := range f.opts {
		if opt.Section == section {
			return true
		}
	}
	return false
}

// Get returns the first value of key in section, or fallback when the key
// is absent.
func (f *File) Get(section, key, fallback string) string {
	for _, opt := range f.opts {
		if opt.Section == section && opt.Name == key {
			return opt.Value
		}
	}
	return fallback
}

// Values returns the whitespace-separated values of key in section,
// concatenated across repeated occurrences in systemd list fashion. A key
// that never appears yields nil.
func (f *File) Values(section, key string) []string {
	var values []string
	for _, opt := range f.opts {
		if opt.Section == section && opt.Name == key {
			values = append(values, strings.Fields(opt.Value)...)
		}
	}
	return values
}
