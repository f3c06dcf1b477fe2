// Package composite splits composite source files into individual unit
// files. A composite file names each segment with a "--- NAME ---" delimiter
// line; every other line belongs to the most recently opened segment.
package composite

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/multiquadlet-dev/multiquadlet/internal/apperrors"
)

// delimiterRe matches a segment delimiter line. The name is everything
// between the literal "--- " and " ---" markers.
var delimiterRe = regexp.MustCompile(`^--- (.+) ---$`)

// Segment is one named unit body inside a composite file.
type Segment struct {
	Name string   // destination file name
	Body []string // body lines, in original order
}

// Split parses the composite file at path into ordered segments. It fails
// the whole file when a body line precedes the first delimiter or a segment
// name repeats; no partial result is returned.
func Split(path string) ([]Segment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewSourceError(path, "cannot read input file", err)
	}
	defer f.Close()

	var segments []Segment
	seen := map[string]bool{}
	current := -1

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if m := delimiterRe.FindStringSubmatch(line); m != nil {
			name := m[1]
			if seen[name] {
				return nil, apperrors.NewSourceError(path, fmt.Sprintf("duplicate segment name %q", name), nil)
			}
			seen[name] = true
			segments = append(segments, Segment{Name: name})
			current = len(segments) - 1
			continue
		}
		if current < 0 {
			return nil, apperrors.NewSourceError(path, "content before first segment delimiter", nil)
		}
		segments[current].Body = append(segments[current].Body, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.NewSourceError(path, "cannot read input file", err)
	}

	return segments, nil
}

// WriteSegments materializes segments as standalone unit files in dir,
// each prefixed with a provenance comment naming tool and the composite
// source. Collisions with existing files abort before anything is written,
// so a composite file lands all-or-nothing.
func WriteSegments(dir, sourcePath string, segments []Segment, tool string) error {
	for _, seg := range segments {
		dest := filepath.Join(dir, seg.Name)
		if _, err := os.Lstat(dest); err == nil {
			return apperrors.NewSourceError(sourcePath,
				fmt.Sprintf("output file %s already exists", dest), nil)
		}
	}

	header := fmt.Sprintf("# Automatically generated by %s from %s\n", tool, filepath.Base(sourcePath))
	var written []string
	for _, seg := range segments {
		content := header + strings.Join(seg.Body, "\n") + "\n"
		dest := filepath.Join(dir, seg.Name)
		if err := os.WriteFile(dest, []byte(content), 0o644); err != nil {
			// No partial output: drop the segments already written.
			for _, w := range written {
				os.Remove(w)
			}
			return apperrors.NewSourceError(sourcePath,
				fmt.Sprintf("cannot write segment %s", seg.Name), err)
		}
		written = append(written, dest)
	}
	return nil
}
