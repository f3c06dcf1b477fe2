package provenance

import (
	"os"
	"strings"

	"github.com/multiquadlet-dev/multiquadlet/internal/apperrors"
)

const (
	unitSectionHeader = "[Unit]"
	sourcePathKey     = "SourcePath="
)

// Rewrite patches the SourcePath field of the unit file at path to
// sourcePath. The rewrite is line-oriented: an existing SourcePath line in
// the [Unit] section is replaced in place, otherwise a new line is inserted
// directly after the [Unit] header; every other line is preserved verbatim
// and in order. A file without a [Unit] section gets one prepended.
func Rewrite(path, sourcePath string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apperrors.NewUnitError(path, "cannot read generated unit", err)
	}

	patched := patch(string(data), sourcePath)
	if err := os.WriteFile(path, []byte(patched), 0o644); err != nil {
		return apperrors.NewUnitError(path, "cannot rewrite generated unit", err)
	}
	return nil
}

func patch(content, sourcePath string) string {
	trailingNewline := strings.HasSuffix(content, "\n")
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	entry := sourcePathKey + sourcePath

	inUnit := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == unitSectionHeader:
			inUnit = true
		case strings.HasPrefix(trimmed, "["):
			inUnit = false
		case inUnit && strings.HasPrefix(trimmed, sourcePathKey):
			lines[i] = entry
			return join(lines, trailingNewline)
		}
	}

	// No SourcePath line: insert after the [Unit] header, or prepend a
	// fresh [Unit] section when the file has none.
	for i, line := range lines {
		if strings.TrimSpace(line) == unitSectionHeader {
			lines = append(lines[:i+1], append([]string{entry}, lines[i+1:]...)...)
			return join(lines, trailingNewline)
		}
	}
	lines = append([]string{unitSectionHeader, entry}, lines...)
	return join(lines, true)
}

func join(lines []string, trailingNewline bool) string {
	out := strings.Join(lines, "\n")
	if trailingNewline {
		out += "\n"
	}
	return out
}
