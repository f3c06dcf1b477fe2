package unitfile

import (
	"path/filepath"
	"strings"
)

// Quadlet source extensions that the external generator turns into
// services, and the top-level unit extensions that bypass it.
var (
	quadletExts = map[string]bool{
		".container": true,
		".pod":       true,
		".kube":      true,
		".network":   true,
		".volume":    true,
		".image":     true,
		".build":     true,
	}
	topLevelExts = map[string]bool{
		".target":  true,
		".socket":  true,
		".service": true,
		".timer":   true,
	}
)

// CompositeExt is the extension of composite source files.
const CompositeExt = ".multiquadlet"

// IsQuadletSource reports whether name is a Quadlet source file consumed by
// the external generator.
func IsQuadletSource(name string) bool {
	return quadletExts[filepath.Ext(name)]
}

// IsTopLevelUnit reports whether name is a unit the service manager reads
// directly, bypassing the external generator.
func IsTopLevelUnit(name string) bool {
	return topLevelExts[filepath.Ext(name)]
}

// IsComposite reports whether name is a composite source file.
func IsComposite(name string) bool {
	return filepath.Ext(name) == CompositeExt
}

// DerivedUnitName returns the name of the unit the generator derives from
// the given source file name: X.container becomes X.service, the remaining
// Quadlet types get a type-tagged service name (X.volume becomes
// X-volume.service), and top-level units keep their own name. ok is false
// for anything that is not a unit source.
func DerivedUnitName(name string) (derived string, ok bool) {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	switch {
	case ext == ".container":
		return base + ".service", true
	case quadletExts[ext]:
		return base + "-" + ext[1:] + ".service", true
	case topLevelExts[ext]:
		return name, true
	default:
		return "", false
	}
}
