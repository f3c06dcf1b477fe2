// Package provenance tracks which authored source file every generated
// unit came from, and patches the SourcePath field in generated units so
// they point at that file instead of the staging copy the generator saw.
package provenance

// Ledger maps derived unit names to the original authored source path.
// It is populated while sources are staged and only read afterwards.
type Ledger struct {
	sources map[string]string
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{sources: map[string]string{}}
}

// Record associates a derived unit name with its original source path.
// The first recording for a name wins; later ones are ignored, matching
// the pass-through-before-composite staging order.
func (l *Ledger) Record(derivedName, sourcePath string) {
	if _, ok := l.sources[derivedName]; ok {
		return
	}
	l.sources[derivedName] = sourcePath
}

// Resolve returns the original source path for a derived unit name.
func (l *Ledger) Resolve(derivedName string) (string, bool) {
	path, ok := l.sources[derivedName]
	return path, ok
}

// Len returns the number of recorded units.
func (l *Ledger) Len() int {
	return len(l.sources)
}
