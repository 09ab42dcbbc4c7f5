// Package rename tracks texture names within one container and generates
// unique companion filenames when the same name appears twice (observed in
// one game variant's texture files). The in-container name is preserved;
// the rename only affects where the extracted image lands on disk.
package rename

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Tracker tracks texture names and detects duplicates during decoding.
// Names are keyed by their xxHash64 so the map stays compact for large
// containers; a hash hit falls back to an exact-name comparison.
type Tracker struct {
	names map[uint64][]string
	// seen counts occurrences per exact name to number the renames
	seen map[string]int
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		names: make(map[uint64][]string),
		seen:  make(map[string]int),
	}
}

// Track records one texture name. For the first occurrence it returns
// ("", false); for any repeat it returns a unique companion filename.
func (t *Tracker) Track(name string) (string, bool) {
	hash := xxhash.Sum64String(name)
	duplicate := false
	for _, existing := range t.names[hash] {
		if existing == name {
			duplicate = true
			break
		}
	}
	if !duplicate {
		t.names[hash] = append(t.names[hash], name)
		t.seen[name] = 0
		return "", false
	}
	t.seen[name]++
	return fmt.Sprintf("%s-%d", name, t.seen[name]), true
}
