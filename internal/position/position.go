// Package position implements the integer ordering key model shared by lists
// within a board and tasks within a list.
//
// Keys are non-negative and gaps are permitted. The backend never compacts
// gaps or shifts siblings implicitly, so concurrent independent moves can
// leave duplicate keys inside one container. Duplicates are well-defined:
// every consumer orders by (position, createdAt, id) and must never treat a
// tie as an error.
package position

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Keyed is satisfied by anything carrying an ordering key and the stable
// tiebreakers used when keys collide.
type Keyed interface {
	PositionKey() int
	CreatedAtKey() time.Time
	IDKey() uuid.UUID
}

// Next returns the key for an item appended to a container whose current
// maximum key is max. An empty container starts at 0.
func Next(max int, empty bool) int {
	if empty {
		return 0
	}
	return max + 1
}

// Less orders two items by (position, createdAt, id).
func Less(a, b Keyed) bool {
	if a.PositionKey() != b.PositionKey() {
		return a.PositionKey() < b.PositionKey()
	}
	if !a.CreatedAtKey().Equal(b.CreatedAtKey()) {
		return a.CreatedAtKey().Before(b.CreatedAtKey())
	}
	return a.IDKey().String() < b.IDKey().String()
}

// Sort orders items in place by (position, createdAt, id).
func Sort[T Keyed](items []T) {
	sort.SliceStable(items, func(i, j int) bool {
		return Less(items[i], items[j])
	})
}

// Update is one entry of a batch re-index: the complete target key for a
// single item. Entries are applied independently of each other.
type Update struct {
	ID       uuid.UUID
	Position int
}

// Validate reports whether every entry of a batch carries a usable id and a
// non-negative key.
func Validate(batch []Update) bool {
	for _, u := range batch {
		if u.ID == uuid.Nil || u.Position < 0 {
			return false
		}
	}
	return true
}
