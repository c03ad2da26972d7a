package panel

import (
	"sort"
	"strings"

	"twc/internal/fsys"
)

// Predicate selects the column a panel is ordered by.
type Predicate int

const (
	ByName Predicate = iota
	BySize
	ByModified
)

// Direction selects ascending or descending order within a group.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// SortKey is a (predicate, direction) pair.
type SortKey struct {
	Predicate Predicate
	Direction Direction
}

// DefaultSortKey is name ascending, the fallback for unknown encodings.
func DefaultSortKey() SortKey {
	return SortKey{Predicate: ByName, Direction: Ascending}
}

// ParsePredicate decodes a predicate from its config string. The match is
// case-insensitive; unknown values fall back to ByName.
func ParsePredicate(s string) Predicate {
	switch strings.ToLower(s) {
	case "name":
		return ByName
	case "size":
		return BySize
	case "modified":
		return ByModified
	default:
		return ByName
	}
}

// ParseDirection decodes a direction from its config string. The match is
// case-insensitive; unknown values fall back to Ascending.
func ParseDirection(s string) Direction {
	switch strings.ToLower(s) {
	case "asc":
		return Ascending
	case "desc":
		return Descending
	default:
		return Ascending
	}
}

func (p Predicate) String() string {
	switch p {
	case BySize:
		return "size"
	case ByModified:
		return "modified"
	default:
		return "name"
	}
}

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// Reverse flips the direction in place.
func (d *Direction) Reverse() {
	if *d == Ascending {
		*d = Descending
	} else {
		*d = Ascending
	}
}

// Sort orders entries by key. Directories always precede files, whatever the
// key or direction; the requested predicate applies within each group only.
// When index 0 holds the ".." sentinel it stays pinned and the rest is
// sorted. The sort is stable, so repeated sorts with the same key are
// idempotent.
func Sort(entries fsys.List, key SortKey) {
	if len(entries) > 0 && entries[0].IsParent() {
		entries = entries[1:]
	}

	less := lessFunc(key)
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		return less(a, b)
	})
}

func lessFunc(key SortKey) func(a, b fsys.Entry) bool {
	var less func(a, b fsys.Entry) bool
	switch key.Predicate {
	case BySize:
		less = func(a, b fsys.Entry) bool { return a.Size < b.Size }
	case ByModified:
		// The display layout sorts chronologically.
		less = func(a, b fsys.Entry) bool { return a.Modified < b.Modified }
	default:
		less = func(a, b fsys.Entry) bool { return a.Name < b.Name }
	}

	if key.Direction == Descending {
		asc := less
		return func(a, b fsys.Entry) bool { return asc(b, a) }
	}
	return less
}
