// Package reorder implements drag-and-drop move semantics over ordered collections.
package reorder

import "slices"

// Move returns a copy of items with the element at from moved to index to, shifting
// the elements in between. Out-of-range indices return an unchanged copy.
func Move[T any](items []T, from, to int) []T {
	out := slices.Clone(items)
	if from < 0 || from >= len(out) || to < 0 || to >= len(out) || from == to {
		return out
	}

	item := out[from]
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, to, item)
}

// MoveKey moves the active id onto the position of the over id, the way a sortable
// list resolves a drop. Unknown ids return an unchanged copy.
func MoveKey(keys []string, active, over string) []string {
	return Move(keys, slices.Index(keys, active), slices.Index(keys, over))
}
