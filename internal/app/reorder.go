package app

// ReorderIDs returns current re-sequenced by ordered.
//
// Entries of ordered that are not in current, or that repeat an earlier entry, are ignored and counted in
// dropped. Entries of current that ordered omits keep their relative order and are appended at the end, so
// the result is always a permutation of current.
func ReorderIDs[T comparable](current, ordered []T) (out []T, dropped int) {
	present := make(map[T]struct{}, len(current))
	for _, id := range current {
		present[id] = struct{}{}
	}
	used := make(map[T]struct{}, len(current))
	out = make([]T, 0, len(current))
	for _, id := range ordered {
		if _, ok := present[id]; !ok {
			dropped++
			continue
		}
		if _, ok := used[id]; ok {
			dropped++
			continue
		}
		used[id] = struct{}{}
		out = append(out, id)
	}
	for _, id := range current {
		if _, ok := used[id]; ok {
			continue
		}
		out = append(out, id)
	}
	return out, dropped
}

// MoveIndex removes the element at from and re-inserts it at to, returning a new slice.
// to is clamped to the bounds of the result; an out-of-range from returns an unchanged copy.
func MoveIndex[T any](items []T, from, to int) []T {
	out := append([]T(nil), items...)
	if from < 0 || from >= len(out) {
		return out
	}
	item := out[from]
	out = append(out[:from], out[from+1:]...)
	return insertAt(out, clamp(to, 0, len(out)), item)
}

// insertAt inserts item at idx (which must be within [0, len(items)]).
func insertAt[T any](items []T, idx int, item T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, items[:idx]...)
	out = append(out, item)
	return append(out, items[idx:]...)
}

// removeValue returns a copy of items without the first occurrence of value.
func removeValue[T comparable](items []T, value T) ([]T, bool) {
	for idx, item := range items {
		if item == value {
			out := make([]T, 0, len(items)-1)
			out = append(out, items[:idx]...)
			return append(out, items[idx+1:]...), true
		}
	}
	return append([]T(nil), items...), false
}

// sameOrder reports whether two id lists are identical.
func sameOrder[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for idx := range a {
		if a[idx] != b[idx] {
			return false
		}
	}
	return true
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
