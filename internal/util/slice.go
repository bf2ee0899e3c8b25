package util

import "sort"

// SortBy returns a sorted copy of items using less as the ordering
// predicate. The input slice is not modified.
func SortBy[T any](items []T, less func(l, r T) bool) []T {
	sorted := make([]T, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})
	return sorted
}

// SliceIndexOf returns the index of the first occurrence of item in items,
// or -1 if it is not present.
func SliceIndexOf[T comparable](item T, items []T) int {
	for i := range items {
		if items[i] == item {
			return i
		}
	}
	return -1
}

// SliceRemove returns a copy of items with the first occurrence of item
// removed. If item is not present, the returned slice is equal to items.
func SliceRemove[T comparable](item T, items []T) []T {
	pos := SliceIndexOf(item, items)
	if pos < 0 {
		out := make([]T, len(items))
		copy(out, items)
		return out
	}

	out := make([]T, 0, len(items)-1)
	out = append(out, items[:pos]...)
	out = append(out, items[pos+1:]...)
	return out
}
