package utils

import "sort"

// SortedKeys returns the keys of a string-keyed map in ascending order, so
// batch loops over scene groupings process scenes deterministically.
func SortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
