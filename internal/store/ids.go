package store

import "strconv"

// NextID returns max(existing ids)+1 for a document keyed by stringified
// integer ids, or 1 when the collection is empty.
func NextID[V any](doc map[string]V) int {
	max := 0
	for key := range doc {
		id, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		if id > max {
			max = id
		}
	}
	return max + 1
}

// Key converts an integer id to its document key.
func Key(id int) string { return strconv.Itoa(id) }
