package shared

// ChunkBy splits items into contiguous groups of at most size elements,
// preserving input order. The last group may be smaller. A non-positive
// size yields a single group containing all items.
//
// The marketplace batch endpoints enforce hard per-call maxima (50 ids for
// campaign detail lookups, 1000 for price lookups), so every batched call
// site goes through this helper.
func ChunkBy[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 {
		return [][]T{items}
	}

	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for size < len(items) {
		items, chunks = items[size:], append(chunks, items[:size:size])
	}
	return append(chunks, items)
}
