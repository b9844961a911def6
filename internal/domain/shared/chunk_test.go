package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkBy(t *testing.T) {
	t.Run("splits 120 ids into 50/50/20", func(t *testing.T) {
		ids := make([]int64, 120)
		for i := range ids {
			ids[i] = int64(i + 1)
		}

		chunks := ChunkBy(ids, 50)

		assert.Len(t, chunks, 3)
		assert.Len(t, chunks[0], 50)
		assert.Len(t, chunks[1], 50)
		assert.Len(t, chunks[2], 20)
	})

	t.Run("preserves input order", func(t *testing.T) {
		items := []string{"a", "b", "c", "d", "e"}

		chunks := ChunkBy(items, 2)

		assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}, {"e"}}, chunks)
	})

	t.Run("single chunk when list fits", func(t *testing.T) {
		chunks := ChunkBy([]int{1, 2, 3}, 10)

		assert.Equal(t, [][]int{{1, 2, 3}}, chunks)
	})

	t.Run("exact multiple has no short chunk", func(t *testing.T) {
		chunks := ChunkBy([]int{1, 2, 3, 4}, 2)

		assert.Len(t, chunks, 2)
		assert.Len(t, chunks[0], 2)
		assert.Len(t, chunks[1], 2)
	})

	t.Run("empty input yields no chunks", func(t *testing.T) {
		assert.Nil(t, ChunkBy([]int{}, 5))
	})

	t.Run("non-positive size yields a single group", func(t *testing.T) {
		chunks := ChunkBy([]int{1, 2, 3}, 0)

		assert.Equal(t, [][]int{{1, 2, 3}}, chunks)
	})
}
