package sync

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, 5, d, 0, 0, 0, 0, time.UTC)
}

func TestReconcileDays(t *testing.T) {
	t.Run("full coverage issues zero remote calls", func(t *testing.T) {
		var fetchCalls int

		stats, err := ReconcileDays(context.Background(), day(1), day(10),
			func(ctx context.Context, from, to time.Time) ([]time.Time, error) {
				var all []time.Time
				for d := 1; d <= 10; d++ {
					all = append(all, day(d))
				}
				return all, nil
			},
			func(ctx context.Context, from, to time.Time) ([]DayRecord[int], error) {
				fetchCalls++
				return nil, nil
			},
			func(ctx context.Context, records []int) error { return nil },
		)

		require.NoError(t, err)
		assert.Zero(t, fetchCalls)
		assert.Zero(t, stats.Missing)
		assert.Zero(t, stats.Persisted)
	})

	t.Run("scattered gap becomes one widened fetch, only missing days persisted", func(t *testing.T) {
		// days 1-5 and 9-10 present out of a 10 day window: the gap is
		// 6-8, the fetch spans the boundary days 5-9, and only 6, 7, 8
		// are written
		var (
			fetchCalls         int
			fetchFrom, fetchTo time.Time
			persisted          []int
		)

		stats, err := ReconcileDays(context.Background(), day(1), day(10),
			func(ctx context.Context, from, to time.Time) ([]time.Time, error) {
				return []time.Time{day(1), day(2), day(3), day(4), day(5), day(9), day(10)}, nil
			},
			func(ctx context.Context, from, to time.Time) ([]DayRecord[int], error) {
				fetchCalls++
				fetchFrom, fetchTo = from, to
				var recs []DayRecord[int]
				for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
					recs = append(recs, DayRecord[int]{Day: d, Record: d.Day()})
				}
				return recs, nil
			},
			func(ctx context.Context, records []int) error {
				persisted = append(persisted, records...)
				return nil
			},
		)

		require.NoError(t, err)
		assert.Equal(t, 1, fetchCalls)
		assert.Equal(t, day(5), fetchFrom)
		assert.Equal(t, day(9), fetchTo)
		assert.Equal(t, 3, stats.Missing)
		assert.Equal(t, 5, stats.Fetched)
		assert.Equal(t, 3, stats.Persisted)
		assert.Equal(t, []int{6, 7, 8}, persisted)
	})

	t.Run("empty store fetches the whole window", func(t *testing.T) {
		var fetchFrom, fetchTo time.Time

		stats, err := ReconcileDays(context.Background(), day(1), day(10),
			func(ctx context.Context, from, to time.Time) ([]time.Time, error) {
				return nil, nil
			},
			func(ctx context.Context, from, to time.Time) ([]DayRecord[int], error) {
				fetchFrom, fetchTo = from, to
				return []DayRecord[int]{{Day: day(3), Record: 3}}, nil
			},
			func(ctx context.Context, records []int) error { return nil },
		)

		require.NoError(t, err)
		assert.Equal(t, day(1), fetchFrom)
		assert.Equal(t, day(10), fetchTo)
		assert.Equal(t, 10, stats.Missing)
		assert.Equal(t, 1, stats.Persisted)
	})

	t.Run("remote days outside the gap are discarded", func(t *testing.T) {
		var persisted []int

		_, err := ReconcileDays(context.Background(), day(4), day(6),
			func(ctx context.Context, from, to time.Time) ([]time.Time, error) {
				return []time.Time{day(4), day(6)}, nil
			},
			func(ctx context.Context, from, to time.Time) ([]DayRecord[int], error) {
				// remote returns the present boundary days too
				return []DayRecord[int]{
					{Day: day(4), Record: 4},
					{Day: day(5), Record: 5},
					{Day: day(6), Record: 6},
				}, nil
			},
			func(ctx context.Context, records []int) error {
				persisted = records
				return nil
			},
		)

		require.NoError(t, err)
		assert.Equal(t, []int{5}, persisted)
	})

	t.Run("lookup failure stops before any remote call", func(t *testing.T) {
		var fetchCalls int

		_, err := ReconcileDays(context.Background(), day(1), day(3),
			func(ctx context.Context, from, to time.Time) ([]time.Time, error) {
				return nil, assert.AnError
			},
			func(ctx context.Context, from, to time.Time) ([]DayRecord[int], error) {
				fetchCalls++
				return nil, nil
			},
			func(ctx context.Context, records []int) error { return nil },
		)

		assert.ErrorIs(t, err, assert.AnError)
		assert.Zero(t, fetchCalls)
	})

	t.Run("inverted range is a no-op", func(t *testing.T) {
		stats, err := ReconcileDays(context.Background(), day(10), day(1),
			func(ctx context.Context, from, to time.Time) ([]time.Time, error) {
				t.Fatal("lookup should not run")
				return nil, nil
			},
			func(ctx context.Context, from, to time.Time) ([]DayRecord[int], error) { return nil, nil },
			func(ctx context.Context, records []int) error { return nil },
		)

		require.NoError(t, err)
		assert.Zero(t, stats.Missing)
	})
}
