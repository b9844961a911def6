package sync

import (
	"context"
	"time"

	"github.com/sellerpulse/backend/internal/domain/shared"
)

// DayRecord couples a fetched record with the calendar day it belongs to
type DayRecord[T any] struct {
	Day    time.Time
	Record T
}

// ReconcileStats summarizes one gap reconciliation pass for a single
// subject and window
type ReconcileStats struct {
	Missing   int
	Fetched   int
	Persisted int
}

// ReconcileDays fills the date gaps of one date-keyed subject.
//
// It looks up which days of [from, to] already hold a local record and
// returns without any remote call when coverage is complete. Otherwise
// it issues exactly one fetch spanning the minimal contiguous window
// around the missing days, widened by one already-present boundary day
// on each side where the window allows, and persists only the records
// of days that were actually missing. Days already present are never
// rewritten, so re-running after a partial failure is always safe.
func ReconcileDays[T any](
	ctx context.Context,
	from, to time.Time,
	present func(ctx context.Context, from, to time.Time) ([]time.Time, error),
	fetch func(ctx context.Context, from, to time.Time) ([]DayRecord[T], error),
	persist func(ctx context.Context, records []T) error,
) (ReconcileStats, error) {
	var stats ReconcileStats

	from, to = shared.Day(from), shared.Day(to)
	days := shared.DaysBetween(from, to)
	if len(days) == 0 {
		return stats, nil
	}

	have, err := present(ctx, from, to)
	if err != nil {
		return stats, err
	}
	haveSet := make(map[time.Time]struct{}, len(have))
	for _, d := range have {
		haveSet[shared.Day(d)] = struct{}{}
	}

	missingSet := make(map[time.Time]struct{})
	var minMissing, maxMissing time.Time
	for _, d := range days {
		if _, ok := haveSet[d]; ok {
			continue
		}
		if len(missingSet) == 0 {
			minMissing = d
		}
		maxMissing = d
		missingSet[d] = struct{}{}
	}
	stats.Missing = len(missingSet)
	if stats.Missing == 0 {
		return stats, nil
	}

	winFrom := minMissing.AddDate(0, 0, -1)
	if winFrom.Before(from) {
		winFrom = from
	}
	winTo := maxMissing.AddDate(0, 0, 1)
	if winTo.After(to) {
		winTo = to
	}

	fetched, err := fetch(ctx, winFrom, winTo)
	if err != nil {
		return stats, err
	}
	stats.Fetched = len(fetched)

	keep := make([]T, 0, stats.Missing)
	for _, rec := range fetched {
		if _, ok := missingSet[shared.Day(rec.Day)]; ok {
			keep = append(keep, rec.Record)
		}
	}
	if len(keep) == 0 {
		return stats, nil
	}

	if err := persist(ctx, keep); err != nil {
		return stats, err
	}
	stats.Persisted = len(keep)
	return stats, nil
}
