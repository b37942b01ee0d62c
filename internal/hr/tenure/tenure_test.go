package tenure_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tenurehq/tenure-backend/internal/hr/tenure"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func datePtr(s string) *time.Time {
	t := date(s)
	return &t
}

func TestInterval_Overlaps(t *testing.T) {
	tests := []struct {
		name    string
		a, b    tenure.Interval
		overlap bool
	}{
		{
			name:    "disjoint closed intervals",
			a:       tenure.Interval{Start: date("2020-01-01"), End: datePtr("2021-01-01")},
			b:       tenure.Interval{Start: date("2022-01-01"), End: datePtr("2023-01-01")},
			overlap: false,
		},
		{
			name:    "adjacent intervals share only the boundary",
			a:       tenure.Interval{Start: date("2020-01-01"), End: datePtr("2021-01-01")},
			b:       tenure.Interval{Start: date("2021-01-01"), End: datePtr("2022-01-01")},
			overlap: false,
		},
		{
			name:    "partial overlap",
			a:       tenure.Interval{Start: date("2020-01-01"), End: datePtr("2021-06-01")},
			b:       tenure.Interval{Start: date("2021-01-01"), End: datePtr("2022-01-01")},
			overlap: true,
		},
		{
			name:    "containment",
			a:       tenure.Interval{Start: date("2020-01-01"), End: datePtr("2023-01-01")},
			b:       tenure.Interval{Start: date("2021-01-01"), End: datePtr("2022-01-01")},
			overlap: true,
		},
		{
			name:    "identical intervals",
			a:       tenure.Interval{Start: date("2020-01-01"), End: datePtr("2021-01-01")},
			b:       tenure.Interval{Start: date("2020-01-01"), End: datePtr("2021-01-01")},
			overlap: true,
		},
		{
			name:    "open-ended interval reaches any later start",
			a:       tenure.Interval{Start: date("2020-01-01")},
			b:       tenure.Interval{Start: date("2025-06-15"), End: datePtr("2026-01-01")},
			overlap: true,
		},
		{
			name:    "closed interval before an open one starts",
			a:       tenure.Interval{Start: date("2018-01-01"), End: datePtr("2019-01-01")},
			b:       tenure.Interval{Start: date("2020-01-01")},
			overlap: false,
		},
		{
			name:    "two open-ended intervals always overlap",
			a:       tenure.Interval{Start: date("2020-01-01")},
			b:       tenure.Interval{Start: date("2024-01-01")},
			overlap: true,
		},
		{
			name:    "closed interval ending exactly at an open start",
			a:       tenure.Interval{Start: date("2018-01-01"), End: datePtr("2020-01-01")},
			b:       tenure.Interval{Start: date("2020-01-01")},
			overlap: false,
		},
		{
			name:    "zero start is skipped",
			a:       tenure.Interval{},
			b:       tenure.Interval{Start: date("2020-01-01")},
			overlap: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlap, tt.a.Overlaps(tt.b))
			// Overlap is symmetric
			assert.Equal(t, tt.overlap, tt.b.Overlaps(tt.a))
		})
	}
}

func TestInterval_Open(t *testing.T) {
	assert.True(t, tenure.Interval{Start: date("2020-01-01")}.Open())
	assert.False(t, tenure.Interval{Start: date("2020-01-01"), End: datePtr("2021-01-01")}.Open())
}

func TestValidate(t *testing.T) {
	existing := []tenure.Record{
		{Key: "1", Interval: tenure.Interval{Start: date("2018-01-01"), End: datePtr("2020-01-01")}},
		{Key: "2", Interval: tenure.Interval{Start: date("2020-01-01")}},
	}

	t.Run("rejects overlap with an open record", func(t *testing.T) {
		proposed := tenure.Interval{Start: date("2024-01-01")}
		assert.False(t, tenure.Validate(existing, proposed, ""))
	})

	t.Run("accepts interval before all records", func(t *testing.T) {
		proposed := tenure.Interval{Start: date("2015-01-01"), End: datePtr("2018-01-01")}
		assert.True(t, tenure.Validate(existing, proposed, ""))
	})

	t.Run("exclusion key permits edit in place", func(t *testing.T) {
		// Rewriting record 2's own period would overlap itself without the
		// exclusion.
		proposed := tenure.Interval{Start: date("2020-06-01")}
		assert.False(t, tenure.Validate(existing, proposed, ""))
		assert.True(t, tenure.Validate(existing, proposed, "2"))
	})

	t.Run("records with zero start are skipped", func(t *testing.T) {
		withBroken := append([]tenure.Record{{Key: "broken"}},
			tenure.Record{Key: "3", Interval: tenure.Interval{Start: date("2010-01-01"), End: datePtr("2011-01-01")}})
		proposed := tenure.Interval{Start: date("2012-01-01"), End: datePtr("2013-01-01")}
		assert.True(t, tenure.Validate(withBroken, proposed, ""))
	})

	t.Run("empty history accepts anything", func(t *testing.T) {
		proposed := tenure.Interval{Start: date("2020-01-01")}
		assert.True(t, tenure.Validate(nil, proposed, ""))
	})
}

// The validator runs over a snapshot with no locking between the check and
// the caller's insert. Two concurrent writers that each load the snapshot
// before either inserts will both pass, leaving two open rows. This pins the
// current unguarded behavior.
func TestValidate_SnapshotRace(t *testing.T) {
	snapshot := []tenure.Record{
		{Key: "2019-01-01", Interval: tenure.Interval{Start: date("2019-01-01"), End: datePtr("2020-01-01")}},
	}

	first := tenure.Interval{Start: date("2026-08-01")}
	second := tenure.Interval{Start: date("2026-08-01")}

	assert.True(t, tenure.Validate(snapshot, first, ""))
	assert.True(t, tenure.Validate(snapshot, second, ""))

	// Once the first insert lands in the snapshot, the second is rejected.
	afterFirst := append(snapshot, tenure.Record{Key: "2026-08-01", Interval: first})
	assert.False(t, tenure.Validate(afterFirst, second, ""))
}
