// Package tenure implements the half-open interval overlap check shared by
// department assignments, manager tenures, title tenures and salary tenures.
package tenure

import "time"

// Interval is a half-open validity range [Start, End). A nil End means the
// record is open-ended and treated as unbounded.
type Interval struct {
	Start time.Time
	End   *time.Time
}

// Open reports whether the interval has no end date yet.
func (iv Interval) Open() bool {
	return iv.End == nil
}

// Overlaps reports whether two half-open intervals intersect. Intervals
// whose start date is missing never overlap anything; they are skipped
// rather than failing the whole check.
func (iv Interval) Overlaps(other Interval) bool {
	if iv.Start.IsZero() || other.Start.IsZero() {
		return false
	}

	startsBeforeOtherEnds := other.End == nil || iv.Start.Before(*other.End)
	otherStartsBeforeEnds := iv.End == nil || other.Start.Before(*iv.End)

	return startsBeforeOtherEnds && otherStartsBeforeEnds
}

// Record is one existing tenure row reduced to what the overlap check needs:
// an identifying key and its validity interval.
type Record struct {
	Key      string
	Interval Interval
}

// Validate reports whether the proposed interval can coexist with the
// existing records for the same subject. Records whose key matches
// excludeKey are ignored, which makes edit-in-place checks possible.
//
// The scan is linear over a snapshot of the subject's records; there is no
// locking between this check and the caller's subsequent insert.
func Validate(existing []Record, proposed Interval, excludeKey string) bool {
	for _, rec := range existing {
		if excludeKey != "" && rec.Key == excludeKey {
			continue
		}
		if rec.Interval.Overlaps(proposed) {
			return false
		}
	}
	return true
}
