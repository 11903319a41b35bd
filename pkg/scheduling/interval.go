// Package scheduling holds the booking rules shared by every service:
// interval arithmetic, slot bookability and the role-gated booking
// lifecycle. Nothing in here performs I/O; callers pass snapshots in and
// get decisions back.
package scheduling

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidInterval is returned when an interval does not end strictly
// after it starts.
var ErrInvalidInterval = errors.New("invalid interval: end must be after start")

// TimeInterval is the half-open range [Start, End).
type TimeInterval struct {
	Start time.Time `json:"start_time" bson:"start_time"`
	End   time.Time `json:"end_time" bson:"end_time"`
}

func NewTimeInterval(start, end time.Time) (TimeInterval, error) {
	interval := TimeInterval{Start: start, End: end}
	if err := interval.Validate(); err != nil {
		return TimeInterval{}, err
	}
	return interval, nil
}

// Validate reports ErrInvalidInterval for intervals built without
// NewTimeInterval, e.g. decoded documents or struct literals.
func (i TimeInterval) Validate() error {
	if !i.End.After(i.Start) {
		return fmt.Errorf("%w (start=%s end=%s)", ErrInvalidInterval,
			i.Start.Format(time.RFC3339), i.End.Format(time.RFC3339))
	}
	return nil
}

func (i TimeInterval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

func (i TimeInterval) String() string {
	return fmt.Sprintf("[%s, %s)", i.Start.Format(time.RFC3339), i.End.Format(time.RFC3339))
}

// Overlaps uses strict comparisons: intervals that only touch at an
// endpoint do not overlap.
func Overlaps(a, b TimeInterval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// Contains reports whether inner lies fully inside outer. Shared
// endpoints count as inside.
func Contains(outer, inner TimeInterval) bool {
	return !inner.Start.Before(outer.Start) && !inner.End.After(outer.End)
}
