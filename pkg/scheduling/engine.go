package scheduling

import (
	"github.com/juju/clock"
)

// Engine binds the scheduling rules to a clock so callers never read
// ambient time themselves.
type Engine struct {
	clock clock.Clock
}

func NewEngine(clk clock.Clock) *Engine {
	if clk == nil {
		clk = clock.WallClock
	}
	return &Engine{clock: clk}
}

func (e *Engine) CheckBookable(requested TimeInterval, providerID string, windows []AvailabilityWindow, existing []ExistingBooking) (Decision, error) {
	return CheckBookable(requested, providerID, windows, existing)
}

func (e *Engine) CanTransition(current, next Status, role Role) bool {
	return CanTransition(current, next, role)
}

func (e *Engine) CheckReview(booking ReviewTarget, reviewerID string, existing *ExistingReview) ReviewDenial {
	return CheckReview(booking, reviewerID, existing, e.clock.Now())
}

func (e *Engine) CanReview(booking ReviewTarget, reviewerID string, existing *ExistingReview) bool {
	return e.CheckReview(booking, reviewerID, existing) == ReviewAllowed
}

// InPast reports whether interval starts before the engine's now.
func (e *Engine) InPast(interval TimeInterval) bool {
	return interval.Start.Before(e.clock.Now())
}

func (e *Engine) Clock() clock.Clock {
	return e.clock
}
