package scheduling

type RejectReason string

const (
	NoAvailability RejectReason = "NO_AVAILABILITY"
	SlotConflict   RejectReason = "SLOT_CONFLICT"
)

func (r RejectReason) String() string {
	return string(r)
}

type AvailabilityWindow struct {
	ProviderID string
	Interval   TimeInterval
}

// ExistingBooking is the slice of a stored booking the conflict check
// looks at.
type ExistingBooking struct {
	ID       string
	Interval TimeInterval
	Status   Status
}

// Decision is the outcome of CheckBookable. A zero Reason means the slot
// was accepted.
type Decision struct {
	Accepted bool
	Reason   RejectReason
	// Conflict is the interval of the confirmed booking that blocked the
	// request, set only for SlotConflict.
	Conflict *TimeInterval
	// Window is the availability window that covered the request.
	Window *TimeInterval
}

func Accept(window TimeInterval) Decision {
	return Decision{Accepted: true, Window: &window}
}

func Reject(reason RejectReason) Decision {
	return Decision{Reason: reason}
}

// CheckBookable decides whether requested may become a new booking for
// providerID.
//
// windows must be the provider's availability windows; any window owned by
// another provider is ignored, so passing an unfiltered list can only turn
// an accept into NoAvailability, never the reverse. Only CONFIRMED
// bookings in existing reserve time: pending requests are soft holds and
// the provider's confirmation is the allocation point.
//
// The check is a pure function of its arguments. Callers that need
// atomicity must run it inside the transaction that writes the result.
func CheckBookable(requested TimeInterval, providerID string, windows []AvailabilityWindow, existing []ExistingBooking) (Decision, error) {
	if err := requested.Validate(); err != nil {
		return Decision{}, err
	}

	var covering *TimeInterval
	for i := range windows {
		w := windows[i]
		if w.ProviderID != providerID {
			continue
		}
		if Contains(w.Interval, requested) {
			covering = &w.Interval
			break
		}
	}
	if covering == nil {
		return Reject(NoAvailability), nil
	}

	if conflict, ok := FindConflict(requested, existing); ok {
		d := Reject(SlotConflict)
		d.Conflict = &conflict
		return d, nil
	}

	return Accept(*covering), nil
}

// FindConflict returns the first CONFIRMED booking overlapping requested.
// It is the step that has to be re-run when a pending booking gets
// confirmed.
func FindConflict(requested TimeInterval, existing []ExistingBooking) (TimeInterval, bool) {
	for _, b := range existing {
		if b.Status != StatusConfirmed {
			continue
		}
		if Overlaps(b.Interval, requested) {
			return b.Interval, true
		}
	}
	return TimeInterval{}, false
}
