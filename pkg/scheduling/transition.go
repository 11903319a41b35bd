package scheduling

// nextStatuses is the structural lifecycle, before any role gating.
// Adding a status must extend this switch.
func nextStatuses(current Status) []Status {
	switch current {
	case StatusPending:
		return []Status{StatusConfirmed, StatusCancelled}
	case StatusConfirmed:
		return []Status{StatusCompleted, StatusCancelled}
	case StatusCompleted, StatusCancelled:
		return nil
	}
	return nil
}

// NextStatuses returns the statuses structurally reachable from current.
func NextStatuses(current Status) []Status {
	next := nextStatuses(current)
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

func isReachable(current, next Status) bool {
	for _, s := range nextStatuses(current) {
		if s == next {
			return true
		}
	}
	return false
}

// CanTransition authorizes moving a booking from current to next for an
// actor acting in role.
//
// A user may only cancel, and never a completed booking. A provider may
// confirm a pending request or cancel at any non-terminal stage. ADMIN is
// granted nothing here: it is unresolved whether admins manage bookings at
// all, so the gate stays closed until that is decided.
//
// CONFIRMED -> COMPLETED is structurally legal but no role is allowed to
// take it. Completion has to come from somewhere other than this gate.
func CanTransition(current, next Status, role Role) bool {
	if !isReachable(current, next) {
		return false
	}

	switch role {
	case RoleUser:
		return next == StatusCancelled && current != StatusCompleted
	case RoleProvider:
		if current == StatusPending && next == StatusConfirmed {
			return true
		}
		return next == StatusCancelled
	case RoleAdmin:
		return false
	}
	return false
}

// AllowedTransitions lists the statuses role may move a booking to from
// current.
func AllowedTransitions(current Status, role Role) []Status {
	var allowed []Status
	for _, next := range nextStatuses(current) {
		if CanTransition(current, next, role) {
			allowed = append(allowed, next)
		}
	}
	return allowed
}
