package scheduling

import "time"

// ReviewTarget is what review eligibility needs to know about a booking.
type ReviewTarget struct {
	Status  Status
	EndTime time.Time
	UserID  string
}

// ExistingReview marks that a booking already carries a review.
type ExistingReview struct {
	ID string
}

type ReviewDenial string

const (
	ReviewAllowed         ReviewDenial = ""
	ReviewAlreadyExists   ReviewDenial = "ALREADY_REVIEWED"
	ReviewNotBookingOwner ReviewDenial = "NOT_BOOKING_OWNER"
	ReviewNotCompleted    ReviewDenial = "NOT_COMPLETED"
	ReviewTooEarly        ReviewDenial = "SERVICE_NOT_ENDED"
)

// CheckReview explains why reviewerID may not review booking at now, or
// returns ReviewAllowed. The end-time check is enforced on its own even
// though a correctly maintained COMPLETED status already implies it.
func CheckReview(booking ReviewTarget, reviewerID string, existing *ExistingReview, now time.Time) ReviewDenial {
	if existing != nil {
		return ReviewAlreadyExists
	}
	if booking.UserID != reviewerID {
		return ReviewNotBookingOwner
	}
	if booking.Status != StatusCompleted {
		return ReviewNotCompleted
	}
	if now.Before(booking.EndTime) {
		return ReviewTooEarly
	}
	return ReviewAllowed
}

func CanReview(booking ReviewTarget, reviewerID string, existing *ExistingReview, now time.Time) bool {
	return CheckReview(booking, reviewerID, existing, now) == ReviewAllowed
}
