package service

import (
	"context"
	"errors"
	"fmt"
	reviewserrors "servly/internal/reviews/errors"
	"servly/internal/reviews/validator"
	"servly/pkg/auth"
	"servly/pkg/client"
	"servly/pkg/config"
	apperrors "servly/pkg/errors"
	"servly/pkg/logger"
	"servly/pkg/model"
	"servly/pkg/scheduling"
	"sync"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
)

// ────────────────────────────────────────────────
// Mocks
// ────────────────────────────────────────────────

type mockReviewRepository struct {
	mu        sync.Mutex
	reviews   []*model.Review
	createErr error
	findErr   error
}

func (m *mockReviewRepository) Create(ctx context.Context, review *model.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	review.ID = fmt.Sprintf("r%d", len(m.reviews)+1)
	m.reviews = append(m.reviews, review)
	return nil
}

func (m *mockReviewRepository) FindByBookingID(ctx context.Context, bookingID string) (*model.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, r := range m.reviews {
		if r.BookingID == bookingID {
			return r, nil
		}
	}
	return nil, reviewserrors.ErrNotFound
}

func (m *mockReviewRepository) FindByService(ctx context.Context, serviceID string, limit int, offset int64) ([]*model.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.Review{}
	for _, r := range m.reviews {
		if r.ServiceID == serviceID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockReviewRepository) CountByService(ctx context.Context, serviceID string) (int64, error) {
	reviews, _ := m.FindByService(ctx, serviceID, 0, 0)
	return int64(len(reviews)), nil
}

type mockBookingReader struct {
	booking   *model.Booking
	err       error
	lastToken string
}

func (m *mockBookingReader) GetByID(ctx context.Context, id string, bearerToken string) (*model.Booking, error) {
	m.lastToken = bearerToken
	if m.err != nil {
		return nil, m.err
	}
	if m.booking == nil || m.booking.ID != id {
		return nil, client.ErrBookingNotFound
	}
	return m.booking, nil
}

type recordedEvents struct {
	mu      sync.Mutex
	created []model.ReviewCreatedEvent
}

func (r *recordedEvents) ReviewCreated(_ context.Context, e model.ReviewCreatedEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, e)
}

// ────────────────────────────────────────────────
// Fixtures
// ────────────────────────────────────────────────

const (
	bookingID = "65f1c0a2b3d4e5f6a7b8c9d1"
	serviceID = "65f1c0a2b3d4e5f6a7b8c9d0"
	userID    = "user-1"
)

var (
	now      = time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	customer = auth.Actor{ID: userID, Role: scheduling.RoleUser}
)

func completedBooking() *model.Booking {
	return &model.Booking{
		ID:         bookingID,
		UserID:     userID,
		ProviderID: "provider-1",
		ServiceID:  serviceID,
		StartTime:  now.Add(-3 * time.Hour),
		EndTime:    now.Add(-2 * time.Hour),
		Status:     scheduling.StatusCompleted,
	}
}

func validRequest() *model.ReviewCreate {
	return &model.ReviewCreate{BookingID: bookingID, ServiceID: serviceID, Rating: 5, Comment: "  Great work  "}
}

type fixture struct {
	repo     *mockReviewRepository
	bookings *mockBookingReader
	events   *recordedEvents
	svc      ReviewService
}

func newFixture(booking *model.Booking) *fixture {
	log := logger.Discard()
	f := &fixture{
		repo:     &mockReviewRepository{},
		bookings: &mockBookingReader{booking: booking},
		events:   &recordedEvents{},
	}
	f.svc = NewReviewService(
		f.repo,
		f.bookings,
		validator.NewReviewValidator(log),
		scheduling.NewEngine(testclock.NewClock(now)),
		f.events,
		&config.Config{Log: log},
	)
	return f
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	if !apperrors.HasCode(err, code) {
		t.Fatalf("expected code %s, got %v", code, err)
	}
}

func assertReason(t *testing.T, err error, reason scheduling.ReviewDenial) {
	t.Helper()
	appErr := apperrors.AsAppError(err)
	if appErr == nil {
		t.Fatalf("expected AppError, got %v", err)
	}
	if got := appErr.Details["reason"]; got != string(reason) {
		t.Errorf("reason = %v, want %s", got, reason)
	}
}

// ────────────────────────────────────────────────
// Create
// ────────────────────────────────────────────────

func TestCreate_Success(t *testing.T) {
	f := newFixture(completedBooking())
	ctx := auth.WithToken(context.Background(), "token-abc")

	review, err := f.svc.Create(ctx, customer, validRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if review.UserID != userID || review.Comment != "Great work" {
		t.Errorf("review = %+v", review)
	}
	if f.bookings.lastToken != "token-abc" {
		t.Errorf("forwarded token = %q", f.bookings.lastToken)
	}
	if len(f.events.created) != 1 || f.events.created[0].ReviewID != review.ID || f.events.created[0].Rating != 5 {
		t.Errorf("events = %+v", f.events.created)
	}
}

func TestCreate_Denials(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(b *model.Booking)
		actor      auth.Actor
		wantCode   string
		wantReason scheduling.ReviewDenial
	}{
		{
			name:       "booking not completed",
			mutate:     func(b *model.Booking) { b.Status = scheduling.StatusConfirmed },
			actor:      customer,
			wantCode:   apperrors.CodeForbidden,
			wantReason: scheduling.ReviewNotCompleted,
		},
		{
			name:       "service not ended",
			mutate:     func(b *model.Booking) { b.EndTime = now.Add(time.Minute) },
			actor:      customer,
			wantCode:   apperrors.CodeForbidden,
			wantReason: scheduling.ReviewTooEarly,
		},
		{
			name:       "reviewer is not the customer",
			mutate:     func(b *model.Booking) {},
			actor:      auth.Actor{ID: "provider-1", Role: scheduling.RoleProvider},
			wantCode:   apperrors.CodeForbidden,
			wantReason: scheduling.ReviewNotBookingOwner,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := completedBooking()
			tt.mutate(booking)
			f := newFixture(booking)

			_, err := f.svc.Create(context.Background(), tt.actor, validRequest())
			assertCode(t, err, tt.wantCode)
			assertReason(t, err, tt.wantReason)
			if len(f.repo.reviews) != 0 || len(f.events.created) != 0 {
				t.Error("denied review was stored or published")
			}
		})
	}
}

func TestCreate_EndTimeBoundaryAllowed(t *testing.T) {
	booking := completedBooking()
	booking.EndTime = now
	f := newFixture(booking)

	if _, err := f.svc.Create(context.Background(), customer, validRequest()); err != nil {
		t.Fatalf("review at end time: %v", err)
	}
}

func TestCreate_SecondReviewConflicts(t *testing.T) {
	f := newFixture(completedBooking())

	if _, err := f.svc.Create(context.Background(), customer, validRequest()); err != nil {
		t.Fatalf("first review: %v", err)
	}
	_, err := f.svc.Create(context.Background(), customer, validRequest())
	assertCode(t, err, apperrors.CodeConflict)
	assertReason(t, err, scheduling.ReviewAlreadyExists)
}

func TestCreate_UniqueIndexRace(t *testing.T) {
	f := newFixture(completedBooking())
	f.repo.createErr = fmt.Errorf("%w: booking %s", reviewserrors.ErrAlreadyExists, bookingID)

	_, err := f.svc.Create(context.Background(), customer, validRequest())
	assertCode(t, err, apperrors.CodeConflict)
}

func TestCreate_BookingLookup(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"not found", client.ErrBookingNotFound, apperrors.CodeNotFound},
		{"not visible", client.ErrBookingForbidden, apperrors.CodeForbidden},
		{"bookings service down", errors.New("connection refused"), apperrors.CodeUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(completedBooking())
			f.bookings.err = tt.err

			_, err := f.svc.Create(context.Background(), customer, validRequest())
			assertCode(t, err, tt.wantCode)
		})
	}
}

func TestCreate_ServiceMismatch(t *testing.T) {
	f := newFixture(completedBooking())
	req := validRequest()
	req.ServiceID = "65f1c0a2b3d4e5f6a7b8c9ff"

	_, err := f.svc.Create(context.Background(), customer, req)
	assertCode(t, err, apperrors.CodeValidation)
}

func TestCreate_InvalidRating(t *testing.T) {
	f := newFixture(completedBooking())
	req := validRequest()
	req.Rating = 6

	_, err := f.svc.Create(context.Background(), customer, req)
	assertCode(t, err, apperrors.CodeValidation)
}

func TestCreate_ReviewLookupFailure(t *testing.T) {
	f := newFixture(completedBooking())
	f.repo.findErr = errors.New("socket closed")

	_, err := f.svc.Create(context.Background(), customer, validRequest())
	assertCode(t, err, apperrors.CodeInternal)
}

// ────────────────────────────────────────────────
// ListByService
// ────────────────────────────────────────────────

func TestListByService(t *testing.T) {
	f := newFixture(completedBooking())
	f.repo.reviews = []*model.Review{
		{ID: "r1", ServiceID: serviceID, Rating: 4},
		{ID: "r2", ServiceID: "other", Rating: 2},
	}

	reviews, total, err := f.svc.ListByService(context.Background(), serviceID, 10, 0)
	if err != nil {
		t.Fatalf("ListByService: %v", err)
	}
	if total != 1 || len(reviews) != 1 || reviews[0].ID != "r1" {
		t.Errorf("got %d reviews (total %d)", len(reviews), total)
	}
}

func TestListByService_RequiresServiceID(t *testing.T) {
	f := newFixture(nil)

	_, _, err := f.svc.ListByService(context.Background(), "", 10, 0)
	assertCode(t, err, apperrors.CodeInvalidInput)
}
