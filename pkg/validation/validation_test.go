package validation

import (
	"errors"
	"servly/pkg/logger"
	"servly/pkg/model"
	"strings"
	"testing"
	"time"
)

func TestStruct_BookingStatus(t *testing.T) {
	v := New(logger.Discard())

	tests := []struct {
		name    string
		status  string
		wantErr bool
	}{
		{"upper case", "CONFIRMED", false},
		{"lower case", "cancelled", false},
		{"unknown", "ARCHIVED", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(&model.BookingStatusUpdate{Status: tt.status})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Struct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	v := New(logger.Discard())
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	err := v.Struct(&model.AvailabilityCreate{StartTime: start, EndTime: start.Add(-time.Hour)})

	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %T: %v", err, err)
	}
	if len(verrs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(verrs), verrs)
	}
	if verrs[0].Field != "end_time" {
		t.Errorf("Field = %q, want end_time", verrs[0].Field)
	}
	if !strings.Contains(verrs[0].Message, "must be after") {
		t.Errorf("Message = %q", verrs[0].Message)
	}
	if got := verrs.Details()["end_time"]; got != verrs[0].Message {
		t.Errorf("Details()[end_time] = %v", got)
	}
}

func TestStruct_ListingPayload(t *testing.T) {
	v := New(logger.Discard())

	err := v.Struct(&model.ListingPayload{
		Title:       "ab",
		Description: "Deep cleaning of two bedroom flats",
		Category:    "cleaning",
		Price:       0,
		City:        "Berlin",
	})

	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	fields := map[string]bool{}
	for _, e := range verrs {
		fields[e.Field] = true
	}
	if !fields["title"] || !fields["price"] {
		t.Errorf("expected title and price errors, got %v", verrs)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	var empty ValidationErrors
	if empty.Error() != "" {
		t.Errorf("empty Error() = %q", empty.Error())
	}
	errs := ValidationErrors{{Field: "a", Message: "bad"}, {Field: "b", Message: "worse"}}
	if got := errs.Error(); !strings.Contains(got, "2 error(s)") || !strings.Contains(got, "a: bad; b: worse") {
		t.Errorf("Error() = %q", got)
	}
}

func TestAppError(t *testing.T) {
	err := AppError("Booking validation failed", ValidationErrors{{Field: "notes", Message: "notes must be at most 500"}})
	if err.StatusCode() != 422 {
		t.Errorf("StatusCode() = %d, want 422", err.StatusCode())
	}
	if err.Details["notes"] != "notes must be at most 500" {
		t.Errorf("Details = %v", err.Details)
	}

	plain := AppError("Booking validation failed", errors.New("boom"))
	if plain.Details["error"] != "boom" {
		t.Errorf("Details = %v", plain.Details)
	}
}
