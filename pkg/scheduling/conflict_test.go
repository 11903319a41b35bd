package scheduling

import (
	"errors"
	"reflect"
	"testing"
)

const providerP = "provider-p"

func windowsFor(provider string, intervals ...TimeInterval) []AvailabilityWindow {
	out := make([]AvailabilityWindow, 0, len(intervals))
	for _, i := range intervals {
		out = append(out, AvailabilityWindow{ProviderID: provider, Interval: i})
	}
	return out
}

func TestCheckBookable(t *testing.T) {
	tests := []struct {
		name      string
		requested TimeInterval
		windows   []AvailabilityWindow
		existing  []ExistingBooking
		accepted  bool
		reason    RejectReason
	}{
		{
			name:      "free slot inside window",
			requested: minutes(10, 70),
			windows:   windowsFor(providerP, minutes(0, 120)),
			accepted:  true,
		},
		{
			name:      "outside every window",
			requested: minutes(130, 190),
			windows:   windowsFor(providerP, minutes(0, 120)),
			reason:    NoAvailability,
		},
		{
			name:      "straddles window end",
			requested: minutes(100, 130),
			windows:   windowsFor(providerP, minutes(0, 120)),
			reason:    NoAvailability,
		},
		{
			name:      "no windows at all",
			requested: minutes(10, 20),
			reason:    NoAvailability,
		},
		{
			name:      "second window covers",
			requested: minutes(200, 230),
			windows:   windowsFor(providerP, minutes(0, 120), minutes(180, 240)),
			accepted:  true,
		},
		{
			name:      "window of another provider",
			requested: minutes(10, 70),
			windows:   windowsFor("provider-q", minutes(0, 120)),
			reason:    NoAvailability,
		},
		{
			name:      "overlaps confirmed booking",
			requested: minutes(50, 100),
			windows:   windowsFor(providerP, minutes(0, 120)),
			existing:  []ExistingBooking{{ID: "b1", Interval: minutes(20, 80), Status: StatusConfirmed}},
			reason:    SlotConflict,
		},
		{
			name:      "touches confirmed booking",
			requested: minutes(80, 120),
			windows:   windowsFor(providerP, minutes(0, 120)),
			existing:  []ExistingBooking{{ID: "b1", Interval: minutes(20, 80), Status: StatusConfirmed}},
			accepted:  true,
		},
		{
			name:      "pending booking never blocks",
			requested: minutes(50, 100),
			windows:   windowsFor(providerP, minutes(0, 120)),
			existing:  []ExistingBooking{{ID: "b1", Interval: minutes(20, 80), Status: StatusPending}},
			accepted:  true,
		},
		{
			name:      "cancelled and completed never block",
			requested: minutes(50, 100),
			windows:   windowsFor(providerP, minutes(0, 120)),
			existing: []ExistingBooking{
				{ID: "b1", Interval: minutes(20, 80), Status: StatusCancelled},
				{ID: "b2", Interval: minutes(60, 90), Status: StatusCompleted},
			},
			accepted: true,
		},
		{
			name:      "availability checked before conflicts",
			requested: minutes(130, 190),
			windows:   windowsFor(providerP, minutes(0, 120)),
			existing:  []ExistingBooking{{ID: "b1", Interval: minutes(130, 190), Status: StatusConfirmed}},
			reason:    NoAvailability,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CheckBookable(tt.requested, providerP, tt.windows, tt.existing)
			if err != nil {
				t.Fatalf("CheckBookable: %v", err)
			}
			if got.Accepted != tt.accepted {
				t.Errorf("Accepted = %v, want %v", got.Accepted, tt.accepted)
			}
			if got.Reason != tt.reason {
				t.Errorf("Reason = %q, want %q", got.Reason, tt.reason)
			}
			if tt.reason == SlotConflict && got.Conflict == nil {
				t.Error("SlotConflict without conflicting interval")
			}
			if tt.accepted {
				if got.Window == nil {
					t.Fatal("accepted without covering window")
				}
				if !Contains(*got.Window, tt.requested) {
					t.Errorf("window %s does not contain %s", *got.Window, tt.requested)
				}
			}
		})
	}
}

func TestCheckBookable_InvalidInterval(t *testing.T) {
	windows := windowsFor(providerP, minutes(0, 120))

	for _, requested := range []TimeInterval{minutes(30, 30), minutes(40, 30)} {
		if _, err := CheckBookable(requested, providerP, windows, nil); !errors.Is(err, ErrInvalidInterval) {
			t.Errorf("CheckBookable(%s): err = %v, want ErrInvalidInterval", requested, err)
		}
	}
}

func TestCheckBookable_Idempotent(t *testing.T) {
	windows := windowsFor(providerP, minutes(0, 120))
	existing := []ExistingBooking{
		{ID: "b1", Interval: minutes(20, 80), Status: StatusConfirmed},
		{ID: "b2", Interval: minutes(90, 100), Status: StatusPending},
	}

	for _, requested := range []TimeInterval{minutes(50, 100), minutes(80, 120), minutes(130, 150)} {
		first, err1 := CheckBookable(requested, providerP, windows, existing)
		second, err2 := CheckBookable(requested, providerP, windows, existing)
		if err1 != nil || err2 != nil {
			t.Fatalf("CheckBookable: %v, %v", err1, err2)
		}
		if !reflect.DeepEqual(first, second) {
			t.Errorf("decisions differ for %s: %+v vs %+v", requested, first, second)
		}
	}
}

func TestFindConflict(t *testing.T) {
	existing := []ExistingBooking{
		{ID: "pending", Interval: minutes(0, 30), Status: StatusPending},
		{ID: "confirmed", Interval: minutes(25, 45), Status: StatusConfirmed},
	}

	got, ok := FindConflict(minutes(10, 30), existing)
	if !ok || got != minutes(25, 45) {
		t.Errorf("FindConflict = %s, %v; want %s, true", got, ok, minutes(25, 45))
	}

	if _, ok := FindConflict(minutes(0, 25), existing); ok {
		t.Error("pending booking reported as conflict")
	}
}
