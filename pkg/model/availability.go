package model

import (
	"servly/pkg/scheduling"
	"time"
)

type AvailabilityWindow struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ProviderID string    `json:"provider_id" bson:"provider_id" validate:"required"`
	StartTime  time.Time `json:"start_time" bson:"start_time" validate:"required"`
	EndTime    time.Time `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

func (w *AvailabilityWindow) Interval() scheduling.TimeInterval {
	return scheduling.TimeInterval{Start: w.StartTime, End: w.EndTime}
}

func (w *AvailabilityWindow) AsWindow() scheduling.AvailabilityWindow {
	return scheduling.AvailabilityWindow{
		ProviderID: w.ProviderID,
		Interval:   w.Interval(),
	}
}

type AvailabilityCreate struct {
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
}

func Windows(windows []*AvailabilityWindow) []scheduling.AvailabilityWindow {
	out := make([]scheduling.AvailabilityWindow, 0, len(windows))
	for _, w := range windows {
		out = append(out, w.AsWindow())
	}
	return out
}
