package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestBookingClient_GetByID(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		wantAny bool
	}{
		{
			name:   "found",
			status: http.StatusOK,
			body:   `{"data":{"id":"65f1c0a2b3d4e5f6a7b8c9d1","user_id":"user-1","status":"COMPLETED"}}`,
		},
		{name: "not found", status: http.StatusNotFound, body: `{"code":"NOT_FOUND"}`, wantErr: ErrBookingNotFound},
		{name: "forbidden", status: http.StatusForbidden, body: `{"code":"FORBIDDEN"}`, wantErr: ErrBookingForbidden},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{}`, wantErr: ErrBookingForbidden},
		{name: "server error", status: http.StatusInternalServerError, body: `{"message":"boom"}`, wantAny: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotAuth, gotPath string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				gotPath = r.URL.Path
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			booking, err := NewBookingClient(srv.URL, time.Second).GetByID(context.Background(), "65f1c0a2b3d4e5f6a7b8c9d1", "tok")

			if gotAuth != "Bearer tok" {
				t.Errorf("Authorization = %q", gotAuth)
			}
			if gotPath != "/api/v1/bookings/id/65f1c0a2b3d4e5f6a7b8c9d1" {
				t.Errorf("path = %q", gotPath)
			}
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
			case tt.wantAny:
				if err == nil {
					t.Fatal("expected error")
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if booking.UserID != "user-1" || booking.Status != "COMPLETED" {
					t.Errorf("booking = %+v", booking)
				}
			}
		})
	}
}
