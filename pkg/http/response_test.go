package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	apperrors "servly/pkg/errors"
	"strings"
	"testing"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "conflict keeps reason",
			err:         apperrors.Conflict("Slot not available").WithDetails(map[string]any{"reason": "NO_AVAILABILITY"}),
			wantStatus:  http.StatusConflict,
			wantCode:    apperrors.CodeConflict,
			wantMessage: "Slot not available",
		},
		{
			name:        "forbidden",
			err:         apperrors.Forbidden("transition not allowed"),
			wantStatus:  http.StatusForbidden,
			wantCode:    apperrors.CodeForbidden,
			wantMessage: "transition not allowed",
		},
		{
			name:        "plain error hides cause",
			err:         errors.New("mongo: connection reset"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    apperrors.CodeInternal,
			wantMessage: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			if err := WriteError(rec, tt.err); err != nil {
				t.Fatalf("WriteError() error = %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body apperrors.ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", body.Code, tt.wantCode)
			}
			if body.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", body.Message, tt.wantMessage)
			}
		})
	}
}

func TestWritePaginated(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := WritePaginated(rec, []string{"a", "b"}, 7, 2, 4); err != nil {
		t.Fatalf("WritePaginated() error = %v", err)
	}

	var body PaginatedResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.TotalCount != 7 || body.Limit != 2 || body.Offset != 4 {
		t.Errorf("unexpected pagination envelope: %+v", body)
	}
}

func TestExtractPage(t *testing.T) {
	tests := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{"", 1, false},
		{"page=3", 3, false},
		{"page=0", 0, true},
		{"page=abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/v1/listings?"+tt.query, nil)
			got, err := ExtractPage(r)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractPage() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ExtractPage() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Status string `json:"status"`
	}

	t.Run("valid", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"status":"CONFIRMED"}`))
		var p payload
		if err := DecodeJSON(r, &p); err != nil {
			t.Fatalf("DecodeJSON() error = %v", err)
		}
		if p.Status != "CONFIRMED" {
			t.Errorf("status = %s", p.Status)
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"state":"CONFIRMED"}`))
		var p payload
		if err := DecodeJSON(r, &p); !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
			t.Errorf("expected INVALID_INPUT, got %v", err)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(""))
		var p payload
		if err := DecodeJSON(r, &p); !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
			t.Errorf("expected INVALID_INPUT, got %v", err)
		}
	})
}
