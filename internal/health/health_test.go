package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"

	"servly/pkg/logger"
)

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Name() string                    { return s.name }
func (s stubChecker) Check(ctx context.Context) error { return s.err }

func serve(h *HealthHandler, path string) *httptest.ResponseRecorder {
	router := httprouter.New()
	h.RegisterRoutes(router)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	h := NewHealthHandler(logger.Discard(), stubChecker{name: "mongo", err: errors.New("down")})

	rec := serve(h, "/health")
	if rec.Code != http.StatusOK {
		t.Errorf("liveness must not depend on dependencies, got %d", rec.Code)
	}
}

func TestReady(t *testing.T) {
	tests := []struct {
		name       string
		checkers   []stubChecker
		wantStatus int
		wantDeps   map[string]string
	}{
		{
			name:       "all healthy",
			checkers:   []stubChecker{{name: "mongo"}, {name: "redis"}},
			wantStatus: http.StatusOK,
			wantDeps:   map[string]string{"mongo": "ok", "redis": "ok"},
		},
		{
			name:       "redis down",
			checkers:   []stubChecker{{name: "mongo"}, {name: "redis", err: errors.New("refused")}},
			wantStatus: http.StatusServiceUnavailable,
			wantDeps:   map[string]string{"mongo": "ok", "redis": "error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &HealthHandler{log: logger.Discard()}
			for _, c := range tt.checkers {
				h.checkers = append(h.checkers, c)
			}

			rec := serve(h, "/ready")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body HealthResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			for dep, want := range tt.wantDeps {
				if body.Dependencies[dep] != want {
					t.Errorf("%s = %q, want %q", dep, body.Dependencies[dep], want)
				}
			}
		})
	}
}
