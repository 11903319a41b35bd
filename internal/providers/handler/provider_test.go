package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"servly/pkg/auth"
	"servly/pkg/logger"
	"servly/pkg/model"
	"servly/pkg/scheduling"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
)

type mockProviderService struct {
	applied *model.ProviderApplication
	decided string
	status  string
}

func (m *mockProviderService) List(ctx context.Context, limit int, offset int64) ([]*model.Profile, int64, error) {
	return []*model.Profile{{ID: "p1", Role: scheduling.RoleProvider, Name: "Dana Levi"}}, 1, nil
}

func (m *mockProviderService) Apply(ctx context.Context, actor auth.Actor, app *model.ProviderApplication) (*model.Profile, error) {
	m.applied = app
	return &model.Profile{ID: actor.ID, Role: actor.Role, Name: app.Name, ApplicationStatus: model.ApplicationPending}, nil
}

func (m *mockProviderService) ListApplications(ctx context.Context, actor auth.Actor, status string, limit int, offset int64) ([]*model.Profile, int64, error) {
	m.status = status
	return []*model.Profile{{ID: "u1", Role: scheduling.RoleUser, ApplicationStatus: model.ApplicationPending}}, 1, nil
}

func (m *mockProviderService) Approve(ctx context.Context, actor auth.Actor, id string) (*model.Profile, error) {
	m.decided = id
	m.status = model.ApplicationApproved
	return &model.Profile{ID: id, Role: scheduling.RoleProvider, ApplicationStatus: model.ApplicationApproved}, nil
}

func (m *mockProviderService) Reject(ctx context.Context, actor auth.Actor, id string) (*model.Profile, error) {
	m.decided = id
	m.status = model.ApplicationRejected
	return &model.Profile{ID: id, Role: scheduling.RoleUser, ApplicationStatus: model.ApplicationRejected}, nil
}

func serve(svc *mockProviderService, r *http.Request, actor *auth.Actor) *httptest.ResponseRecorder {
	router := httprouter.New()
	NewProviderHandler(svc, logger.Discard()).RegisterRoutes(router)
	if actor != nil {
		r = r.WithContext(auth.WithActor(r.Context(), *actor))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	return rec
}

func TestProviderHandler(t *testing.T) {
	user := &auth.Actor{ID: "user-1", Role: scheduling.RoleUser}
	body := `{"name":"Dana Levi","phone":"+16502530000","bio":"Certified massage therapist.","categories":["wellness"]}`

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		actor  *auth.Actor
		want   int
	}{
		{"list anonymously", http.MethodGet, "/api/v1/providers", "", nil, http.StatusOK},
		{"apply", http.MethodPost, "/api/v1/providers/apply", body, user, http.StatusCreated},
		{"apply without token", http.MethodPost, "/api/v1/providers/apply", body, nil, http.StatusUnauthorized},
		{"apply malformed", http.MethodPost, "/api/v1/providers/apply", `{"name":`, user, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockProviderService{}
			rec := serve(svc, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)), tt.actor)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
			if tt.want == http.StatusCreated && svc.applied.Name != "Dana Levi" {
				t.Errorf("applied = %+v", svc.applied)
			}
		})
	}
}

func TestProviderHandler_Applications(t *testing.T) {
	admin := &auth.Actor{ID: "admin-1", Role: scheduling.RoleAdmin}

	tests := []struct {
		name        string
		method      string
		path        string
		actor       *auth.Actor
		want        int
		wantDecided string
		wantStatus  string
	}{
		{"list by status", http.MethodGet, "/api/v1/providers/applications?status=rejected", admin, http.StatusOK, "", "rejected"},
		{"list without token", http.MethodGet, "/api/v1/providers/applications", nil, http.StatusUnauthorized, "", ""},
		{"approve", http.MethodPost, "/api/v1/providers/id/u1/approve", admin, http.StatusOK, "u1", model.ApplicationApproved},
		{"reject", http.MethodPost, "/api/v1/providers/id/u1/reject", admin, http.StatusOK, "u1", model.ApplicationRejected},
		{"approve without token", http.MethodPost, "/api/v1/providers/id/u1/approve", nil, http.StatusUnauthorized, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockProviderService{}
			rec := serve(svc, httptest.NewRequest(tt.method, tt.path, nil), tt.actor)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
			if svc.decided != tt.wantDecided || svc.status != tt.wantStatus {
				t.Errorf("decided %q as %q, want %q as %q", svc.decided, svc.status, tt.wantDecided, tt.wantStatus)
			}
		})
	}
}

func TestProviderHandler_IsPublic(t *testing.T) {
	h := NewProviderHandler(&mockProviderService{}, logger.Discard())

	tests := []struct {
		method string
		target string
		want   bool
	}{
		{http.MethodGet, "/api/v1/providers?limit=5", true},
		{http.MethodGet, "/api/v1/providers/applications", false},
		{http.MethodPost, "/api/v1/providers/apply", false},
		{http.MethodPost, "/api/v1/providers/id/u1/approve", false},
	}
	for _, tt := range tests {
		if got := h.IsPublic(httptest.NewRequest(tt.method, tt.target, nil)); got != tt.want {
			t.Errorf("IsPublic(%s %s) = %v, want %v", tt.method, tt.target, got, tt.want)
		}
	}
}
