package service

import (
	"context"
	"errors"
	"fmt"
	availabilityerrors "servly/internal/availability/errors"
	"servly/internal/availability/validator"
	"servly/pkg/auth"
	"servly/pkg/config"
	apperrors "servly/pkg/errors"
	"servly/pkg/logger"
	"servly/pkg/model"
	"servly/pkg/scheduling"
	"sync"
	"testing"
	"time"
)

// ────────────────────────────────────────────────
// Mock repository for testing
// ────────────────────────────────────────────────

type mockAvailabilityRepository struct {
	mu           sync.Mutex
	windows      map[string]*model.AvailabilityWindow
	nextID       int
	lastProvider string
	deleted      []string
	findErr      error
}

func newMockRepo(windows ...*model.AvailabilityWindow) *mockAvailabilityRepository {
	m := &mockAvailabilityRepository{windows: map[string]*model.AvailabilityWindow{}}
	for _, w := range windows {
		m.windows[w.ID] = w
	}
	return m
}

func (m *mockAvailabilityRepository) Create(ctx context.Context, window *model.AvailabilityWindow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	window.ID = fmt.Sprintf("w%d", m.nextID)
	m.windows[window.ID] = window
	return nil
}

func (m *mockAvailabilityRepository) FindByID(ctx context.Context, id string) (*model.AvailabilityWindow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.windows[id]; ok {
		return w, nil
	}
	return nil, availabilityerrors.ErrNotFound
}

func (m *mockAvailabilityRepository) Find(ctx context.Context, providerID string, limit int, offset int64) ([]*model.AvailabilityWindow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastProvider = providerID
	if m.findErr != nil {
		return nil, m.findErr
	}
	var out []*model.AvailabilityWindow
	for _, w := range m.windows {
		if providerID == "" || w.ProviderID == providerID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m *mockAvailabilityRepository) Count(ctx context.Context, providerID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, w := range m.windows {
		if providerID == "" || w.ProviderID == providerID {
			n++
		}
	}
	return n, nil
}

func (m *mockAvailabilityRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.windows, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func newService(repo *mockAvailabilityRepository) AvailabilityService {
	log := logger.Discard()
	return NewAvailabilityService(repo, validator.NewAvailabilityValidator(log), &config.Config{Log: log})
}

var (
	provider = auth.Actor{ID: "provider-1", Role: scheduling.RoleProvider}
	user     = auth.Actor{ID: "user-1", Role: scheduling.RoleUser}
	start    = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
)

// ────────────────────────────────────────────────
// Tests
// ────────────────────────────────────────────────

func TestCreate(t *testing.T) {
	tests := []struct {
		name     string
		actor    auth.Actor
		end      time.Time
		wantCode string
	}{
		{"provider", provider, start.Add(8 * time.Hour), ""},
		{"user is forbidden", user, start.Add(8 * time.Hour), apperrors.CodeForbidden},
		{"admin is forbidden", auth.Actor{ID: "a", Role: scheduling.RoleAdmin}, start.Add(time.Hour), apperrors.CodeForbidden},
		{"inverted window", provider, start.Add(-time.Hour), apperrors.CodeValidation},
		{"empty window", provider, start, apperrors.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepo()
			svc := newService(repo)

			window, err := svc.Create(context.Background(), tt.actor, &model.AvailabilityCreate{StartTime: start, EndTime: tt.end})

			if tt.wantCode != "" {
				if !apperrors.HasCode(err, tt.wantCode) {
					t.Fatalf("error = %v, want %s", err, tt.wantCode)
				}
				if len(repo.windows) != 0 {
					t.Error("nothing should be stored")
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if window.ProviderID != tt.actor.ID {
				t.Errorf("ProviderID = %q, want the acting provider", window.ProviderID)
			}
		})
	}
}

func TestList_ProviderSeesOwnWindows(t *testing.T) {
	repo := newMockRepo(
		&model.AvailabilityWindow{ID: "a", ProviderID: "provider-1", StartTime: start, EndTime: start.Add(time.Hour)},
		&model.AvailabilityWindow{ID: "b", ProviderID: "provider-2", StartTime: start, EndTime: start.Add(time.Hour)},
	)
	svc := newService(repo)

	windows, total, err := svc.List(context.Background(), provider, "provider-2", 0, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if repo.lastProvider != "provider-1" || total != 1 || len(windows) != 1 {
		t.Errorf("provider filter = %q, total = %d", repo.lastProvider, total)
	}

	_, total, err = svc.List(context.Background(), user, "", 0, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 2 {
		t.Errorf("user without filter: total = %d, want 2", total)
	}

	_, _, err = svc.List(context.Background(), user, "provider-2", 0, 0)
	if err != nil || repo.lastProvider != "provider-2" {
		t.Errorf("user filter = %q, err = %v", repo.lastProvider, err)
	}
}

func TestList_RepositoryError(t *testing.T) {
	repo := newMockRepo()
	repo.findErr = errors.New("socket closed")

	_, _, err := newService(repo).List(context.Background(), user, "", 10, 0)

	if !apperrors.HasCode(err, apperrors.CodeInternal) {
		t.Errorf("error = %v, want INTERNAL_ERROR", err)
	}
}

func TestDelete(t *testing.T) {
	window := &model.AvailabilityWindow{ID: "a", ProviderID: "provider-1", StartTime: start, EndTime: start.Add(time.Hour)}

	tests := []struct {
		name     string
		actor    auth.Actor
		id       string
		wantCode string
	}{
		{"owner", provider, "a", ""},
		{"other provider", auth.Actor{ID: "provider-2", Role: scheduling.RoleProvider}, "a", apperrors.CodeForbidden},
		{"user", user, "a", apperrors.CodeForbidden},
		{"missing", provider, "zzz", apperrors.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cp := *window
			repo := newMockRepo(&cp)

			err := newService(repo).Delete(context.Background(), tt.actor, tt.id)

			if tt.wantCode != "" {
				if !apperrors.HasCode(err, tt.wantCode) {
					t.Fatalf("error = %v, want %s", err, tt.wantCode)
				}
				if len(repo.deleted) != 0 {
					t.Error("nothing should be deleted")
				}
				return
			}
			if err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if len(repo.deleted) != 1 {
				t.Errorf("deleted = %v", repo.deleted)
			}
		})
	}
}
