package handler

import (
	"context"
	"net/http"
	"servly/internal/providers/service"
	"servly/pkg/auth"
	apperrors "servly/pkg/errors"
	httputil "servly/pkg/http"
	"servly/pkg/logger"
	"servly/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ProviderHandler struct {
	service service.ProviderService
	log     *logger.Logger
}

func NewProviderHandler(service service.ProviderService, log *logger.Logger) *ProviderHandler {
	return &ProviderHandler{
		service: service,
		log:     log,
	}
}

func (h *ProviderHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, r, "GetAll", err)
		return
	}

	providers, total, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, r, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, providers, total, limit, int(offset)); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *ProviderHandler) Apply(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, err := httputil.ExtractActor(r)
	if err != nil {
		h.writeError(w, r, "Apply", err)
		return
	}

	var req model.ProviderApplication
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, r, "Apply", err)
		return
	}

	profile, err := h.service.Apply(r.Context(), actor, &req)
	if err != nil {
		h.writeError(w, r, "Apply", err)
		return
	}

	if err := httputil.WriteCreated(w, profile); err != nil {
		h.log.Error("failed to write created response", "handler", "Apply", "operation", "WriteCreated", "error", err)
	}
}

func (h *ProviderHandler) GetApplications(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, err := httputil.ExtractActor(r)
	if err != nil {
		h.writeError(w, r, "GetApplications", err)
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, r, "GetApplications", err)
		return
	}

	status := r.URL.Query().Get("status")
	profiles, total, err := h.service.ListApplications(r.Context(), actor, status, limit, offset)
	if err != nil {
		h.writeError(w, r, "GetApplications", err)
		return
	}

	if err := httputil.WritePaginated(w, profiles, total, limit, int(offset)); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetApplications", "operation", "WritePaginated", "error", err)
	}
}

func (h *ProviderHandler) Approve(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.decide(w, r, "Approve", ps.ByName("id"), h.service.Approve)
}

func (h *ProviderHandler) Reject(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.decide(w, r, "Reject", ps.ByName("id"), h.service.Reject)
}

func (h *ProviderHandler) decide(
	w http.ResponseWriter,
	r *http.Request,
	handler string,
	id string,
	fn func(context.Context, auth.Actor, string) (*model.Profile, error),
) {
	actor, err := httputil.ExtractActor(r)
	if err != nil {
		h.writeError(w, r, handler, err)
		return
	}

	profile, err := fn(r.Context(), actor, id)
	if err != nil {
		h.writeError(w, r, handler, err)
		return
	}

	if err := httputil.WriteSuccess(w, profile); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

func (h *ProviderHandler) writeError(w http.ResponseWriter, r *http.Request, handler string, err error) {
	log := logger.FromContext(r.Context(), h.log)
	if !apperrors.IsAppError(err) || apperrors.HasCode(err, apperrors.CodeInternal) {
		log.Error("request failed", "handler", handler, "error", err)
	}
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

// IsPublic opens only the provider directory; the applications queue needs
// an admin token.
func (h *ProviderHandler) IsPublic(r *http.Request) bool {
	return r.Method == http.MethodGet && r.URL.Path == "/api/v1/providers"
}

func (h *ProviderHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/providers", h.GetAll)
	router.POST("/api/v1/providers/apply", h.Apply)
	router.GET("/api/v1/providers/applications", h.GetApplications)
	router.POST("/api/v1/providers/id/:id/approve", h.Approve)
	router.POST("/api/v1/providers/id/:id/reject", h.Reject)
}
