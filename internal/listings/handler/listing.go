package handler

import (
	"net/http"
	"servly/internal/listings/service"
	apperrors "servly/pkg/errors"
	httputil "servly/pkg/http"
	"servly/pkg/logger"
	"servly/pkg/model"
	"strconv"

	"github.com/julienschmidt/httprouter"
)

type ListingHandler struct {
	service service.ListingService
	log     *logger.Logger
}

func NewListingHandler(service service.ListingService, log *logger.Logger) *ListingHandler {
	return &ListingHandler{
		service: service,
		log:     log,
	}
}

func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, err := httputil.ExtractActor(r)
	if err != nil {
		h.writeError(w, r, "Create", err)
		return
	}

	var payload model.ListingPayload
	if err := httputil.DecodeJSON(r, &payload); err != nil {
		h.writeError(w, r, "Create", err)
		return
	}

	listing, err := h.service.Create(r.Context(), actor, &payload)
	if err != nil {
		h.writeError(w, r, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, listing); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ListingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	listing, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, r, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, listing); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ListingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter, err := parseFilter(r)
	if err != nil {
		h.writeError(w, r, "GetAll", err)
		return
	}

	listings, total, pageSize, err := h.service.Search(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, "GetAll", err)
		return
	}

	offset := (filter.Page - 1) * pageSize
	if err := httputil.WritePaginated(w, listings, total, pageSize, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, err := httputil.ExtractActor(r)
	if err != nil {
		h.writeError(w, r, "Update", err)
		return
	}

	var payload model.ListingPayload
	if err := httputil.DecodeJSON(r, &payload); err != nil {
		h.writeError(w, r, "Update", err)
		return
	}

	listing, err := h.service.Update(r.Context(), actor, ps.ByName("id"), &payload)
	if err != nil {
		h.writeError(w, r, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, listing); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, err := httputil.ExtractActor(r)
	if err != nil {
		h.writeError(w, r, "Delete", err)
		return
	}

	if err := h.service.Delete(r.Context(), actor, ps.ByName("id")); err != nil {
		h.writeError(w, r, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func parseFilter(r *http.Request) (*model.ListingFilter, error) {
	query := r.URL.Query()

	page, err := httputil.ExtractPage(r)
	if err != nil {
		return nil, err
	}

	filter := &model.ListingFilter{
		Search:   query.Get("search"),
		Category: query.Get("category"),
		City:     query.Get("city"),
		Page:     page,
	}

	if s := query.Get("min_price"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, apperrors.InvalidInput("invalid min_price parameter: " + s)
		}
		filter.MinPrice = &v
	}
	if s := query.Get("max_price"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, apperrors.InvalidInput("invalid max_price parameter: " + s)
		}
		filter.MaxPrice = &v
	}
	if s := query.Get("min_rating"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, apperrors.InvalidInput("invalid min_rating parameter: " + s)
		}
		filter.MinRating = &v
	}

	return filter, nil
}

func (h *ListingHandler) writeError(w http.ResponseWriter, r *http.Request, handler string, err error) {
	log := logger.FromContext(r.Context(), h.log)
	if !apperrors.IsAppError(err) || apperrors.HasCode(err, apperrors.CodeInternal) {
		log.Error("request failed", "handler", handler, "error", err)
	}
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

// IsPublic opens the catalogue to anonymous browsing.
func (h *ListingHandler) IsPublic(r *http.Request) bool {
	return r.Method == http.MethodGet
}

func (h *ListingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/listings", h.Create)
	router.GET("/api/v1/listings", h.GetAll)
	router.GET("/api/v1/listings/id/:id", h.GetByID)
	router.PATCH("/api/v1/listings/id/:id", h.Update)
	router.DELETE("/api/v1/listings/id/:id", h.Delete)
}
