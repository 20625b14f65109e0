package allocation

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rliyanage/distro-backend/internal/config"
	"github.com/rliyanage/distro-backend/internal/validate"
)

// Handler exposes allocation and driver-sale HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/allocations", func(r chi.Router) {
		r.Post("/", h.allocate)
		r.Get("/", h.listAllocations) // ?driver=...&status=...&date=...
		r.Get("/{id}", h.getAllocation)
		r.Post("/{id}/reconcile", h.reconcile)
	})
	r.Route("/api/v1/driver-sales", func(r chi.Router) {
		r.Post("/", h.recordSale)
		r.Get("/", h.listSales) // ?driver=...
		r.Get("/{id}", h.getSale)
	})
}

func isConflict(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "23505") || strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "rejected") || strings.Contains(msg, "exceeds")
}

func (h *Handler) allocate(w http.ResponseWriter, r *http.Request) {
	var req AllocateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	a, err := h.service.Allocate(r.Context(), req)
	if err != nil {
		if fields := validate.Errors(err); fields != nil {
			respond(w, http.StatusBadRequest, map[string]interface{}{"error": "validation failed", "fields": fields})
			return
		}
		if isConflict(err) {
			respond(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, a)
}

func (h *Handler) listAllocations(w http.ResponseWriter, r *http.Request) {
	driverID := r.URL.Query().Get("driver")
	date := r.URL.Query().Get("date")
	if driverID != "" && date != "" {
		a, err := h.service.GetByDriverDate(r.Context(), driverID, date)
		if err != nil {
			respond(w, http.StatusNotFound, map[string]string{"error": "no allocation for driver on that date"})
			return
		}
		respond(w, http.StatusOK, []*Allocation{a})
		return
	}
	allocations, err := h.service.ListAllocations(r.Context(), driverID, r.URL.Query().Get("status"), date)
	if err != nil {
		config.LogError(config.GetLogger(), "allocation", "listAllocations", "list allocations failed", nil, err)
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, allocations)
}

func (h *Handler) getAllocation(w http.ResponseWriter, r *http.Request) {
	a, err := h.service.GetAllocation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, a)
}

func (h *Handler) reconcile(w http.ResponseWriter, r *http.Request) {
	var req ReconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	result, err := h.service.Reconcile(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		if isConflict(err) {
			respond(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, result)
}

func (h *Handler) recordSale(w http.ResponseWriter, r *http.Request) {
	var req RecordSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	sale, err := h.service.RecordSale(r.Context(), req)
	if err != nil {
		if fields := validate.Errors(err); fields != nil {
			respond(w, http.StatusBadRequest, map[string]interface{}{"error": "validation failed", "fields": fields})
			return
		}
		if isConflict(err) {
			respond(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, sale)
}

func (h *Handler) getSale(w http.ResponseWriter, r *http.Request) {
	sale, err := h.service.GetSale(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, sale)
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	driverID := r.URL.Query().Get("driver")
	if driverID == "" {
		respond(w, http.StatusBadRequest, map[string]string{"error": "driver query parameter is required"})
		return
	}
	sales, err := h.service.ListSales(r.Context(), driverID)
	if err != nil {
		config.LogError(config.GetLogger(), "allocation", "listSales", "list sales failed", nil, err)
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, sales)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
