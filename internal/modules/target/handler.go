package target

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rliyanage/distro-backend/internal/middleware"
	"github.com/rliyanage/distro-backend/internal/validate"
)

// Handler exposes daily-target HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/daily-targets", func(r chi.Router) {
		r.Put("/", h.setTarget)
		r.Get("/", h.listTargets) // ?from=...&to=...
		r.Get("/achievement", h.getAchievement)
		r.Get("/{id}", h.getTarget)
		r.Delete("/{id}", h.deleteTarget)
	})
}

func (h *Handler) setTarget(w http.ResponseWriter, r *http.Request) {
	var req UpsertTargetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	t, err := h.service.SetTarget(r.Context(), req, middleware.UserID(r.Context()))
	if err != nil {
		if fields := validate.Errors(err); fields != nil {
			respond(w, http.StatusBadRequest, map[string]interface{}{"error": "validation failed", "fields": fields})
			return
		}
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, t)
}

func (h *Handler) getTarget(w http.ResponseWriter, r *http.Request) {
	t, err := h.service.GetTarget(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, t)
}

func (h *Handler) listTargets(w http.ResponseWriter, r *http.Request) {
	targets, err := h.service.ListTargets(r.Context(),
		r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, targets)
}

func (h *Handler) getAchievement(w http.ResponseWriter, r *http.Request) {
	a, err := h.service.GetAchievement(r.Context(),
		r.URL.Query().Get("date"), r.URL.Query().Get("driver"))
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, a)
}

func (h *Handler) deleteTarget(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteTarget(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
