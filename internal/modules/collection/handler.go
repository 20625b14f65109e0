package collection

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rliyanage/distro-backend/internal/config"
	"github.com/rliyanage/distro-backend/internal/validate"
)

// Handler exposes collection HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/collections", func(r chi.Router) {
		r.Post("/", h.createCollection)
		r.Get("/", h.listCollections) // ?type=...&status=...&order_id=...
		r.Get("/{id}", h.getCollection)
		r.Post("/{id}/complete", h.completeCollection)
	})
}

func (h *Handler) createCollection(w http.ResponseWriter, r *http.Request) {
	var req CreateCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	c, err := h.service.CreateCollection(r.Context(), req)
	if err != nil {
		if fields := validate.Errors(err); fields != nil {
			respond(w, http.StatusBadRequest, map[string]interface{}{"error": "validation failed", "fields": fields})
			return
		}
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, c)
}

func (h *Handler) getCollection(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.GetCollection(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, c)
}

func (h *Handler) listCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := h.service.ListCollections(r.Context(),
		r.URL.Query().Get("type"), r.URL.Query().Get("status"), r.URL.Query().Get("order_id"))
	if err != nil {
		config.LogError(config.GetLogger(), "collection", "listCollections", "list collections failed", nil, err)
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, collections)
}

func (h *Handler) completeCollection(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.CompleteCollection(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if strings.Contains(err.Error(), "already") || strings.Contains(err.Error(), "exceeds") ||
			strings.Contains(err.Error(), "not in") {
			respond(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, c)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
