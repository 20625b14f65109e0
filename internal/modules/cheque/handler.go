package cheque

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rliyanage/distro-backend/internal/config"
	"github.com/rliyanage/distro-backend/internal/validate"
)

// Handler exposes cheque HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/cheques", func(r chi.Router) {
		r.Post("/", h.createCheque)
		r.Get("/", h.listCheques) // ?status=...
		r.Get("/upcoming", h.listUpcoming)
		r.Get("/{id}", h.getCheque)
		r.Post("/{id}/clear", h.clearCheque)
		r.Post("/{id}/bounce", h.bounceCheque)
		r.Post("/{id}/cancel", h.cancelCheque)
		r.Delete("/{id}", h.deleteCheque)
	})
}

func (h *Handler) createCheque(w http.ResponseWriter, r *http.Request) {
	var req CreateChequeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	c, err := h.service.CreateCheque(r.Context(), req)
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

func (h *Handler) getCheque(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.GetCheque(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, c)
}

func (h *Handler) listCheques(w http.ResponseWriter, r *http.Request) {
	cheques, err := h.service.ListCheques(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		config.LogError(config.GetLogger(), "cheque", "listCheques", "list cheques failed", nil, err)
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, cheques)
}

func (h *Handler) listUpcoming(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	cheques, err := h.service.ListUpcoming(r.Context(), days)
	if err != nil {
		config.LogError(config.GetLogger(), "cheque", "listUpcoming", "list upcoming failed", nil, err)
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, cheques)
}

func (h *Handler) clearCheque(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.ClearCheque(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondTransitionErr(w, err)
		return
	}
	respond(w, http.StatusOK, c)
}

func (h *Handler) bounceCheque(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.BounceCheque(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondTransitionErr(w, err)
		return
	}
	respond(w, http.StatusOK, c)
}

func (h *Handler) cancelCheque(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.CancelCheque(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondTransitionErr(w, err)
		return
	}
	respond(w, http.StatusOK, c)
}

func (h *Handler) deleteCheque(w http.ResponseWriter, r *http.Request) {
	var req DeleteChequeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.service.DeleteCheque(r.Context(), chi.URLParam(r, "id"), req); err != nil {
		if strings.Contains(err.Error(), "password") {
			respond(w, http.StatusForbidden, map[string]string{"error": err.Error()})
			return
		}
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func respondTransitionErr(w http.ResponseWriter, err error) {
	if strings.Contains(err.Error(), "not in") || strings.Contains(err.Error(), "cannot") ||
		strings.Contains(err.Error(), "exceeds") {
		respond(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
