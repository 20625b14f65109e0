package report

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rliyanage/distro-backend/internal/config"
)

// Handler exposes reporting and export HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/reports", func(r chi.Router) {
		r.Get("/summary", h.getSummary)
		r.Get("/driver-sales", h.getDriverSales) // ?from=...&to=...
		r.Get("/orders.csv", h.exportOrdersCSV)
		r.Get("/products.xlsx", h.exportProductsExcel)
		r.Get("/driver-sales.xlsx", h.exportDriverSalesExcel)
	})
}

func (h *Handler) getSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.GetSummary(r.Context())
	if err != nil {
		config.LogError(config.GetLogger(), "report", "getSummary", "dashboard rollup failed", nil, err)
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, summary)
}

func (h *Handler) getDriverSales(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.GetDriverSales(r.Context(),
		r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, rows)
}

func (h *Handler) exportOrdersCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.OrdersCSV(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		config.LogError(config.GetLogger(), "report", "exportOrdersCSV", "orders export failed", nil, err)
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	filename := fmt.Sprintf("orders-%s.csv", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.Write(data)
}

func (h *Handler) exportProductsExcel(w http.ResponseWriter, r *http.Request) {
	f, err := h.service.ProductsExcel(r.Context())
	if err != nil {
		config.LogError(config.GetLogger(), "report", "exportProductsExcel", "products export failed", nil, err)
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	filename := fmt.Sprintf("products-%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	f.Write(w)
}

func (h *Handler) exportDriverSalesExcel(w http.ResponseWriter, r *http.Request) {
	f, err := h.service.DriverSalesExcel(r.Context(),
		r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	filename := fmt.Sprintf("driver-sales-%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	f.Write(w)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
