package reportshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrdash/internal/domain/reports"
	"hrdash/internal/transport/http/api"
	"hrdash/internal/transport/http/middleware"
)

type Handler struct {
	Service *reports.Service
}

func NewHandler(svc *reports.Service) *Handler {
	return &Handler{Service: svc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/analytics", func(r chi.Router) {
		r.Get("/dashboard", h.handleDashboard)
		r.Get("/summary", h.handleSummary)
		r.Get("/departments", h.handleDepartments)
		r.Get("/ratings", h.handleRatings)
		r.Get("/bookmark-trend", h.handleBookmarkTrend)
	})
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Service.Dashboard(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Service.Summary(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDepartments(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Service.DepartmentRatings(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRatings(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Service.RatingDistribution(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleBookmarkTrend(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Service.BookmarkTrend(), middleware.GetRequestID(r.Context()))
}
