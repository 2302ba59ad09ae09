package directoryhandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"hrdash/internal/domain/directory"
	"hrdash/internal/domain/reports"
	"hrdash/internal/transport/http/api"
	"hrdash/internal/transport/http/middleware"
	"hrdash/internal/transport/http/shared"
)

// RefreshFunc reloads employees from the source, returning job details.
type RefreshFunc func(ctx context.Context) (any, error)

type Handler struct {
	Service     *directory.Service
	Reports     *reports.Service
	Idempotency *middleware.IdempotencyStore
	Refresh     RefreshFunc
}

func NewHandler(svc *directory.Service, reportsSvc *reports.Service, idem *middleware.IdempotencyStore, refresh RefreshFunc) *Handler {
	return &Handler{Service: svc, Reports: reportsSvc, Idempotency: idem, Refresh: refresh}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/state", h.handleState)
	r.With(middleware.RequireRole()).Post("/mutations", h.handleMutation)
	r.Get("/departments", h.handleDepartments)

	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.handleListEmployees)
		r.With(middleware.RequireRole(), middleware.Idempotent(h.Idempotency)).Post("/", h.handleCreateEmployee)
		r.Get("/export.xlsx", h.handleExport)
		r.With(middleware.RequireRole()).Post("/refresh", h.handleRefresh)
		r.Get("/{employeeID}", h.handleGetEmployee)
		r.With(middleware.RequireRole()).Put("/{employeeID}", h.handleUpdateEmployee)
		r.With(middleware.RequireRole()).Post("/{employeeID}/feedback", h.handleFeedback)
		r.Get("/{employeeID}/profile.pdf", h.handleProfilePDF)
	})

	r.Route("/bookmarks", func(r chi.Router) {
		r.Get("/", h.handleListBookmarks)
		r.With(middleware.RequireRole()).Put("/{employeeID}", h.handleAddBookmark)
		r.With(middleware.RequireRole()).Delete("/{employeeID}", h.handleRemoveBookmark)
		r.With(middleware.RequireRole()).Post("/{employeeID}/toggle", h.handleToggleBookmark)
	})
}

func (h *Handler) store() *directory.Store {
	return h.Service.Store()
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.store().State(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDepartments(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.store().State().Departments, middleware.GetRequestID(r.Context()))
}

type mutationResponse struct {
	Changed bool              `json:"changed"`
	State   directory.HRState `json:"state"`
}

func (h *Handler) handleMutation(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var env directory.Envelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	m, err := directory.DecodeMutation(env)
	switch {
	case errors.Is(err, directory.ErrUnknownMutation):
		api.Fail(w, http.StatusBadRequest, "unknown_mutation", err.Error(), requestID)
		return
	case err != nil:
		api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), requestID)
		return
	}
	changed := h.store().Dispatch(m)
	zerolog.Ctx(r.Context()).Debug().Str("type", env.Type).Bool("changed", changed).Msg("mutation dispatched")
	api.Success(w, mutationResponse{Changed: changed, State: h.store().State()}, requestID)
}

// handleListEmployees derives the visible page. Signed-in users commit filter
// and page parameters to the store; anonymous readers only preview them.
func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	muts := viewMutations(shared.ParseViewQuery(r))
	var view directory.View
	if _, ok := middleware.GetUser(r.Context()); ok {
		view = h.store().ApplyAndView(muts...)
	} else {
		view = h.store().Preview(muts...)
	}
	api.Success(w, view, middleware.GetRequestID(r.Context()))
}

func viewMutations(q shared.ViewQuery) []directory.Mutation {
	var muts []directory.Mutation
	if q.Query != nil {
		muts = append(muts, directory.SetSearchQuery{Query: *q.Query})
	}
	if q.Departments != nil {
		muts = append(muts, directory.SetSelectedDepartments{Departments: q.Departments})
	}
	if q.Ratings != nil {
		muts = append(muts, directory.SetSelectedRatings{Ratings: q.Ratings})
	}
	if q.Page != nil {
		muts = append(muts, directory.SetCurrentPage{Page: *q.Page})
	}
	return muts
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload directory.NewEmployee
	if !shared.DecodeAndValidate(w, r, &payload, requestID) {
		return
	}
	api.Created(w, h.Service.CreateEmployee(payload), requestID)
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	emp, ok := h.lookup(w, r)
	if !ok {
		return
	}
	api.Success(w, directory.Detail{
		Employee:   emp,
		Overview:   directory.BuildOverview(emp),
		Bookmarked: h.store().IsBookmarked(emp.ID),
	}, requestID)
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "employeeID")
	if _, ok := h.store().Employee(id); !ok {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		return
	}
	var payload directory.Employee
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	payload.ID = id
	h.store().Dispatch(directory.UpdateEmployee{Employee: payload})
	emp, _ := h.store().Employee(id)
	api.Success(w, emp, requestID)
}

func (h *Handler) handleFeedback(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload directory.FeedbackInput
	if !shared.DecodeAndValidate(w, r, &payload, requestID) {
		return
	}
	from := "Anonymous"
	if user, ok := middleware.GetUser(r.Context()); ok && user.Name != "" {
		from = user.Name
	}
	item, err := h.Service.SubmitFeedback(r.Context(), chi.URLParam(r, "employeeID"), from, payload)
	if err != nil {
		h.failLookup(w, err, requestID)
		return
	}
	api.Created(w, item, requestID)
}

func (h *Handler) handleProfilePDF(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.lookup(w, r)
	if !ok {
		return
	}
	err := api.WriteFile(w, "application/pdf", "employee-"+emp.ID+".pdf", func(w http.ResponseWriter) error {
		return reports.WriteProfilePDF(w, emp)
	})
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("employeeId", emp.ID).Msg("profile pdf failed")
	}
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	name := "employees-" + time.Now().UTC().Format("20060102") + ".xlsx"
	err := api.WriteFile(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", name, func(w http.ResponseWriter) error {
		return h.Reports.ExportFiltered(w)
	})
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("employee export failed")
	}
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	details, err := h.Refresh(r.Context())
	if err != nil {
		api.Fail(w, http.StatusBadGateway, "refresh_failed", directory.LoadFailedMessage, requestID)
		return
	}
	api.Success(w, details, requestID)
}

// lookup resolves the {employeeID} path parameter, writing a 404 when absent.
func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (directory.Employee, bool) {
	emp, err := h.Service.Employee(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		h.failLookup(w, err, middleware.GetRequestID(r.Context()))
		return directory.Employee{}, false
	}
	return emp, true
}

func (h *Handler) failLookup(w http.ResponseWriter, err error, requestID string) {
	if errors.Is(err, directory.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		return
	}
	api.Fail(w, http.StatusServiceUnavailable, "unavailable", "employee lookup interrupted", requestID)
}
