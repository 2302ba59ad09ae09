package authhandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"hrdash/internal/domain/auth"
	"hrdash/internal/transport/http/api"
	"hrdash/internal/transport/http/middleware"
)

type Handler struct {
	Service *auth.Service
}

func NewHandler(svc *auth.Service) *Handler {
	return &Handler{Service: svc}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.HandleLogin)
	r.With(middleware.RequireRole()).Get("/auth/me", h.HandleMe)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	session, err := h.Service.Login(payload.Email, payload.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		zerolog.Ctx(r.Context()).Warn().Str("email", payload.Email).Msg("login rejected")
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", requestID)
		return
	}
	api.Success(w, session, requestID)
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	api.Success(w, user, middleware.GetRequestID(r.Context()))
}
