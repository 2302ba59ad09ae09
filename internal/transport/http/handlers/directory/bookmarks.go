package directoryhandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrdash/internal/domain/directory"
	"hrdash/internal/transport/http/api"
	"hrdash/internal/transport/http/middleware"
)

type bookmarksResponse struct {
	IDs       []string             `json:"ids"`
	Employees []directory.Employee `json:"employees"`
}

type bookmarkResponse struct {
	ID         string `json:"id"`
	Bookmarked bool   `json:"bookmarked"`
	Changed    bool   `json:"changed"`
}

func (h *Handler) handleListBookmarks(w http.ResponseWriter, r *http.Request) {
	api.Success(w, bookmarksResponse{
		IDs:       h.store().Bookmarks(),
		Employees: h.store().BookmarkedEmployees(),
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAddBookmark(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "employeeID")
	changed := h.store().Dispatch(directory.AddBookmark{ID: id})
	api.Success(w, bookmarkResponse{ID: id, Bookmarked: h.store().IsBookmarked(id), Changed: changed}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRemoveBookmark(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "employeeID")
	changed := h.store().Dispatch(directory.RemoveBookmark{ID: id})
	api.Success(w, bookmarkResponse{ID: id, Bookmarked: false, Changed: changed}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleToggleBookmark(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "employeeID")
	bookmarked := h.store().ToggleBookmark(id)
	api.Success(w, bookmarkResponse{ID: id, Bookmarked: bookmarked, Changed: true}, middleware.GetRequestID(r.Context()))
}
