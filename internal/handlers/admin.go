package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/recruitdesk/apiserver/internal/services"
	"github.com/recruitdesk/apiserver/internal/store"
	"github.com/recruitdesk/apiserver/types"
)

type AdminService interface {
	ListUsers(ctx context.Context) ([]types.UserSummary, error)
	DeleteUser(ctx context.Context, id string) error
}

// AdminHandler exposes account management to administrators.
type AdminHandler struct {
	admin    AdminService
	activity ActivityRecorder
}

func NewAdminHandler(admin AdminService, rec ActivityRecorder) *AdminHandler {
	return &AdminHandler{admin: admin, activity: rec}
}

// AdminRouter registers admin routes. Callers mount it behind RequireAuth
// and RequireAdmin.
func AdminRouter(r chi.Router, admin AdminService, rec ActivityRecorder) {
	handler := NewAdminHandler(admin, rec)

	r.Get("/users", handler.ListUsers)
	r.Delete("/users/{id}", handler.DeleteUser)
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.ListUsers(r.Context())
	if err != nil {
		writeServerError(w, r, "failed to list users", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.admin.DeleteUser(r.Context(), resourceID(r)); err != nil {
		switch {
		case errors.Is(err, services.ErrAdminProtected):
			writeError(w, http.StatusForbidden, "Cannot delete admin users")
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "User not found")
		default:
			writeServerError(w, r, "failed to delete user", err)
		}
		return
	}

	recordAction(h.activity, r, caller.ID, "delete_user")
	w.WriteHeader(http.StatusNoContent)
}
