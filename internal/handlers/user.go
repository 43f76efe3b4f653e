package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/recruitdesk/apiserver/internal/services"
	"github.com/recruitdesk/apiserver/internal/store"
)

// UserHandler serves the caller's own account.
type UserHandler struct {
	accounts AccountService
	activity ActivityRecorder
}

func NewUserHandler(accounts AccountService, rec ActivityRecorder) *UserHandler {
	return &UserHandler{accounts: accounts, activity: rec}
}

// UserRouter registers self-service routes. Callers mount it behind RequireAuth.
func UserRouter(r chi.Router, accounts AccountService, rec ActivityRecorder) {
	handler := NewUserHandler(accounts, rec)

	r.Get("/me", handler.Me)
	r.Put("/me", handler.UpdateMe)
	r.Post("/change-password", handler.ChangePassword)
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}

	user, err := h.accounts.Profile(r.Context(), caller.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeServerError(w, r, "failed to load user", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.accounts.UpdateProfile(r.Context(), caller.ID, req.Name, req.ProfileFields.toProfile())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeServerError(w, r, "failed to update profile", err)
		return
	}

	recordAction(h.activity, r, caller.ID, "update_profile")
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "All fields are required")
		return
	}
	if errs := validateStruct(&req); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, ValidationErrorResponse{Errors: errs})
		return
	}

	if err := h.accounts.ChangePassword(r.Context(), caller.ID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, services.ErrIncorrectPassword) {
			writeError(w, http.StatusBadRequest, "Current password is incorrect")
			return
		}
		writeServerError(w, r, "failed to change password", err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Password updated successfully"})
}

// VerifyPassword confirms the caller's password before sensitive UI actions.
func (h *UserHandler) VerifyPassword(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req VerifyPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.accounts.VerifyPassword(r.Context(), caller.ID, req.Password); err != nil {
		if errors.Is(err, services.ErrIncorrectPassword) {
			writeError(w, http.StatusUnauthorized, "Incorrect password")
			return
		}
		writeServerError(w, r, "failed to verify password", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
