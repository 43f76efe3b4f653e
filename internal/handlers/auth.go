package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/recruitdesk/apiserver/internal/activity"
	"github.com/recruitdesk/apiserver/internal/auth"
	"github.com/recruitdesk/apiserver/internal/services"
	"github.com/recruitdesk/apiserver/internal/store"
	"github.com/recruitdesk/apiserver/types"
)

// Authenticator resolves a bearer token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (types.User, error)
}

// AccountService is the account surface used by the auth and user routes.
type AccountService interface {
	Authenticator
	Register(ctx context.Context, in services.RegisterInput) (types.User, string, error)
	Login(ctx context.Context, email, password string) (types.User, string, error)
	Profile(ctx context.Context, userID string) (types.User, error)
	UpdateProfile(ctx context.Context, userID, name string, profile types.Profile) (types.User, error)
	VerifyPassword(ctx context.Context, userID, password string) error
	ChangePassword(ctx context.Context, userID, current, next string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
}

// ActivityRecorder receives named account actions.
type ActivityRecorder interface {
	Record(entry types.ActivityLog)
}

// AuthHandler serves the public account endpoints.
type AuthHandler struct {
	accounts AccountService
	activity ActivityRecorder
}

// NewAuthHandler constructs an AuthHandler. rec may be nil.
func NewAuthHandler(accounts AccountService, rec ActivityRecorder) *AuthHandler {
	return &AuthHandler{accounts: accounts, activity: rec}
}

// AuthRouter registers the public account routes.
func AuthRouter(r chi.Router, accounts AccountService, rec ActivityRecorder) {
	handler := NewAuthHandler(accounts, rec)

	r.Post("/register", handler.Register)
	r.Post("/login", handler.Login)
	r.Post("/forgot-password", handler.ForgotPassword)
	r.Post("/reset-password", handler.ResetPassword)
}

// RequireAuth rejects requests without a valid session token and attaches
// the resolved user to the request context.
func RequireAuth(authenticator Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "No token provided")
				return
			}

			user, err := authenticator.Authenticate(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, services.ErrInvalidToken):
					writeError(w, http.StatusForbidden, "Invalid or expired token")
				case errors.Is(err, store.ErrNotFound):
					writeError(w, http.StatusNotFound, "User not found")
				default:
					writeServerError(w, r, "failed to authenticate", err)
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
		})
	}
}

// RequireAdmin lets only admin users through. It must follow RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.UserFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "No token provided")
			return
		}
		if !user.IsAdmin() {
			writeError(w, http.StatusForbidden, "Access denied. Admins only.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// currentUser returns the authenticated caller. RequireAuth guarantees it
// on protected routes; the fallback keeps a misrouted handler from panicking.
func currentUser(w http.ResponseWriter, r *http.Request) (types.User, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token provided")
	}
	return user, ok
}

// recordAction logs a named account action; rec may be nil.
func recordAction(rec ActivityRecorder, r *http.Request, userID, action string) {
	if rec == nil {
		return
	}
	rec.Record(types.ActivityLog{
		UserID:    userID,
		Action:    action,
		Endpoint:  r.URL.Path,
		IPAddress: activity.RemoteIP(r),
	})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, token, err := h.accounts.Register(r.Context(), services.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Profile:  req.ProfileFields.toProfile(),
	})
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			writeError(w, http.StatusBadRequest, "Email already exists")
			return
		}
		writeServerError(w, r, "failed to register user", err)
		return
	}

	recordAction(h.activity, r, user.ID, "register")
	writeJSON(w, http.StatusCreated, AuthResponse{
		Message: "User registered successfully",
		Token:   token,
		User:    user,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, token, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		writeServerError(w, r, "failed to log in", err)
		return
	}

	recordAction(h.activity, r, user.ID, "login")
	writeJSON(w, http.StatusOK, AuthResponse{Token: token, User: user})
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.accounts.ForgotPassword(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, services.ErrSendFailed):
			writeError(w, http.StatusInternalServerError, "Failed to send reset link")
		default:
			writeServerError(w, r, "Failed to send reset link", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Reset link sent to email"})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.accounts.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidToken):
			writeError(w, http.StatusBadRequest, "Invalid or expired token")
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "User not found")
		default:
			writeServerError(w, r, "failed to reset password", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Password has been reset successfully"})
}

type AuthResponse struct {
	Message string     `json:"message,omitempty"`
	Token   string     `json:"token"`
	User    types.User `json:"user"`
}
