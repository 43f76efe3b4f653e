package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/recruitdesk/apiserver/internal/store"
	"github.com/recruitdesk/apiserver/types"
)

type InterviewService interface {
	List(ctx context.Context, userID string) ([]types.Interview, error)
	Get(ctx context.Context, userID, id string) (types.Interview, error)
	Create(ctx context.Context, userID string, interview types.Interview) (types.Interview, error)
	Update(ctx context.Context, userID, id string, interview types.Interview) (types.Interview, error)
	Delete(ctx context.Context, userID, id string) error
}

// InterviewHandler provides caller-scoped HTTP handlers for interviews.
type InterviewHandler struct {
	interviews InterviewService
}

func NewInterviewHandler(interviews InterviewService) *InterviewHandler {
	return &InterviewHandler{interviews: interviews}
}

// InterviewRouter registers interview routes. Callers mount it behind RequireAuth.
func InterviewRouter(r chi.Router, interviews InterviewService) {
	handler := NewInterviewHandler(interviews)

	r.Get("/", handler.ListInterviews)
	r.Post("/", handler.CreateInterview)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", handler.GetInterview)
		r.Put("/", handler.UpdateInterview)
		r.Delete("/", handler.DeleteInterview)
	})
}

func (h *InterviewHandler) ListInterviews(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}
	interviews, err := h.interviews.List(r.Context(), caller.ID)
	if err != nil {
		writeServerError(w, r, "failed to list interviews", err)
		return
	}
	writeJSON(w, http.StatusOK, interviews)
}

func (h *InterviewHandler) GetInterview(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}
	interview, err := h.interviews.Get(r.Context(), caller.ID, resourceID(r))
	if err != nil {
		writeInterviewError(w, r, "failed to fetch interview", err)
		return
	}
	writeJSON(w, http.StatusOK, interview)
}

// CreateInterview stores a new interview. The candidate's name is copied at
// this point and not kept in sync afterwards.
func (h *InterviewHandler) CreateInterview(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req InterviewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	interview, err := h.interviews.Create(r.Context(), caller.ID, req.toInterview())
	if err != nil {
		writeServerError(w, r, "failed to create interview", err)
		return
	}
	writeJSON(w, http.StatusCreated, interview)
}

func (h *InterviewHandler) UpdateInterview(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req InterviewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	interview, err := h.interviews.Update(r.Context(), caller.ID, resourceID(r), req.toInterview())
	if err != nil {
		writeInterviewError(w, r, "failed to update interview", err)
		return
	}
	writeJSON(w, http.StatusOK, interview)
}

func (h *InterviewHandler) DeleteInterview(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.interviews.Delete(r.Context(), caller.ID, resourceID(r)); err != nil {
		writeInterviewError(w, r, "failed to delete interview", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeInterviewError(w http.ResponseWriter, r *http.Request, message string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Interview not found")
		return
	}
	writeServerError(w, r, message, err)
}
