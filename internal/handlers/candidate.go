package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/recruitdesk/apiserver/internal/store"
	"github.com/recruitdesk/apiserver/types"
)

type CandidateService interface {
	List(ctx context.Context, userID string) ([]types.Candidate, error)
	Get(ctx context.Context, userID, id string) (types.Candidate, error)
	Create(ctx context.Context, userID string, candidate types.Candidate) (types.Candidate, error)
	Update(ctx context.Context, userID, id string, candidate types.Candidate) (types.Candidate, error)
	Delete(ctx context.Context, userID, id string) error
}

// CandidateHandler provides caller-scoped HTTP handlers for candidates.
type CandidateHandler struct {
	candidates CandidateService
}

func NewCandidateHandler(candidates CandidateService) *CandidateHandler {
	return &CandidateHandler{candidates: candidates}
}

// CandidateRouter registers candidate routes. Callers mount it behind RequireAuth.
func CandidateRouter(r chi.Router, candidates CandidateService) {
	handler := NewCandidateHandler(candidates)

	r.Get("/", handler.ListCandidates)
	r.Post("/", handler.CreateCandidate)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", handler.GetCandidate)
		r.Put("/", handler.UpdateCandidate)
		r.Delete("/", handler.DeleteCandidate)
	})
}

func (h *CandidateHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}
	candidates, err := h.candidates.List(r.Context(), caller.ID)
	if err != nil {
		writeServerError(w, r, "failed to list candidates", err)
		return
	}
	writeJSON(w, http.StatusOK, candidates)
}

func (h *CandidateHandler) GetCandidate(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}
	candidate, err := h.candidates.Get(r.Context(), caller.ID, resourceID(r))
	if err != nil {
		writeCandidateError(w, r, "failed to fetch candidate", err)
		return
	}
	writeJSON(w, http.StatusOK, candidate)
}

func (h *CandidateHandler) CreateCandidate(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req CandidateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	candidate, err := h.candidates.Create(r.Context(), caller.ID, req.toCandidate())
	if err != nil {
		writeServerError(w, r, "failed to create candidate", err)
		return
	}
	writeJSON(w, http.StatusCreated, candidate)
}

func (h *CandidateHandler) UpdateCandidate(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req CandidateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	candidate, err := h.candidates.Update(r.Context(), caller.ID, resourceID(r), req.toCandidate())
	if err != nil {
		writeCandidateError(w, r, "failed to update candidate", err)
		return
	}
	writeJSON(w, http.StatusOK, candidate)
}

func (h *CandidateHandler) DeleteCandidate(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.candidates.Delete(r.Context(), caller.ID, resourceID(r)); err != nil {
		writeCandidateError(w, r, "failed to delete candidate", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeCandidateError(w http.ResponseWriter, r *http.Request, message string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Candidate not found")
		return
	}
	writeServerError(w, r, message, err)
}
