package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/recruitdesk/apiserver/internal/store"
	"github.com/recruitdesk/apiserver/types"
)

// JobService is the job use-case surface the handlers depend on.
type JobService interface {
	List(ctx context.Context, userID string) ([]types.Job, error)
	Get(ctx context.Context, userID, id string) (types.Job, error)
	Create(ctx context.Context, userID string, job types.Job) (types.Job, error)
	Update(ctx context.Context, userID, id string, job types.Job) (types.Job, error)
	Delete(ctx context.Context, userID, id string) error
}

// JobHandler provides caller-scoped HTTP handlers for job postings.
type JobHandler struct {
	jobs JobService
}

func NewJobHandler(jobs JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// JobRouter registers job routes. Callers mount it behind RequireAuth.
func JobRouter(r chi.Router, jobs JobService) {
	handler := NewJobHandler(jobs)

	r.Get("/", handler.ListJobs)
	r.Post("/", handler.CreateJob)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", handler.GetJob)
		r.Put("/", handler.UpdateJob)
		r.Delete("/", handler.DeleteJob)
	})
}

func (h *JobHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}
	jobs, err := h.jobs.List(r.Context(), caller.ID)
	if err != nil {
		writeServerError(w, r, "failed to list jobs", err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}
	job, err := h.jobs.Get(r.Context(), caller.ID, resourceID(r))
	if err != nil {
		h.writeJobError(w, r, "failed to fetch job", err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (h *JobHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req JobRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	job, err := h.jobs.Create(r.Context(), caller.ID, req.toJob())
	if err != nil {
		writeServerError(w, r, "failed to create job", err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

func (h *JobHandler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req JobRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	job, err := h.jobs.Update(r.Context(), caller.ID, resourceID(r), req.toJob())
	if err != nil {
		h.writeJobError(w, r, "failed to update job", err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (h *JobHandler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.jobs.Delete(r.Context(), caller.ID, resourceID(r)); err != nil {
		h.writeJobError(w, r, "failed to delete job", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *JobHandler) writeJobError(w http.ResponseWriter, r *http.Request, message string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}
	writeServerError(w, r, message, err)
}
