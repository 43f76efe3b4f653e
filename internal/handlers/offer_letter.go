package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/recruitdesk/apiserver/internal/notify"
	"github.com/recruitdesk/apiserver/internal/services"
	"github.com/recruitdesk/apiserver/internal/store"
	"github.com/recruitdesk/apiserver/types"
)

type OfferLetterService interface {
	List(ctx context.Context, userID string) ([]types.OfferLetter, error)
	Get(ctx context.Context, userID, id string) (types.OfferLetter, error)
	Create(ctx context.Context, userID string, offer types.OfferLetter) (types.OfferLetter, error)
	Update(ctx context.Context, userID, id string, offer types.OfferLetter) (types.OfferLetter, error)
	Delete(ctx context.Context, userID, id string) error
	SendNotification(ctx context.Context, sender types.User, id, status string) error
	ArchivedPDF(ctx context.Context, userID, id string) (io.ReadCloser, error)
}

// OfferLetterHandler provides caller-scoped HTTP handlers for offer letters.
type OfferLetterHandler struct {
	offers   OfferLetterService
	activity ActivityRecorder
}

func NewOfferLetterHandler(offers OfferLetterService, rec ActivityRecorder) *OfferLetterHandler {
	return &OfferLetterHandler{offers: offers, activity: rec}
}

// OfferLetterRouter registers offer letter routes. Callers mount it behind RequireAuth.
func OfferLetterRouter(r chi.Router, offers OfferLetterService, rec ActivityRecorder) {
	handler := NewOfferLetterHandler(offers, rec)

	r.Get("/", handler.ListOfferLetters)
	r.Post("/", handler.CreateOfferLetter)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", handler.GetOfferLetter)
		r.Put("/", handler.UpdateOfferLetter)
		r.Delete("/", handler.DeleteOfferLetter)
		r.Post("/send-email", handler.SendEmail)
		r.Get("/pdf", handler.DownloadPDF)
	})
}

func (h *OfferLetterHandler) ListOfferLetters(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}
	offers, err := h.offers.List(r.Context(), caller.ID)
	if err != nil {
		writeServerError(w, r, "failed to list offer letters", err)
		return
	}
	writeJSON(w, http.StatusOK, offers)
}

func (h *OfferLetterHandler) GetOfferLetter(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}
	offer, err := h.offers.Get(r.Context(), caller.ID, resourceID(r))
	if err != nil {
		writeOfferLetterError(w, r, "failed to fetch offer letter", err)
		return
	}
	writeJSON(w, http.StatusOK, offer)
}

func (h *OfferLetterHandler) CreateOfferLetter(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req OfferLetterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	offer, err := h.offers.Create(r.Context(), caller.ID, req.toOfferLetter())
	if err != nil {
		writeServerError(w, r, "failed to create offer letter", err)
		return
	}
	writeJSON(w, http.StatusCreated, offer)
}

func (h *OfferLetterHandler) UpdateOfferLetter(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req OfferLetterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	offer, err := h.offers.Update(r.Context(), caller.ID, resourceID(r), req.toOfferLetter())
	if err != nil {
		writeOfferLetterError(w, r, "failed to update offer letter", err)
		return
	}
	writeJSON(w, http.StatusOK, offer)
}

func (h *OfferLetterHandler) DeleteOfferLetter(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.offers.Delete(r.Context(), caller.ID, resourceID(r)); err != nil {
		writeOfferLetterError(w, r, "failed to delete offer letter", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SendEmail notifies the candidate of an Accepted or Rejected decision and
// stores the new status once the email has gone out.
func (h *OfferLetterHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req SendEmailRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.normalize()

	id := resourceID(r)
	if err := h.offers.SendNotification(r.Context(), caller, id, req.Status); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidStatus):
			writeError(w, http.StatusBadRequest, "Invalid status")
		case errors.Is(err, services.ErrCandidateNotFound):
			writeError(w, http.StatusNotFound, "Candidate not found")
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "Offer letter not found")
		case errors.Is(err, services.ErrSendFailed):
			writeError(w, http.StatusInternalServerError, "Failed to send email")
		default:
			writeServerError(w, r, "Failed to send email", err)
		}
		return
	}

	recordAction(h.activity, r, caller.ID, "send_offer_email")
	writeJSON(w, http.StatusOK, SendEmailResponse{
		Message: "Email sent and status updated successfully",
		Status:  req.Status,
	})
}

// DownloadPDF streams the archived PDF of an accepted offer.
func (h *OfferLetterHandler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r)
	if !ok {
		return
	}
	body, err := h.offers.ArchivedPDF(r.Context(), caller.ID, resourceID(r))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrArchiveUnavailable):
			writeError(w, http.StatusNotFound, "Offer letter archive is not enabled")
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "Offer letter not found")
		default:
			writeServerError(w, r, "failed to load offer letter pdf", err)
		}
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", notify.OfferPDFContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+notify.OfferPDFFilename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		slog.Warn("failed to stream offer letter pdf", slog.String("error", err.Error()))
	}
}

func writeOfferLetterError(w http.ResponseWriter, r *http.Request, message string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Offer letter not found")
		return
	}
	writeServerError(w, r, message, err)
}

type SendEmailResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}
