package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/recruitdesk/apiserver/internal/notify"
	"github.com/recruitdesk/apiserver/internal/storage"
	"github.com/recruitdesk/apiserver/internal/store"
	"github.com/recruitdesk/apiserver/types"
)

// OfferLetterRepository defines owner-scoped persistence operations for offer letters.
type OfferLetterRepository interface {
	List(ctx context.Context, userID string) ([]types.OfferLetter, error)
	Get(ctx context.Context, userID, id string) (types.OfferLetter, error)
	Create(ctx context.Context, offer types.OfferLetter) (types.OfferLetter, error)
	Update(ctx context.Context, offer types.OfferLetter) (types.OfferLetter, error)
	UpdateStatus(ctx context.Context, userID, id, status string) error
	Delete(ctx context.Context, userID, id string) error
}

// ObjectStore holds archived offer-letter PDFs.
type ObjectStore interface {
	Put(ctx context.Context, obj storage.Object) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// OfferLetterService encapsulates offer-letter use-cases, including candidate notification.
type OfferLetterService struct {
	repo       OfferLetterRepository
	candidates CandidateLookup
	mailer     notify.Mailer
	archive    ObjectStore
}

// NewOfferLetterService builds the service. archive may be nil to skip PDF archiving.
func NewOfferLetterService(repo OfferLetterRepository, candidates CandidateLookup, mailer notify.Mailer, archive ObjectStore) *OfferLetterService {
	return &OfferLetterService{repo: repo, candidates: candidates, mailer: mailer, archive: archive}
}

func (s *OfferLetterService) List(ctx context.Context, userID string) ([]types.OfferLetter, error) {
	return s.repo.List(ctx, userID)
}

func (s *OfferLetterService) Get(ctx context.Context, userID, id string) (types.OfferLetter, error) {
	return s.repo.Get(ctx, userID, id)
}

func (s *OfferLetterService) Create(ctx context.Context, userID string, offer types.OfferLetter) (types.OfferLetter, error) {
	offer.UserID = userID
	if offer.Status == "" {
		offer.Status = types.OfferStatusPending
	}
	name, err := snapshotCandidateName(ctx, s.candidates, userID, offer.CandidateID, offer.CandidateName)
	if err != nil {
		return types.OfferLetter{}, err
	}
	offer.CandidateName = name
	return s.repo.Create(ctx, offer)
}

// Update replaces the editable fields. An empty status keeps the current one;
// changing it here sends no email.
func (s *OfferLetterService) Update(ctx context.Context, userID, id string, offer types.OfferLetter) (types.OfferLetter, error) {
	current, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return types.OfferLetter{}, err
	}
	offer.ID = current.ID
	offer.UserID = current.UserID
	if offer.Status == "" {
		offer.Status = current.Status
	}
	if offer.CandidateName == "" {
		offer.CandidateName = current.CandidateName
	}
	return s.repo.Update(ctx, offer)
}

// Delete removes the offer letter and, best-effort, its archived PDF.
func (s *OfferLetterService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	if s.archive != nil {
		key := OfferLetterArchiveKey(id)
		if err := s.archive.Delete(ctx, key); err != nil {
			slog.Warn("failed to delete archived offer letter pdf",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
	}
	return nil
}

// ArchivedPDF opens the PDF that was sent with an accepted offer.
// It returns ErrArchiveUnavailable when archiving is disabled and
// store.ErrNotFound when the offer is not the caller's or was never archived.
func (s *OfferLetterService) ArchivedPDF(ctx context.Context, userID, id string) (io.ReadCloser, error) {
	if s.archive == nil {
		return nil, ErrArchiveUnavailable
	}
	if _, err := s.repo.Get(ctx, userID, id); err != nil {
		return nil, err
	}
	r, err := s.archive.Get(ctx, OfferLetterArchiveKey(id))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return r, nil
}

// SendNotification emails the candidate about the decision and then records
// the new status. Nothing is persisted when delivery fails.
func (s *OfferLetterService) SendNotification(ctx context.Context, sender types.User, id, status string) error {
	if status != types.OfferStatusAccepted && status != types.OfferStatusRejected {
		return ErrInvalidStatus
	}

	offer, err := s.repo.Get(ctx, sender.ID, id)
	if err != nil {
		return err
	}
	candidate, err := s.candidates.Get(ctx, sender.ID, offer.CandidateID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCandidateNotFound
		}
		return err
	}

	details := notify.OfferDetails{
		CandidateName: candidate.Name,
		Position:      offer.Position,
		Salary:        offer.Salary,
		StartDate:     offer.StartDate,
	}

	var msg notify.Message
	var pdf []byte
	if status == types.OfferStatusAccepted {
		msg = notify.OfferAcceptedMessage(candidate.Email, details)
		pdf, err = notify.RenderOfferPDF(msg.Text)
		if err != nil {
			return fmt.Errorf("%w: render pdf: %v", ErrSendFailed, err)
		}
		msg.Attachments = []notify.Attachment{{
			Filename:    notify.OfferPDFFilename,
			ContentType: notify.OfferPDFContentType,
			Data:        pdf,
		}}
	} else {
		msg = notify.OfferRejectedMessage(candidate.Email, details)
	}
	msg.ReplyTo = sender.Email

	if err := s.mailer.Send(ctx, msg); err != nil {
		slog.Error("failed to send offer letter email",
			slog.String("offer_letter_id", offer.ID),
			slog.String("status", status),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	if err := s.repo.UpdateStatus(ctx, sender.ID, offer.ID, status); err != nil {
		return err
	}

	if pdf != nil {
		s.archivePDF(ctx, offer, pdf)
	}
	return nil
}

func (s *OfferLetterService) archivePDF(ctx context.Context, offer types.OfferLetter, pdf []byte) {
	if s.archive == nil {
		return
	}
	key := OfferLetterArchiveKey(offer.ID)
	err := s.archive.Put(ctx, storage.Object{
		Key:         key,
		ContentType: notify.OfferPDFContentType,
		Filename:    notify.OfferPDFFilename,
		Metadata: map[string]string{
			"offer-id":     offer.ID,
			"candidate-id": offer.CandidateID,
			"owner-id":     offer.UserID,
		},
		Body: pdf,
	})
	if err != nil {
		slog.Warn("failed to archive offer letter pdf",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

// OfferLetterArchiveKey is the object key of an archived offer-letter PDF.
func OfferLetterArchiveKey(id string) string {
	return "offer-letters/" + id + ".pdf"
}
