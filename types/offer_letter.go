package types

import "time"

// Offer letter statuses.
const (
	OfferStatusPending  = "Pending"
	OfferStatusAccepted = "Accepted"
	OfferStatusRejected = "Rejected"
)

// OfferLetter represents an offer issued to a candidate.
// Moving Status to Accepted or Rejected happens only through the
// send-email action, after the candidate has been notified.
type OfferLetter struct {
	// ID is the unique identifier of the offer letter.
	ID string `json:"_id" db:"id"`

	// UserID identifies the owning user.
	UserID string `json:"userId" db:"user_id"`

	// CandidateID references the candidate receiving the offer.
	CandidateID string `json:"candidateId" db:"candidate_id"`

	// CandidateName is a point-in-time copy of the candidate's name.
	CandidateName string `json:"candidateName" db:"candidate_name"`

	Position   string     `json:"position" db:"position"`
	DateIssued *time.Time `json:"dateIssued" db:"date_issued"`

	// Status is one of Pending, Accepted or Rejected. Defaults to Pending.
	Status string `json:"status" db:"status"`

	Content   string `json:"content" db:"content"`
	Salary    string `json:"salary" db:"salary"`
	StartDate string `json:"startDate" db:"start_date"`
	Notes     string `json:"notes" db:"notes"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
