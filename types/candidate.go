package types

import "time"

// Candidate statuses.
const (
	CandidateStatusApplied     = "Applied"
	CandidateStatusInterviewed = "Interviewed"
	CandidateStatusRejected    = "Rejected"
)

// Candidate represents an applicant tracked by an HR user.
type Candidate struct {
	// ID is the unique identifier of the candidate.
	ID string `json:"_id" db:"id"`

	// UserID identifies the owning user.
	UserID string `json:"userId" db:"user_id"`

	// Name is the candidate's full name. It is copied into interviews and
	// offer letters at the time they are created.
	Name string `json:"name" db:"name"`

	// Email is the address offer-letter notifications are sent to.
	Email string `json:"email" db:"email"`

	Position string `json:"position" db:"position"`

	// Status is one of Applied, Interviewed or Rejected. Defaults to Applied.
	Status string `json:"status" db:"status"`

	AboutCandidate string `json:"aboutCandidate" db:"about_candidate"`
	Skills         string `json:"skills" db:"skills"`

	// ResumeLink is an absolute URL to the candidate's resume.
	ResumeLink string `json:"resumeLink" db:"resume_link"`

	Experience string `json:"experience" db:"experience"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
