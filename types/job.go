package types

import "time"

// Job statuses.
const (
	JobStatusOpen   = "Open"
	JobStatusClosed = "Closed"
)

// Job represents a job posting owned by an HR user.
type Job struct {
	// ID is the unique identifier of the job.
	ID string `json:"_id" db:"id"`

	// UserID identifies the owning user.
	UserID string `json:"userId" db:"user_id"`

	// Title is the required job title.
	Title string `json:"title" db:"title"`

	Department string `json:"department" db:"department"`
	Location   string `json:"location" db:"location"`

	// Status is either Open or Closed. New jobs default to Open.
	Status string `json:"status" db:"status"`

	AboutJob      string `json:"aboutJob" db:"about_job"`
	AboutCompany  string `json:"aboutCompany" db:"about_company"`
	Qualification string `json:"qualification" db:"qualification"`
	CTC           string `json:"ctc" db:"ctc"`

	// Skills is a comma-joined list of skills.
	Skills string `json:"skills" db:"skills"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
