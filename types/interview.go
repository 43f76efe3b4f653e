package types

import "time"

// Interview statuses.
const (
	InterviewStatusScheduled   = "Scheduled"
	InterviewStatusRescheduled = "Rescheduled"
	InterviewStatusCompleted   = "Completed"
	InterviewStatusCancelled   = "Cancelled"
)

// Interview modes.
const (
	InterviewModeOnline   = "Online"
	InterviewModeInPerson = "In-Person"
)

// Interview represents a scheduled interview with a candidate.
type Interview struct {
	// ID is the unique identifier of the interview.
	ID string `json:"_id" db:"id"`

	// UserID identifies the owning user.
	UserID string `json:"userId" db:"user_id"`

	// CandidateID references the interviewed candidate.
	CandidateID string `json:"candidateId" db:"candidate_id"`

	// CandidateName is a copy of the candidate's name taken when the
	// interview was created. Later candidate renames are not reflected.
	CandidateName string `json:"candidateName" db:"candidate_name"`

	Position    string     `json:"position" db:"position"`
	Interviewer string     `json:"interviewer" db:"interviewer"`
	DateTime    *time.Time `json:"dateTime" db:"date_time"`

	// Mode is Online or In-Person.
	Mode string `json:"mode" db:"mode"`

	// Status defaults to Scheduled.
	Status string `json:"status" db:"status"`

	Notes       string `json:"notes" db:"notes"`
	MeetingLink string `json:"meetingLink" db:"meeting_link"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
