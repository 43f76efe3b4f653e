package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/recruitdesk/apiserver/types"
)

const interviewColumns = `id, user_id, candidate_id, candidate_name, position, interviewer,
		date_time, mode, status, notes, meeting_link, created_at, updated_at`

// InterviewRepository handles persistence for interviews.
type InterviewRepository struct {
	db *sql.DB
}

func NewInterviewRepository(db *sql.DB) *InterviewRepository {
	return &InterviewRepository{db: db}
}

func scanInterview(row rowScanner) (types.Interview, error) {
	var interview types.Interview
	var dateTime sql.NullTime
	err := row.Scan(
		&interview.ID,
		&interview.UserID,
		&interview.CandidateID,
		&interview.CandidateName,
		&interview.Position,
		&interview.Interviewer,
		&dateTime,
		&interview.Mode,
		&interview.Status,
		&interview.Notes,
		&interview.MeetingLink,
		&interview.CreatedAt,
		&interview.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Interview{}, ErrNotFound
		}
		return types.Interview{}, err
	}
	interview.DateTime = timePtr(dateTime)
	return interview, nil
}

func (r *InterviewRepository) List(ctx context.Context, userID string) ([]types.Interview, error) {
	query := `SELECT ` + interviewColumns + ` FROM interviews WHERE user_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	interviews := make([]types.Interview, 0)
	for rows.Next() {
		interview, err := scanInterview(rows)
		if err != nil {
			return nil, err
		}
		interviews = append(interviews, interview)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return interviews, nil
}

func (r *InterviewRepository) Get(ctx context.Context, userID, id string) (types.Interview, error) {
	query := `SELECT ` + interviewColumns + ` FROM interviews WHERE id = $1 AND user_id = $2`
	return scanInterview(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *InterviewRepository) Create(ctx context.Context, interview types.Interview) (types.Interview, error) {
	now := time.Now().UTC()
	interview.ID = uuid.NewString()
	interview.CreatedAt = now
	interview.UpdatedAt = now

	const query = `
		INSERT INTO interviews (id, user_id, candidate_id, candidate_name, position, interviewer,
			date_time, mode, status, notes, meeting_link, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		interview.ID,
		interview.UserID,
		interview.CandidateID,
		interview.CandidateName,
		interview.Position,
		interview.Interviewer,
		nullTime(interview.DateTime),
		interview.Mode,
		interview.Status,
		interview.Notes,
		interview.MeetingLink,
		interview.CreatedAt,
		interview.UpdatedAt,
	); err != nil {
		return types.Interview{}, translateError(err)
	}
	return interview, nil
}

// Update replaces the editable fields. candidate_name is written as given and
// never re-derived from the candidate.
func (r *InterviewRepository) Update(ctx context.Context, interview types.Interview) (types.Interview, error) {
	query := `
		UPDATE interviews
		SET candidate_id = $1,
			candidate_name = $2,
			position = $3,
			interviewer = $4,
			date_time = $5,
			mode = $6,
			status = $7,
			notes = $8,
			meeting_link = $9,
			updated_at = $10
		WHERE id = $11 AND user_id = $12
		RETURNING ` + interviewColumns
	return scanInterview(r.db.QueryRowContext(
		ctx,
		query,
		interview.CandidateID,
		interview.CandidateName,
		interview.Position,
		interview.Interviewer,
		nullTime(interview.DateTime),
		interview.Mode,
		interview.Status,
		interview.Notes,
		interview.MeetingLink,
		time.Now().UTC(),
		interview.ID,
		interview.UserID,
	))
}

func (r *InterviewRepository) Delete(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM interviews WHERE id = $1 AND user_id = $2`
	return execAffectingOne(ctx, r.db, query, id, userID)
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
