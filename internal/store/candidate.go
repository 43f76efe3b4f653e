package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/recruitdesk/apiserver/types"
)

const candidateColumns = `id, user_id, name, email, position, status, about_candidate, skills,
		resume_link, experience, created_at, updated_at`

// CandidateRepository handles persistence for candidates.
type CandidateRepository struct {
	db *sql.DB
}

func NewCandidateRepository(db *sql.DB) *CandidateRepository {
	return &CandidateRepository{db: db}
}

func scanCandidate(row rowScanner) (types.Candidate, error) {
	var candidate types.Candidate
	err := row.Scan(
		&candidate.ID,
		&candidate.UserID,
		&candidate.Name,
		&candidate.Email,
		&candidate.Position,
		&candidate.Status,
		&candidate.AboutCandidate,
		&candidate.Skills,
		&candidate.ResumeLink,
		&candidate.Experience,
		&candidate.CreatedAt,
		&candidate.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Candidate{}, ErrNotFound
		}
		return types.Candidate{}, err
	}
	return candidate, nil
}

func (r *CandidateRepository) List(ctx context.Context, userID string) ([]types.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE user_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := make([]types.Candidate, 0)
	for rows.Next() {
		candidate, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return candidates, nil
}

func (r *CandidateRepository) Get(ctx context.Context, userID, id string) (types.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE id = $1 AND user_id = $2`
	return scanCandidate(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *CandidateRepository) Create(ctx context.Context, candidate types.Candidate) (types.Candidate, error) {
	now := time.Now().UTC()
	candidate.ID = uuid.NewString()
	candidate.CreatedAt = now
	candidate.UpdatedAt = now

	const query = `
		INSERT INTO candidates (id, user_id, name, email, position, status, about_candidate, skills,
			resume_link, experience, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		candidate.ID,
		candidate.UserID,
		candidate.Name,
		candidate.Email,
		candidate.Position,
		candidate.Status,
		candidate.AboutCandidate,
		candidate.Skills,
		candidate.ResumeLink,
		candidate.Experience,
		candidate.CreatedAt,
		candidate.UpdatedAt,
	); err != nil {
		return types.Candidate{}, translateError(err)
	}
	return candidate, nil
}

func (r *CandidateRepository) Update(ctx context.Context, candidate types.Candidate) (types.Candidate, error) {
	query := `
		UPDATE candidates
		SET name = $1,
			email = $2,
			position = $3,
			status = $4,
			about_candidate = $5,
			skills = $6,
			resume_link = $7,
			experience = $8,
			updated_at = $9
		WHERE id = $10 AND user_id = $11
		RETURNING ` + candidateColumns
	return scanCandidate(r.db.QueryRowContext(
		ctx,
		query,
		candidate.Name,
		candidate.Email,
		candidate.Position,
		candidate.Status,
		candidate.AboutCandidate,
		candidate.Skills,
		candidate.ResumeLink,
		candidate.Experience,
		time.Now().UTC(),
		candidate.ID,
		candidate.UserID,
	))
}

func (r *CandidateRepository) Delete(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM candidates WHERE id = $1 AND user_id = $2`
	return execAffectingOne(ctx, r.db, query, id, userID)
}
