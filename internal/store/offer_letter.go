package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/recruitdesk/apiserver/types"
)

const offerLetterColumns = `id, user_id, candidate_id, candidate_name, position, date_issued,
		status, content, salary, start_date, notes, created_at, updated_at`

// OfferLetterRepository handles persistence for offer letters.
type OfferLetterRepository struct {
	db *sql.DB
}

func NewOfferLetterRepository(db *sql.DB) *OfferLetterRepository {
	return &OfferLetterRepository{db: db}
}

func scanOfferLetter(row rowScanner) (types.OfferLetter, error) {
	var offer types.OfferLetter
	var dateIssued sql.NullTime
	err := row.Scan(
		&offer.ID,
		&offer.UserID,
		&offer.CandidateID,
		&offer.CandidateName,
		&offer.Position,
		&dateIssued,
		&offer.Status,
		&offer.Content,
		&offer.Salary,
		&offer.StartDate,
		&offer.Notes,
		&offer.CreatedAt,
		&offer.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.OfferLetter{}, ErrNotFound
		}
		return types.OfferLetter{}, err
	}
	offer.DateIssued = timePtr(dateIssued)
	return offer, nil
}

func (r *OfferLetterRepository) List(ctx context.Context, userID string) ([]types.OfferLetter, error) {
	query := `SELECT ` + offerLetterColumns + ` FROM offer_letters WHERE user_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	offers := make([]types.OfferLetter, 0)
	for rows.Next() {
		offer, err := scanOfferLetter(rows)
		if err != nil {
			return nil, err
		}
		offers = append(offers, offer)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return offers, nil
}

func (r *OfferLetterRepository) Get(ctx context.Context, userID, id string) (types.OfferLetter, error) {
	query := `SELECT ` + offerLetterColumns + ` FROM offer_letters WHERE id = $1 AND user_id = $2`
	return scanOfferLetter(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *OfferLetterRepository) Create(ctx context.Context, offer types.OfferLetter) (types.OfferLetter, error) {
	now := time.Now().UTC()
	offer.ID = uuid.NewString()
	offer.CreatedAt = now
	offer.UpdatedAt = now

	const query = `
		INSERT INTO offer_letters (id, user_id, candidate_id, candidate_name, position, date_issued,
			status, content, salary, start_date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		offer.ID,
		offer.UserID,
		offer.CandidateID,
		offer.CandidateName,
		offer.Position,
		nullTime(offer.DateIssued),
		offer.Status,
		offer.Content,
		offer.Salary,
		offer.StartDate,
		offer.Notes,
		offer.CreatedAt,
		offer.UpdatedAt,
	); err != nil {
		return types.OfferLetter{}, translateError(err)
	}
	return offer, nil
}

func (r *OfferLetterRepository) Update(ctx context.Context, offer types.OfferLetter) (types.OfferLetter, error) {
	query := `
		UPDATE offer_letters
		SET candidate_id = $1,
			candidate_name = $2,
			position = $3,
			date_issued = $4,
			status = $5,
			content = $6,
			salary = $7,
			start_date = $8,
			notes = $9,
			updated_at = $10
		WHERE id = $11 AND user_id = $12
		RETURNING ` + offerLetterColumns
	return scanOfferLetter(r.db.QueryRowContext(
		ctx,
		query,
		offer.CandidateID,
		offer.CandidateName,
		offer.Position,
		nullTime(offer.DateIssued),
		offer.Status,
		offer.Content,
		offer.Salary,
		offer.StartDate,
		offer.Notes,
		time.Now().UTC(),
		offer.ID,
		offer.UserID,
	))
}

// UpdateStatus sets only the status column, scoped to the owner.
func (r *OfferLetterRepository) UpdateStatus(ctx context.Context, userID, id, status string) error {
	const query = `UPDATE offer_letters SET status = $1, updated_at = $2 WHERE id = $3 AND user_id = $4`
	return execAffectingOne(ctx, r.db, query, status, time.Now().UTC(), id, userID)
}

func (r *OfferLetterRepository) Delete(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM offer_letters WHERE id = $1 AND user_id = $2`
	return execAffectingOne(ctx, r.db, query, id, userID)
}
