package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/recruitdesk/apiserver/types"
)

const jobColumns = `id, user_id, title, department, location, status, about_job, about_company,
		qualification, ctc, skills, created_at, updated_at`

// JobRepository handles persistence for job postings. Every query is
// scoped to the owning user.
type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

func scanJob(row rowScanner) (types.Job, error) {
	var job types.Job
	err := row.Scan(
		&job.ID,
		&job.UserID,
		&job.Title,
		&job.Department,
		&job.Location,
		&job.Status,
		&job.AboutJob,
		&job.AboutCompany,
		&job.Qualification,
		&job.CTC,
		&job.Skills,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Job{}, ErrNotFound
		}
		return types.Job{}, err
	}
	return job, nil
}

func (r *JobRepository) List(ctx context.Context, userID string) ([]types.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE user_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]types.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *JobRepository) Get(ctx context.Context, userID, id string) (types.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1 AND user_id = $2`
	return scanJob(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *JobRepository) Create(ctx context.Context, job types.Job) (types.Job, error) {
	now := time.Now().UTC()
	job.ID = uuid.NewString()
	job.CreatedAt = now
	job.UpdatedAt = now

	const query = `
		INSERT INTO jobs (id, user_id, title, department, location, status, about_job, about_company,
			qualification, ctc, skills, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		job.ID,
		job.UserID,
		job.Title,
		job.Department,
		job.Location,
		job.Status,
		job.AboutJob,
		job.AboutCompany,
		job.Qualification,
		job.CTC,
		job.Skills,
		job.CreatedAt,
		job.UpdatedAt,
	); err != nil {
		return types.Job{}, translateError(err)
	}
	return job, nil
}

// Update replaces the editable fields of a job owned by job.UserID.
func (r *JobRepository) Update(ctx context.Context, job types.Job) (types.Job, error) {
	query := `
		UPDATE jobs
		SET title = $1,
			department = $2,
			location = $3,
			status = $4,
			about_job = $5,
			about_company = $6,
			qualification = $7,
			ctc = $8,
			skills = $9,
			updated_at = $10
		WHERE id = $11 AND user_id = $12
		RETURNING ` + jobColumns
	return scanJob(r.db.QueryRowContext(
		ctx,
		query,
		job.Title,
		job.Department,
		job.Location,
		job.Status,
		job.AboutJob,
		job.AboutCompany,
		job.Qualification,
		job.CTC,
		job.Skills,
		time.Now().UTC(),
		job.ID,
		job.UserID,
	))
}

func (r *JobRepository) Delete(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM jobs WHERE id = $1 AND user_id = $2`
	return execAffectingOne(ctx, r.db, query, id, userID)
}
