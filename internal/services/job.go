package services

import (
	"context"

	"github.com/recruitdesk/apiserver/types"
)

// JobRepository defines owner-scoped persistence operations for jobs.
type JobRepository interface {
	List(ctx context.Context, userID string) ([]types.Job, error)
	Get(ctx context.Context, userID, id string) (types.Job, error)
	Create(ctx context.Context, job types.Job) (types.Job, error)
	Update(ctx context.Context, job types.Job) (types.Job, error)
	Delete(ctx context.Context, userID, id string) error
}

// JobService encapsulates job posting use-cases.
type JobService struct {
	repo JobRepository
}

func NewJobService(repo JobRepository) *JobService {
	return &JobService{repo: repo}
}

func (s *JobService) List(ctx context.Context, userID string) ([]types.Job, error) {
	return s.repo.List(ctx, userID)
}

func (s *JobService) Get(ctx context.Context, userID, id string) (types.Job, error) {
	return s.repo.Get(ctx, userID, id)
}

func (s *JobService) Create(ctx context.Context, userID string, job types.Job) (types.Job, error) {
	job.UserID = userID
	if job.Status == "" {
		job.Status = types.JobStatusOpen
	}
	return s.repo.Create(ctx, job)
}

// Update replaces the editable fields of a job. An omitted status keeps the current one.
func (s *JobService) Update(ctx context.Context, userID, id string, job types.Job) (types.Job, error) {
	current, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return types.Job{}, err
	}
	job.ID = current.ID
	job.UserID = current.UserID
	if job.Status == "" {
		job.Status = current.Status
	}
	return s.repo.Update(ctx, job)
}

func (s *JobService) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}
