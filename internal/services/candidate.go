package services

import (
	"context"

	"github.com/recruitdesk/apiserver/types"
)

// CandidateRepository defines owner-scoped persistence operations for candidates.
type CandidateRepository interface {
	List(ctx context.Context, userID string) ([]types.Candidate, error)
	Get(ctx context.Context, userID, id string) (types.Candidate, error)
	Create(ctx context.Context, candidate types.Candidate) (types.Candidate, error)
	Update(ctx context.Context, candidate types.Candidate) (types.Candidate, error)
	Delete(ctx context.Context, userID, id string) error
}

// CandidateService encapsulates applicant tracking use-cases.
type CandidateService struct {
	repo CandidateRepository
}

func NewCandidateService(repo CandidateRepository) *CandidateService {
	return &CandidateService{repo: repo}
}

func (s *CandidateService) List(ctx context.Context, userID string) ([]types.Candidate, error) {
	return s.repo.List(ctx, userID)
}

func (s *CandidateService) Get(ctx context.Context, userID, id string) (types.Candidate, error) {
	return s.repo.Get(ctx, userID, id)
}

func (s *CandidateService) Create(ctx context.Context, userID string, candidate types.Candidate) (types.Candidate, error) {
	candidate.UserID = userID
	candidate.Email = normalizeEmail(candidate.Email)
	if candidate.Status == "" {
		candidate.Status = types.CandidateStatusApplied
	}
	return s.repo.Create(ctx, candidate)
}

// Update replaces the editable fields of a candidate. Interviews and offer
// letters that copied the old name keep it.
func (s *CandidateService) Update(ctx context.Context, userID, id string, candidate types.Candidate) (types.Candidate, error) {
	current, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return types.Candidate{}, err
	}
	candidate.ID = current.ID
	candidate.UserID = current.UserID
	candidate.Email = normalizeEmail(candidate.Email)
	if candidate.Status == "" {
		candidate.Status = current.Status
	}
	return s.repo.Update(ctx, candidate)
}

func (s *CandidateService) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}
