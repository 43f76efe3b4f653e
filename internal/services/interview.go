package services

import (
	"context"
	"errors"

	"github.com/recruitdesk/apiserver/internal/store"
	"github.com/recruitdesk/apiserver/types"
)

// InterviewRepository defines owner-scoped persistence operations for interviews.
type InterviewRepository interface {
	List(ctx context.Context, userID string) ([]types.Interview, error)
	Get(ctx context.Context, userID, id string) (types.Interview, error)
	Create(ctx context.Context, interview types.Interview) (types.Interview, error)
	Update(ctx context.Context, interview types.Interview) (types.Interview, error)
	Delete(ctx context.Context, userID, id string) error
}

// CandidateLookup resolves an owner's candidate by id.
type CandidateLookup interface {
	Get(ctx context.Context, userID, id string) (types.Candidate, error)
}

// InterviewService encapsulates interview scheduling use-cases.
type InterviewService struct {
	repo       InterviewRepository
	candidates CandidateLookup
}

func NewInterviewService(repo InterviewRepository, candidates CandidateLookup) *InterviewService {
	return &InterviewService{repo: repo, candidates: candidates}
}

func (s *InterviewService) List(ctx context.Context, userID string) ([]types.Interview, error) {
	return s.repo.List(ctx, userID)
}

func (s *InterviewService) Get(ctx context.Context, userID, id string) (types.Interview, error) {
	return s.repo.Get(ctx, userID, id)
}

// Create stores a new interview, copying the candidate's current name when
// the id resolves to one of the caller's candidates.
func (s *InterviewService) Create(ctx context.Context, userID string, interview types.Interview) (types.Interview, error) {
	interview.UserID = userID
	if interview.Status == "" {
		interview.Status = types.InterviewStatusScheduled
	}
	name, err := snapshotCandidateName(ctx, s.candidates, userID, interview.CandidateID, interview.CandidateName)
	if err != nil {
		return types.Interview{}, err
	}
	interview.CandidateName = name
	return s.repo.Create(ctx, interview)
}

// Update replaces the editable fields. The candidate name is never re-derived.
func (s *InterviewService) Update(ctx context.Context, userID, id string, interview types.Interview) (types.Interview, error) {
	current, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return types.Interview{}, err
	}
	interview.ID = current.ID
	interview.UserID = current.UserID
	if interview.Status == "" {
		interview.Status = current.Status
	}
	if interview.CandidateName == "" {
		interview.CandidateName = current.CandidateName
	}
	return s.repo.Update(ctx, interview)
}

func (s *InterviewService) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

func snapshotCandidateName(ctx context.Context, candidates CandidateLookup, userID, candidateID, fallback string) (string, error) {
	if candidateID == "" {
		return fallback, nil
	}
	candidate, err := candidates.Get(ctx, userID, candidateID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fallback, nil
		}
		return "", err
	}
	return candidate.Name, nil
}
