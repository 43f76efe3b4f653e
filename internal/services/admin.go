package services

import (
	"context"

	"github.com/recruitdesk/apiserver/types"
)

// AdminService lists and removes accounts on behalf of administrators.
type AdminService struct {
	users UserRepository
}

func NewAdminService(users UserRepository) *AdminService {
	return &AdminService{users: users}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]types.UserSummary, error) {
	return s.users.List(ctx)
}

// DeleteUser removes a non-admin account. Rows owned by the account are left in place.
func (s *AdminService) DeleteUser(ctx context.Context, id string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user.IsAdmin() {
		return ErrAdminProtected
	}
	return s.users.Delete(ctx, id)
}
