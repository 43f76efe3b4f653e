package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/recruitdesk/apiserver/config"
	"github.com/recruitdesk/apiserver/internal/auth"
	"github.com/recruitdesk/apiserver/internal/notify"
	"github.com/recruitdesk/apiserver/internal/store"
	"github.com/recruitdesk/apiserver/types"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	List(ctx context.Context) ([]types.UserSummary, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	UpdateProfile(ctx context.Context, id, name string, profile types.Profile) (types.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetResetToken(ctx context.Context, id, token string, expires time.Time) error
	Delete(ctx context.Context, id string) error
}

// RegisterInput carries the fields accepted at sign-up.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Profile  types.Profile
}

// AccountService covers registration, login, profile and password flows.
type AccountService struct {
	users  UserRepository
	tokens *auth.TokenManager
	mailer notify.Mailer
	cfg    config.AuthConfig
}

func NewAccountService(users UserRepository, tokens *auth.TokenManager, mailer notify.Mailer, cfg config.AuthConfig) *AccountService {
	return &AccountService{users: users, tokens: tokens, mailer: mailer, cfg: cfg}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AccountService) issueSession(user types.User) (string, error) {
	token, _, err := s.tokens.Issue(user.ID, user.Role, auth.PurposeSession, s.cfg.TokenTTL)
	return token, err
}

// Register creates a user with the default role and returns a session token.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (types.User, string, error) {
	email := normalizeEmail(in.Email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return types.User{}, "", ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, "", err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return types.User{}, "", err
	}

	user, err := s.users.Create(ctx, types.User{
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		Role:         types.RoleUser,
		PasswordHash: hash,
		Profile:      in.Profile,
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return types.User{}, "", ErrEmailTaken
		}
		return types.User{}, "", err
	}

	token, err := s.issueSession(user)
	if err != nil {
		return types.User{}, "", err
	}
	return user, token, nil
}

func (s *AccountService) Login(ctx context.Context, email, password string) (types.User, string, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, "", ErrInvalidCredentials
		}
		return types.User{}, "", err
	}
	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return types.User{}, "", ErrInvalidCredentials
	}

	token, err := s.issueSession(user)
	if err != nil {
		return types.User{}, "", err
	}
	return user, token, nil
}

// Authenticate resolves a session token to its user.
// It returns ErrInvalidToken for bad tokens and store.ErrNotFound when the subject no longer exists.
func (s *AccountService) Authenticate(ctx context.Context, token string) (types.User, error) {
	claims, err := s.tokens.Parse(token, auth.PurposeSession)
	if err != nil {
		return types.User{}, ErrInvalidToken
	}
	return s.users.GetByID(ctx, claims.Subject)
}

func (s *AccountService) Profile(ctx context.Context, userID string) (types.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *AccountService) UpdateProfile(ctx context.Context, userID, name string, profile types.Profile) (types.User, error) {
	return s.users.UpdateProfile(ctx, userID, strings.TrimSpace(name), profile)
}

// VerifyPassword checks password against the caller's stored hash.
func (s *AccountService) VerifyPassword(ctx context.Context, userID, password string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return ErrIncorrectPassword
	}
	return nil
}

func (s *AccountService) ChangePassword(ctx context.Context, userID, current, next string) error {
	if err := s.VerifyPassword(ctx, userID, current); err != nil {
		return err
	}
	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

// ForgotPassword emails a short-lived reset link to the account owner.
// Unknown addresses yield store.ErrNotFound.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Role, auth.PurposePasswordReset, s.cfg.ResetTokenTTL)
	if err != nil {
		return err
	}
	if err := s.users.SetResetToken(ctx, user.ID, token, expiresAt); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/change-password/%s", s.cfg.AppBaseURL, token)
	msg, err := notify.PasswordResetMessage(user.Email, user.Name, link, humanDuration(s.cfg.ResetTokenTTL))
	if err != nil {
		return err
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		slog.Error("failed to send reset link",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	return nil
}

// ResetPassword sets a new password for the subject of a reset token.
// Tokens stay usable until they expire.
func (s *AccountService) ResetPassword(ctx context.Context, token, password string) error {
	claims, err := s.tokens.Parse(token, auth.PurposePasswordReset)
	if err != nil {
		return ErrInvalidToken
	}
	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, user.ID, hash)
}

func humanDuration(d time.Duration) string {
	if d >= time.Hour && d%time.Hour == 0 {
		return pluralize(int(d/time.Hour), "hour")
	}
	if d >= time.Minute && d%time.Minute == 0 {
		return pluralize(int(d/time.Minute), "minute")
	}
	return d.String()
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
