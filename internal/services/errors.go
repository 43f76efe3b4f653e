package services

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already exists")
	ErrAdminProtected     = errors.New("cannot delete admin users")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrSendFailed         = errors.New("failed to send email")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrIncorrectPassword  = errors.New("incorrect password")
	ErrCandidateNotFound  = errors.New("candidate not found")
	ErrArchiveUnavailable = errors.New("document archive is not configured")
)
