package types

import "time"

// Roles recognised by the authorization layer.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an HR account in the system.
// It contains identity, role, profile and password-reset metadata.
type User struct {
	// ID is the unique identifier of the user.
	ID string `json:"_id" db:"id"`

	// Email is the user's login address, stored lowercased.
	Email string `json:"email" db:"email"`

	// Name is the user's display or full name.
	Name string `json:"name" db:"name"`

	// Role indicates the user's authorization level ("user" or "admin").
	Role string `json:"role" db:"role"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// Profile holds the optional self-service profile fields.
	Profile

	// ResetPasswordToken is the most recently issued password-reset token.
	// It is recorded for audit only and never exposed.
	ResetPasswordToken string `json:"-" db:"reset_password_token"`

	// ResetPasswordExpires is the expiry of ResetPasswordToken.
	ResetPasswordExpires *time.Time `json:"-" db:"reset_password_expires"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the user account.
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Profile contains the editable personal fields of a user.
type Profile struct {
	Phone            string `json:"phone" db:"phone"`
	Department       string `json:"department" db:"department"`
	Designation      string `json:"designation" db:"designation"`
	Address          string `json:"address" db:"address"`
	Gender           string `json:"gender" db:"gender"`
	DOB              string `json:"dob" db:"dob"`
	LinkedIn         string `json:"linkedin" db:"linkedin"`
	EmergencyContact string `json:"emergencyContact" db:"emergency_contact"`
}

// IsAdmin reports whether the user carries the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserSummary is the admin listing view of a user.
type UserSummary struct {
	ID    string `json:"_id" db:"id"`
	Email string `json:"email" db:"email"`
	Name  string `json:"name" db:"name"`
	Role  string `json:"role" db:"role"`
}
