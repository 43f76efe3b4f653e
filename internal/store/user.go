package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/recruitdesk/apiserver/types"
)

const userColumns = `id, email, name, role, password_hash, phone, department, designation,
		address, gender, dob, linkedin, emergency_contact, reset_password_token,
		reset_password_expires, created_at, updated_at`

// UserRepository handles persistence for users.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row rowScanner) (types.User, error) {
	var user types.User
	var resetExpires sql.NullTime
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Role,
		&user.PasswordHash,
		&user.Phone,
		&user.Department,
		&user.Designation,
		&user.Address,
		&user.Gender,
		&user.DOB,
		&user.LinkedIn,
		&user.EmergencyContact,
		&user.ResetPasswordToken,
		&resetExpires,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	if resetExpires.Valid {
		t := resetExpires.Time
		user.ResetPasswordExpires = &t
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (types.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

// GetByEmail looks a user up case-insensitively.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return scanUser(r.db.QueryRowContext(ctx, query, strings.TrimSpace(email)))
}

func (r *UserRepository) List(ctx context.Context) ([]types.UserSummary, error) {
	const query = `SELECT id, email, name, role FROM users ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]types.UserSummary, 0)
	for rows.Next() {
		var user types.UserSummary
		if err := rows.Scan(&user.ID, &user.Email, &user.Name, &user.Role); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Role == "" {
		user.Role = types.RoleUser
	}

	const query = `
		INSERT INTO users (id, email, name, role, password_hash, phone, department, designation,
			address, gender, dob, linkedin, emergency_contact, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Email,
		user.Name,
		user.Role,
		user.PasswordHash,
		user.Phone,
		user.Department,
		user.Designation,
		user.Address,
		user.Gender,
		user.DOB,
		user.LinkedIn,
		user.EmergencyContact,
		user.CreatedAt,
		user.UpdatedAt,
	); err != nil {
		return types.User{}, translateError(err)
	}
	return user, nil
}

// UpdateProfile replaces the name and profile fields of a user.
func (r *UserRepository) UpdateProfile(ctx context.Context, id, name string, profile types.Profile) (types.User, error) {
	const query = `
		UPDATE users
		SET name = $1,
			phone = $2,
			department = $3,
			designation = $4,
			address = $5,
			gender = $6,
			dob = $7,
			linkedin = $8,
			emergency_contact = $9,
			updated_at = $10
		WHERE id = $11
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRowContext(
		ctx,
		query,
		name,
		profile.Phone,
		profile.Department,
		profile.Designation,
		profile.Address,
		profile.Gender,
		profile.DOB,
		profile.LinkedIn,
		profile.EmergencyContact,
		time.Now().UTC(),
		id,
	))
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`
	return execAffectingOne(ctx, r.db, query, passwordHash, time.Now().UTC(), id)
}

// SetResetToken records the most recently issued reset token and its expiry.
func (r *UserRepository) SetResetToken(ctx context.Context, id, token string, expires time.Time) error {
	const query = `
		UPDATE users
		SET reset_password_token = $1, reset_password_expires = $2, updated_at = $3
		WHERE id = $4`
	return execAffectingOne(ctx, r.db, query, token, expires, time.Now().UTC(), id)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM users WHERE id = $1`
	return execAffectingOne(ctx, r.db, query, id)
}

// execAffectingOne runs a statement and reports ErrNotFound when no row matched.
func execAffectingOne(ctx context.Context, db *sql.DB, query string, args ...any) error {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return translateError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
