package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/repurpose/repurpose/internal/model"
)

// CreateUser creates a new user account.
func CreateUser(ctx context.Context, db *sql.DB, name, email, passwordHash string, role model.Role) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", model.ErrValidation)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, user_type) VALUES (?, ?, ?, ?)`,
		name, email, passwordHash, string(role),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, fmt.Errorf("%w: email already registered", model.ErrConflict)
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting user id: %w", err)
	}

	return GetUser(ctx, db, id)
}

// GetUser returns a user by ID, or nil if absent.
func GetUser(ctx context.Context, db *sql.DB, id int64) (*model.User, error) {
	return scanUser(db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, user_type, created_at, deleted_at
		 FROM users WHERE id = ?`, id,
	))
}

// GetUserByEmail returns a user by email (including soft-deleted for auth
// checks), or nil if absent.
func GetUserByEmail(ctx context.Context, db *sql.DB, email string) (*model.User, error) {
	return scanUser(db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, user_type, created_at, deleted_at
		 FROM users WHERE email = ?`, strings.ToLower(strings.TrimSpace(email)),
	))
}

func scanUser(row *sql.Row) (*model.User, error) {
	u := &model.User{}
	var role string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.CreatedAt, &u.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}

	u.Role, err = model.ParseRole(role)
	if err != nil {
		return nil, err
	}
	return u, nil
}
