package local

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const pqUniqueViolation = "23505"

// PostgresStore persists identity records in a postgres users table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, u User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, avatar, email, password_digest, token)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, u.ID, u.Username, u.Avatar, u.Email, u.PasswordDigest, u.Token)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return ErrDuplicate
		}
		return fmt.Errorf("local: insert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.findOne(ctx, `
		SELECT id, username, avatar, email, password_digest, token
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`, email)
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*User, error) {
	return s.findOne(ctx, `
		SELECT id, username, avatar, email, password_digest, token
		FROM users
		WHERE id = $1
	`, id)
}

func (s *PostgresStore) findOne(ctx context.Context, query string, arg any) (*User, error) {
	var u User
	var avatar sql.NullString

	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Username,
		&avatar,
		&u.Email,
		&u.PasswordDigest,
		&u.Token,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNoRecord
	}
	if err != nil {
		return nil, fmt.Errorf("local: query user: %w", err)
	}

	u.Avatar = avatar.String
	return &u, nil
}
