package local

import (
	"context"
	"errors"
)

var (
	// ErrDuplicate is returned by Insert when any uniqueness constraint
	// (id, username, email, token) fires.
	ErrDuplicate = errors.New("local: duplicate record")

	// ErrNoRecord is returned by lookups that match nothing.
	ErrNoRecord = errors.New("local: no such record")
)

// User is the persisted identity record. PasswordDigest and any
// store-internal fields are stripped before a record leaves this package.
type User struct {
	ID             string
	Username       string
	Avatar         string
	Email          string
	PasswordDigest string
	Token          string
}

// UserStore abstracts the persistent record store. Uniqueness on id,
// username, email and token is enforced by the store itself; Insert must
// surface a constraint violation as ErrDuplicate so a racing registration
// gets the same answer as the pre-check path.
type UserStore interface {
	Insert(ctx context.Context, u User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
}
