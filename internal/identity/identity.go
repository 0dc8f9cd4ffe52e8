package identity

import (
	"context"
	"errors"
)

var (
	// ErrExists is returned when registration collides with an existing
	// identity. Callers must not reveal which field collided.
	ErrExists = errors.New("identity: already exists")

	// ErrInvalidLogin covers both unknown email and wrong password.
	ErrInvalidLogin = errors.New("identity: email or password incorrect")

	// ErrNotFound means no identity exists for the requested id.
	ErrNotFound = errors.New("identity: not found")

	// ErrInvalidToken means the presented bearer token does not match.
	ErrInvalidToken = errors.New("identity: invalid token")

	// ErrTokenLost means the backend no longer holds a token for a known
	// identity (federated variant after its token store was emptied).
	ErrTokenLost = errors.New("identity: token record lost")
)

// Identity is the durable principal. PasswordDigest never leaves the
// backend; the sanitized form handed to callers carries no digest and no
// store-internal fields.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Email    string `json:"email,omitempty"`
	Token    string `json:"token"`
}

// SessionArtifact is a provider-issued, independently expiring secondary
// credential (federated variant only). The bearer token has no expiry;
// this does.
type SessionArtifact struct {
	Value  string
	MaxAge int // seconds
}

// Credentials is the result of a successful register or login.
type Credentials struct {
	ID      string
	Token   string
	Session *SessionArtifact // nil for the local variant
}

// NewIdentity carries the validated registration input into a backend.
type NewIdentity struct {
	Username string
	Email    string
	Password string
}

// Backend is the single contract both backing strategies implement. The
// coordinator depends on nothing else.
type Backend interface {
	// Register creates an identity and issues its bearer token.
	// Returns ErrExists on any uniqueness collision.
	Register(ctx context.Context, n NewIdentity) (*Credentials, error)

	// Login verifies the password and returns the token issued at
	// registration. Returns ErrInvalidLogin for unknown email and wrong
	// password alike.
	Login(ctx context.Context, email, password string) (*Credentials, error)

	// Authorize compares the presented token against the stored one and
	// returns the sanitized identity. ErrNotFound for unknown ids,
	// ErrInvalidToken on mismatch.
	Authorize(ctx context.Context, id, presentedToken string) (*Identity, error)
}
