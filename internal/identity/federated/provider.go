package federated

import (
	"context"
	"errors"
	"time"

	"github.com/Chat-Global/accounts-service/internal/identity"
)

var (
	// ErrUserExists is returned by CreateUser on a provider-side
	// uniqueness conflict.
	ErrUserExists = errors.New("federated: provider user exists")

	// ErrBadCredentials is returned by VerifyPassword when the provider
	// rejects the email/password pair.
	ErrBadCredentials = errors.New("federated: provider rejected credentials")

	// ErrSessionUnavailable is returned by MintSession when the provider
	// cannot issue a session artifact.
	ErrSessionUnavailable = errors.New("federated: session artifact unavailable")
)

// Provider is the external identity provider this backend delegates
// password handling to. Implementations return provider facts only and
// never touch the bearer-token layer.
type Provider interface {
	// CreateUser registers the user at the provider and returns the
	// provider-assigned id.
	CreateUser(ctx context.Context, username, email, password string) (string, error)

	// VerifyPassword checks the pair against the provider and returns
	// the provider-assigned id on success.
	VerifyPassword(ctx context.Context, email, password string) (string, error)

	// MintSession issues a time-boxed provider session artifact.
	MintSession(ctx context.Context, email, password string, ttl time.Duration) (*identity.SessionArtifact, error)
}
