package federated

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Chat-Global/accounts-service/internal/identity"
	"github.com/Chat-Global/accounts-service/internal/logger"
	"github.com/Chat-Global/accounts-service/internal/token"
)

// Backend delegates password handling to an external identity provider
// and layers a locally minted bearer token on top, keyed by the
// provider-assigned id. The provider session artifact is a second,
// independently expiring credential.
type Backend struct {
	provider   Provider
	tokens     TokenStore
	sessionTTL time.Duration
}

func NewBackend(provider Provider, tokens TokenStore, sessionTTL time.Duration) *Backend {
	return &Backend{
		provider:   provider,
		tokens:     tokens,
		sessionTTL: sessionTTL,
	}
}

func (b *Backend) Register(ctx context.Context, n identity.NewIdentity) (*identity.Credentials, error) {
	email := strings.ToLower(strings.TrimSpace(n.Email))

	id, err := b.provider.CreateUser(ctx, strings.TrimSpace(n.Username), email, n.Password)
	if errors.Is(err, ErrUserExists) {
		return nil, identity.ErrExists
	}
	if err != nil {
		return nil, fmt.Errorf("federated: provider create: %w", err)
	}

	tok, err := token.Issue(id)
	if err != nil {
		return nil, fmt.Errorf("federated: issue token: %w", err)
	}
	if err := b.tokens.Put(ctx, id, tok); err != nil {
		return nil, fmt.Errorf("federated: store token: %w", err)
	}

	session, err := b.provider.MintSession(ctx, email, n.Password, b.sessionTTL)
	if err != nil {
		// Roll back so a failed registration does not leave a usable
		// bearer token with no accompanying session.
		if delErr := b.tokens.Delete(ctx, id); delErr != nil {
			logger.Warn("token rollback failed", map[string]any{
				"id":    id,
				"error": delErr.Error(),
			})
		}
		return nil, fmt.Errorf("%w: %v", ErrSessionUnavailable, err)
	}

	return &identity.Credentials{ID: id, Token: tok, Session: session}, nil
}

func (b *Backend) Login(ctx context.Context, email, password string) (*identity.Credentials, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	id, err := b.provider.VerifyPassword(ctx, email, password)
	if errors.Is(err, ErrBadCredentials) {
		return nil, identity.ErrInvalidLogin
	}
	if err != nil {
		return nil, fmt.Errorf("federated: provider verify: %w", err)
	}

	// The token is minted once, at registration. A miss here means the
	// store was emptied since then.
	tok, err := b.tokens.Get(ctx, id)
	if errors.Is(err, ErrNoToken) {
		return nil, identity.ErrTokenLost
	}
	if err != nil {
		return nil, fmt.Errorf("federated: token lookup: %w", err)
	}

	session, err := b.provider.MintSession(ctx, email, password, b.sessionTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionUnavailable, err)
	}

	return &identity.Credentials{ID: id, Token: tok, Session: session}, nil
}

func (b *Backend) Authorize(ctx context.Context, id, presentedToken string) (*identity.Identity, error) {
	stored, err := b.tokens.Get(ctx, id)
	if errors.Is(err, ErrNoToken) {
		return nil, identity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("federated: authorize lookup: %w", err)
	}

	if !token.Match(presentedToken, stored) {
		return nil, identity.ErrInvalidToken
	}

	// Profile fields live at the provider; this layer only owns the
	// id-to-token binding.
	return &identity.Identity{ID: id, Token: stored}, nil
}
