package local

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Chat-Global/accounts-service/internal/identity"
	"github.com/Chat-Global/accounts-service/internal/logger"
	"github.com/Chat-Global/accounts-service/internal/snowflake"
	"github.com/Chat-Global/accounts-service/internal/token"
)

const bcryptCost = 12

// Backend is the self-hosted identity backend: it owns password hashing
// and keeps the bearer token on the identity record.
type Backend struct {
	store UserStore
	ids   *snowflake.Generator
}

func NewBackend(store UserStore, ids *snowflake.Generator) *Backend {
	return &Backend{store: store, ids: ids}
}

func (b *Backend) Register(ctx context.Context, n identity.NewIdentity) (*identity.Credentials, error) {
	email := strings.ToLower(strings.TrimSpace(n.Email))
	username := strings.TrimSpace(n.Username)

	// Pre-check keeps the common case cheap; the store's uniqueness
	// constraints settle races.
	_, err := b.store.FindByEmail(ctx, email)
	if err == nil {
		return nil, identity.ErrExists
	}
	if !errors.Is(err, ErrNoRecord) {
		return nil, fmt.Errorf("local: register lookup: %w", err)
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(n.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("local: hash password: %w", err)
	}

	id := b.ids.Next()

	tok, err := token.Issue(id)
	if err != nil {
		return nil, fmt.Errorf("local: issue token: %w", err)
	}

	err = b.store.Insert(ctx, User{
		ID:             id,
		Username:       username,
		Email:          email,
		PasswordDigest: string(digest),
		Token:          tok,
	})
	if errors.Is(err, ErrDuplicate) {
		return nil, identity.ErrExists
	}
	if err != nil {
		return nil, fmt.Errorf("local: persist identity: %w", err)
	}

	if created, ok := snowflake.Timestamp(id); ok {
		logger.Info("identity created", map[string]any{
			"id":         id,
			"created_at": created.UTC().Format(time.RFC3339),
		})
	}

	return &identity.Credentials{ID: id, Token: tok}, nil
}

func (b *Backend) Login(ctx context.Context, email, password string) (*identity.Credentials, error) {
	u, err := b.store.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, ErrNoRecord) {
		// same answer as a wrong password, by necessity of the
		// anti-enumeration contract
		return nil, identity.ErrInvalidLogin
	}
	if err != nil {
		return nil, fmt.Errorf("local: login lookup: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordDigest), []byte(password)) != nil {
		return nil, identity.ErrInvalidLogin
	}

	return &identity.Credentials{ID: u.ID, Token: u.Token}, nil
}

func (b *Backend) Authorize(ctx context.Context, id, presentedToken string) (*identity.Identity, error) {
	u, err := b.store.FindByID(ctx, id)
	if errors.Is(err, ErrNoRecord) {
		return nil, identity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("local: authorize lookup: %w", err)
	}

	if !token.Match(presentedToken, u.Token) {
		return nil, identity.ErrInvalidToken
	}

	return &identity.Identity{
		ID:       u.ID,
		Username: u.Username,
		Avatar:   u.Avatar,
		Email:    u.Email,
		Token:    u.Token,
	}, nil
}
