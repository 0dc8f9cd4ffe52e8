package auth

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chat-Global/accounts-service/internal/captcha"
	"github.com/Chat-Global/accounts-service/internal/identity"
	"github.com/Chat-Global/accounts-service/internal/identity/federated"
	"github.com/Chat-Global/accounts-service/internal/identity/local"
	"github.com/Chat-Global/accounts-service/internal/snowflake"
)

type stubCaptcha struct {
	err   error
	calls int
}

func (s *stubCaptcha) Verify(ctx context.Context, token string) error {
	s.calls++
	return s.err
}

type memStore struct {
	users map[string]local.User // keyed by email
}

func newMemStore() *memStore {
	return &memStore{users: make(map[string]local.User)}
}

func (m *memStore) Insert(ctx context.Context, u local.User) error {
	if _, ok := m.users[u.Email]; ok {
		return local.ErrDuplicate
	}
	m.users[u.Email] = u
	return nil
}

func (m *memStore) FindByEmail(ctx context.Context, email string) (*local.User, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, local.ErrNoRecord
	}
	return &u, nil
}

func (m *memStore) FindByID(ctx context.Context, id string) (*local.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, local.ErrNoRecord
}

func newTestCoordinator(captchaErr error) (*Coordinator, *stubCaptcha, *memStore) {
	gate := &stubCaptcha{err: captchaErr}
	store := newMemStore()
	backend := local.NewBackend(store, snowflake.NewGenerator(1))
	return NewCoordinator(gate, backend, "/interchat/es"), gate, store
}

func validRegister() RegisterCredentials {
	return RegisterCredentials{
		Username:     "alice",
		Email:        "a@b.com",
		Password:     "longenough1",
		CaptchaToken: "t",
	}
}

func TestRegister_Success(t *testing.T) {
	coord, _, _ := newTestCoordinator(nil)

	res, err := coord.Register(context.Background(), validRegister())
	require.Nil(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "/interchat/es", res.Redirect)
	assert.Nil(t, res.Session)
}

func TestRegister_ValidationRejectsBeforeCaptcha(t *testing.T) {
	coord, gate, store := newTestCoordinator(nil)

	creds := validRegister()
	creds.Username = "ab"

	res, err := coord.Register(context.Background(), creds)
	require.NotNil(t, err)
	assert.Nil(t, res)
	assert.Equal(t, MsgUsernameTooShort, err.Message)
	assert.Equal(t, 0, gate.calls, "captcha must not be called on validation failure")
	assert.Empty(t, store.users, "no identity may be created")
}

func TestRegister_CaptchaRejected(t *testing.T) {
	coord, _, store := newTestCoordinator(captcha.ErrRejected)

	_, err := coord.Register(context.Background(), validRegister())
	require.NotNil(t, err)
	assert.Equal(t, KindCaptchaRejected, err.Kind)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, MsgCaptchaRejected, err.Message)
	assert.Empty(t, store.users, "store state must be unchanged")
}

func TestRegister_CaptchaUnavailable(t *testing.T) {
	coord, _, store := newTestCoordinator(captcha.ErrUnavailable)

	_, err := coord.Register(context.Background(), validRegister())
	require.NotNil(t, err)
	assert.Equal(t, KindCaptchaUnavailable, err.Kind)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Empty(t, store.users)
}

func TestRegister_Conflict(t *testing.T) {
	coord, _, store := newTestCoordinator(nil)
	ctx := context.Background()

	_, err := coord.Register(ctx, validRegister())
	require.Nil(t, err)

	_, err = coord.Register(ctx, validRegister())
	require.NotNil(t, err)
	assert.Equal(t, KindConflict, err.Kind)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, MsgUserExists, err.Message)
	assert.Len(t, store.users, 1, "exactly one record for the email")
}

func TestLogin_AfterRegister(t *testing.T) {
	coord, _, _ := newTestCoordinator(nil)
	ctx := context.Background()

	reg, err := coord.Register(ctx, validRegister())
	require.Nil(t, err)

	res, err := coord.Login(ctx, LoginCredentials{
		Email: "a@b.com", Password: "longenough1", CaptchaToken: "t",
	})
	require.Nil(t, err)
	assert.Equal(t, reg.Token, res.Token)
}

func TestLogin_NonEnumeration(t *testing.T) {
	coord, _, _ := newTestCoordinator(nil)
	ctx := context.Background()

	_, err := coord.Register(ctx, validRegister())
	require.Nil(t, err)

	_, unknown := coord.Login(ctx, LoginCredentials{
		Email: "nobody@b.com", Password: "whatever123", CaptchaToken: "t",
	})
	_, wrongPass := coord.Login(ctx, LoginCredentials{
		Email: "a@b.com", Password: "wrongpassword", CaptchaToken: "t",
	})

	require.NotNil(t, unknown)
	require.NotNil(t, wrongPass)
	assert.Equal(t, unknown.Message, wrongPass.Message)
	assert.Equal(t, unknown.Status, wrongPass.Status)
	assert.Equal(t, MsgInvalidLogin, unknown.Message)
}

func TestAuthorize_RoundTrip(t *testing.T) {
	coord, _, _ := newTestCoordinator(nil)
	ctx := context.Background()

	reg, err := coord.Register(ctx, validRegister())
	require.Nil(t, err)

	ident, err := coord.Authorize(ctx, reg.ID, reg.Token)
	require.Nil(t, err)
	assert.Equal(t, reg.ID, ident.ID)
	assert.Equal(t, "alice", ident.Username)

	_, wrong := coord.Authorize(ctx, reg.ID, "wrong-token")
	require.NotNil(t, wrong)
	assert.Equal(t, http.StatusUnauthorized, wrong.Status)
	assert.Equal(t, MsgInvalidToken, wrong.Message)

	_, missing := coord.Authorize(ctx, "999", reg.Token)
	require.NotNil(t, missing)
	assert.Equal(t, http.StatusNotFound, missing.Status)
	assert.Equal(t, MsgUserNotFound, missing.Message)
}

type lostTokenBackend struct{}

func (lostTokenBackend) Register(ctx context.Context, n identity.NewIdentity) (*identity.Credentials, error) {
	return nil, federated.ErrSessionUnavailable
}

func (lostTokenBackend) Login(ctx context.Context, email, password string) (*identity.Credentials, error) {
	return nil, identity.ErrTokenLost
}

func (lostTokenBackend) Authorize(ctx context.Context, id, token string) (*identity.Identity, error) {
	return nil, identity.ErrNotFound
}

func TestFederatedFailureMapping(t *testing.T) {
	coord := NewCoordinator(&stubCaptcha{}, lostTokenBackend{}, "/interchat/es")
	ctx := context.Background()

	_, regErr := coord.Register(ctx, validRegister())
	require.NotNil(t, regErr)
	assert.Equal(t, http.StatusUnauthorized, regErr.Status)
	assert.Equal(t, MsgSessionFailed, regErr.Message)

	_, loginErr := coord.Login(ctx, LoginCredentials{
		Email: "a@b.com", Password: "longenough1", CaptchaToken: "t",
	})
	require.NotNil(t, loginErr)
	assert.Equal(t, http.StatusUnauthorized, loginErr.Status)
	assert.Equal(t, MsgDatabaseError, loginErr.Message)
}

func TestFederatedCoordinator_SessionPassthrough(t *testing.T) {
	provider := &staticProvider{}
	backend := federated.NewBackend(provider, federated.NewMemoryStore(), 120*time.Hour)
	coord := NewCoordinator(&stubCaptcha{}, backend, "/interchat/es")

	res, err := coord.Register(context.Background(), validRegister())
	require.Nil(t, err)
	require.NotNil(t, res.Session)
	assert.Equal(t, int((120 * time.Hour).Seconds()), res.Session.MaxAge)
}

type staticProvider struct{}

func (staticProvider) CreateUser(ctx context.Context, username, email, password string) (string, error) {
	return "prov-1", nil
}

func (staticProvider) VerifyPassword(ctx context.Context, email, password string) (string, error) {
	return "prov-1", nil
}

func (staticProvider) MintSession(ctx context.Context, email, password string, ttl time.Duration) (*identity.SessionArtifact, error) {
	return &identity.SessionArtifact{Value: "sess", MaxAge: int(ttl.Seconds())}, nil
}
