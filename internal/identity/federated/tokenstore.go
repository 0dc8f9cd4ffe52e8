package federated

import (
	"context"
	"errors"
	"sync"
)

// ErrNoToken is returned by Get when no token is held for the id.
var ErrNoToken = errors.New("federated: no token for id")

// TokenStore keeps the bearer token for each provider-assigned identity
// id. Writes must be atomic per key: a Get racing a Put for the same key
// observes either no entry or the complete token, never a partial one.
type TokenStore interface {
	Get(ctx context.Context, id string) (string, error)
	Put(ctx context.Context, id, token string) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore is the process-local TokenStore. State is lost on restart;
// logins after a restart surface ErrNoToken.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[string]string)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tok, ok := s.tokens[id]
	if !ok {
		return "", ErrNoToken
	}
	return tok, nil
}

func (s *MemoryStore) Put(ctx context.Context, id, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[id] = token
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, id)
	return nil
}
