package federated

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.Get(ctx, "1"); !errors.Is(err, ErrNoToken) {
		t.Errorf("Get() on empty store error = %v, want ErrNoToken", err)
	}

	if err := s.Put(ctx, "1", "1.aa.bb"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	tok, err := s.Get(ctx, "1")
	if err != nil || tok != "1.aa.bb" {
		t.Errorf("Get() = %q, %v; want 1.aa.bb, nil", tok, err)
	}

	if err := s.Delete(ctx, "1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, "1"); !errors.Is(err, ErrNoToken) {
		t.Errorf("Get() after delete error = %v, want ErrNoToken", err)
	}
}

func TestMemoryStore_ConcurrentPerKey(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := string(rune('a' + n%8))
			if err := s.Put(ctx, id, id+".token"); err != nil {
				t.Errorf("Put(%s) error = %v", id, err)
				return
			}
			tok, err := s.Get(ctx, id)
			if err != nil {
				t.Errorf("Get(%s) after Put error = %v", id, err)
				return
			}
			if tok != id+".token" {
				t.Errorf("Get(%s) = %q, half-written entry?", id, tok)
			}
		}(i)
	}
	wg.Wait()
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(client)
	ctx := context.Background()

	if _, err := s.Get(ctx, "1"); !errors.Is(err, ErrNoToken) {
		t.Errorf("Get() on empty store error = %v, want ErrNoToken", err)
	}

	if err := s.Put(ctx, "1", "1.aa.bb"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	tok, err := s.Get(ctx, "1")
	if err != nil || tok != "1.aa.bb" {
		t.Errorf("Get() = %q, %v; want 1.aa.bb, nil", tok, err)
	}

	// bearer tokens have no expiry
	if mr.TTL("token:1") != 0 {
		t.Errorf("token key has TTL %v, want none", mr.TTL("token:1"))
	}

	if err := s.Delete(ctx, "1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, "1"); !errors.Is(err, ErrNoToken) {
		t.Errorf("Get() after delete error = %v, want ErrNoToken", err)
	}
}

func TestRedisStore_PutValidation(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(client)

	if err := s.Put(context.Background(), "", "tok"); err == nil {
		t.Error("Put() with empty id should fail")
	}
	if err := s.Put(context.Background(), "1", ""); err == nil {
		t.Error("Put() with empty token should fail")
	}
}
