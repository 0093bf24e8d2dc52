package server

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
)

func TestNoopReplay(t *testing.T) {
	r := NoopReplay()
	ctx := context.Background()

	if err := r.Set(ctx, "k", []byte("{}")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok, err := r.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
}

func TestRedisReplayUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "localhost:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	r := NewRedisReplay(client, time.Minute)
	ctx := context.Background()

	_, ok, err := r.Get(ctx, "k")
	if err == nil || ok {
		t.Fatalf("expected error from unreachable redis, got ok=%v err=%v", ok, err)
	}
	if err := r.Set(ctx, "k", []byte("{}")); err == nil {
		t.Fatal("expected error from unreachable redis")
	}
}

// A broken cache must not stop submissions.
func TestCompleteWithBrokenReplayCache(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "localhost:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	env := setupServer(t, NewRedisReplay(client, time.Minute))
	sid := env.createSession(t, "fp")

	w := env.do(t, "POST", "/api/quiz/complete", submit(sid, "fp", fullAnswers(3, "A", 1)), nil)
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if n := env.countResults(t); n != 1 {
		t.Errorf("expected 1 stored result, got %d", n)
	}
}

func TestMapPgError(t *testing.T) {
	tests := []struct {
		code string
		want error
	}{
		{"23505", ErrDuplicate},
		{"P0001", ErrInvalidSession},
		{"P0002", ErrFingerprintMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := mapPgError(fmt.Errorf("calling proc: %w", &pgconn.PgError{Code: tt.code}))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	other := &pgconn.PgError{Code: "42P01"}
	if err := mapPgError(other); err != error(other) {
		t.Fatalf("expected unrelated error to pass through, got %v", err)
	}

	plain := errors.New("boom")
	if err := mapPgError(plain); err != plain {
		t.Fatalf("expected plain error to pass through, got %v", err)
	}
}
