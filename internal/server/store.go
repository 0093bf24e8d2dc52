package server

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/playperu/lovequiz/internal/quiz"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrDuplicate           = errors.New("duplicate idempotency key")
	ErrInvalidSession      = errors.New("invalid session")
	ErrFingerprintMismatch = errors.New("fingerprint mismatch")
	ErrAccessDenied        = errors.New("access denied")
)

// NewResult is a scored submission ready to persist.
type NewResult struct {
	SessionID       string
	FingerprintHash string
	ArchetypeSlug   string
	Scores          quiz.DBScores
	Answers         quiz.DBAnswerMap
	Email           string
	DurationSeconds *float64
	IdempotencyKey  string
	UTMSource       string
	UTMMedium       string
	UTMCampaign     string
}

// StoredResult is a persisted result. Scores are kept raw so readers
// re-validate them before use.
type StoredResult struct {
	ID            string
	SessionID     string
	ArchetypeSlug string
	Scores        []byte
	CreatedAt     time.Time
}

// Store persists quiz sessions and results. At most one result may exist per
// idempotency key; InsertResult reports a collision as ErrDuplicate.
type Store interface {
	// CreateSession resumes existingSessionID when it belongs to the
	// fingerprint, and otherwise opens a new session.
	CreateSession(ctx context.Context, fingerprintHash, existingSessionID string) (string, error)
	VerifySession(ctx context.Context, sessionID, fingerprintHash string) error
	InsertResult(ctx context.Context, res NewResult) (string, error)
	ResultIDByIdempotencyKey(ctx context.Context, key string) (string, error)
	Result(ctx context.Context, id string) (StoredResult, error)
	UpdateResultEmail(ctx context.Context, id, sessionID, email string) error
	Ping(ctx context.Context) error
}

// isUUID reports whether s is a canonical UUID string.
func isUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
