package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const sqliteTimeLayout = "2006-01-02T15:04:05.000Z"

// SQLiteStore keeps sessions and results in a local libSQL database. The
// schema lives in internal/migrations.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) CreateSession(ctx context.Context, fingerprintHash, existingSessionID string) (string, error) {
	if isUUID(existingSessionID) {
		var id string
		err := s.db.QueryRowContext(ctx, `
			SELECT id FROM quiz_sessions WHERE id = ? AND fingerprint_hash = ?
		`, existingSessionID, fingerprintHash).Scan(&id)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("looking up session: %w", err)
		}
	}

	id := uuid.NewString()
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO quiz_sessions (id, fingerprint_hash) VALUES (?, ?)
	`, id, fingerprintHash); err != nil {
		return "", fmt.Errorf("creating session: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) VerifySession(ctx context.Context, sessionID, fingerprintHash string) error {
	var fp string
	err := s.db.QueryRowContext(ctx, `
		SELECT fingerprint_hash FROM quiz_sessions WHERE id = ?
	`, sessionID).Scan(&fp)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrInvalidSession
	}
	if err != nil {
		return fmt.Errorf("verifying session: %w", err)
	}
	if fp != fingerprintHash {
		return ErrFingerprintMismatch
	}
	return nil
}

func (s *SQLiteStore) InsertResult(ctx context.Context, res NewResult) (string, error) {
	scores, err := json.Marshal(res.Scores)
	if err != nil {
		return "", fmt.Errorf("encoding scores: %w", err)
	}
	answers, err := json.Marshal(res.Answers)
	if err != nil {
		return "", fmt.Errorf("encoding answers: %w", err)
	}

	var id string
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO quiz_results (
			id, session_id, fingerprint_hash, archetype_slug, scores, answers,
			email, duration_seconds, idempotency_key, utm_source, utm_medium, utm_campaign
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (idempotency_key) DO NOTHING
		RETURNING id
	`,
		uuid.NewString(), res.SessionID, res.FingerprintHash, res.ArchetypeSlug, string(scores), string(answers),
		nullString(res.Email), res.DurationSeconds, res.IdempotencyKey,
		nullString(res.UTMSource), nullString(res.UTMMedium), nullString(res.UTMCampaign),
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrDuplicate
	}
	if err != nil {
		return "", fmt.Errorf("inserting result: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) ResultIDByIdempotencyKey(ctx context.Context, key string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM quiz_results WHERE idempotency_key = ?
	`, key).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return id, err
}

func (s *SQLiteStore) Result(ctx context.Context, id string) (StoredResult, error) {
	var (
		res       StoredResult
		scores    string
		createdAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, session_id, archetype_slug, scores, created_at
		FROM quiz_results WHERE id = ?
	`, id).Scan(&res.ID, &res.SessionID, &res.ArchetypeSlug, &scores, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return StoredResult{}, ErrNotFound
	}
	if err != nil {
		return StoredResult{}, err
	}
	res.Scores = []byte(scores)
	if t, err := time.Parse(sqliteTimeLayout, createdAt); err == nil {
		res.CreatedAt = t
	}
	return res, nil
}

func (s *SQLiteStore) UpdateResultEmail(ctx context.Context, id, sessionID, email string) error {
	var owner string
	err := s.db.QueryRowContext(ctx, `
		SELECT session_id FROM quiz_results WHERE id = ?
	`, id).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if owner != sessionID {
		return ErrAccessDenied
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE quiz_results SET email = ? WHERE id = ?
	`, email, id)
	return err
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
