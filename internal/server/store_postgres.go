package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SQLSTATE codes raised by the hosted database.
const (
	pgUniqueViolation     = "23505"
	pgInvalidSession      = "P0001"
	pgFingerprintMismatch = "P0002"
)

// PostgresStore talks to the hosted Postgres database. Session checks and
// inserts go through its stored procedures, which enforce ownership.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func OpenPostgres(ctx context.Context, url string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() { s.pool.Close() }

func (s *PostgresStore) CreateSession(ctx context.Context, fingerprintHash, existingSessionID string) (string, error) {
	var existing *string
	if isUUID(existingSessionID) {
		existing = &existingSessionID
	}

	var id string
	err := s.pool.QueryRow(ctx, `
		SELECT verify_or_create_session(p_fingerprint => $1, p_session_id => $2::uuid)::text
	`, fingerprintHash, existing).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("creating session: %w", mapPgError(err))
	}
	return id, nil
}

// VerifySession is a no-op: insert_quiz_result validates the session in the
// same transaction as the insert and InsertResult maps its errors.
func (s *PostgresStore) VerifySession(context.Context, string, string) error {
	return nil
}

func (s *PostgresStore) InsertResult(ctx context.Context, res NewResult) (string, error) {
	scores, err := json.Marshal(res.Scores)
	if err != nil {
		return "", fmt.Errorf("encoding scores: %w", err)
	}
	answers, err := json.Marshal(res.Answers)
	if err != nil {
		return "", fmt.Errorf("encoding answers: %w", err)
	}

	var id string
	err = s.pool.QueryRow(ctx, `
		SELECT insert_quiz_result(
			p_session_id        => $1::uuid,
			p_archetype_slug    => $2,
			p_scores            => $3::jsonb,
			p_answers           => $4::jsonb,
			p_fingerprint_hash  => $5,
			p_email             => $6,
			p_duration_seconds  => $7,
			p_idempotency_key   => $8,
			p_utm_source        => $9,
			p_utm_medium        => $10,
			p_utm_campaign      => $11
		)::text
	`,
		res.SessionID, res.ArchetypeSlug, string(scores), string(answers),
		optional(res.FingerprintHash), optional(res.Email), res.DurationSeconds, res.IdempotencyKey,
		optional(res.UTMSource), optional(res.UTMMedium), optional(res.UTMCampaign),
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("inserting result: %w", mapPgError(err))
	}
	return id, nil
}

func (s *PostgresStore) ResultIDByIdempotencyKey(ctx context.Context, key string) (string, error) {
	var id string
	err := s.pool.QueryRow(ctx, `
		SELECT id::text FROM quiz_results WHERE idempotency_key = $1
	`, key).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return id, err
}

func (s *PostgresStore) Result(ctx context.Context, id string) (StoredResult, error) {
	if !isUUID(id) {
		return StoredResult{}, ErrNotFound
	}

	var (
		res     StoredResult
		session *string
	)
	err := s.pool.QueryRow(ctx, `
		SELECT id::text, anonymous_session_id::text, archetype_slug, scores::text, created_at
		FROM quiz_results WHERE id = $1::uuid
	`, id).Scan(&res.ID, &session, &res.ArchetypeSlug, &res.Scores, &res.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return StoredResult{}, ErrNotFound
	}
	if err != nil {
		return StoredResult{}, err
	}
	if session != nil {
		res.SessionID = *session
	}
	return res, nil
}

func (s *PostgresStore) UpdateResultEmail(ctx context.Context, id, sessionID, email string) error {
	res, err := s.Result(ctx, id)
	if err != nil {
		return err
	}
	if res.SessionID != sessionID {
		return ErrAccessDenied
	}

	_, err = s.pool.Exec(ctx, `
		UPDATE quiz_results SET email = $1 WHERE id = $2::uuid
	`, email, id)
	return err
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// mapPgError translates the stored procedures' SQLSTATE codes to store
// sentinels. The original error stays in the chain.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch strings.TrimSpace(pgErr.Code) {
	case pgUniqueViolation:
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	case pgInvalidSession:
		return fmt.Errorf("%w: %w", ErrInvalidSession, err)
	case pgFingerprintMismatch:
		return fmt.Errorf("%w: %w", ErrFingerprintMismatch, err)
	}
	return err
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
