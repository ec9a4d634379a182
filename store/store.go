// Package store keeps the evaluation history in PostgreSQL.
package store

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harishgm1236-debug/interview-text/orchestrator"
)

//go:embed schema.sql
var schema string

var ErrNotFound = errors.New("evaluation not found")

// DefaultListLimit caps ListRecent when no limit is given.
const DefaultListLimit = 20

type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is an orchestrator.Sink that also serves lookups.
type Store struct {
	db   db
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: pool, pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Migrate creates the evaluations table if it is missing.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *Store) Deliver(ctx context.Context, ev orchestrator.Evaluation) error {
	return s.Save(ctx, ev)
}

// Save upserts ev keyed by its ID.
func (s *Store) Save(ctx context.Context, ev orchestrator.Evaluation) error {
	id, err := uuid.Parse(ev.ID)
	if err != nil {
		return fmt.Errorf("evaluation id %q: %w", ev.ID, err)
	}
	doc, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal evaluation: %w", err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO evaluations (id, created_at, category, weight, overall_marks, transcribed, evaluation)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET evaluation = EXCLUDED.evaluation, overall_marks = EXCLUDED.overall_marks`,
		id, ev.CreatedAt, ev.Category, ev.Weight, ev.Result.OverallMarks, ev.Transcribed, doc,
	)
	if err != nil {
		return fmt.Errorf("insert evaluation: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (orchestrator.Evaluation, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return orchestrator.Evaluation{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	var doc []byte
	err = s.db.QueryRow(ctx, `SELECT evaluation FROM evaluations WHERE id = $1`, uid).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return orchestrator.Evaluation{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return orchestrator.Evaluation{}, fmt.Errorf("get evaluation: %w", err)
	}
	return decode(doc)
}

// ListRecent returns the newest evaluations first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]orchestrator.Evaluation, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.Query(ctx, `SELECT evaluation FROM evaluations ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	defer rows.Close()

	var out []orchestrator.Evaluation
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}
		ev, err := decode(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func decode(doc []byte) (orchestrator.Evaluation, error) {
	var ev orchestrator.Evaluation
	if err := json.Unmarshal(doc, &ev); err != nil {
		return orchestrator.Evaluation{}, fmt.Errorf("decode evaluation: %w", err)
	}
	return ev, nil
}
