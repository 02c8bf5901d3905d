package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rgckd/hc-self-service-portal/internal/submission"
)

// PostgresStore appends submissions to a table. A single-row INSERT is
// atomic, so no additional serialization is needed.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS submissions (
	id           UUID PRIMARY KEY,
	submitted_at TIMESTAMPTZ NOT NULL,
	program      TEXT NOT NULL,
	email        TEXT NOT NULL,
	requests     TEXT NOT NULL
)`

// Init creates the submissions table when it does not exist yet.
func (s *PostgresStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create submissions table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, record submission.Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO submissions (id, submitted_at, program, email, requests)
		 VALUES ($1, $2, $3, $4, $5)`,
		record.ID, record.SubmittedAt, record.Program, record.Email,
		strings.Join(record.Requests, ", "))
	if err != nil {
		return fmt.Errorf("append submission: %w", err)
	}
	return nil
}

// Count returns the number of recorded submissions for a program.
func (s *PostgresStore) Count(ctx context.Context, program string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM submissions WHERE program = $1`, program).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return n, nil
}
