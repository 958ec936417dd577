package state

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"
)

// Outcome is the final status of a recorded build.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeWarning Outcome = "warning"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
)

// Succeeded reports whether the build produced a complete site.
func (o Outcome) Succeeded() bool {
	return o == OutcomeSuccess || o == OutcomeWarning || o == OutcomeSkipped
}

// Build is one recorded build.
type Build struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  time.Time
	Outcome     Outcome
	Pages       int
	ConfigHash  string
	ContentHash string
}

// RecordBuild inserts or replaces a build row.
func (s *Store) RecordBuild(ctx context.Context, b Build) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO builds (id, started_at, finished_at, outcome, pages, config_hash, content_hash)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.StartedAt.UnixMilli(), b.FinishedAt.UnixMilli(), string(b.Outcome), b.Pages, b.ConfigHash, b.ContentHash,
	)
	if err != nil {
		return fmt.Errorf("insert build: %w", err)
	}
	return nil
}

// LastSuccessfulBuild returns the most recent build whose outcome succeeded, or nil when none exists.
func (s *Store) LastSuccessfulBuild(ctx context.Context) (*Build, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, finished_at, outcome, pages, config_hash, content_hash
		 FROM builds WHERE outcome IN (?, ?, ?) ORDER BY started_at DESC, rowid DESC LIMIT 1`,
		string(OutcomeSuccess), string(OutcomeWarning), string(OutcomeSkipped),
	)
	b, err := scanBuild(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListBuilds returns up to limit builds, newest first. limit <= 0 returns all.
func (s *Store) ListBuilds(ctx context.Context, limit int) ([]Build, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, outcome, pages, config_hash, content_hash
		 FROM builds ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	var builds []Build
	for rows.Next() {
		b, err := scanBuild(rows)
		if err != nil {
			return nil, err
		}
		builds = append(builds, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate builds: %w", err)
	}
	return builds, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBuild(r rowScanner) (*Build, error) {
	var (
		b                 Build
		started, finished int64
		outcome           string
	)
	if err := r.Scan(&b.ID, &started, &finished, &outcome, &b.Pages, &b.ConfigHash, &b.ContentHash); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan build: %w", err)
	}
	b.StartedAt = time.UnixMilli(started).UTC()
	b.FinishedAt = time.UnixMilli(finished).UTC()
	b.Outcome = Outcome(outcome)
	return &b, nil
}
