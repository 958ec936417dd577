package state

import (
	"context"
	"fmt"
	"slices"
)

// PostRecord is the fingerprint of one post as of the last successful build.
type PostRecord struct {
	Slug        string
	Fingerprint string
	File        string
}

// Fingerprints returns slug -> fingerprint for every stored post.
func (s *Store) Fingerprints(ctx context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT slug, fingerprint FROM posts")
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	fps := make(map[string]string)
	for rows.Next() {
		var slug, fp string
		if err := rows.Scan(&slug, &fp); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		fps[slug] = fp
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return fps, nil
}

// ReplacePosts atomically replaces the stored post set with records.
func (s *Store) ReplacePosts(ctx context.Context, buildID string, records []PostRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM posts"); err != nil {
		return fmt.Errorf("clear posts: %w", err)
	}
	for _, r := range records {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO posts (slug, fingerprint, file, build_id) VALUES (?, ?, ?, ?)",
			r.Slug, r.Fingerprint, r.File, buildID,
		); err != nil {
			return fmt.Errorf("insert post %s: %w", r.Slug, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit posts: %w", err)
	}
	return nil
}

// Changes lists slugs that differ between two fingerprint sets. Every slice is sorted.
type Changes struct {
	Added   []string `json:"added,omitempty"`
	Changed []string `json:"changed,omitempty"`
	Removed []string `json:"removed,omitempty"`
}

// Empty reports whether nothing changed.
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Changed) == 0 && len(c.Removed) == 0
}

// Diff compares the previous and current slug -> fingerprint maps.
func Diff(prev, cur map[string]string) Changes {
	var c Changes
	for slug, fp := range cur {
		old, ok := prev[slug]
		switch {
		case !ok:
			c.Added = append(c.Added, slug)
		case old != fp:
			c.Changed = append(c.Changed, slug)
		}
	}
	for slug := range prev {
		if _, ok := cur[slug]; !ok {
			c.Removed = append(c.Removed, slug)
		}
	}
	slices.Sort(c.Added)
	slices.Sort(c.Changed)
	slices.Sort(c.Removed)
	return c
}
