// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/AleutianAI/newswire/services/newswire/datatypes"
)

// Repository implements Store against postgres.
type Repository struct{ db *sql.DB }

func NewRepository(db *sql.DB) *Repository { return &Repository{db: db} }

// Ensure bootstraps the schema. Idempotent; safe to run at every startup.
func (r *Repository) Ensure(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE EXTENSION IF NOT EXISTS pgcrypto;
CREATE TABLE IF NOT EXISTS crawl_sources (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    name TEXT UNIQUE NOT NULL,
    feed_url TEXT NOT NULL,
    enabled BOOLEAN NOT NULL DEFAULT true
);
CREATE TABLE IF NOT EXISTS crawl_runs (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    source_id UUID NOT NULL REFERENCES crawl_sources(id),
    status TEXT NOT NULL CHECK (status IN ('running', 'completed', 'failed')),
    started_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    finished_at TIMESTAMPTZ
);
CREATE TABLE IF NOT EXISTS articles (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ,
    source_name TEXT NOT NULL,
    source_url TEXT NOT NULL,
    title TEXT NOT NULL,
    link TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    ai_summary TEXT,
    summary_tags TEXT[] NOT NULL DEFAULT '{}',
    is_active BOOLEAN NOT NULL DEFAULT true,
    published_at TIMESTAMPTZ NOT NULL,
    UNIQUE (source_name, link)
);
CREATE INDEX IF NOT EXISTS idx_articles_pending_summary
    ON articles (published_at DESC) WHERE ai_summary IS NULL AND is_active;
CREATE INDEX IF NOT EXISTS idx_crawl_runs_started ON crawl_runs (started_at DESC);
`)
	return err
}

// =============================================================================
// Crawl Runs (read-only)
// =============================================================================

func (r *Repository) HasRunningRun(ctx context.Context) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM crawl_runs WHERE status = 'running' LIMIT 1`).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("running-run check: %w", err)
	}
	return true, nil
}

func (r *Repository) LastCompletedFinish(ctx context.Context) (*datatypes.CrawlRun, error) {
	var run datatypes.CrawlRun
	var finished sql.NullTime
	err := r.db.QueryRowContext(ctx, `
SELECT cr.id, cr.source_id, cs.name, cr.status, cr.started_at, cr.finished_at
FROM crawl_runs cr JOIN crawl_sources cs ON cs.id = cr.source_id
WHERE cr.status = 'completed' AND cr.finished_at IS NOT NULL
ORDER BY cr.finished_at DESC
LIMIT 1`).Scan(&run.ID, &run.SourceID, &run.SourceName, &run.Status, &run.StartedAt, &finished)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last-completed query: %w", err)
	}
	if finished.Valid {
		run.FinishedAt = &finished.Time
	}
	return &run, nil
}

func (r *Repository) RecentRuns(ctx context.Context, limit int) ([]datatypes.CrawlRun, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT cr.id, cr.source_id, cs.name, cr.status, cr.started_at, cr.finished_at
FROM crawl_runs cr JOIN crawl_sources cs ON cs.id = cr.source_id
ORDER BY cr.started_at DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent-runs query: %w", err)
	}
	defer rows.Close()
	var out []datatypes.CrawlRun
	for rows.Next() {
		var run datatypes.CrawlRun
		var finished sql.NullTime
		if err := rows.Scan(&run.ID, &run.SourceID, &run.SourceName, &run.Status,
			&run.StartedAt, &finished); err != nil {
			return nil, fmt.Errorf("recent-runs scan: %w", err)
		}
		if finished.Valid {
			run.FinishedAt = &finished.Time
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// =============================================================================
// Articles
// =============================================================================

const articleColumns = `id, created_at, updated_at, source_name, source_url, title, link,
description, ai_summary, summary_tags, is_active, published_at`

func (r *Repository) ListArticles(ctx context.Context, q datatypes.ArticleQuery) ([]datatypes.Article, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + articleColumns + ` FROM articles WHERE is_active`
	args := []any{}
	if q.SourceName != "" {
		args = append(args, q.SourceName)
		query += fmt.Sprintf(` AND source_name = $%d`, len(args))
	}
	if q.Category != "" {
		args = append(args, q.Category)
		query += fmt.Sprintf(` AND $%d = ANY(summary_tags)`, len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY published_at DESC, id LIMIT $%d`, len(args))
	return scanArticles(r.db.QueryContext(ctx, query, args...))
}

func (r *Repository) GetArticle(ctx context.Context, id string) (datatypes.Article, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE id = $1`, id)
	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return datatypes.Article{}, ErrNotFound
	}
	if err != nil {
		return datatypes.Article{}, fmt.Errorf("get article: %w", err)
	}
	return a, nil
}

// PendingSummaries orders by published_at then id so one batch call always
// sees the same selection for the same store state.
func (r *Repository) PendingSummaries(ctx context.Context, limit int) ([]datatypes.Article, error) {
	return scanArticles(r.db.QueryContext(ctx,
		`SELECT `+articleColumns+` FROM articles
WHERE ai_summary IS NULL AND is_active
ORDER BY published_at DESC, id
LIMIT $1`, limit))
}

func (r *Repository) WriteSummary(ctx context.Context, id, summary string, tags []string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE articles SET ai_summary = $2, summary_tags = $3, updated_at = now()
WHERE id = $1`, id, summary, pq.Array(tags))
	if err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return requireRow(res)
}

func (r *Repository) DeleteArticle(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	return requireRow(res)
}

func (r *Repository) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT DISTINCT unnest(summary_tags) AS tag FROM articles WHERE is_active ORDER BY tag`)
	if err != nil {
		return nil, fmt.Errorf("categories query: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("categories scan: %w", err)
		}
		out = append(out, tag)
	}
	return out, rows.Err()
}

// =============================================================================
// Sources
// =============================================================================

func (r *Repository) ListSources(ctx context.Context) ([]datatypes.Source, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, feed_url, enabled, created_at FROM crawl_sources ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("sources query: %w", err)
	}
	defer rows.Close()
	var out []datatypes.Source
	for rows.Next() {
		var s datatypes.Source
		if err := rows.Scan(&s.ID, &s.Name, &s.FeedURL, &s.Enabled, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("sources scan: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repository) SetSourceEnabled(ctx context.Context, id string, enabled bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE crawl_sources SET enabled = $2 WHERE id = $1`, id, enabled)
	if err != nil {
		return fmt.Errorf("set source enabled: %w", err)
	}
	return requireRow(res)
}

// =============================================================================
// Scan Helpers
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (datatypes.Article, error) {
	var a datatypes.Article
	var updated sql.NullTime
	var summary sql.NullString
	err := row.Scan(&a.ID, &a.CreatedAt, &updated, &a.SourceName, &a.SourceURL,
		&a.Title, &a.Link, &a.Description, &summary, pq.Array(&a.SummaryTags),
		&a.IsActive, &a.PublishedAt)
	if err != nil {
		return datatypes.Article{}, err
	}
	if updated.Valid {
		a.UpdatedAt = &updated.Time
	}
	if summary.Valid {
		a.AISummary = &summary.String
	}
	return a, nil
}

func scanArticles(rows *sql.Rows, err error) ([]datatypes.Article, error) {
	if err != nil {
		return nil, fmt.Errorf("articles query: %w", err)
	}
	defer rows.Close()
	var out []datatypes.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("articles scan: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
