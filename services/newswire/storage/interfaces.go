// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package storage is the durable-store access layer. The store itself is
// an external relational service; this package only issues queries and
// maps rows into the explicit structs in datatypes. Consumers depend on
// the narrow role interfaces below, never on *Repository directly, so
// tests can substitute hand-rolled fakes.
package storage

import (
	"context"
	"errors"

	"github.com/AleutianAI/newswire/services/newswire/datatypes"
)

// ErrNotFound marks a targeted entity that does not exist. Distinct from
// an upstream query failure: callers map it to 404, not 500.
var ErrNotFound = errors.New("not found")

// RunReader exposes the crawl-run reads behind the status snapshot. The
// crawler owns run lifecycles; this service never writes them.
type RunReader interface {
	// HasRunningRun reports whether at least one run is in the running
	// state right now. Capped at an existence check, never a full scan.
	HasRunningRun(ctx context.Context) (bool, error)

	// LastCompletedFinish returns the finish time of the most recently
	// finished completed run, or nil if no run ever completed.
	LastCompletedFinish(ctx context.Context) (*datatypes.CrawlRun, error)

	// RecentRuns returns up to limit runs ordered most-recent-start-first,
	// each joined with its source's display name.
	RecentRuns(ctx context.Context, limit int) ([]datatypes.CrawlRun, error)
}

// ArticleStore exposes the article reads and writes the core needs.
type ArticleStore interface {
	ListArticles(ctx context.Context, q datatypes.ArticleQuery) ([]datatypes.Article, error)

	// GetArticle returns ErrNotFound for an unknown id.
	GetArticle(ctx context.Context, id string) (datatypes.Article, error)

	// PendingSummaries selects up to limit active articles whose
	// ai_summary is NULL, in a stable order.
	PendingSummaries(ctx context.Context, limit int) ([]datatypes.Article, error)

	// WriteSummary persists the summary text and derived tags for one
	// article. ErrNotFound for an unknown id.
	WriteSummary(ctx context.Context, id, summary string, tags []string) error

	// DeleteArticle removes one article. ErrNotFound for an unknown id.
	DeleteArticle(ctx context.Context, id string) error

	// ListCategories returns the distinct summary tags across active
	// articles, sorted.
	ListCategories(ctx context.Context) ([]string, error)
}

// SourceStore exposes crawl-source configuration.
type SourceStore interface {
	ListSources(ctx context.Context) ([]datatypes.Source, error)

	// SetSourceEnabled flips a source's enabled flag. ErrNotFound for an
	// unknown id.
	SetSourceEnabled(ctx context.Context, id string, enabled bool) error
}

// Store is the full persistence port implemented by *Repository.
type Store interface {
	RunReader
	ArticleStore
	SourceStore
}
