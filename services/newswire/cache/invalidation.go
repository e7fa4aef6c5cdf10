// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package cache

import "log/slog"

// =============================================================================
// Mutation-Invalidation Coupling
// =============================================================================

// Mutation enumerates the write operations that affect cached read paths.
type Mutation int

const (
	// MutArticleDeleted is an article row deletion.
	MutArticleDeleted Mutation = iota
	// MutSummaryWritten is a summary write, single or batch.
	MutSummaryWritten
	// MutSourceChanged is a crawl-source configuration change.
	MutSourceChanged
)

func (m Mutation) String() string {
	switch m {
	case MutArticleDeleted:
		return "article_deleted"
	case MutSummaryWritten:
		return "summary_written"
	case MutSourceChanged:
		return "source_changed"
	default:
		return "unknown"
	}
}

// Invalidator owns the mutation→key mapping of the coherency contract.
//
// # Description
//
// Every write path calls OnCommit as the last step of a successful
// mutation, never on failure. Keeping the mapping here, instead of inline
// invalidation calls scattered across handlers, makes the contract
// auditable in one switch.
//
// The coupling is advisory, not transactional: a crash between the durable
// write and OnCommit leaves the cache stale until the TTL expires. That is
// the bounded-staleness guarantee, not a bug.
type Invalidator struct {
	store *Store
}

// NewInvalidator binds the coherency contract to one Store.
func NewInvalidator(store *Store) *Invalidator {
	return &Invalidator{store: store}
}

// OnCommit clears every cache entry the given mutation can have dirtied.
// Idempotent; safe to call more than once per commit.
func (iv *Invalidator) OnCommit(m Mutation) {
	switch m {
	case MutArticleDeleted, MutSummaryWritten:
		// Summaries and deletions both change the article list payloads.
		iv.store.InvalidateByPrefix(PrefixArticles)
		iv.store.Invalidate(KeyCategories)
	case MutSourceChanged:
		iv.store.Invalidate(KeySources)
	default:
		slog.Warn("ignoring unknown cache mutation", "mutation", int(m))
		return
	}
	slog.Debug("cache invalidated after commit", "mutation", m.String())
}
