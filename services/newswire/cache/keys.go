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

import "time"

// Cache keys live in one place so they don't sprawl across handlers.
// Singleton resources get a bare key; parameterized resources share a
// common prefix so one InvalidateByPrefix call clears every variant.
const (
	KeySources    = "sources"
	KeyCategories = "categories"

	PrefixArticles = "articles:"
)

// ArticlesKey builds the cache key for one canonicalized article query.
func ArticlesKey(query string) string {
	return PrefixArticles + query
}

// Per-resource TTLs. Readers may observe data this stale after a missed
// invalidation (crash between durable write and invalidate), never staler.
const (
	TTLSources    = 60 * time.Second
	TTLCategories = 5 * time.Minute
	TTLArticles   = 30 * time.Second
)
