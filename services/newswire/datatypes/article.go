// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import (
	"strconv"
	"time"
)

// Article is the read model for one ingested article row.
type Article struct {
	ID          string     `json:"id"`
	SourceName  string     `json:"source_name"`
	SourceURL   string     `json:"source_url"`
	Title       string     `json:"title"`
	Link        string     `json:"link"`
	Description string     `json:"description"`
	AISummary   *string    `json:"ai_summary,omitempty"`
	SummaryTags []string   `json:"summary_tags,omitempty"`
	IsActive    bool       `json:"is_active"`
	PublishedAt time.Time  `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// Source is one configured crawl source.
type Source struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	FeedURL   string    `json:"feed_url"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
}

// ArticleQuery carries the supported list filters. Canonicalize produces
// the stable string used as the cache key suffix, so two requests with the
// same filters share one cache entry.
type ArticleQuery struct {
	SourceName string
	Category   string
	Limit      int
}

func (q ArticleQuery) Canonicalize() string {
	return "source=" + q.SourceName + "&category=" + q.Category + "&limit=" + strconv.Itoa(q.Limit)
}
