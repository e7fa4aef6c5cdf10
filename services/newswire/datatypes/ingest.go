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

import "time"

// Crawl run lifecycle states. The crawler owns the transitions; this
// service only ever reads them.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// CrawlRun is one execution of a content-gathering pass over a source.
type CrawlRun struct {
	ID         string     `json:"id"`
	SourceID   string     `json:"source_id"`
	SourceName string     `json:"source_name"`
	Status     string     `json:"status"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// StatusSnapshot is the aggregated ingestion status view. It is recomputed
// per request and never cached: its whole purpose is to answer "is it safe
// to start another run" from live state.
type StatusSnapshot struct {
	IsRunning  bool       `json:"is_running"`
	LastRun    *time.Time `json:"last_run"`
	RecentRuns []CrawlRun `json:"recent_runs"`
}
