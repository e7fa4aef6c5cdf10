// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package status aggregates crawl-run state into one consistent snapshot.
package status

import (
	"context"
	"fmt"

	"github.com/AleutianAI/newswire/services/newswire/datatypes"
	"github.com/AleutianAI/newswire/services/newswire/storage"
)

// RecentRunLimit caps the run history in a snapshot.
const RecentRunLimit = 20

// Aggregator builds StatusSnapshots from live crawl-run state.
//
// The snapshot exists to answer "is it safe to start another run", so it
// is never cached and always reads the durable store. The three reads are
// independent: a run transitioning between them can surface a snapshot
// that never existed at one instant. That window is accepted; it is
// bounded by the request duration and a partial read never escapes (any
// query failure fails the whole snapshot, because a status view built
// from a subset of reads would be misleading).
type Aggregator struct {
	runs storage.RunReader
}

func NewAggregator(runs storage.RunReader) *Aggregator {
	return &Aggregator{runs: runs}
}

// Snapshot assembles the current ingestion status view.
func (a *Aggregator) Snapshot(ctx context.Context) (datatypes.StatusSnapshot, error) {
	var snap datatypes.StatusSnapshot

	running, err := a.runs.HasRunningRun(ctx)
	if err != nil {
		return datatypes.StatusSnapshot{}, fmt.Errorf("status snapshot: %w", err)
	}
	snap.IsRunning = running

	last, err := a.runs.LastCompletedFinish(ctx)
	if err != nil {
		return datatypes.StatusSnapshot{}, fmt.Errorf("status snapshot: %w", err)
	}
	if last != nil {
		snap.LastRun = last.FinishedAt
	}

	recent, err := a.runs.RecentRuns(ctx, RecentRunLimit)
	if err != nil {
		return datatypes.StatusSnapshot{}, fmt.Errorf("status snapshot: %w", err)
	}
	snap.RecentRuns = recent

	return snap, nil
}
