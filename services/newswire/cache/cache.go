// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package cache provides the process-local read cache for the newswire
// service, plus the invalidation coupling that keeps it coherent with
// writes to the durable store.
//
// The store is a best-effort, bounded-lifetime accelerator and never a
// source of truth. Entries expire by TTL and are purged lazily on read;
// nothing survives a process restart. Coherency with the durable store is
// eventual, bounded by the TTLs in keys.go, unless a mutation explicitly
// invalidates the affected prefix through the Invalidator.
package cache

import (
	"strings"
	"sync"
	"time"
)

// =============================================================================
// Store
// =============================================================================

// entry pairs a cached value with its absolute expiry.
type entry struct {
	data      any
	expiresAt time.Time
}

// Store is an in-process key/value cache with per-entry TTL and
// prefix-based bulk invalidation.
//
// # Description
//
// Construct one Store per process via New and inject it where needed;
// there is deliberately no package-level instance, so tests can build
// isolated stores. A single mutex guards the map: redundant concurrent
// populations of the same key are benign (last writer wins, and every
// writer is recomputing the same durable data).
//
// # Thread Safety
//
// All methods are safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry

	// now is swappable for expiry tests.
	now func() time.Time
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the value stored under key if present and unexpired.
// An expired entry is evicted on the way out. Absence is a normal
// outcome, not an error.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, key)
		return nil, false
	}
	return e.data, true
}

// Set unconditionally overwrites any existing entry for key with a fresh
// expiry of now + ttl.
func (s *Store) Set(key string, value any, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{data: value, expiresAt: s.now().Add(ttl)}
}

// Invalidate removes exactly one entry if present; no-op otherwise.
func (s *Store) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// InvalidateByPrefix removes every entry whose key starts with prefix.
// Used to clear all parameterized variants of one logical resource in a
// single call.
func (s *Store) InvalidateByPrefix(prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.entries {
		if strings.HasPrefix(k, prefix) {
			delete(s.entries, k)
		}
	}
}

// Len reports the number of live entries, expired or not. Test helper.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
