// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/newswire/services/newswire/cache"
	"github.com/AleutianAI/newswire/services/newswire/datatypes"
	"github.com/AleutianAI/newswire/services/newswire/observability"
	"github.com/AleutianAI/newswire/services/newswire/status"
	"github.com/AleutianAI/newswire/services/newswire/storage"
)

// =============================================================================
// Test Setup
// =============================================================================

func init() {
	gin.SetMode(gin.TestMode)
}

func testMetrics() *observability.Metrics {
	return observability.NewMetrics(prometheus.NewRegistry())
}

// fakeStore is an in-memory storage.Store for handler tests.
type fakeStore struct {
	articles []datatypes.Article
	sources  []datatypes.Source
	runs     []datatypes.CrawlRun

	listErr error
	runsErr error

	listCalls    int
	deleted      []string
	pendingLimit int
}

func (f *fakeStore) HasRunningRun(_ context.Context) (bool, error) {
	if f.runsErr != nil {
		return false, f.runsErr
	}
	for _, r := range f.runs {
		if r.Status == datatypes.RunStatusRunning {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) LastCompletedFinish(_ context.Context) (*datatypes.CrawlRun, error) {
	if f.runsErr != nil {
		return nil, f.runsErr
	}
	var best *datatypes.CrawlRun
	for i := range f.runs {
		r := &f.runs[i]
		if r.Status != datatypes.RunStatusCompleted || r.FinishedAt == nil {
			continue
		}
		if best == nil || r.FinishedAt.After(*best.FinishedAt) {
			best = r
		}
	}
	return best, nil
}

func (f *fakeStore) RecentRuns(_ context.Context, limit int) ([]datatypes.CrawlRun, error) {
	if f.runsErr != nil {
		return nil, f.runsErr
	}
	if limit < len(f.runs) {
		return f.runs[:limit], nil
	}
	return f.runs, nil
}

func (f *fakeStore) ListArticles(_ context.Context, _ datatypes.ArticleQuery) ([]datatypes.Article, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.articles, nil
}

func (f *fakeStore) GetArticle(_ context.Context, id string) (datatypes.Article, error) {
	for _, a := range f.articles {
		if a.ID == id {
			return a, nil
		}
	}
	return datatypes.Article{}, storage.ErrNotFound
}

func (f *fakeStore) PendingSummaries(_ context.Context, limit int) ([]datatypes.Article, error) {
	f.pendingLimit = limit
	return nil, nil
}

func (f *fakeStore) WriteSummary(_ context.Context, _, _ string, _ []string) error { return nil }

func (f *fakeStore) DeleteArticle(_ context.Context, id string) error {
	for i, a := range f.articles {
		if a.ID == id {
			f.articles = append(f.articles[:i], f.articles[i+1:]...)
			f.deleted = append(f.deleted, id)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeStore) ListCategories(_ context.Context) ([]string, error) {
	return []string{"ai", "infra"}, nil
}

func (f *fakeStore) ListSources(_ context.Context) ([]datatypes.Source, error) {
	return f.sources, nil
}

func (f *fakeStore) SetSourceEnabled(_ context.Context, id string, _ bool) error {
	for _, s := range f.sources {
		if s.ID == id {
			return nil
		}
	}
	return storage.ErrNotFound
}

// =============================================================================
// IngestStatus Tests
// =============================================================================

func TestIngestStatus_OK(t *testing.T) {
	finished := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{runs: []datatypes.CrawlRun{
		{ID: "r2", Status: datatypes.RunStatusRunning, StartedAt: time.Now()},
		{ID: "r1", Status: datatypes.RunStatusCompleted, StartedAt: finished.Add(-time.Hour), FinishedAt: &finished},
	}}
	router := gin.New()
	router.GET("/status", IngestStatus(status.NewAggregator(store)))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var snap datatypes.StatusSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.True(t, snap.IsRunning)
	require.NotNil(t, snap.LastRun)
	assert.True(t, finished.Equal(*snap.LastRun))
	assert.Len(t, snap.RecentRuns, 2)
}

func TestIngestStatus_QueryFailureIs500(t *testing.T) {
	store := &fakeStore{runsErr: errors.New("db down")}
	router := gin.New()
	router.GET("/status", IngestStatus(status.NewAggregator(store)))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

// =============================================================================
// ListArticles Tests
// =============================================================================

func TestListArticles_MissPopulatesThenHits(t *testing.T) {
	store := &fakeStore{articles: []datatypes.Article{{ID: "a1", Title: "One"}}}
	cacheStore := cache.New()
	router := gin.New()
	router.GET("/articles", ListArticles(store, cacheStore, testMetrics()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/articles?limit=10", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"cached":false`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/articles?limit=10", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"cached":true`)

	assert.Equal(t, 1, store.listCalls, "second request must come from cache")
}

func TestListArticles_DistinctQueriesAreDistinctEntries(t *testing.T) {
	store := &fakeStore{}
	cacheStore := cache.New()
	router := gin.New()
	router.GET("/articles", ListArticles(store, cacheStore, testMetrics()))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/articles?source=hn", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/articles?source=lobsters", nil))

	assert.Equal(t, 2, store.listCalls)
	assert.Equal(t, 2, cacheStore.Len())
}

func TestListArticles_BadLimitIs400(t *testing.T) {
	store := &fakeStore{}
	router := gin.New()
	router.GET("/articles", ListArticles(store, cache.New(), testMetrics()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/articles?limit=banana", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, store.listCalls, "validation failures must not reach storage")
}

// =============================================================================
// DeleteArticle Tests
// =============================================================================

func TestDeleteArticle_SuccessInvalidatesArticleCache(t *testing.T) {
	store := &fakeStore{articles: []datatypes.Article{{ID: "a1"}}}
	cacheStore := cache.New()
	cacheStore.Set(cache.ArticlesKey("source=&category=&limit=0"), "stale", time.Minute)
	cacheStore.Set(cache.KeySources, "keep", time.Minute)
	router := gin.New()
	router.DELETE("/articles/:id", DeleteArticle(store, cache.NewInvalidator(cacheStore)))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/articles/a1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"deleted"`)
	_, ok := cacheStore.Get(cache.ArticlesKey("source=&category=&limit=0"))
	assert.False(t, ok, "article cache must be cleared after delete")
	_, ok = cacheStore.Get(cache.KeySources)
	assert.True(t, ok)
}

func TestDeleteArticle_UnknownIDIs404AndNoInvalidation(t *testing.T) {
	store := &fakeStore{}
	cacheStore := cache.New()
	cacheStore.Set(cache.ArticlesKey("q"), "fresh", time.Minute)
	router := gin.New()
	router.DELETE("/articles/:id", DeleteArticle(store, cache.NewInvalidator(cacheStore)))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/articles/ghost", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	_, ok := cacheStore.Get(cache.ArticlesKey("q"))
	assert.True(t, ok, "failed mutation must not invalidate")
}

// =============================================================================
// Sources & Categories Tests
// =============================================================================

func TestListSources_CachedSecondRead(t *testing.T) {
	store := &fakeStore{sources: []datatypes.Source{{ID: "s1", Name: "HN"}}}
	cacheStore := cache.New()
	router := gin.New()
	router.GET("/sources", ListSources(store, cacheStore, testMetrics()))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/sources", nil))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sources", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"cached":true`)
}

func TestSetSourceEnabled_InvalidatesSourcesKey(t *testing.T) {
	store := &fakeStore{sources: []datatypes.Source{{ID: "s1", Name: "HN"}}}
	cacheStore := cache.New()
	cacheStore.Set(cache.KeySources, "stale", time.Minute)
	router := gin.New()
	router.PUT("/sources/:id", SetSourceEnabled(store, cache.NewInvalidator(cacheStore)))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/sources/s1", strings.NewReader(`{"enabled":false}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	_, ok := cacheStore.Get(cache.KeySources)
	assert.False(t, ok)
}

func TestSetSourceEnabled_MissingBodyIs400(t *testing.T) {
	store := &fakeStore{sources: []datatypes.Source{{ID: "s1"}}}
	router := gin.New()
	router.PUT("/sources/:id", SetSourceEnabled(store, cache.NewInvalidator(cache.New())))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/sources/s1", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListCategories_PopulatesCache(t *testing.T) {
	store := &fakeStore{}
	cacheStore := cache.New()
	router := gin.New()
	router.GET("/categories", ListCategories(store, cacheStore, testMetrics()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/categories", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ai")
	_, ok := cacheStore.Get(cache.KeyCategories)
	assert.True(t, ok)
}
