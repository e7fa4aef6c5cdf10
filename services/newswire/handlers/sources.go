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
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/newswire/services/newswire/cache"
	"github.com/AleutianAI/newswire/services/newswire/observability"
	"github.com/AleutianAI/newswire/services/newswire/storage"
)

// ListSources serves the configured crawl sources, cached under the
// singleton sources key.
func ListSources(sources storage.SourceStore, cacheStore *cache.Store, metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cached, ok := cacheStore.Get(cache.KeySources); ok {
			metrics.CacheHits.WithLabelValues("sources").Inc()
			c.JSON(http.StatusOK, gin.H{"sources": cached, "cached": true})
			return
		}
		metrics.CacheMisses.WithLabelValues("sources").Inc()

		out, err := sources.ListSources(c.Request.Context())
		if err != nil {
			slog.Error("source list query failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list sources"})
			return
		}
		cacheStore.Set(cache.KeySources, out, cache.TTLSources)
		c.JSON(http.StatusOK, gin.H{"sources": out, "cached": false})
	}
}

type setSourceEnabledRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// SetSourceEnabled flips a source's enabled flag and invalidates the
// sources cache key on success.
func SetSourceEnabled(sources storage.SourceStore, inv *cache.Invalidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		var req setSourceEnabledRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "enabled is required"})
			return
		}
		err := sources.SetSourceEnabled(c.Request.Context(), id, *req.Enabled)
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "source not found"})
			return
		}
		if err != nil {
			slog.Error("source update failed", "source_id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update source"})
			return
		}
		inv.OnCommit(cache.MutSourceChanged)
		c.JSON(http.StatusOK, gin.H{"status": "updated", "id": id, "enabled": *req.Enabled})
	}
}

// ListCategories serves the distinct summary tags, cached under the
// singleton categories key.
func ListCategories(articles storage.ArticleStore, cacheStore *cache.Store, metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cached, ok := cacheStore.Get(cache.KeyCategories); ok {
			metrics.CacheHits.WithLabelValues("categories").Inc()
			c.JSON(http.StatusOK, gin.H{"categories": cached, "cached": true})
			return
		}
		metrics.CacheMisses.WithLabelValues("categories").Inc()

		out, err := articles.ListCategories(c.Request.Context())
		if err != nil {
			slog.Error("category query failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list categories"})
			return
		}
		cacheStore.Set(cache.KeyCategories, out, cache.TTLCategories)
		c.JSON(http.StatusOK, gin.H{"categories": out, "cached": false})
	}
}
