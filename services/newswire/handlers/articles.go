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
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/newswire/services/newswire/cache"
	"github.com/AleutianAI/newswire/services/newswire/datatypes"
	"github.com/AleutianAI/newswire/services/newswire/observability"
	"github.com/AleutianAI/newswire/services/newswire/storage"
)

// ListArticles is the cached read path. The canonicalized query string is
// the cache key suffix, so every filter combination is its own entry and
// one prefix invalidation clears them all.
func ListArticles(store storage.ArticleStore, cacheStore *cache.Store, metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := datatypes.ArticleQuery{
			SourceName: c.Query("source"),
			Category:   c.Query("category"),
		}
		if v := c.Query("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
				return
			}
			q.Limit = n
		}

		key := cache.ArticlesKey(q.Canonicalize())
		if cached, ok := cacheStore.Get(key); ok {
			metrics.CacheHits.WithLabelValues("articles").Inc()
			c.JSON(http.StatusOK, gin.H{"articles": cached, "cached": true})
			return
		}
		metrics.CacheMisses.WithLabelValues("articles").Inc()

		articles, err := store.ListArticles(c.Request.Context(), q)
		if err != nil {
			slog.Error("article list query failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list articles"})
			return
		}
		cacheStore.Set(key, articles, cache.TTLArticles)
		c.JSON(http.StatusOK, gin.H{"articles": articles, "cached": false})
	}
}

// DeleteArticle removes one article by id and invalidates the article
// cache prefix. A miss is a 404 and touches nothing.
func DeleteArticle(store storage.ArticleStore, inv *cache.Invalidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		err := store.DeleteArticle(c.Request.Context(), id)
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
			return
		}
		if err != nil {
			slog.Error("article delete failed", "article_id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete article"})
			return
		}
		inv.OnCommit(cache.MutArticleDeleted)
		slog.Info("article deleted", "article_id", id)
		c.JSON(http.StatusOK, gin.H{"status": "deleted", "id": id})
	}
}
