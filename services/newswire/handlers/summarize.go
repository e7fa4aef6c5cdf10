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

	"github.com/AleutianAI/newswire/services/newswire/observability"
	"github.com/AleutianAI/newswire/services/newswire/storage"
	"github.com/AleutianAI/newswire/services/newswire/summarize"
)

// BatchSummarize runs one bounded summarization pass over pending
// articles. A batch with failed items is still a 200: per-item outcomes
// live in the errors field, never in the call's status. defaultBatchSize
// is the configured pass bound used when the caller sends no batch_size.
// A nil orchestrator means no summarizer was configured at startup; the
// endpoint reports 503 instead of killing the read paths.
func BatchSummarize(orch *summarize.Orchestrator, defaultBatchSize int, metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if orch == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "summarization is not configured"})
			return
		}

		batchSize := defaultBatchSize
		if v := c.Query("batch_size"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "batch_size must be a positive integer"})
				return
			}
			batchSize = n
		}

		result, err := orch.ProcessPending(c.Request.Context(), batchSize)
		if err != nil {
			slog.Error("batch summarize failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process pending summaries"})
			return
		}
		metrics.ObserveBatch(result.Succeeded, result.Failed)
		c.JSON(http.StatusOK, result)
	}
}

type summarizeArticleRequest struct {
	ArticleID string `json:"article_id" binding:"required"`
}

// SummarizeArticle summarizes exactly one article by id.
func SummarizeArticle(orch *summarize.Orchestrator, metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if orch == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "summarization is not configured"})
			return
		}

		var req summarizeArticleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "article_id is required"})
			return
		}

		out, err := orch.ProcessArticle(c.Request.Context(), req.ArticleID)
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
			return
		}
		if err != nil {
			slog.Error("article summarize failed", "article_id", req.ArticleID, "error", err)
			metrics.SummaryArticles.WithLabelValues("failure").Inc()
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		metrics.SummaryArticles.WithLabelValues("success").Inc()
		c.JSON(http.StatusOK, out)
	}
}
