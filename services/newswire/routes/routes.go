// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AleutianAI/newswire/services/newswire/cache"
	"github.com/AleutianAI/newswire/services/newswire/handlers"
	"github.com/AleutianAI/newswire/services/newswire/middleware"
	"github.com/AleutianAI/newswire/services/newswire/observability"
	"github.com/AleutianAI/newswire/services/newswire/status"
	"github.com/AleutianAI/newswire/services/newswire/storage"
	"github.com/AleutianAI/newswire/services/newswire/summarize"
	"github.com/AleutianAI/newswire/services/newswire/translate"
)

// Deps carries the constructed collaborators for route registration.
type Deps struct {
	APISecret   string
	Store       storage.Store
	Cache       *cache.Store
	Invalidator *cache.Invalidator
	Aggregator  *status.Aggregator

	// Orchestrator may be nil when no summarizer is configured; the
	// summarize endpoints then answer 503.
	Orchestrator *summarize.Orchestrator
	// BatchSize is the pass bound for batch requests without an
	// explicit batch_size.
	BatchSize int

	Translator *translate.Client
	Metrics    *observability.Metrics
}

// SetupRoutes wires the newswire HTTP surface onto router.
//
// Guard placement: the summarize endpoints take bearer auth (they are
// called by schedulers and the ops CLI); the browser-facing mutations
// (article delete, source toggle) take the same-origin guard. The two
// guards are never stacked on one route.
func SetupRoutes(router *gin.Engine, deps Deps) {
	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	{
		v1.GET("/ingest/status", handlers.IngestStatus(deps.Aggregator))

		v1.GET("/articles", handlers.ListArticles(deps.Store, deps.Cache, deps.Metrics))
		v1.DELETE("/articles/:id", middleware.RequireSameOrigin(),
			handlers.DeleteArticle(deps.Store, deps.Invalidator))

		v1.GET("/sources", handlers.ListSources(deps.Store, deps.Cache, deps.Metrics))
		v1.PUT("/sources/:id", middleware.RequireSameOrigin(),
			handlers.SetSourceEnabled(deps.Store, deps.Invalidator))
		v1.GET("/categories", handlers.ListCategories(deps.Store, deps.Cache, deps.Metrics))

		summarizeGroup := v1.Group("/summarize", middleware.RequireBearer(deps.APISecret))
		{
			summarizeGroup.POST("/batch", handlers.BatchSummarize(deps.Orchestrator, deps.BatchSize, deps.Metrics))
			summarizeGroup.POST("/article", handlers.SummarizeArticle(deps.Orchestrator, deps.Metrics))
		}

		v1.POST("/translate", handlers.TranslateTexts(deps.Translator))
	}
}
