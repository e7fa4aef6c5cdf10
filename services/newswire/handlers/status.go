// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers contains the gin handlers for the newswire HTTP
// surface. Handlers are thin: guards and validation happen before any
// storage access, and every failure maps to a structured error body with
// a status reflecting its category (401 guard, 400 validation, 404
// missing entity, 500 upstream).
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/newswire/services/newswire/status"
)

// IngestStatus serves the live ingestion status snapshot. Never cached:
// callers use it to decide whether another run may start.
func IngestStatus(agg *status.Aggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := agg.Snapshot(c.Request.Context())
		if err != nil {
			slog.Error("status snapshot failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read ingestion status"})
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

// HealthCheck is the liveness probe.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
