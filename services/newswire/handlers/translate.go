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

	"github.com/AleutianAI/newswire/services/newswire/translate"
)

// TranslateTexts proxies a batch translation request to the external
// translation service, propagating its HTTP status on failure.
func TranslateTexts(client *translate.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req translate.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "texts and target_lang are required"})
			return
		}

		out, err := client.Translate(c.Request.Context(), req)
		var remote *translate.RemoteError
		if errors.As(err, &remote) {
			c.JSON(remote.StatusCode, gin.H{"error": remote.Body})
			return
		}
		if err != nil {
			slog.Error("translation proxy failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "translation failed"})
			return
		}
		c.JSON(http.StatusOK, out)
	}
}
