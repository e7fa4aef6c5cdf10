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
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Guard-placement tests: rejected requests never reach a handler, so the
// zero-value collaborators in Deps are never dereferenced.

func TestRoutes_HealthIsOpen(t *testing.T) {
	router := gin.New()
	SetupRoutes(router, Deps{APISecret: "s"})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoutes_SummarizeEndpointsRequireBearer(t *testing.T) {
	router := gin.New()
	SetupRoutes(router, Deps{APISecret: "s3cret"})

	for _, path := range []string{"/v1/summarize/batch", "/v1/summarize/article"} {
		t.Run(path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
			assert.Equal(t, http.StatusUnauthorized, w.Code)

			w = httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, path, nil)
			req.Header.Set("Authorization", "Bearer wrong")
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRoutes_UnconfiguredSecretFailsClosed(t *testing.T) {
	router := gin.New()
	SetupRoutes(router, Deps{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/summarize/batch", nil)
	req.Header.Set("Authorization", "Bearer anything")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoutes_BrowserMutationsRequireSameOrigin(t *testing.T) {
	router := gin.New()
	SetupRoutes(router, Deps{APISecret: "s"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/v1/articles/a1", nil)
	req.Host = "example.com"
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/v1/sources/s1", nil)
	req.Host = "example.com"
	req.Header.Set("Origin", "https://evil.com")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
