// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package middleware provides request-admission guards for the newswire
// service.
//
// Two independent predicates exist and are never combined on one route:
//
//   - Bearer auth for server-to-server callers (schedulers, the ops CLI).
//   - Same-origin auth for browser callers, as a CSRF defense.
//
// A non-browser caller that sends neither Origin nor Referer never
// satisfies the same-origin guard; it must use bearer auth instead.
// Absence of evidence is rejection, not admission.
package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

// =============================================================================
// Bearer Auth
// =============================================================================

// ValidBearer reports whether the Authorization header value matches the
// configured shared secret.
//
// # Description
//
// Accepts iff header == "Bearer " + secret, compared in constant time.
// An empty configured secret fails closed: no header value is ever
// accepted, and the condition is logged as a deployment misconfiguration
// rather than a request error.
//
// # Inputs
//
//   - authorization: Raw Authorization header value. May be empty.
//   - secret: Configured shared secret. May be empty (fails closed).
//
// # Outputs
//
//   - bool: True only on an exact match against a configured secret.
func ValidBearer(authorization, secret string) bool {
	if secret == "" {
		slog.Error("bearer auth secret is not configured; rejecting all bearer requests")
		return false
	}
	want := "Bearer " + secret
	return subtle.ConstantTimeCompare([]byte(authorization), []byte(want)) == 1
}

// RequireBearer returns gin middleware enforcing ValidBearer. Rejections
// abort with 401 before any storage access.
func RequireBearer(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ValidBearer(c.GetHeader("Authorization"), secret) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// =============================================================================
// Same-Origin Auth
// =============================================================================

// SameOrigin reports whether a browser request originated from this host.
//
// # Description
//
// Checks the Origin header's host component against the request Host; if
// Origin is absent, falls back to the same check against Referer. Returns
// false when Host is empty, when the candidate header is malformed, and
// when neither Origin nor Referer is present.
//
// # Inputs
//
//   - origin: Origin header value, e.g. "https://example.com". May be empty.
//   - referer: Referer header value. Consulted only when origin is empty.
//   - host: Request Host header, e.g. "example.com". Must be non-empty.
//
// # Outputs
//
//   - bool: True iff the originating host equals the request host.
func SameOrigin(origin, referer, host string) bool {
	if host == "" {
		return false
	}
	candidate := origin
	if candidate == "" {
		candidate = referer
	}
	if candidate == "" {
		return false
	}
	u, err := url.Parse(candidate)
	if err != nil {
		return false
	}
	return u.Host == host
}

// RequireSameOrigin returns gin middleware enforcing SameOrigin against
// the request's own Host. Rejections abort with 401.
func RequireSameOrigin() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok := SameOrigin(
			c.GetHeader("Origin"),
			c.GetHeader("Referer"),
			c.Request.Host,
		)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
