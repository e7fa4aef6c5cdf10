// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package translate proxies batched text translation to an external
// service. Thin request/response glue: the remote service's HTTP status
// is propagated to the caller on failure.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultSourceLang is assumed when the caller does not name one.
const DefaultSourceLang = "en"

// HTTPClient allows injecting a mock client in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Request struct {
	Texts      []string `json:"texts" binding:"required"`
	TargetLang string   `json:"target_lang" binding:"required"`
	SourceLang string   `json:"source_lang"`
}

type Response struct {
	Translations []string `json:"translations"`
}

// RemoteError carries the upstream HTTP status so handlers can propagate
// it instead of collapsing everything into a 500.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("translation service returned %d: %s", e.StatusCode, e.Body)
}

// Client calls the external translation endpoint.
type Client struct {
	endpoint string
	http     HTTPClient
}

func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Translate returns one translated text per input, in the same order.
func (c *Client) Translate(ctx context.Context, req Request) (Response, error) {
	if req.SourceLang == "" {
		req.SourceLang = DefaultSourceLang
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return Response{}, fmt.Errorf("encode translation request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint,
		bytes.NewReader(payload))
	if err != nil {
		return Response{}, fmt.Errorf("build translation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("call translation service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Response{}, fmt.Errorf("read translation response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Response{}, &RemoteError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return Response{}, fmt.Errorf("decode translation response: %w", err)
	}
	if len(out.Translations) != len(req.Texts) {
		return Response{}, fmt.Errorf("translation count mismatch: sent %d, got %d",
			len(req.Texts), len(out.Translations))
	}
	return out, nil
}
