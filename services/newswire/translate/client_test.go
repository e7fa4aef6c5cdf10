// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package translate

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate_OrderPreservedAndDefaultSourceLang(t *testing.T) {
	var seen Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &seen))
		json.NewEncoder(w).Encode(Response{Translations: []string{"hola", "mundo"}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	out, err := c.Translate(context.Background(), Request{
		Texts:      []string{"hello", "world"},
		TargetLang: "es",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"hola", "mundo"}, out.Translations)
	assert.Equal(t, DefaultSourceLang, seen.SourceLang)
}

func TestTranslate_RemoteStatusPropagated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Translate(context.Background(), Request{
		Texts:      []string{"hi"},
		TargetLang: "de",
	})

	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusTooManyRequests, remote.StatusCode)
}

func TestTranslate_CountMismatchRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(Response{Translations: []string{"only one"}})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Translate(context.Background(), Request{
		Texts:      []string{"a", "b"},
		TargetLang: "fr",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "mismatch")
}
