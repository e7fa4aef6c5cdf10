// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "12310", cfg.Port)
	assert.Equal(t, "localhost", cfg.PGHost)
	assert.Equal(t, 5432, cfg.PGPort)
	assert.Equal(t, 20, cfg.DefaultBatchSize)
	assert.Empty(t, cfg.APISecret, "secret must not default to anything")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("NEWSWIRE_PORT", "9999")
	t.Setenv("POSTGRES_PORT", "5433")
	t.Setenv("NEWSWIRE_API_SECRET", "s3cret")
	t.Setenv("NEWSWIRE_BATCH_SIZE", "5")

	cfg := Load()

	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, 5433, cfg.PGPort)
	assert.Equal(t, "s3cret", cfg.APISecret)
	assert.Equal(t, 5, cfg.DefaultBatchSize)
}

func TestLoad_MalformedIntFallsBack(t *testing.T) {
	t.Setenv("POSTGRES_PORT", "not-a-port")

	cfg := Load()

	assert.Equal(t, 5432, cfg.PGPort)
}

func TestDSN(t *testing.T) {
	t.Setenv("POSTGRES_USER", "wire")
	t.Setenv("POSTGRES_PASSWORD", "pw")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_DBNAME", "news")

	cfg := Load()

	assert.Equal(t, "postgres://wire:pw@db:5432/news?sslmode=disable", cfg.DSN())
}
