// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads the newswire service configuration from the
// environment. Every value has a development default except the secrets:
// an absent NEWSWIRE_API_SECRET leaves bearer auth failing closed, and
// an absent OPENAI_API_KEY disables the summarize endpoints at startup.
package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port string

	PGHost     string
	PGPort     int
	PGUser     string
	PGPassword string
	PGDatabase string

	// APISecret is the bearer-auth shared secret. Empty means bearer
	// auth rejects everything.
	APISecret string

	OpenAIKey    string
	SummaryModel string

	TranslateURL string

	DefaultBatchSize int
}

func Load() Config {
	return Config{
		Port:             getenv("NEWSWIRE_PORT", "12310"),
		PGHost:           getenv("POSTGRES_HOST", "localhost"),
		PGPort:           parseIntEnv("POSTGRES_PORT", 5432),
		PGUser:           getenv("POSTGRES_USER", "postgres"),
		PGPassword:       getenv("POSTGRES_PASSWORD", "changeme"),
		PGDatabase:       getenv("POSTGRES_DBNAME", "newswire"),
		APISecret:        os.Getenv("NEWSWIRE_API_SECRET"),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		SummaryModel:     os.Getenv("NEWSWIRE_SUMMARY_MODEL"),
		TranslateURL:     getenv("TRANSLATE_SERVICE_URL", "http://localhost:12320/translate"),
		DefaultBatchSize: parseIntEnv("NEWSWIRE_BATCH_SIZE", 20),
	}
}

// DSN builds the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.PGUser, c.PGPassword, c.PGHost, c.PGPort, c.PGDatabase)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseIntEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
