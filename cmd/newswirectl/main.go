// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// newswirectl is the ops CLI for the newswire service. It talks to the
// HTTP surface; the summarize commands authenticate with the bearer
// secret from NEWSWIRE_API_SECRET.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/newswire/pkg/logging"
)

var (
	serverURL string
	batchSize int

	logger = logging.Default()
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "newswirectl",
		Short: "Operations CLI for the newswire ingestion service",
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server",
		envOr("NEWSWIRE_URL", "http://localhost:12310"), "newswire service base URL")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current ingestion status snapshot",
		Run:   runStatus,
	}

	summarizeCmd := &cobra.Command{
		Use:   "summarize",
		Short: "Trigger one batch summarization pass over pending articles",
		Run:   runSummarize,
	}
	summarizeCmd.Flags().IntVar(&batchSize, "batch-size", 0,
		"articles per pass (0 = server default)")

	rootCmd.AddCommand(statusCmd, summarizeCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runStatus(cmd *cobra.Command, args []string) {
	body, err := doRequest(http.MethodGet, serverURL+"/v1/ingest/status", "")
	if err != nil {
		logger.Error("status request failed", "error", err)
		os.Exit(1)
	}

	var snap struct {
		IsRunning  bool    `json:"is_running"`
		LastRun    *string `json:"last_run"`
		RecentRuns []struct {
			SourceName string  `json:"source_name"`
			Status     string  `json:"status"`
			StartedAt  string  `json:"started_at"`
			FinishedAt *string `json:"finished_at"`
		} `json:"recent_runs"`
	}
	if err := json.Unmarshal(body, &snap); err != nil {
		logger.Error("could not parse status response", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Ingestion running: %v\n", snap.IsRunning)
	if snap.LastRun != nil {
		fmt.Printf("Last successful run: %s\n", *snap.LastRun)
	} else {
		fmt.Println("Last successful run: never")
	}
	fmt.Printf("\nRecent runs (%d):\n", len(snap.RecentRuns))
	for i, r := range snap.RecentRuns {
		finished := "-"
		if r.FinishedAt != nil {
			finished = *r.FinishedAt
		}
		fmt.Printf("%2d. [%s] %s  started=%s finished=%s\n",
			i+1, r.Status, r.SourceName, r.StartedAt, finished)
	}
}

func runSummarize(cmd *cobra.Command, args []string) {
	secret := os.Getenv("NEWSWIRE_API_SECRET")
	if secret == "" {
		logger.Error("NEWSWIRE_API_SECRET is not set; the summarize endpoint requires bearer auth")
		os.Exit(1)
	}

	url := serverURL + "/v1/summarize/batch"
	if batchSize > 0 {
		url = fmt.Sprintf("%s?batch_size=%d", url, batchSize)
	}
	body, err := doRequest(http.MethodPost, url, secret)
	if err != nil {
		logger.Error("summarize request failed", "error", err)
		os.Exit(1)
	}

	var result struct {
		Processed int `json:"processed"`
		Succeeded int `json:"succeeded"`
		Failed    int `json:"failed"`
		Errors    []struct {
			ArticleID string `json:"article_id"`
			Message   string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		logger.Error("could not parse batch response", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Processed %d articles: %d succeeded, %d failed\n",
		result.Processed, result.Succeeded, result.Failed)
	for _, e := range result.Errors {
		fmt.Printf("  failed %s: %s\n", e.ArticleID, e.Message)
	}
}

func doRequest(method, url, bearer string) ([]byte, error) {
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		return nil, err
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
