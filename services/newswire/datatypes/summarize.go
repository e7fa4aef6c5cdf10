// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

// BatchError records the failure of exactly one article inside a batch.
type BatchError struct {
	ArticleID string `json:"article_id"`
	Message   string `json:"message"`
}

// BatchResult is the outcome of one batch summarization pass. A batch with
// failed items is still a successful call; Processed == Succeeded + Failed
// always holds and Errors carries one entry per failed article.
type BatchResult struct {
	Processed int          `json:"processed"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Errors    []BatchError `json:"errors"`
}

// ArticleSummary is the persisted output of one summarizer call.
type ArticleSummary struct {
	ArticleID string   `json:"article_id"`
	Summary   string   `json:"summary"`
	Tags      []string `json:"tags,omitempty"`
}
