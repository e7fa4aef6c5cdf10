package summarize

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/AleutianAI/newswire/services/newswire/cache"
	"github.com/AleutianAI/newswire/services/newswire/datatypes"
	"github.com/AleutianAI/newswire/services/newswire/storage"
)

// DefaultBatchSize bounds one ProcessPending pass when the caller does
// not choose a size.
const DefaultBatchSize = 20

// Committer receives the post-commit invalidation signal after summary
// writes. Satisfied by *cache.Invalidator.
type Committer interface {
	OnCommit(m cache.Mutation)
}

// Orchestrator runs the summarization passes over articles that lack a
// summary. It never retries an item and one item's failure never aborts
// its siblings: a failed article is recorded in the BatchResult and the
// pass continues.
type Orchestrator struct {
	articles   storage.ArticleStore
	summarizer Summarizer
	commit     Committer
}

func NewOrchestrator(articles storage.ArticleStore, summarizer Summarizer, commit Committer) *Orchestrator {
	return &Orchestrator{articles: articles, summarizer: summarizer, commit: commit}
}

// ProcessPending summarizes up to batchSize pending articles and reports
// per-item outcomes. Invariants: Processed == Succeeded + Failed, and
// Errors holds exactly one entry per failed article. The articles cache
// prefix is invalidated once per call iff at least one summary was
// written; a wholly failed batch leaves the cache untouched.
func (o *Orchestrator) ProcessPending(ctx context.Context, batchSize int) (datatypes.BatchResult, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	batchID := uuid.NewString()

	pending, err := o.articles.PendingSummaries(ctx, batchSize)
	if err != nil {
		return datatypes.BatchResult{}, fmt.Errorf("select pending summaries: %w", err)
	}
	slog.Info("starting summary batch", "batch_id", batchID, "pending", len(pending))

	var result datatypes.BatchResult
	for _, article := range pending {
		result.Processed++
		if _, err := o.summarizeAndStore(ctx, article); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, datatypes.BatchError{
				ArticleID: article.ID,
				Message:   err.Error(),
			})
			slog.Warn("article summary failed", "batch_id", batchID,
				"article_id", article.ID, "error", err)
			continue
		}
		result.Succeeded++
	}

	if result.Succeeded > 0 {
		o.commit.OnCommit(cache.MutSummaryWritten)
	}
	slog.Info("summary batch finished", "batch_id", batchID,
		"processed", result.Processed, "succeeded", result.Succeeded, "failed", result.Failed)
	return result, nil
}

// ProcessArticle summarizes exactly one article by id. Returns
// storage.ErrNotFound for an unknown id; any summarizer or write failure
// is passed through for the caller to surface. No internal retry.
func (o *Orchestrator) ProcessArticle(ctx context.Context, articleID string) (datatypes.ArticleSummary, error) {
	article, err := o.articles.GetArticle(ctx, articleID)
	if err != nil {
		return datatypes.ArticleSummary{}, err
	}
	out, err := o.summarizeAndStore(ctx, article)
	if err != nil {
		return datatypes.ArticleSummary{}, err
	}
	o.commit.OnCommit(cache.MutSummaryWritten)
	return out, nil
}

// summarizeAndStore is the shared single-item path: one summarizer call,
// one durable write. It does not touch the cache; commit signaling
// belongs to the entry points so a batch invalidates once, not per item.
func (o *Orchestrator) summarizeAndStore(ctx context.Context, article datatypes.Article) (datatypes.ArticleSummary, error) {
	summary, err := o.summarizer.Summarize(ctx, article)
	if err != nil {
		return datatypes.ArticleSummary{}, fmt.Errorf("summarize: %w", err)
	}
	if err := o.articles.WriteSummary(ctx, article.ID, summary.Text, summary.Tags); err != nil {
		return datatypes.ArticleSummary{}, fmt.Errorf("persist summary: %w", err)
	}
	return datatypes.ArticleSummary{
		ArticleID: article.ID,
		Summary:   summary.Text,
		Tags:      summary.Tags,
	}, nil
}
