package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/AleutianAI/newswire/services/newswire/datatypes"
)

// Summary is the parsed output of one summarizer call.
type Summary struct {
	Text string
	Tags []string
}

// Summarizer is the external summarization function. Implementations may
// call a remote model or a local one; the orchestrator only cares about
// the success/failure outcome.
type Summarizer interface {
	Summarize(ctx context.Context, article datatypes.Article) (Summary, error)
}

const summarySystemPrompt = `You are a news editor. Summarize the article in 2-3 plain sentences.
After the summary, add one final line of the form "Tags: tag1, tag2, tag3"
with at most three lowercase topic tags.`

// OpenAISummarizer implements Summarizer over the OpenAI chat API.
type OpenAISummarizer struct {
	client *openai.Client
	model  string
}

func NewOpenAISummarizer(apiKey, model string) (*OpenAISummarizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is not configured")
	}
	if model == "" {
		model = openai.GPT4oMini
		slog.Warn("summary model not set, defaulting", "model", model)
	}
	slog.Info("Initializing OpenAI summarizer", "model", model)
	return &OpenAISummarizer{client: openai.NewClient(apiKey), model: model}, nil
}

func (s *OpenAISummarizer) Summarize(ctx context.Context, article datatypes.Article) (Summary, error) {
	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summarySystemPrompt},
			{Role: openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Title: %s\n\n%s", article.Title, article.Description)},
		},
	}
	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		slog.Error("OpenAI API call failed", "article_id", article.ID, "error", err)
		return Summary{}, fmt.Errorf("OpenAI API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Summary{}, fmt.Errorf("OpenAI returned no choices")
	}
	return parseSummary(resp.Choices[0].Message.Content), nil
}

// parseSummary splits the model output into summary text and the trailing
// tags line. A missing or malformed tags line yields no tags, never an
// error; the summary text is the payload that matters.
func parseSummary(raw string) Summary {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	lower := strings.ToLower(last)
	if !strings.HasPrefix(lower, "tags:") {
		return Summary{Text: strings.TrimSpace(raw)}
	}
	var tags []string
	for _, t := range strings.Split(last[len("tags:"):], ",") {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			tags = append(tags, t)
		}
	}
	text := strings.TrimSpace(strings.Join(lines[:len(lines)-1], "\n"))
	return Summary{Text: text, Tags: tags}
}
