package openai

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/shared"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	domainllm "jobboard/app/internal/domain/llm"
)

var listMarker = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s*`)

// SuggesterOptions configures the chat-completion backed suggester.
type SuggesterOptions struct {
	Client       *Client
	Models       []string
	Temperature  float64
	SystemPrompt string
}

type suggester struct {
	client       *Client
	logger       *logrus.Logger
	models       []string
	temperature  float64
	systemPrompt string
}

const (
	defaultSuggesterSystemPrompt = "You help people search a job board. Given a search query, respond with the requested number of related search terms a job seeker might try next, separated by commas. Terms must be short (at most four words), must not repeat the query and must not include any additional explanation. Example response: backend engineer, golang developer, site reliability"
	defaultSuggesterTemperature  = 0.2
	maxTermLength                = 60
)

// NewSuggester constructs a Suggester. Models are tried in order until one answers.
func NewSuggester(opts SuggesterOptions) (domainllm.Suggester, error) {
	if opts.Client == nil {
		return nil, eris.New("llm client is required")
	}

	models := make([]string, 0, len(opts.Models))
	for _, model := range opts.Models {
		if trimmed := strings.TrimSpace(model); trimmed != "" {
			models = append(models, trimmed)
		}
	}
	if len(models) == 0 {
		return nil, eris.New("at least one suggestion model is required")
	}

	temperature := opts.Temperature
	if temperature <= 0 {
		temperature = defaultSuggesterTemperature
	}

	systemPrompt := strings.TrimSpace(opts.SystemPrompt)
	if systemPrompt == "" {
		systemPrompt = defaultSuggesterSystemPrompt
	}

	return &suggester{
		client:       opts.Client,
		logger:       opts.Client.logger,
		models:       models,
		temperature:  temperature,
		systemPrompt: systemPrompt,
	}, nil
}

func (s *suggester) Suggest(ctx context.Context, query string, limit int) ([]string, error) {
	trimmedQuery := strings.TrimSpace(query)
	if trimmedQuery == "" {
		return nil, eris.New("query is required")
	}

	if limit <= 0 {
		return nil, eris.New("limit must be positive")
	}

	var lastErr error
	for _, model := range s.models {
		terms, err := s.suggestWith(ctx, model, trimmedQuery, limit)
		if err == nil {
			return terms, nil
		}

		lastErr = err
		s.logError(logrus.Fields{"query": trimmedQuery, "model": model}, err, "suggestion model failed")

		if ctx.Err() != nil {
			break
		}
	}

	return nil, lastErr
}

func (s *suggester) suggestWith(ctx context.Context, model, query string, limit int) ([]string, error) {
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(s.systemPrompt),
			openai.UserMessage(fmt.Sprintf("Query: %s\nReturn %d related search terms separated by commas.", query, limit)),
		},
		Temperature: openai.Float(s.temperature),
	}

	completion, err := s.client.chat.New(ctx, params)
	if err != nil {
		return nil, eris.Wrap(err, "requesting suggestion completion")
	}

	if len(completion.Choices) == 0 {
		return nil, eris.New("llm completion returned no choices")
	}

	choice := completion.Choices[0]
	if strings.EqualFold(strings.TrimSpace(choice.FinishReason), "content_filter") {
		return nil, eris.New("llm blocked the suggestion via content filter")
	}

	if refusal := strings.TrimSpace(choice.Message.Refusal); refusal != "" {
		return nil, eris.Errorf("llm refused to suggest: %s", refusal)
	}

	terms := cleanTerms(extractCommaSeparated(choice.Message.Content), query, limit)
	if len(terms) == 0 {
		return nil, eris.New("llm returned no usable suggestions")
	}

	return terms, nil
}

func (s *suggester) logError(fields logrus.Fields, err error, message string) {
	if s.logger == nil || err == nil {
		return
	}

	entry := s.logger.WithField("error", err.Error())
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Warn(message)
}

// extractCommaSeparated splits a model answer on commas, semicolons and
// newlines after removing a surrounding code fence.
func extractCommaSeparated(content string) []string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil
	}

	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
		if idx := strings.Index(trimmed, "\n"); idx >= 0 {
			trimmed = trimmed[idx+1:]
		} else {
			trimmed = ""
		}
		trimmed = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(trimmed), "```"))
	}

	replacer := strings.NewReplacer("\n", ",", ";", ",")
	parts := strings.Split(replacer.Replace(trimmed), ",")

	results := make([]string, 0, len(parts))
	for _, part := range parts {
		if cleaned := strings.TrimSpace(part); cleaned != "" {
			results = append(results, cleaned)
		}
	}

	return results
}

// cleanTerms strips list markers and quotes, drops duplicates and the query itself,
// and caps the result at limit entries.
func cleanTerms(raw []string, query string, limit int) []string {
	seen := map[string]struct{}{strings.ToLower(query): {}}
	terms := make([]string, 0, limit)

	for _, candidate := range raw {
		term := listMarker.ReplaceAllString(candidate, "")
		term = strings.Trim(term, "\"'` ")
		term = strings.Join(strings.Fields(term), " ")
		if term == "" || len(term) > maxTermLength {
			continue
		}

		key := strings.ToLower(term)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		terms = append(terms, term)
		if len(terms) == limit {
			break
		}
	}

	return terms
}

var _ domainllm.Suggester = (*suggester)(nil)
