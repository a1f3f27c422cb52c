package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Provider is the external categorization boundary. Implementations return a
// raw result that has not yet been checked against the taxonomy or the
// confidence threshold.
type Provider interface {
	Categorize(ctx context.Context, in Input) (Result, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, in Input) (Result, error)

func (f ProviderFunc) Categorize(ctx context.Context, in Input) (Result, error) {
	return f(ctx, in)
}

// OpenAIProvider categorizes bookmarks with an OpenAI chat model.
type OpenAIProvider struct {
	llm   *openai.LLM
	model string
}

// NewOpenAIProvider builds a provider from an API key. Callers must treat a
// missing key as "service unconfigured" and skip provider construction.
func NewOpenAIProvider(apiKey, model string) (*OpenAIProvider, error) {
	llm, err := openai.New(openai.WithToken(apiKey), openai.WithModel(model))
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI LLM: %w", err)
	}
	return &OpenAIProvider{llm: llm, model: model}, nil
}

func (p *OpenAIProvider) Categorize(ctx context.Context, in Input) (Result, error) {
	response, err := llms.GenerateFromSinglePrompt(ctx, p.llm, buildPrompt(in), llms.WithJSONMode())
	if err != nil {
		return Result{}, fmt.Errorf("failed to generate categorization from LLM: %w", err)
	}
	return parseResult(response)
}

// parseResult decodes the model output into a Result, stripping markdown code
// fences the model sometimes wraps around JSON.
func parseResult(response string) (Result, error) {
	cleaned := strings.TrimSpace(response)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var result Result
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return Result{}, fmt.Errorf("failed to parse LLM response as JSON: %w", err)
	}
	if result.Confidence < 0 || result.Confidence > 1 {
		return Result{}, fmt.Errorf("confidence %v out of range [0, 1]", result.Confidence)
	}
	return result, nil
}

// keyword rules for degraded-mode classification, checked in order.
var heuristicRules = []struct {
	category string
	keywords []string
}{
	{"Development", []string{"github", "code", "dev", "programming", "javascript", "typescript", "golang", "react", "api"}},
	{"Design", []string{"design", "figma", "ui", "ux", "color", "font"}},
	{"Business", []string{"business", "marketing", "startup", "entrepreneur"}},
	{"Education", []string{"learn", "tutorial", "course", "education", "university", "study"}},
	{"Technology", []string{"tech", "technology", "ai", "machine learning", "artificial intelligence"}},
	{"News", []string{"news", "article", "blog", "medium", "journalism"}},
}

// classifyHeuristic is the deterministic stand-in used when no LLM provider
// is configured. Single-word keywords must match a whole token of the
// concatenated url, title and description; a bare substring check would let
// short keywords like "ai" fire inside unrelated words ("domain").
// Multi-word keywords match as phrases.
func classifyHeuristic(in Input) Result {
	content := strings.ToLower(in.URL + " " + in.Title + " " + in.Description)
	tokens := tokenSet(content)
	for _, rule := range heuristicRules {
		for _, kw := range rule.keywords {
			if matchKeyword(content, tokens, kw) {
				return Result{
					Category:   rule.category,
					Confidence: 0.6,
					Reasoning:  fmt.Sprintf("keyword match: %q", kw),
				}
			}
		}
	}
	return Result{
		Category:   FallbackCategory,
		Confidence: 0,
		Reasoning:  "no keyword match",
	}
}

func tokenSet(content string) map[string]struct{} {
	fields := strings.FieldsFunc(content, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func matchKeyword(content string, tokens map[string]struct{}, kw string) bool {
	if strings.ContainsRune(kw, ' ') {
		return strings.Contains(content, kw)
	}
	_, ok := tokens[kw]
	return ok
}
