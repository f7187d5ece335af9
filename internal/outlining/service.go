package outlining

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/brief-studio/internal/llm"
	"github.com/jonathan/brief-studio/internal/prompts"
	"github.com/jonathan/brief-studio/internal/research"
	"github.com/jonathan/brief-studio/internal/schemas"
	"github.com/jonathan/brief-studio/internal/types"
)

// DefaultLanguage is used when a request does not name one.
const DefaultLanguage = "English"

// DefaultWordCount is the word-count target when a request does not set one.
const DefaultWordCount = 1500

// Request describes the outline to generate. Coverage carries free-text
// competitor coverage notes and may be empty.
type Request struct {
	Topic     string
	Language  string
	WordCount int
	Coverage  string
}

// Service generates outlines through an LLM client.
type Service struct {
	client llm.Client
}

// NewService creates an outline generation service on top of an LLM client.
func NewService(client llm.Client) *Service {
	return &Service{client: client}
}

// Generate produces an outline for the requested topic. The model reply must
// pass outline schema validation before it is decoded; a reply that fails
// validation surfaces as an APICallError.
func (s *Service) Generate(ctx context.Context, req Request) (*types.Outline, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return nil, &InvalidRequestError{Message: "topic is empty"}
	}
	if req.WordCount < 0 {
		return nil, &InvalidRequestError{Message: "word count must not be negative"}
	}

	language := req.Language
	if language == "" {
		language = DefaultLanguage
	}
	wordCount := req.WordCount
	if wordCount == 0 {
		wordCount = DefaultWordCount
	}
	coverage := req.Coverage
	if coverage == "" {
		coverage = "(none)"
	}

	template, err := prompts.Get("outline.json", "generate")
	if err != nil {
		return nil, &APICallError{Message: "failed to build prompt", Cause: err}
	}
	prompt := prompts.Format(template, map[string]string{
		"Topic":     req.Topic,
		"Language":  language,
		"WordCount": strconv.Itoa(wordCount),
		"Coverage":  coverage,
	})

	// Structured output; the standard tier is enough.
	reply, err := s.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &APICallError{Message: "generation failed", Cause: err}
	}

	if err := schemas.ValidateOutline(reply); err != nil {
		return nil, &APICallError{Message: "model returned an invalid outline", Cause: err}
	}

	var doc types.Outline
	if err := json.Unmarshal([]byte(reply), &doc); err != nil {
		return nil, &APICallError{Message: "failed to decode outline JSON", Cause: err}
	}
	if doc.TotalWordCount == 0 {
		doc.TotalWordCount = wordCount
	}
	return &doc, nil
}

// SummarizeCoverage condenses competitor page headings into a short note
// suitable for the generation prompt. Returns an empty string without a
// model call when the pages carry no headings.
func (s *Service) SummarizeCoverage(ctx context.Context, topic string, pages []research.CompetitorPage) (string, error) {
	var lines []string
	for _, page := range pages {
		for _, h := range page.Headings {
			lines = append(lines, fmt.Sprintf("%s: %s", h.Level, h.Text))
		}
	}
	if len(lines) == 0 {
		return "", nil
	}

	template, err := prompts.Get("outline.json", "coverage_summary")
	if err != nil {
		return "", &APICallError{Message: "failed to build prompt", Cause: err}
	}
	prompt := prompts.Format(template, map[string]string{
		"Heading":  topic,
		"Headings": strings.Join(lines, "\n"),
	})

	// A two-sentence summary is cheap-tier work.
	reply, err := s.client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		return "", &APICallError{Message: "generation failed", Cause: err}
	}
	return llm.CleanProseReply(reply), nil
}
