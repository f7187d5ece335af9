package rewriting

import (
	"context"
	"strings"

	"github.com/jonathan/brief-studio/internal/llm"
	"github.com/jonathan/brief-studio/internal/prompts"
	"github.com/jonathan/brief-studio/internal/types"
)

// DefaultLanguage is used when a request does not name one.
const DefaultLanguage = "English"

// Service performs selection rewrites through an LLM client.
type Service struct {
	client llm.Client
}

// NewService creates a rewrite service on top of an LLM client.
func NewService(client llm.Client) *Service {
	return &Service{client: client}
}

// Rewrite transforms the selected text per the requested action and returns
// the replacement run. The reply is cleaned of fences and wrapper quotes so
// it can be spliced directly into the document.
func (s *Service) Rewrite(ctx context.Context, req types.RewriteRequest) (string, error) {
	if err := validate(req); err != nil {
		return "", err
	}

	prompt, err := buildPrompt(req)
	if err != nil {
		return "", &APICallError{Message: "failed to build prompt", Cause: err}
	}

	// Rewriting prose needs nuance; always use the advanced tier.
	reply, err := s.client.GenerateContent(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return "", &APICallError{Message: "generation failed", Cause: err}
	}

	cleaned := llm.CleanProseReply(reply)
	if cleaned == "" {
		return "", &APICallError{Message: "model returned an empty reply"}
	}
	return cleaned, nil
}

func validate(req types.RewriteRequest) error {
	if strings.TrimSpace(req.Text) == "" {
		return &InvalidRequestError{Message: "text is empty"}
	}
	if !req.Action.IsValid() {
		return &InvalidRequestError{Message: "unknown action " + string(req.Action)}
	}
	if req.Action.RequiresInstruction() && strings.TrimSpace(req.Instruction) == "" {
		return &InvalidRequestError{Message: "custom action requires an instruction"}
	}
	return nil
}

func buildPrompt(req types.RewriteRequest) (string, error) {
	template, err := prompts.Get("rewrite.json", string(req.Action))
	if err != nil {
		return "", err
	}

	language := req.Language
	if language == "" {
		language = DefaultLanguage
	}

	return prompts.Format(template, map[string]string{
		"Text":        req.Text,
		"Context":     req.Context,
		"Instruction": req.Instruction,
		"Language":    language,
	}), nil
}
