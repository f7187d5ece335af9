package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/brief-studio/internal/llm"
	"github.com/jonathan/brief-studio/internal/rewriting"
	"github.com/jonathan/brief-studio/internal/selection"
	"github.com/jonathan/brief-studio/internal/types"
	"github.com/spf13/cobra"
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite",
	Short: "Rewrite a selected range of a text file",
	Long:  "Rewrites the rune range [start, end) of the input file with the chosen action and writes the document back with the replacement spliced in.",
	RunE:  runRewrite,
}

var (
	rewriteInFile      string
	rewriteOutFile     string
	rewriteStart       int
	rewriteEnd         int
	rewriteAction      string
	rewriteInstruction string
	rewriteContext     string
	rewriteLanguage    string
	rewriteAPIKey      string
)

func init() {
	rewriteCmd.Flags().StringVarP(&rewriteInFile, "in", "i", "", "Path to the text file to edit (required)")
	rewriteCmd.Flags().StringVarP(&rewriteOutFile, "out", "o", "", "Output path (defaults to editing in place)")
	rewriteCmd.Flags().IntVar(&rewriteStart, "start", 0, "Selection start, in runes (required)")
	rewriteCmd.Flags().IntVar(&rewriteEnd, "end", 0, "Selection end, exclusive, in runes (required)")
	rewriteCmd.Flags().StringVarP(&rewriteAction, "action", "a", "rewrite", "Rewrite action: rewrite, expand, shorten, or custom")
	rewriteCmd.Flags().StringVar(&rewriteInstruction, "instruction", "", "Free-text instruction (required for custom)")
	rewriteCmd.Flags().StringVar(&rewriteContext, "context", "", "Explicit context window (defaults to text around the selection)")
	rewriteCmd.Flags().StringVar(&rewriteLanguage, "language", "", "Output language")
	rewriteCmd.Flags().StringVar(&rewriteAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")

	if err := rewriteCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}
	if err := rewriteCmd.MarkFlagRequired("start"); err != nil {
		panic(fmt.Sprintf("failed to mark start flag as required: %v", err))
	}
	if err := rewriteCmd.MarkFlagRequired("end"); err != nil {
		panic(fmt.Sprintf("failed to mark end flag as required: %v", err))
	}

	rootCmd.AddCommand(rewriteCmd)
}

// rewriteBackend is the slice of the rewrite service the command uses.
type rewriteBackend interface {
	Rewrite(ctx context.Context, req types.RewriteRequest) (string, error)
}

func runRewrite(_ *cobra.Command, _ []string) error {
	content, err := os.ReadFile(rewriteInFile)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	apiKey := rewriteAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		apiKey = fileConfig.APIKey
	}
	if apiKey == "" {
		return fmt.Errorf("API key is required (set GEMINI_API_KEY environment variable or use --api-key flag)")
	}

	language := rewriteLanguage
	if language == "" {
		language = fileConfig.Language
	}

	ctx := context.Background()
	client, err := llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}

	result, replacement, err := rewriteDocument(ctx, rewriting.NewService(client), string(content),
		types.OffsetRange{Start: rewriteStart, End: rewriteEnd},
		types.RewriteAction(rewriteAction), rewriteInstruction, rewriteContext, language)
	if err != nil {
		return err
	}

	outFile := rewriteOutFile
	if outFile == "" {
		outFile = rewriteInFile
	}
	if err := os.WriteFile(outFile, []byte(result), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	fmt.Printf("Replaced %d runes with:\n%s\n", rewriteEnd-rewriteStart, replacement)
	return nil
}

// rewriteDocument validates the selection, runs the rewrite, and returns the
// spliced document along with the bare replacement.
func rewriteDocument(ctx context.Context, backend rewriteBackend, doc string, rng types.OffsetRange,
	action types.RewriteAction, instruction, ctxWindow, language string) (string, string, error) {

	if !action.IsValid() {
		return "", "", fmt.Errorf("unknown rewrite action %q", action)
	}
	if action.RequiresInstruction() && strings.TrimSpace(instruction) == "" {
		return "", "", fmt.Errorf("--instruction is required for custom rewrites")
	}

	docLen := len([]rune(doc))
	if rng.Start < 0 || rng.End > docLen || rng.Start >= rng.End {
		return "", "", fmt.Errorf("invalid selection range [%d, %d) for a %d-rune document", rng.Start, rng.End, docLen)
	}

	selected := selection.Excerpt(doc, rng)
	if len([]rune(strings.TrimSpace(selected))) < selection.MinSelectionRunes {
		return "", "", fmt.Errorf("selection is too short to rewrite (minimum %d runes)", selection.MinSelectionRunes)
	}

	if ctxWindow == "" {
		ctxWindow = selection.ContextWindow(doc, rng)
	}

	replacement, err := backend.Rewrite(ctx, types.RewriteRequest{
		Text:        selected,
		Action:      action,
		Context:     ctxWindow,
		Instruction: strings.TrimSpace(instruction),
		Language:    language,
	})
	if err != nil {
		return "", "", fmt.Errorf("rewrite failed: %w", err)
	}

	return selection.Apply(doc, rng, replacement), replacement, nil
}
