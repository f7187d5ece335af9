package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/brief-studio/internal/llm"
	"github.com/jonathan/brief-studio/internal/observability"
	"github.com/jonathan/brief-studio/internal/outline"
	"github.com/jonathan/brief-studio/internal/outlining"
	"github.com/jonathan/brief-studio/internal/research"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate [URL...]",
	Short: "Generate an outline for a topic",
	Long: `Generates a content brief outline for the topic via LLM and writes it as
JSON. Competitor URLs, when given, are fetched first and their heading
coverage is summarized into the generation prompt.`,
	RunE: runGenerate,
}

var (
	generateTopic    string
	generateOutFile  string
	generateLanguage string
	generateWords    int
	generateAPIKey   string
	generatePrint    bool
)

func init() {
	generateCmd.Flags().StringVar(&generateTopic, "topic", "", "Article topic (required)")
	generateCmd.Flags().StringVarP(&generateOutFile, "out", "o", "", "Output path for the outline JSON (required)")
	generateCmd.Flags().StringVar(&generateLanguage, "language", "", "Output language")
	generateCmd.Flags().IntVar(&generateWords, "words", 0, "Total word-count target")
	generateCmd.Flags().StringVar(&generateAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	generateCmd.Flags().BoolVar(&generatePrint, "print", false, "Print the generated outline tree")

	if err := generateCmd.MarkFlagRequired("topic"); err != nil {
		panic(fmt.Sprintf("failed to mark topic flag as required: %v", err))
	}
	if err := generateCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(_ *cobra.Command, args []string) error {
	apiKey := generateAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		apiKey = fileConfig.APIKey
	}
	if apiKey == "" {
		return fmt.Errorf("API key is required (set GEMINI_API_KEY environment variable or use --api-key flag)")
	}

	ctx := context.Background()
	client, err := llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	svc := outlining.NewService(client)

	coverage := ""
	if len(args) > 0 {
		pages, err := research.FetchCoverage(ctx, args, &research.Options{
			UseBrowser: fileConfig.UseBrowser,
			Verbose:    fileConfig.Verbose,
		})
		if err != nil {
			return fmt.Errorf("coverage fetch failed: %w", err)
		}
		coverage, err = svc.SummarizeCoverage(ctx, generateTopic, pages)
		if err != nil {
			return fmt.Errorf("coverage summary failed: %w", err)
		}
	}

	language := generateLanguage
	if language == "" {
		language = fileConfig.Language
	}
	words := generateWords
	if words == 0 {
		words = fileConfig.TotalWordCount
	}

	doc, err := svc.Generate(ctx, outlining.Request{
		Topic:     generateTopic,
		Language:  language,
		WordCount: words,
		Coverage:  coverage,
	})
	if err != nil {
		return err
	}

	jsonBytes, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if err := os.WriteFile(generateOutFile, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write outline file: %w", err)
	}

	if generatePrint {
		observability.NewPrinter(os.Stdout).PrintOutline(doc)
	}

	fmt.Printf("Generated %d sections (%d nodes) for %q\n",
		len(doc.Sections), outline.CountNodes(doc.Sections), generateTopic)
	return nil
}
