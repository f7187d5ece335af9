package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/brief-studio/internal/observability"
	"github.com/jonathan/brief-studio/internal/research"
	"github.com/jonathan/brief-studio/internal/types"
	"github.com/spf13/cobra"
)

var researchCmd = &cobra.Command{
	Use:   "research URL [URL...]",
	Short: "Fetch competitor heading coverage",
	Long:  "Fetches the given competitor URLs, extracts their heading structure, and prints the coverage. With --outline, annotates each outline section with a competitor coverage note and writes the outline back.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runResearch,
}

var (
	researchOutlineFile string
)

func init() {
	researchCmd.Flags().StringVar(&researchOutlineFile, "outline", "", "Outline JSON file to annotate with coverage notes")
	rootCmd.AddCommand(researchCmd)
}

func runResearch(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	urls := args
	if fileConfig.MaxCoverage > 0 && len(urls) > fileConfig.MaxCoverage {
		fmt.Printf("Limiting coverage to the first %d of %d URLs\n", fileConfig.MaxCoverage, len(urls))
		urls = urls[:fileConfig.MaxCoverage]
	}

	pages, err := research.FetchCoverage(ctx, urls, &research.Options{
		UseBrowser: fileConfig.UseBrowser,
		Verbose:    fileConfig.Verbose,
	})
	if err != nil {
		return fmt.Errorf("coverage fetch failed: %w", err)
	}
	if len(pages) == 0 {
		return fmt.Errorf("none of the %d URLs could be fetched", len(urls))
	}

	observability.NewPrinter(os.Stdout).PrintCoverage(pages)

	if researchOutlineFile == "" {
		return nil
	}

	content, err := os.ReadFile(researchOutlineFile)
	if err != nil {
		return fmt.Errorf("failed to read outline file: %w", err)
	}

	var doc types.Outline
	if err := json.Unmarshal(content, &doc); err != nil {
		return fmt.Errorf("failed to unmarshal outline JSON: %w", err)
	}

	doc.Sections = research.AnnotateOutline(doc.Sections, pages)

	jsonBytes, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if err := os.WriteFile(researchOutlineFile, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write outline file: %w", err)
	}

	fmt.Printf("Annotated %s with coverage from %d pages\n", researchOutlineFile, len(pages))
	return nil
}
