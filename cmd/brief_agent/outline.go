package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jonathan/brief-studio/internal/observability"
	"github.com/jonathan/brief-studio/internal/outline"
	"github.com/jonathan/brief-studio/internal/schemas"
	"github.com/jonathan/brief-studio/internal/types"
	"github.com/spf13/cobra"
)

var outlineCmd = &cobra.Command{
	Use:   "outline",
	Short: "Edit an outline JSON file",
	Long: `Applies field updates and node removals to an outline JSON file.

Updates use the form PATH:FIELD=VALUE, where PATH is a dot-separated child
index chain ("0.2" is the third child of the first section). Guidelines and
targeted_keywords take |-separated lists. Removals take a bare PATH and drop
the node with its whole subtree.`,
	RunE: runOutline,
}

var (
	outlineInFile   string
	outlineOutFile  string
	outlineSets     []string
	outlineRemovals []string
	outlinePrint    bool
)

func init() {
	outlineCmd.Flags().StringVarP(&outlineInFile, "in", "i", "", "Path to the outline JSON file (required)")
	outlineCmd.Flags().StringVarP(&outlineOutFile, "out", "o", "", "Output path (defaults to editing in place)")
	outlineCmd.Flags().StringArrayVar(&outlineSets, "set", nil, "Field update PATH:FIELD=VALUE (repeatable)")
	outlineCmd.Flags().StringArrayVar(&outlineRemovals, "remove", nil, "Node removal PATH (repeatable)")
	outlineCmd.Flags().BoolVar(&outlinePrint, "print", false, "Print the resulting outline tree")

	if err := outlineCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(outlineCmd)
}

func runOutline(_ *cobra.Command, _ []string) error {
	content, err := os.ReadFile(outlineInFile)
	if err != nil {
		return fmt.Errorf("failed to read outline file: %w", err)
	}

	if err := schemas.ValidateOutline(string(content)); err != nil {
		return fmt.Errorf("input outline is invalid: %w", err)
	}

	var doc types.Outline
	if err := json.Unmarshal(content, &doc); err != nil {
		return fmt.Errorf("failed to unmarshal outline JSON: %w", err)
	}

	if err := applyOutlineEdits(&doc, outlineSets, outlineRemovals); err != nil {
		return err
	}

	// Config file supplies the word-count target for outlines that have none.
	if doc.TotalWordCount == 0 && fileConfig.TotalWordCount > 0 {
		doc.TotalWordCount = fileConfig.TotalWordCount
	}

	jsonBytes, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	// Edits cannot produce an invalid tree, but validate what we write
	// anyway so a corrupt file never leaves this command.
	if err := schemas.ValidateOutline(string(jsonBytes)); err != nil {
		return fmt.Errorf("edited outline is invalid: %w", err)
	}

	outFile := outlineOutFile
	if outFile == "" {
		outFile = outlineInFile
	}
	if err := os.WriteFile(outFile, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	if outlinePrint {
		observability.NewPrinter(os.Stdout).PrintOutline(&doc)
	}

	fmt.Printf("Applied %d updates and %d removals, %d sections remain\n",
		len(outlineSets), len(outlineRemovals), outline.CountNodes(doc.Sections))
	return nil
}

// applyOutlineEdits applies all updates, then all removals, so update paths
// are not invalidated by earlier removals in the same invocation.
func applyOutlineEdits(doc *types.Outline, sets, removals []string) error {
	for _, spec := range sets {
		path, field, value, err := parseSetSpec(spec)
		if err != nil {
			return err
		}
		doc.Sections = outline.UpdateField(doc.Sections, path, field, value)
	}

	for _, key := range removals {
		path, err := outline.ParsePath(key)
		if err != nil {
			return fmt.Errorf("invalid removal path %q: %w", key, err)
		}
		doc.Sections = outline.RemoveNode(doc.Sections, path)
	}

	return nil
}

// parseSetSpec parses PATH:FIELD=VALUE into its typed parts. word_count
// values must be integers; list fields split on "|".
func parseSetSpec(spec string) (outline.Path, string, any, error) {
	pathPart, rest, ok := strings.Cut(spec, ":")
	if !ok {
		return nil, "", nil, fmt.Errorf("invalid --set %q: want PATH:FIELD=VALUE", spec)
	}
	field, raw, ok := strings.Cut(rest, "=")
	if !ok {
		return nil, "", nil, fmt.Errorf("invalid --set %q: want PATH:FIELD=VALUE", spec)
	}

	path, err := outline.ParsePath(pathPart)
	if err != nil {
		return nil, "", nil, fmt.Errorf("invalid --set path %q: %w", pathPart, err)
	}

	switch field {
	case outline.FieldWordCount:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, "", nil, fmt.Errorf("invalid word_count %q: %w", raw, err)
		}
		return path, field, n, nil
	case outline.FieldGuidelines, outline.FieldTargetedKeywords:
		return path, field, strings.Split(raw, "|"), nil
	case outline.FieldLevel, outline.FieldHeading, outline.FieldReasoning,
		outline.FieldCompetitorCoverage, outline.FieldSnippetTarget:
		return path, field, raw, nil
	default:
		return nil, "", nil, fmt.Errorf("unknown outline field %q", field)
	}
}
