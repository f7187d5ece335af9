// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/brief-studio/internal/research"
	"github.com/jonathan/brief-studio/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxGuidelinesToShow is the number of guidelines displayed per section
	maxGuidelinesToShow = 3
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintOutline outputs a human-readable summary of an outline tree.
func (p *Printer) PrintOutline(outline *types.Outline) {
	if outline == nil || len(outline.Sections) == 0 {
		return
	}

	var sb strings.Builder
	if outline.TotalWordCount > 0 {
		sb.WriteString(fmt.Sprintf("Target words: %d\n\n", outline.TotalWordCount))
	}
	writeSections(&sb, outline.Sections, 0)

	p.printBox("OUTLINE", strings.TrimSuffix(sb.String(), "\n"))
}

func writeSections(sb *strings.Builder, sections []types.OutlineNode, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, section := range sections {
		sb.WriteString(fmt.Sprintf("%s%s %s", indent, section.Level, section.Heading))
		if section.WordCount > 0 {
			sb.WriteString(fmt.Sprintf(" (~%dw)", section.WordCount))
		}
		sb.WriteString("\n")

		count := min(len(section.Guidelines), maxGuidelinesToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("%s  • %s\n", indent, section.Guidelines[i]))
		}
		if len(section.Guidelines) > maxGuidelinesToShow {
			sb.WriteString(fmt.Sprintf("%s  ... and %d more\n", indent, len(section.Guidelines)-maxGuidelinesToShow))
		}

		writeSections(sb, section.Children, depth+1)
	}
}

// PrintCoverage outputs the heading structure fetched from competitor pages.
func (p *Printer) PrintCoverage(pages []research.CompetitorPage) {
	if len(pages) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Pages analyzed: %d\n", len(pages)))

	for _, page := range pages {
		sb.WriteString("\n")
		title := page.Title
		if title == "" {
			title = page.URL
		}
		sb.WriteString(fmt.Sprintf("%s\n", title))
		count := min(len(page.Headings), 5)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  %s %s\n", page.Headings[i].Level, page.Headings[i].Text))
		}
		if len(page.Headings) > 5 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(page.Headings)-5))
		}
	}

	p.printBox("COMPETITOR COVERAGE", strings.TrimSuffix(sb.String(), "\n"))
}
