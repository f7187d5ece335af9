// Package research gathers competitor coverage for brief outlines: it fetches
// competitor article pages, extracts their heading structure, and annotates
// outline sections with how widely each topic is covered.
package research

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/brief-studio/internal/fetch"
	"github.com/jonathan/brief-studio/internal/outline"
	"github.com/jonathan/brief-studio/internal/types"
)

// maxConcurrentFetches bounds parallel competitor page fetches.
const maxConcurrentFetches = 4

// Options configures coverage fetching. The zero value fetches with plain
// HTTP and default timeouts.
type Options struct {
	Fetch *fetch.Options

	// UseBrowser enables headless rendering for pages whose extracted text
	// is too thin, which usually means a script-rendered page.
	UseBrowser bool
	Verbose    bool
}

// Heading is one heading extracted from a competitor page.
type Heading struct {
	Level string `json:"level"` // "h1".."h4"
	Text  string `json:"text"`
}

// CompetitorPage is the heading structure of one fetched competitor article.
type CompetitorPage struct {
	URL      string    `json:"url"`
	Title    string    `json:"title,omitempty"`
	Headings []Heading `json:"headings"`
}

// PageError represents a failure processing one competitor page.
type PageError struct {
	URL     string
	Message string
	Cause   error
}

func (e *PageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("research error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("research error for %s: %s", e.URL, e.Message)
}

func (e *PageError) Unwrap() error {
	return e.Cause
}

// ExtractHeadings parses HTML and returns h1–h4 headings in document order.
func ExtractHeadings(html string) ([]Heading, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var headings []Heading
	doc.Find("h1, h2, h3, h4").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		headings = append(headings, Heading{
			Level: goquery.NodeName(s),
			Text:  text,
		})
	})

	return headings, nil
}

// extractTitle returns the page title, trimmed.
func extractTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// FetchCoverage fetches each competitor URL concurrently and extracts its
// heading structure. Pages that fail to fetch or parse are skipped with a
// log line; the result keeps the order of the input URLs. An error is
// returned only when the context is canceled.
func FetchCoverage(ctx context.Context, urls []string, opts *Options) ([]CompetitorPage, error) {
	if opts == nil {
		opts = &Options{}
	}

	pages := make([]*CompetitorPage, len(urls))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	for i, pageURL := range urls {
		g.Go(func() error {
			result, err := fetch.URL(ctx, pageURL, opts.Fetch)
			if err != nil {
				log.Printf("[RESEARCH] skipping %s: %v", pageURL, err)
				return ctx.Err()
			}

			html := result.HTML
			if opts.UseBrowser {
				html = renderIfThin(ctx, pageURL, html, opts.Verbose)
			}

			headings, err := ExtractHeadings(html)
			if err != nil {
				log.Printf("[RESEARCH] skipping %s: %v", pageURL, err)
				return ctx.Err()
			}

			mu.Lock()
			pages[i] = &CompetitorPage{
				URL:      pageURL,
				Title:    extractTitle(html),
				Headings: headings,
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []CompetitorPage
	for _, page := range pages {
		if page != nil {
			out = append(out, *page)
		}
	}
	return out, nil
}

// renderIfThin re-fetches a page through the headless browser when its
// extracted text looks script-rendered. On any rendering failure the plain
// HTML is kept.
func renderIfThin(ctx context.Context, pageURL, html string, verbose bool) string {
	text, err := fetch.ExtractMainText(html, fetch.ArticleSelectors())
	if err != nil || !fetch.ShouldUseBrowser(text) {
		return html
	}

	rendered, err := fetch.WithBrowser(ctx, pageURL, fetch.DefaultTimeout, verbose)
	if err != nil {
		log.Printf("[RESEARCH] browser rendering failed for %s, keeping plain HTML: %v", pageURL, err)
		return html
	}
	return rendered
}

// AnnotateOutline returns a copy of sections with each node's
// CompetitorCoverage field set from the fetched pages. The input tree is
// never modified.
func AnnotateOutline(sections []types.OutlineNode, pages []CompetitorPage) []types.OutlineNode {
	annotated := outline.Clone(sections)
	var walk func(nodes []types.OutlineNode)
	walk = func(nodes []types.OutlineNode) {
		for i := range nodes {
			nodes[i].CompetitorCoverage = CoverageNote(nodes[i].Heading, pages)
			walk(nodes[i].Children)
		}
	}
	walk(annotated)
	return annotated
}

// CoverageNote summarizes how many competitor pages cover a heading, naming
// the closest competitor headings. Matching is keyword overlap, case-folded.
func CoverageNote(heading string, pages []CompetitorPage) string {
	if len(pages) == 0 {
		return ""
	}

	keywords := significantWords(heading)
	if len(keywords) == 0 {
		return ""
	}

	covered := 0
	var examples []string
	for _, page := range pages {
		best := ""
		for _, h := range page.Headings {
			if overlaps(keywords, significantWords(h.Text)) {
				best = h.Text
				break
			}
		}
		if best != "" {
			covered++
			examples = append(examples, best)
		}
	}

	if covered == 0 {
		return fmt.Sprintf("0/%d competitors cover this", len(pages))
	}

	sort.Strings(examples)
	examples = dedupe(examples)
	if len(examples) > 3 {
		examples = examples[:3]
	}
	return fmt.Sprintf("%d/%d competitors cover this (e.g. %s)",
		covered, len(pages), strings.Join(examples, "; "))
}

// stopwords excluded from heading keyword matching.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "for": true,
	"how": true, "in": true, "is": true, "of": true, "on": true,
	"the": true, "to": true, "what": true, "why": true, "with": true,
	"your": true,
}

func significantWords(text string) map[string]bool {
	words := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,:;!?()\"'")
		if len(word) < 3 || stopwords[word] {
			continue
		}
		words[word] = true
	}
	return words
}

func overlaps(a, b map[string]bool) bool {
	for word := range a {
		if b[word] {
			return true
		}
	}
	return false
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}
