// Package types provides type definitions for structured data used throughout the brief-studio system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// HeadingLevel classifies the nesting depth of an outline section.
type HeadingLevel string

// Heading levels supported by generated outlines.
const (
	LevelH2 HeadingLevel = "H2"
	LevelH3 HeadingLevel = "H3"
	LevelH4 HeadingLevel = "H4"
)

// IsValid reports whether the level is one of the supported heading levels.
func (l HeadingLevel) IsValid() bool {
	switch l {
	case LevelH2, LevelH3, LevelH4:
		return true
	}
	return false
}

// OutlineNode represents a single section of a content brief outline.
// Children are owned exclusively by their parent; removing a node removes
// its whole subtree.
type OutlineNode struct {
	Level      HeadingLevel `json:"level"`
	Heading    string       `json:"heading"`
	Guidelines []string     `json:"guidelines,omitempty"`
	Reasoning  string       `json:"reasoning,omitempty"`
	Children   []OutlineNode `json:"children,omitempty"`

	// Enrichment metadata attached by research; leaf-level only,
	// not structurally recursive.
	TargetedKeywords   []string `json:"targeted_keywords,omitempty"`
	CompetitorCoverage string   `json:"competitor_coverage,omitempty"`
	SnippetTarget      string   `json:"snippet_target,omitempty"`
	WordCount          int      `json:"word_count,omitempty"`
}

// Outline is the root of a brief outline. The root is an ordered sequence of
// sections, not a single node. TotalWordCount is a field on the container and
// is edited without a path.
type Outline struct {
	Sections       []OutlineNode `json:"sections"`
	TotalWordCount int           `json:"total_word_count,omitempty"`
}
