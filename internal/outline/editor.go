// Package outline implements path-addressed editing of brief outline trees.
//
// Nodes are addressed by paths: zero-based child indices descending from the
// root section sequence. Paths are positional, not stable identifiers — a
// removal reindexes later siblings, so a path captured before a structural
// mutation may point at a different node (or out of bounds) afterwards.
// Mutations therefore treat out-of-bounds paths as silent no-ops rather than
// errors: a stale path indicates a UI race, not a user-correctable condition.
package outline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/brief-studio/internal/types"
)

// Path locates a node within the nested sections sequence.
type Path []int

// Key returns the canonical string form of the path ("0.2.1"), used to key
// expand/collapse state.
func (p Path) Key() string {
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ".")
}

// ParsePath parses a dot-separated path key back into a Path.
func ParsePath(key string) (Path, error) {
	if key == "" {
		return nil, fmt.Errorf("empty path key")
	}
	parts := strings.Split(key, ".")
	path := make(Path, 0, len(parts))
	for _, part := range parts {
		idx, err := strconv.Atoi(part)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("invalid path segment %q", part)
		}
		path = append(path, idx)
	}
	return path, nil
}

// Field names accepted by UpdateField. These match the JSON field names of
// types.OutlineNode.
const (
	FieldLevel              = "level"
	FieldHeading            = "heading"
	FieldGuidelines         = "guidelines"
	FieldReasoning          = "reasoning"
	FieldTargetedKeywords   = "targeted_keywords"
	FieldCompetitorCoverage = "competitor_coverage"
	FieldSnippetTarget      = "snippet_target"
	FieldWordCount          = "word_count"
)

// Clone returns a deep copy of the sections sequence. Every mutation operates
// on a fresh copy so any holder of the previous version keeps a valid tree.
func Clone(sections []types.OutlineNode) []types.OutlineNode {
	if sections == nil {
		return nil
	}
	out := make([]types.OutlineNode, len(sections))
	for i, node := range sections {
		out[i] = cloneNode(node)
	}
	return out
}

func cloneNode(node types.OutlineNode) types.OutlineNode {
	copied := node
	if node.Guidelines != nil {
		copied.Guidelines = append([]string(nil), node.Guidelines...)
	}
	if node.TargetedKeywords != nil {
		copied.TargetedKeywords = append([]string(nil), node.TargetedKeywords...)
	}
	copied.Children = Clone(node.Children)
	return copied
}

// UpdateField returns a copy of sections with the named field replaced on the
// node at path. The input is never modified. A stale path (any index out of
// bounds) or an unknown field/value type leaves the copy identical to the
// input.
func UpdateField(sections []types.OutlineNode, path Path, field string, value any) []types.OutlineNode {
	updated := Clone(sections)
	node := nodeAt(updated, path)
	if node == nil {
		return updated
	}
	setField(node, field, value)
	return updated
}

// RemoveNode returns a copy of sections with the node at path deleted along
// with its entire subtree. Later siblings shift left by one. A stale path
// leaves the copy identical to the input.
func RemoveNode(sections []types.OutlineNode, path Path) []types.OutlineNode {
	updated := Clone(sections)
	if len(path) == 0 {
		return updated
	}

	last := path[len(path)-1]
	if len(path) == 1 {
		if last < 0 || last >= len(updated) {
			return updated
		}
		return append(updated[:last], updated[last+1:]...)
	}

	parent := nodeAt(updated, path[:len(path)-1])
	if parent == nil || last < 0 || last >= len(parent.Children) {
		return updated
	}
	parent.Children = append(parent.Children[:last], parent.Children[last+1:]...)
	return updated
}

// AllPaths returns every valid path in the tree in depth-first order, parents
// before children, siblings in sequence order.
func AllPaths(sections []types.OutlineNode) []Path {
	var paths []Path
	var walk func(nodes []types.OutlineNode, prefix Path)
	walk = func(nodes []types.OutlineNode, prefix Path) {
		for i, node := range nodes {
			path := append(append(Path(nil), prefix...), i)
			paths = append(paths, path)
			walk(node.Children, path)
		}
	}
	walk(sections, nil)
	return paths
}

// CountNodes returns the total number of nodes in the tree.
func CountNodes(sections []types.OutlineNode) int {
	count := 0
	for _, node := range sections {
		count += 1 + CountNodes(node.Children)
	}
	return count
}

// nodeAt resolves a path to a node pointer within sections, or nil if any
// index is out of bounds.
func nodeAt(sections []types.OutlineNode, path Path) *types.OutlineNode {
	if len(path) == 0 {
		return nil
	}
	nodes := sections
	var node *types.OutlineNode
	for _, idx := range path {
		if idx < 0 || idx >= len(nodes) {
			return nil
		}
		node = &nodes[idx]
		nodes = node.Children
	}
	return node
}

// setField replaces a single field on node. Unknown fields and mismatched
// value types are ignored.
func setField(node *types.OutlineNode, field string, value any) {
	switch field {
	case FieldLevel:
		if v, ok := value.(string); ok && types.HeadingLevel(v).IsValid() {
			node.Level = types.HeadingLevel(v)
		} else if v, ok := value.(types.HeadingLevel); ok && v.IsValid() {
			node.Level = v
		}
	case FieldHeading:
		if v, ok := value.(string); ok {
			node.Heading = v
		}
	case FieldGuidelines:
		if v, ok := toStringSlice(value); ok {
			node.Guidelines = v
		}
	case FieldReasoning:
		if v, ok := value.(string); ok {
			node.Reasoning = v
		}
	case FieldTargetedKeywords:
		if v, ok := toStringSlice(value); ok {
			node.TargetedKeywords = v
		}
	case FieldCompetitorCoverage:
		if v, ok := value.(string); ok {
			node.CompetitorCoverage = v
		}
	case FieldSnippetTarget:
		if v, ok := value.(string); ok {
			node.SnippetTarget = v
		}
	case FieldWordCount:
		switch v := value.(type) {
		case int:
			node.WordCount = v
		case float64:
			// JSON numbers decode as float64.
			node.WordCount = int(v)
		}
	}
}

// toStringSlice accepts either []string or []any of strings (the shape JSON
// decoding produces).
func toStringSlice(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return append([]string(nil), v...), true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}
