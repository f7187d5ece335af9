package outline

import "github.com/jonathan/brief-studio/internal/types"

// ExpandState tracks which outline nodes are expanded in the editor UI,
// keyed by path key. It is independent of the tree data: keys are not
// renumbered when the tree mutates, so state captured against a removed
// sibling's neighbors can drift (documented limitation, matches the
// positional-path addressing model).
type ExpandState struct {
	expanded map[string]bool
}

// NewExpandState returns an empty expand state (everything collapsed).
func NewExpandState() *ExpandState {
	return &ExpandState{expanded: make(map[string]bool)}
}

// IsExpanded reports whether the node at path is expanded.
func (s *ExpandState) IsExpanded(path Path) bool {
	return s.expanded[path.Key()]
}

// Toggle flips the expanded state of the node at path.
func (s *ExpandState) Toggle(path Path) {
	key := path.Key()
	if s.expanded[key] {
		delete(s.expanded, key)
	} else {
		s.expanded[key] = true
	}
}

// ExpandAll marks every path currently present in the tree as expanded.
func (s *ExpandState) ExpandAll(sections []types.OutlineNode) {
	for _, path := range AllPaths(sections) {
		s.expanded[path.Key()] = true
	}
}

// CollapseAll clears all expand state.
func (s *ExpandState) CollapseAll() {
	s.expanded = make(map[string]bool)
}

// Len returns the number of expanded paths.
func (s *ExpandState) Len() int {
	return len(s.expanded)
}
