package outline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandStateToggle(t *testing.T) {
	state := NewExpandState()
	path := Path{1, 0}

	assert.False(t, state.IsExpanded(path))

	state.Toggle(path)
	assert.True(t, state.IsExpanded(path))

	state.Toggle(path)
	assert.False(t, state.IsExpanded(path))
	assert.Zero(t, state.Len())
}

func TestExpandAllAndCollapseAll(t *testing.T) {
	state := NewExpandState()
	tree := sampleTree()

	state.ExpandAll(tree)
	assert.Equal(t, CountNodes(tree), state.Len())
	for _, path := range AllPaths(tree) {
		assert.True(t, state.IsExpanded(path), "path %v", path)
	}

	state.CollapseAll()
	assert.Zero(t, state.Len())
	assert.False(t, state.IsExpanded(Path{0}))
}

func TestExpandStateSurvivesTreeMutation(t *testing.T) {
	// Keys are positional and intentionally not renumbered on removal.
	state := NewExpandState()
	tree := sampleTree()
	state.Toggle(Path{2})

	updated := RemoveNode(tree, Path{0})

	// The old key still reads as expanded even though index 2 no longer
	// exists in the mutated tree.
	assert.True(t, state.IsExpanded(Path{2}))
	assert.Len(t, AllPaths(updated), CountNodes(updated))
}
