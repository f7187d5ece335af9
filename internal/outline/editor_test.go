package outline

import (
	"testing"

	"github.com/jonathan/brief-studio/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleTree builds a three-level outline used across tests:
//
//	[0] H2 "Intro"
//	[1] H2 "Body"
//	      [1,0] H3 "Details"
//	              [1,0,0] H4 "Edge cases"
//	      [1,1] H3 "Examples"
//	[2] H2 "Conclusion"
func sampleTree() []types.OutlineNode {
	return []types.OutlineNode{
		{Level: types.LevelH2, Heading: "Intro", Guidelines: []string{"Hook the reader"}},
		{
			Level:   types.LevelH2,
			Heading: "Body",
			Children: []types.OutlineNode{
				{
					Level:   types.LevelH3,
					Heading: "Details",
					Children: []types.OutlineNode{
						{Level: types.LevelH4, Heading: "Edge cases", WordCount: 120},
					},
				},
				{Level: types.LevelH3, Heading: "Examples", TargetedKeywords: []string{"how to"}},
			},
		},
		{Level: types.LevelH2, Heading: "Conclusion"},
	}
}

func TestUpdateFieldRootNode(t *testing.T) {
	tree := []types.OutlineNode{
		{
			Level:   types.LevelH2,
			Heading: "A",
			Children: []types.OutlineNode{
				{Level: types.LevelH3, Heading: "B"},
			},
		},
	}

	updated := UpdateField(tree, Path{0}, FieldHeading, "New Title")

	assert.Equal(t, "New Title", updated[0].Heading)
	require.Len(t, updated[0].Children, 1)
	assert.Equal(t, "B", updated[0].Children[0].Heading)
	// Original tree untouched.
	assert.Equal(t, "A", tree[0].Heading)
}

func TestUpdateFieldNestedNodeLeavesSiblingsUnchanged(t *testing.T) {
	tree := sampleTree()

	updated := UpdateField(tree, Path{1, 0}, FieldHeading, "More Details")

	assert.Equal(t, "More Details", updated[1].Children[0].Heading)
	// Everything outside the edited node is structurally identical.
	assert.Equal(t, tree[0], updated[0])
	assert.Equal(t, tree[2], updated[2])
	assert.Equal(t, tree[1].Children[1], updated[1].Children[1])
	assert.Equal(t, tree[1].Children[0].Children, updated[1].Children[0].Children)
}

func TestUpdateFieldEveryFieldKind(t *testing.T) {
	tests := []struct {
		name   string
		field  string
		value  any
		verify func(t *testing.T, node types.OutlineNode)
	}{
		{
			name:  "level as string",
			field: FieldLevel,
			value: "H3",
			verify: func(t *testing.T, node types.OutlineNode) {
				assert.Equal(t, types.LevelH3, node.Level)
			},
		},
		{
			name:  "guidelines as string slice",
			field: FieldGuidelines,
			value: []string{"one", "two"},
			verify: func(t *testing.T, node types.OutlineNode) {
				assert.Equal(t, []string{"one", "two"}, node.Guidelines)
			},
		},
		{
			name:  "guidelines as decoded JSON array",
			field: FieldGuidelines,
			value: []any{"one", "two"},
			verify: func(t *testing.T, node types.OutlineNode) {
				assert.Equal(t, []string{"one", "two"}, node.Guidelines)
			},
		},
		{
			name:  "reasoning",
			field: FieldReasoning,
			value: "ranked pages all cover this",
			verify: func(t *testing.T, node types.OutlineNode) {
				assert.Equal(t, "ranked pages all cover this", node.Reasoning)
			},
		},
		{
			name:  "targeted keywords",
			field: FieldTargetedKeywords,
			value: []string{"crawl budget"},
			verify: func(t *testing.T, node types.OutlineNode) {
				assert.Equal(t, []string{"crawl budget"}, node.TargetedKeywords)
			},
		},
		{
			name:  "snippet target",
			field: FieldSnippetTarget,
			value: "paragraph",
			verify: func(t *testing.T, node types.OutlineNode) {
				assert.Equal(t, "paragraph", node.SnippetTarget)
			},
		},
		{
			name:  "word count as int",
			field: FieldWordCount,
			value: 300,
			verify: func(t *testing.T, node types.OutlineNode) {
				assert.Equal(t, 300, node.WordCount)
			},
		},
		{
			name:  "word count as decoded JSON number",
			field: FieldWordCount,
			value: float64(300),
			verify: func(t *testing.T, node types.OutlineNode) {
				assert.Equal(t, 300, node.WordCount)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated := UpdateField(sampleTree(), Path{0}, tt.field, tt.value)
			tt.verify(t, updated[0])
		})
	}
}

func TestUpdateFieldStalePathIsNoOp(t *testing.T) {
	tree := sampleTree()

	tests := []struct {
		name string
		path Path
	}{
		{"root index out of bounds", Path{3}},
		{"child index out of bounds", Path{1, 5}},
		{"descends through leaf", Path{0, 0}},
		{"empty path", Path{}},
		{"negative index", Path{-1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated := UpdateField(tree, tt.path, FieldHeading, "changed")
			assert.Equal(t, tree, updated)
		})
	}
}

func TestUpdateFieldUnknownFieldIsNoOp(t *testing.T) {
	tree := sampleTree()
	updated := UpdateField(tree, Path{0}, "color", "red")
	assert.Equal(t, tree, updated)
}

func TestUpdateFieldInvalidLevelIsNoOp(t *testing.T) {
	tree := sampleTree()
	updated := UpdateField(tree, Path{0}, FieldLevel, "H9")
	assert.Equal(t, tree, updated)
}

func TestRemoveNodeLeaf(t *testing.T) {
	tree := []types.OutlineNode{
		{
			Level:   types.LevelH2,
			Heading: "A",
			Children: []types.OutlineNode{
				{Level: types.LevelH3, Heading: "B"},
			},
		},
	}

	updated := RemoveNode(tree, Path{0, 0})

	require.Len(t, updated, 1)
	assert.Equal(t, "A", updated[0].Heading)
	assert.Empty(t, updated[0].Children)
	// Original keeps its child.
	require.Len(t, tree[0].Children, 1)
}

func TestRemoveNodeTakesSubtreeAndShiftsSiblings(t *testing.T) {
	tree := sampleTree()
	before := CountNodes(tree)
	removedSubtree := 1 + CountNodes(tree[1].Children[0].Children)

	updated := RemoveNode(tree, Path{1, 0})

	assert.Equal(t, before-removedSubtree, CountNodes(updated))
	// "Examples" shifted into index 0 with its fields intact.
	require.Len(t, updated[1].Children, 1)
	assert.Equal(t, "Examples", updated[1].Children[0].Heading)
	assert.Equal(t, []string{"how to"}, updated[1].Children[0].TargetedKeywords)
}

func TestRemoveNodeRootLevel(t *testing.T) {
	tree := sampleTree()

	updated := RemoveNode(tree, Path{0})

	require.Len(t, updated, 2)
	assert.Equal(t, "Body", updated[0].Heading)
	assert.Equal(t, "Conclusion", updated[1].Heading)
}

func TestRemoveNodeStalePathIsNoOp(t *testing.T) {
	tree := sampleTree()

	for _, path := range []Path{{5}, {1, 9}, {0, 0, 0}, {}, {-1}} {
		updated := RemoveNode(tree, path)
		assert.Equal(t, tree, updated, "path %v", path)
	}
}

func TestAllPathsDepthFirstOrder(t *testing.T) {
	paths := AllPaths(sampleTree())

	expected := []Path{
		{0},
		{1},
		{1, 0},
		{1, 0, 0},
		{1, 1},
		{2},
	}
	assert.Equal(t, expected, paths)
}

func TestAllPathsAfterRemove(t *testing.T) {
	tree := sampleTree()
	updated := RemoveNode(tree, Path{1, 0})

	paths := AllPaths(updated)

	// The removed path's subtree is gone; unaffected prefixes survive.
	expected := []Path{
		{0},
		{1},
		{1, 0},
		{2},
	}
	assert.Equal(t, expected, paths)
}

func TestAllPathsEmptyTree(t *testing.T) {
	assert.Empty(t, AllPaths(nil))
}

func TestCloneIsDeep(t *testing.T) {
	tree := sampleTree()
	copied := Clone(tree)

	copied[1].Children[0].Heading = "mutated"
	copied[0].Guidelines[0] = "mutated"

	assert.Equal(t, "Details", tree[1].Children[0].Heading)
	assert.Equal(t, "Hook the reader", tree[0].Guidelines[0])
}

func TestPathKeyRoundTrip(t *testing.T) {
	path := Path{1, 0, 3}
	assert.Equal(t, "1.0.3", path.Key())

	parsed, err := ParsePath("1.0.3")
	require.NoError(t, err)
	assert.Equal(t, path, parsed)

	_, err = ParsePath("")
	assert.Error(t, err)
	_, err = ParsePath("1.x.3")
	assert.Error(t, err)
	_, err = ParsePath("1.-2")
	assert.Error(t, err)
}
