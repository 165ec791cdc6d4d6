package epub

import (
	"testing"
)

// maxDepth returns the deepest nesting of the forest, counting roots as 1.
func maxDepth(forest []*Node) int {
	depth := 0
	for _, n := range forest {
		d := 1 + maxDepth(n.Children)
		if d > depth {
			depth = d
		}
	}
	return depth
}

func heads(levels ...int) []Heading {
	hs := make([]Heading, len(levels))
	for i, l := range levels {
		hs[i] = Heading{Document: "doc", Text: "t", Level: l}
	}
	return hs
}

func TestBuildTOC_Depth(t *testing.T) {
	tests := []struct {
		name      string
		levels    []int
		wantDepth int
		wantRoots int
	}{
		{
			name:      "single heading",
			levels:    []int{1},
			wantDepth: 1,
			wantRoots: 1,
		},
		{
			name:      "simple nesting",
			levels:    []int{1, 2},
			wantDepth: 2,
			wantRoots: 1,
		},
		{
			name:      "relative levels not raw levels",
			levels:    []int{2, 3, 2, 4},
			wantDepth: 3,
			wantRoots: 2,
		},
		{
			name:      "h2 h3 only nest as depth one and two",
			levels:    []int{2, 3, 3},
			wantDepth: 2,
			wantRoots: 1,
		},
		{
			name:      "same level are siblings",
			levels:    []int{1, 1, 1},
			wantDepth: 1,
			wantRoots: 3,
		},
		{
			name:      "gap is bridged by placeholder",
			levels:    []int{1, 3},
			wantDepth: 3,
			wantRoots: 1,
		},
		{
			name:      "shallower heading starts new top-level entry",
			levels:    []int{3, 2, 3},
			wantDepth: 2,
			wantRoots: 2,
		},
		{
			name:      "empty input",
			levels:    nil,
			wantDepth: 0,
			wantRoots: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forest := BuildTOC(heads(tt.levels...))
			if got := maxDepth(forest); got != tt.wantDepth {
				t.Errorf("maxDepth = %d, want %d", got, tt.wantDepth)
			}
			if got := len(forest); got != tt.wantRoots {
				t.Errorf("len(forest) = %d, want %d", got, tt.wantRoots)
			}
		})
	}
}

func TestBuildTOC_Placeholder(t *testing.T) {
	forest := BuildTOC(heads(1, 3))
	if len(forest) != 1 {
		t.Fatalf("got %d roots, want 1", len(forest))
	}
	root := forest[0]
	if len(root.Children) != 1 {
		t.Fatalf("root has %d children, want 1", len(root.Children))
	}
	gap := root.Children[0]
	if !gap.Placeholder {
		t.Errorf("bridge node Placeholder = false, want true")
	}
	if gap.Text != "" || gap.AnchorID != "" {
		t.Errorf("bridge node carries text %q anchor %q, want empty", gap.Text, gap.AnchorID)
	}
	if gap.Level != 2 {
		t.Errorf("bridge node Level = %d, want 2", gap.Level)
	}
	if len(gap.Children) != 1 || gap.Children[0].Level != 3 {
		t.Fatalf("bridge node does not hold the level-3 heading")
	}
}

func TestBuildTOC_SiblingsUnderSameParent(t *testing.T) {
	forest := BuildTOC(heads(2, 3, 4, 3))
	if len(forest) != 1 {
		t.Fatalf("got %d roots, want 1", len(forest))
	}
	root := forest[0]
	if len(root.Children) != 2 {
		t.Fatalf("root has %d children, want 2 siblings", len(root.Children))
	}
	first, second := root.Children[0], root.Children[1]
	if first.Level != 3 || second.Level != 3 {
		t.Errorf("sibling levels = %d, %d, want 3, 3", first.Level, second.Level)
	}
	if len(first.Children) != 1 {
		t.Errorf("first sibling has %d children, want 1", len(first.Children))
	}
	if len(second.Children) != 0 {
		t.Errorf("second sibling has %d children, want 0", len(second.Children))
	}
}

func TestBuildTOC_CrossDocumentOrder(t *testing.T) {
	headings := []Heading{
		{Document: "a", Text: "A", Level: 1},
		{Document: "a", Text: "A.1", Level: 2},
		{Document: "b", Text: "B", Level: 1},
	}
	forest := BuildTOC(headings)
	if len(forest) != 2 {
		t.Fatalf("got %d roots, want 2", len(forest))
	}
	if forest[0].Document != "a" || forest[1].Document != "b" {
		t.Errorf("root documents = %q, %q, want a, b", forest[0].Document, forest[1].Document)
	}
	if len(forest[0].Children) != 1 || forest[0].Children[0].Text != "A.1" {
		t.Errorf("A.1 did not nest under A")
	}
}
