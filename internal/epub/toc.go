package epub

// Heading is one heading extracted from a converted document, in document
// order. Document is the source file stem (spaces replaced with
// underscores), AnchorID is empty when the rendered HTML exposed no
// identified anchor at the heading, and Level is the numeric h1-h5 level.
type Heading struct {
	Document string
	AnchorID string
	Text     string
	Level    int
}

// Node is one entry of the table-of-contents forest. Placeholder nodes are
// synthesized to bridge level gaps and carry no text or anchor. A node's
// level is the heading level its depth stands for, so collapse decisions in
// the navigation document can be made per node.
type Node struct {
	Placeholder bool
	Document    string
	AnchorID    string
	Text        string
	Level       int
	Children    []*Node
}

// BuildTOC folds a flat heading sequence into a forest whose nesting
// mirrors the relative levels actually seen, not the raw numeric levels: a
// document using only h2 and h3 still nests as depth 1/2.
//
// The builder keeps a path of currently open nodes, one per depth. A
// heading at or above the shallowest level seen so far starts a new
// top-level entry and resets the path. Deeper headings attach under the
// open node one depth up, synthesizing placeholder ancestors when the
// numeric gap skips levels; the new node then closes everything deeper
// than itself.
func BuildTOC(headings []Heading) []*Node {
	var roots []*Node
	var path []*Node
	base := 0
	for _, h := range headings {
		n := &Node{
			Document: h.Document,
			AnchorID: h.AnchorID,
			Text:     h.Text,
			Level:    h.Level,
		}
		if base == 0 || h.Level <= base {
			roots = append(roots, n)
			path = append(path[:0], n)
			base = h.Level
			continue
		}
		// Target depth is relative to the shallowest level seen, 1-based.
		depth := h.Level - base + 1
		if len(path) > depth-1 {
			path = path[:depth-1]
		}
		for len(path) < depth-1 {
			gap := &Node{Placeholder: true, Level: base + len(path)}
			parent := path[len(path)-1]
			parent.Children = append(parent.Children, gap)
			path = append(path, gap)
		}
		parent := path[len(path)-1]
		parent.Children = append(parent.Children, n)
		path = append(path, n)
	}
	return roots
}
