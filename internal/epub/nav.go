package epub

import (
	"fmt"
	"html"
	"strings"
)

// DefaultTOCDepth is the default expansion depth of the navigation
// document: nodes at this level or deeper render their children collapsed.
const DefaultTOCDepth = 2

// NavOptions configures rendering of the navigation document.
type NavOptions struct {
	Language string
	Vertical bool
	// TOCDepth is the expansion depth; a node whose level reaches it
	// renders its child list hidden by default.
	TOCDepth int
}

// RenderNav returns the navigation.xhtml document wrapping the forest in a
// single ordered list inside an epub:type="toc" nav element.
func RenderNav(forest []*Node, opts NavOptions) string {
	depth := opts.TOCDepth
	if depth < 1 {
		depth = DefaultTOCDepth
	}
	lang := opts.Language
	if lang == "" {
		lang = "en"
	}

	var b strings.Builder
	b.WriteString("<?xml version='1.0' encoding='utf-8'?>\n")
	b.WriteString("<!DOCTYPE html>\n")
	fmt.Fprintf(&b, "<html xml:lang=\"%s\" lang=\"%s\" xmlns=\"http://www.w3.org/1999/xhtml\" xmlns:epub=\"http://www.idpf.org/2007/ops\">\n",
		html.EscapeString(lang), html.EscapeString(lang))
	b.WriteString("<head>\n<meta charset=\"utf-8\" />\n<title>Table of Contents</title>\n")
	if opts.Vertical {
		b.WriteString("<link type=\"text/css\" rel=\"stylesheet\" href=\"styles/vertical.css\" />\n")
	}
	b.WriteString("</head>\n<body>\n<nav epub:type=\"toc\">\n<h1>Table of Contents</h1>\n<ol>")
	for _, n := range forest {
		writeNavNode(&b, n, depth)
	}
	b.WriteString("</ol>\n</nav>\n</body>\n</html>")
	return b.String()
}

// writeNavNode renders one node depth-first. Anchored headings become
// hyperlinks into their document, plain headings a non-navigable span, and
// placeholders an empty title followed by their children's list.
func writeNavNode(b *strings.Builder, n *Node, tocDepth int) {
	b.WriteString("<li>")
	switch {
	case n.Placeholder:
		b.WriteString("<span></span>")
	case n.AnchorID != "":
		fmt.Fprintf(b, "<a href=\"%s.xhtml#%s\">%s</a>",
			html.EscapeString(n.Document), html.EscapeString(n.AnchorID), html.EscapeString(n.Text))
	default:
		fmt.Fprintf(b, "<span>%s</span>", html.EscapeString(n.Text))
	}
	if len(n.Children) > 0 {
		if n.Level >= tocDepth {
			b.WriteString("<ol hidden=\"hidden\">")
		} else {
			b.WriteString("<ol>")
		}
		for _, c := range n.Children {
			writeNavNode(b, c, tocDepth)
		}
		b.WriteString("</ol>")
	}
	b.WriteString("</li>")
}
