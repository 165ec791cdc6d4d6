package builder

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	nethtml "golang.org/x/net/html"

	"github.com/KaiseiYokoyama/repub/internal/epub"
	"github.com/KaiseiYokoyama/repub/internal/markdown"
)

// headingTextPlaceholder stands in for a heading whose text could not be
// extracted from the rendered HTML.
const headingTextPlaceholder = "(untitled)"

// documentResult is what one converted source document contributes to the
// book: a manifest href and its headings in document order.
type documentResult struct {
	Href     string
	Headings []epub.Heading
}

// convertDocument runs one source file through the pipeline: convert the
// Markdown body, wrap it in the XHTML template, extract h1-h5 headings,
// and write the result into the working tree as <stem>.xhtml.
func convertDocument(conv markdown.Converter, src string, tree *workingTree, vertical bool) (documentResult, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return documentResult{}, fmt.Errorf("failed to read %s: %w", src, err)
	}

	body, err := conv.Convert(data)
	if err != nil {
		return documentResult{}, fmt.Errorf("failed to convert %s: %w", src, err)
	}

	name := filepath.Base(src)
	stem := documentStem(name)
	page := renderXHTML(name, string(body), vertical)

	headings, err := extractHeadings(page, stem)
	if err != nil {
		return documentResult{}, fmt.Errorf("failed to extract headings from %s: %w", src, err)
	}

	href := stem + ".xhtml"
	if err := os.WriteFile(filepath.Join(tree.oebps, href), []byte(page), 0o644); err != nil {
		return documentResult{}, fmt.Errorf("failed to write %s: %w", href, err)
	}

	return documentResult{Href: href, Headings: headings}, nil
}

// documentStem strips the extension and replaces spaces with underscores,
// yielding the name used for both the content file and ToC links.
func documentStem(name string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return strings.ReplaceAll(stem, " ", "_")
}

// renderXHTML wraps a converted body fragment in the fixed content
// document template. The document title is the source file name; the
// custom stylesheet is always linked, the vertical one only in vertical
// mode.
func renderXHTML(title, body string, vertical bool) string {
	var b strings.Builder
	b.WriteString("<?xml version='1.0' encoding='utf-8'?>\n<!DOCTYPE html>\n")
	b.WriteString("<html xmlns=\"http://www.w3.org/1999/xhtml\" xmlns:epub=\"http://www.idpf.org/2007/ops\">\n<head>\n<meta charset=\"utf-8\" />\n")
	if vertical {
		b.WriteString("<link type=\"text/css\" rel=\"stylesheet\" href=\"styles/vertical.css\" />\n")
	}
	b.WriteString("<link type=\"text/css\" rel=\"stylesheet\" href=\"styles/custom.css\" />\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	b.WriteString("</head>\n<body>\n")
	b.WriteString(body)
	b.WriteString("\n</body>\n</html>")
	return b.String()
}

// extractHeadings queries the rendered document for h1 through h5 and
// returns one Heading per match, in document order. h6 is out of the
// supported range and ignored. The anchor id is taken from the heading
// element itself or from an identified <a> child; headings without either
// produce a non-navigable record.
func extractHeadings(page, stem string) ([]epub.Heading, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	var headings []epub.Heading
	doc.Find("h1, h2, h3, h4, h5").Each(func(_ int, s *goquery.Selection) {
		name := goquery.NodeName(s)
		level := int(name[1] - '0')

		anchor, ok := s.Attr("id")
		if !ok {
			anchor, _ = s.Find("a[id]").First().Attr("id")
		}

		text := firstTextRun(s)
		if text == "" {
			text = headingTextPlaceholder
		}

		headings = append(headings, epub.Heading{
			Document: stem,
			AnchorID: anchor,
			Text:     text,
			Level:    level,
		})
	})

	return headings, nil
}

// firstTextRun returns the first non-blank text node under the selection,
// in depth-first order.
func firstTextRun(s *goquery.Selection) string {
	for _, root := range s.Nodes {
		if text := firstTextNode(root); text != "" {
			return text
		}
	}
	return ""
}

func firstTextNode(n *nethtml.Node) string {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == nethtml.TextNode {
			if text := strings.TrimSpace(c.Data); text != "" {
				return text
			}
			continue
		}
		if text := firstTextNode(c); text != "" {
			return text
		}
	}
	return ""
}
