// Package markdown provides the Markdown to HTML conversion capability
// consumed by the build pipeline.
package markdown

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Converter renders a Markdown source into an HTML body fragment.
type Converter interface {
	Convert(src []byte) ([]byte, error)
}

// headingIDPrefix namespaces generated heading anchors so ids cannot
// collide across documents of the same book.
const headingIDPrefix = "header-"

// Goldmark is the default Converter. Hard line breaks are enabled and
// headings receive auto-generated, prefixed anchor ids.
type Goldmark struct {
	md goldmark.Markdown
}

// New returns a Goldmark converter configured for EPUB content documents.
func New() *Goldmark {
	return &Goldmark{
		md: goldmark.New(
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
				html.WithXHTML(),
				html.WithUnsafe(),
			),
		),
	}
}

// Convert renders src to an XHTML-compatible body fragment. Heading ids
// are deduplicated per document.
func (g *Goldmark) Convert(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	ctx := parser.NewContext(parser.WithIDs(newHeadingIDs()))
	if err := g.md.Convert(src, &buf, parser.WithContext(ctx)); err != nil {
		return nil, fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.Bytes(), nil
}

// headingIDs implements parser.IDs, slugifying heading text under the
// fixed namespace prefix.
type headingIDs struct {
	used map[string]bool
}

func newHeadingIDs() *headingIDs {
	return &headingIDs{used: make(map[string]bool)}
}

func (ids *headingIDs) Generate(value []byte, kind ast.NodeKind) []byte {
	name := slugify(string(value))
	if name == "" {
		name = "heading"
	}
	id := headingIDPrefix + name
	for n := 1; ids.used[id]; n++ {
		id = fmt.Sprintf("%s%s-%d", headingIDPrefix, name, n)
	}
	ids.used[id] = true
	return []byte(id)
}

func (ids *headingIDs) Put(value []byte) {
	ids.used[string(value)] = true
}

// slugify lowercases text and collapses everything that is not a letter or
// digit into single hyphens.
func slugify(text string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
