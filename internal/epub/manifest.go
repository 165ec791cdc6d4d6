package epub

import (
	"fmt"
	"html"
	"strings"
)

// Media types used by the fixed manifest entries.
const (
	MediaTypeXHTML = "application/xhtml+xml"
	MediaTypeCSS   = "text/css"
)

// Item is one content document of the book. Href is relative to the OEBPS
// directory and unique within a manifest.
type Item struct {
	Href      string
	MediaType string
}

// Manifest is the ordered set of converted content documents. Insertion
// order defines both the positional item ids (book_0, book_1, ...) and the
// default reading order of the spine.
type Manifest struct {
	items []Item
}

// Append adds one content document. An empty media type defaults to XHTML.
func (m *Manifest) Append(item Item) {
	if item.MediaType == "" {
		item.MediaType = MediaTypeXHTML
	}
	m.items = append(m.items, item)
}

// Len returns the number of content documents in the manifest.
func (m *Manifest) Len() int {
	return len(m.items)
}

// renderManifest writes the OPF <manifest> block: the navigation document
// first, then the content documents in insertion order, then the fixed
// stylesheet items.
func (m *Manifest) renderManifest(b *strings.Builder) {
	b.WriteString("<manifest>\n")
	b.WriteString("<item id=\"navigation\" href=\"navigation.xhtml\" media-type=\"application/xhtml+xml\" properties=\"nav\" />\n")
	for i, item := range m.items {
		fmt.Fprintf(b, "<item id=\"book_%d\" href=\"%s\" media-type=\"%s\" />\n",
			i, html.EscapeString(item.Href), html.EscapeString(item.MediaType))
	}
	b.WriteString("<item id=\"vertical_css\" href=\"styles/vertical.css\" media-type=\"text/css\"/>\n")
	b.WriteString("<item id=\"custom_css\" href=\"styles/custom.css\" media-type=\"text/css\"/>\n")
	b.WriteString("</manifest>\n")
}

// renderSpine writes the OPF <spine> block. The navigation document is
// always the first itemref; content follows in manifest order. Vertical
// writing declares right-to-left page progression without reordering.
func (m *Manifest) renderSpine(b *strings.Builder, vertical bool) {
	if vertical {
		b.WriteString("<spine page-progression-direction=\"rtl\">\n")
	} else {
		b.WriteString("<spine>\n")
	}
	b.WriteString("<itemref idref=\"navigation\" />\n")
	for i := range m.items {
		fmt.Fprintf(b, "<itemref idref=\"book_%d\" />\n", i)
	}
	b.WriteString("</spine>\n")
}
