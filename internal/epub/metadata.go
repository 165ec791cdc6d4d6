package epub

import (
	"fmt"
	"html"
	"math/rand"
	"strings"
	"time"
)

// Mimetype is the exact content of the mimetype file. It must be the first,
// uncompressed entry of the container archive.
const Mimetype = "application/epub+zip"

// ContainerXML is the fixed META-INF/container.xml descriptor pointing
// reading systems at the package description.
const ContainerXML = `<?xml version="1.0" ?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/package.opf" media-type="application/oebps-package+xml" />
  </rootfiles>
</container>`

// Metadata holds the book-level identity rendered into the package
// description. All fields must be resolved before a build starts; the
// identifier is generated with NewBookID when the caller does not supply one.
type Metadata struct {
	Title    string
	Creator  string
	Language string
	ID       string
}

const bookIDLen = 30

const bookIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// NewBookID returns a random 30-character alphanumeric identifier. The
// result contains no whitespace and is usable as an XML ID.
func NewBookID() string {
	var b strings.Builder
	b.Grow(bookIDLen)
	for i := 0; i < bookIDLen; i++ {
		b.WriteByte(bookIDAlphabet[rand.Intn(len(bookIDAlphabet))])
	}
	return b.String()
}

// renderMetadata writes the OPF <metadata> block. The modified timestamp is
// RFC3339 UTC with seconds precision, as EPUB 3 requires for dcterms:modified.
func (m Metadata) renderMetadata(b *strings.Builder, modified time.Time) {
	b.WriteString("<metadata>\n")
	fmt.Fprintf(b, "<dc:title>%s</dc:title>\n", html.EscapeString(m.Title))
	fmt.Fprintf(b, "<dc:language>%s</dc:language>\n", html.EscapeString(m.Language))
	fmt.Fprintf(b, "<dc:creator>%s</dc:creator>\n", html.EscapeString(m.Creator))
	fmt.Fprintf(b, "<dc:identifier id=\"BookId\">%s</dc:identifier>\n", html.EscapeString(m.ID))
	fmt.Fprintf(b, "<meta property=\"dcterms:modified\">%s</meta>\n", modified.UTC().Format("2006-01-02T15:04:05Z"))
	b.WriteString("</metadata>\n")
}
