package epub

import (
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestNewBookID(t *testing.T) {
	alnum := regexp.MustCompile(`^[A-Za-z0-9]{30}$`)
	seen := make(map[string]bool)
	for i := 0; i < 16; i++ {
		id := NewBookID()
		if !alnum.MatchString(id) {
			t.Fatalf("NewBookID() = %q, want 30 alphanumeric characters", id)
		}
		seen[id] = true
	}
	if len(seen) < 2 {
		t.Errorf("NewBookID() returned the same value %d times", len(seen))
	}
}

func TestRenderOPF(t *testing.T) {
	man := &Manifest{}
	man.Append(Item{Href: "intro.xhtml"})
	man.Append(Item{Href: "chapter_one.xhtml"})

	pkg := &Package{
		Metadata: Metadata{
			Title:    "Book",
			Creator:  "Alice",
			Language: "en",
			ID:       "abc123",
		},
		Manifest: man,
	}

	modified := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	opf := pkg.renderOPF(modified)

	for _, want := range []string{
		`<package unique-identifier="BookId" version="3.0"`,
		`<dc:title>Book</dc:title>`,
		`<dc:language>en</dc:language>`,
		`<dc:creator>Alice</dc:creator>`,
		`<dc:identifier id="BookId">abc123</dc:identifier>`,
		`<meta property="dcterms:modified">2026-03-14T09:26:53Z</meta>`,
		`<item id="navigation" href="navigation.xhtml" media-type="application/xhtml+xml" properties="nav" />`,
		`<item id="book_0" href="intro.xhtml" media-type="application/xhtml+xml" />`,
		`<item id="book_1" href="chapter_one.xhtml" media-type="application/xhtml+xml" />`,
		`<item id="vertical_css" href="styles/vertical.css" media-type="text/css"/>`,
		`<item id="custom_css" href="styles/custom.css" media-type="text/css"/>`,
		`<itemref idref="navigation" />`,
	} {
		if !strings.Contains(opf, want) {
			t.Errorf("opf missing %q", want)
		}
	}
	if strings.Contains(opf, "page-progression-direction") {
		t.Errorf("horizontal opf declares a page progression direction")
	}
}

func TestRenderOPF_Vertical(t *testing.T) {
	man := &Manifest{}
	man.Append(Item{Href: "a.xhtml"})
	pkg := &Package{
		Metadata: Metadata{Title: "t", Creator: "c", Language: "ja", ID: "x"},
		Manifest: man,
		Vertical: true,
	}
	opf := pkg.renderOPF(time.Now())
	if !strings.Contains(opf, `<spine page-progression-direction="rtl">`) {
		t.Errorf("vertical opf does not declare rtl page progression")
	}
}

// Every spine idref must resolve to exactly one manifest item id, in
// manifest order.
func TestSpineMatchesManifest(t *testing.T) {
	man := &Manifest{}
	for i := 0; i < 5; i++ {
		man.Append(Item{Href: fmt.Sprintf("doc%d.xhtml", i)})
	}

	var manifest, spine strings.Builder
	man.renderManifest(&manifest)
	man.renderSpine(&spine, false)

	idRe := regexp.MustCompile(`<item id="(book_\d+)"`)
	refRe := regexp.MustCompile(`<itemref idref="(book_\d+)"`)

	var ids, refs []string
	for _, m := range idRe.FindAllStringSubmatch(manifest.String(), -1) {
		ids = append(ids, m[1])
	}
	for _, m := range refRe.FindAllStringSubmatch(spine.String(), -1) {
		refs = append(refs, m[1])
	}

	if len(ids) != man.Len() || len(refs) != man.Len() {
		t.Fatalf("got %d ids, %d refs, want %d of each", len(ids), len(refs), man.Len())
	}
	for i := range ids {
		if ids[i] != refs[i] {
			t.Errorf("position %d: manifest id %q, spine idref %q", i, ids[i], refs[i])
		}
		if want := fmt.Sprintf("book_%d", i); ids[i] != want {
			t.Errorf("position %d: id = %q, want %q", i, ids[i], want)
		}
	}
}

func TestMetadataEscaping(t *testing.T) {
	var b strings.Builder
	m := Metadata{Title: `Tom & "Jerry" <3`, Creator: "a", Language: "en", ID: "id"}
	m.renderMetadata(&b, time.Now())
	got := b.String()
	if !strings.Contains(got, "<dc:title>Tom &amp; &#34;Jerry&#34; &lt;3</dc:title>") {
		t.Errorf("title not escaped: %s", got)
	}
}
