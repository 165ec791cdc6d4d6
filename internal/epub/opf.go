package epub

import (
	"strings"
	"time"
)

// Package assembles the three blocks of the package description. Rendering
// is a pure function of the fields plus the wall clock read for the
// dcterms:modified stamp.
type Package struct {
	Metadata Metadata
	Manifest *Manifest
	Vertical bool
}

// RenderOPF returns the complete package.opf document.
func (p *Package) RenderOPF() string {
	return p.renderOPF(time.Now())
}

func (p *Package) renderOPF(modified time.Time) string {
	var b strings.Builder
	b.WriteString("<?xml version='1.0' encoding='utf-8'?>\n")
	b.WriteString("<package unique-identifier=\"BookId\" version=\"3.0\" xmlns:dc=\"http://purl.org/dc/elements/1.1/\" xmlns=\"http://www.idpf.org/2007/opf\">\n")
	p.Metadata.renderMetadata(&b, modified)
	p.Manifest.renderManifest(&b)
	p.Manifest.renderSpine(&b, p.Vertical)
	b.WriteString("</package>")
	return b.String()
}
