// Package builder orchestrates one Markdown-to-EPUB build: working tree
// layout, document conversion, package description and navigation
// rendering, zip packing, and cleanup.
package builder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaiseiYokoyama/repub/internal/epub"
	"github.com/KaiseiYokoyama/repub/internal/markdown"
)

var (
	// ErrInputNotExist reports a missing input path.
	ErrInputNotExist = errors.New("input path does not exist")
	// ErrNotMarkdown reports an input file without the .md extension.
	ErrNotMarkdown = errors.New("input file is not a .md file")
)

// state tracks the build through its transitions. Failed is reachable from
// every non-terminal state.
type state int

const (
	stateInitializing state = iota
	stateLayoutWritten
	stateContentConverted
	stateDescriptionsWritten
	statePacked
	stateCleaned
	stateFailed
)

func (s state) String() string {
	switch s {
	case stateInitializing:
		return "initializing"
	case stateLayoutWritten:
		return "layout written"
	case stateContentConverted:
		return "content converted"
	case stateDescriptionsWritten:
		return "descriptions written"
	case statePacked:
		return "packed"
	case stateCleaned:
		return "cleaned"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Options are the fully resolved inputs of one build. The CLI layer is
// responsible for prompting; nothing here blocks on interactive input.
type Options struct {
	// Input is a single .md file or a directory of .md files.
	Input string
	// OutputDir receives the working tree and the final archive.
	// Defaults to the current directory.
	OutputDir string
	Metadata  epub.Metadata
	Vertical  bool
	// StylePath optionally names a stylesheet copied into custom.css.
	StylePath string
	// TOCDepth is the navigation expansion depth (default 2).
	TOCDepth int
	// KeepTree skips working tree removal, on failure paths too.
	KeepTree bool
	// Converter defaults to the goldmark Markdown converter.
	Converter markdown.Converter
	// Packer defaults to the archive/zip packer.
	Packer Packer
}

// Builder owns one working tree and one in-memory model for the duration
// of a single build. Builds are strictly sequential; a second book needs a
// fresh Builder.
type Builder struct {
	opts  Options
	state state
}

// New returns a Builder for the given options, filling in defaults.
func New(opts Options) *Builder {
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if opts.TOCDepth < 1 {
		opts.TOCDepth = epub.DefaultTOCDepth
	}
	if opts.Metadata.Language == "" {
		opts.Metadata.Language = "en"
	}
	if opts.Metadata.ID == "" {
		opts.Metadata.ID = epub.NewBookID()
	}
	if opts.Converter == nil {
		opts.Converter = markdown.New()
	}
	if opts.Packer == nil {
		opts.Packer = ZipPacker{}
	}
	return &Builder{opts: opts}
}

// ResolveInputs validates the input path and returns the source files to
// convert, a single file or a directory's immediate .md entries in
// lexicographic order. It runs before any filesystem mutation.
func ResolveInputs(input string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInputNotExist, input)
	}

	if !info.IsDir() {
		if !strings.EqualFold(filepath.Ext(input), ".md") {
			return nil, fmt.Errorf("%w: %s", ErrNotMarkdown, input)
		}
		return []string{input}, nil
	}

	entries, err := os.ReadDir(input)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", input, err)
	}
	var files []string
	for _, e := range entries {
		if strings.EqualFold(filepath.Ext(e.Name()), ".md") {
			files = append(files, filepath.Join(input, e.Name()))
		}
	}
	return files, nil
}

// EpubPath returns the path of the archive this build produces.
func (b *Builder) EpubPath() string {
	return filepath.Join(b.opts.OutputDir, b.opts.Metadata.Title+".epub")
}

// Build runs the whole pipeline. The working tree is removed on success
// and failure alike unless KeepTree is set; only input validation runs
// before the tree exists.
func (b *Builder) Build() (err error) {
	inputs, err := ResolveInputs(b.opts.Input)
	if err != nil {
		b.state = stateFailed
		return err
	}

	tree := newWorkingTree(b.opts.OutputDir)
	defer func() {
		if err != nil {
			b.state = stateFailed
		}
		if b.opts.KeepTree {
			return
		}
		if tree.removeLogged() && err == nil {
			b.state = stateCleaned
		}
	}()

	if err = tree.writeLayout(b.opts.StylePath); err != nil {
		return err
	}
	b.state = stateLayoutWritten

	manifest := &epub.Manifest{}
	var headings []epub.Heading
	for _, src := range inputs {
		res, cerr := convertDocument(b.opts.Converter, src, tree, b.opts.Vertical)
		if cerr != nil {
			err = cerr
			return err
		}
		manifest.Append(epub.Item{Href: res.Href})
		headings = append(headings, res.Headings...)
	}
	b.state = stateContentConverted

	pkg := &epub.Package{
		Metadata: b.opts.Metadata,
		Manifest: manifest,
		Vertical: b.opts.Vertical,
	}
	if err = os.WriteFile(filepath.Join(tree.oebps, "package.opf"), []byte(pkg.RenderOPF()), 0o644); err != nil {
		return fmt.Errorf("failed to write package.opf: %w", err)
	}

	nav := epub.RenderNav(epub.BuildTOC(headings), epub.NavOptions{
		Language: b.opts.Metadata.Language,
		Vertical: b.opts.Vertical,
		TOCDepth: b.opts.TOCDepth,
	})
	if err = os.WriteFile(filepath.Join(tree.oebps, "navigation.xhtml"), []byte(nav), 0o644); err != nil {
		return fmt.Errorf("failed to write navigation.xhtml: %w", err)
	}
	b.state = stateDescriptionsWritten

	if err = b.opts.Packer.Pack(b.EpubPath(), tree.root); err != nil {
		return err
	}
	b.state = statePacked

	return nil
}
