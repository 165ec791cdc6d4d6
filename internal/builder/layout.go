package builder

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/KaiseiYokoyama/repub/internal/epub"
)

// verticalCSS is the stylesheet that switches documents to right-to-left
// vertical writing.
const verticalCSS = "html { writing-mode: vertical-rl; }"

// workingTree is the on-disk staging layout of one build: the mimetype
// file, the META-INF directory, and the OEBPS directory with its styles
// subdirectory. It is created fresh at build start and removed after
// packing unless the caller retains it.
type workingTree struct {
	root     string
	mimetype string
	metaInf  string
	oebps    string
	styles   string
}

func newWorkingTree(root string) *workingTree {
	return &workingTree{
		root:     root,
		mimetype: filepath.Join(root, "mimetype"),
		metaInf:  filepath.Join(root, "META-INF"),
		oebps:    filepath.Join(root, "OEBPS"),
		styles:   filepath.Join(root, "OEBPS", "styles"),
	}
}

// writeLayout creates the fixed container skeleton. stylePath, when
// non-empty, names a caller-supplied stylesheet copied into custom.css;
// otherwise custom.css is created empty.
func (t *workingTree) writeLayout(stylePath string) error {
	if err := os.WriteFile(t.mimetype, []byte(epub.Mimetype), 0o644); err != nil {
		return fmt.Errorf("failed to write mimetype: %w", err)
	}

	if err := os.MkdirAll(t.metaInf, 0o755); err != nil {
		return fmt.Errorf("failed to create META-INF: %w", err)
	}
	if err := os.WriteFile(filepath.Join(t.metaInf, "container.xml"), []byte(epub.ContainerXML), 0o644); err != nil {
		return fmt.Errorf("failed to write container.xml: %w", err)
	}

	if err := os.MkdirAll(t.styles, 0o755); err != nil {
		return fmt.Errorf("failed to create OEBPS/styles: %w", err)
	}
	if err := os.WriteFile(filepath.Join(t.styles, "vertical.css"), []byte(verticalCSS), 0o644); err != nil {
		return fmt.Errorf("failed to write vertical.css: %w", err)
	}

	custom := []byte{}
	if stylePath != "" {
		data, err := os.ReadFile(stylePath)
		if err != nil {
			return fmt.Errorf("failed to read custom stylesheet: %w", err)
		}
		custom = data
	}
	if err := os.WriteFile(filepath.Join(t.styles, "custom.css"), custom, 0o644); err != nil {
		return fmt.Errorf("failed to write custom.css: %w", err)
	}

	return nil
}

// remove deletes the working tree. A partially created tree removes
// cleanly: missing pieces are not errors.
func (t *workingTree) remove() error {
	var first error
	if err := os.Remove(t.mimetype); err != nil && !os.IsNotExist(err) {
		first = err
	}
	for _, dir := range []string{t.metaInf, t.oebps} {
		if err := os.RemoveAll(dir); err != nil && first == nil {
			first = err
		}
	}
	if first != nil {
		return fmt.Errorf("failed to remove working tree: %w", first)
	}
	return nil
}

// removeLogged is the cleanup used on build exit paths, where a removal
// failure must not mask the build result.
func (t *workingTree) removeLogged() bool {
	if err := t.remove(); err != nil {
		log.Printf("warning: %v", err)
		return false
	}
	return true
}
