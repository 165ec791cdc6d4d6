package builder

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
)

// Packer archives a staged working tree (a directory holding mimetype,
// META-INF and OEBPS) into the target .epub. The container format requires
// the mimetype entry to be the first entry of the archive and stored
// uncompressed.
type Packer interface {
	Pack(dst, root string) error
}

// ZipPacker packs with archive/zip. Entry order is deterministic: the
// stored mimetype first, then META-INF and OEBPS walked in lexical order,
// every directory entry preceding its files, everything deflated.
type ZipPacker struct{}

func (ZipPacker) Pack(dst, root string) error {
	// An existing archive is recreated, not appended to.
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stale archive: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer f.Close()

	w := zip.NewWriter(f)

	mimetype, err := os.ReadFile(filepath.Join(root, "mimetype"))
	if err != nil {
		w.Close()
		return fmt.Errorf("failed to read mimetype: %w", err)
	}
	if err := addEntry(w, "mimetype", mimetype, zip.Store); err != nil {
		w.Close()
		return err
	}

	for _, dir := range []string{"META-INF", "OEBPS"} {
		if err := addDir(w, root, filepath.Join(root, dir)); err != nil {
			w.Close()
			return err
		}
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish archive: %w", err)
	}
	return nil
}

// addEntry writes one archive entry with an explicit compression method.
func addEntry(w *zip.Writer, name string, content []byte, method uint16) error {
	ew, err := w.CreateHeader(&zip.FileHeader{Name: name, Method: method})
	if err != nil {
		return fmt.Errorf("failed to add %s: %w", name, err)
	}
	if _, err := ew.Write(content); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// addDir walks dir and adds every entry deflated, each directory entry
// before its contents. Archive names are slash-separated paths relative to
// the tree root.
func addDir(w *zip.Writer, root, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)

		if d.IsDir() {
			if _, err := w.CreateHeader(&zip.FileHeader{Name: name + "/", Method: zip.Deflate}); err != nil {
				return fmt.Errorf("failed to add directory %s: %w", name, err)
			}
			return nil
		}

		ew, err := w.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", name, err)
		}
		src, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer src.Close()
		if _, err := io.Copy(ew, src); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		return nil
	})
}

// CommandPacker shells out to zip(1), for environments where InfoZIP's
// exact output is wanted. The mimetype is added first with -X0q (stored),
// the directories recursively with -Xr9Dq.
type CommandPacker struct{}

func (CommandPacker) Pack(dst, root string) error {
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stale archive: %w", err)
	}

	abs, err := filepath.Abs(dst)
	if err != nil {
		return err
	}

	steps := [][]string{
		{"-X0q", abs, "mimetype"},
		{"-Xr9Dq", abs, "META-INF"},
		{"-Xr9Dq", abs, "OEBPS"},
	}
	for _, args := range steps {
		cmd := exec.Command("zip", args...)
		cmd.Dir = root
		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("zip %s failed: %w (%s)", args[len(args)-1], err, out)
		}
	}
	return nil
}
