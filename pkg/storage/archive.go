package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Archive stores generated report documents on disk under a single root
// directory. Relative paths are resolved against the root; absolute paths
// are rejected so callers cannot escape it.
type Archive struct {
	root string
}

// NewArchive creates the root directory when missing and returns a handle.
func NewArchive(root string) (*Archive, error) {
	if root == "" {
		root = "./exports"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create archive root: %w", err)
	}
	return &Archive{root: root}, nil
}

// Save writes data at the relative path, creating parent directories.
func (a *Archive) Save(relPath string, data []byte) error {
	path, err := a.resolve(relPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("prepare archive directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write archive file: %w", err)
	}
	return nil
}

// Open returns a read-only handle for a stored document.
func (a *Archive) Open(relPath string) (*os.File, error) {
	path, err := a.resolve(relPath)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive file: %w", err)
	}
	return file, nil
}

// Remove deletes a stored document. Missing files are not an error.
func (a *Archive) Remove(relPath string) error {
	path, err := a.resolve(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove archive file: %w", err)
	}
	return nil
}

// Sweep deletes documents whose modification time is older than maxAge and
// returns how many were removed.
func (a *Archive) Sweep(maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	removed := 0
	err := filepath.WalkDir(a.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().After(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		removed++
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("sweep archive: %w", err)
	}
	return removed, nil
}

// Path returns the absolute on-disk location of a stored document.
func (a *Archive) Path(relPath string) (string, error) {
	return a.resolve(relPath)
}

func (a *Archive) resolve(relPath string) (string, error) {
	if relPath == "" {
		return "", fmt.Errorf("empty archive path")
	}
	if filepath.IsAbs(relPath) {
		return "", fmt.Errorf("absolute archive path %q not allowed", relPath)
	}
	clean := filepath.Clean(relPath)
	if clean == ".." || len(clean) >= 3 && clean[:3] == ".."+string(filepath.Separator) {
		return "", fmt.Errorf("archive path %q escapes the root", relPath)
	}
	return filepath.Join(a.root, clean), nil
}
