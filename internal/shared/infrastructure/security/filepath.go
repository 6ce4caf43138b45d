// Package security confines file access to configured directories.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrPathEscapes means a path resolves outside its base directory.
var ErrPathEscapes = errors.New("path escapes base directory")

// PathInDir joins elem onto baseDir and returns the cleaned absolute result.
// Paths that leave baseDir, either lexically or through an existing symlink,
// fail with ErrPathEscapes.
func PathInDir(baseDir string, elem ...string) (string, error) {
	if baseDir == "" {
		return "", fmt.Errorf("base directory cannot be empty")
	}
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base directory: %w", err)
	}
	path := filepath.Join(append([]string{base}, elem...)...)
	if !within(path, base) {
		return "", fmt.Errorf("%w: %s", ErrPathEscapes, filepath.Join(elem...))
	}

	resolvedBase, err := resolve(base)
	if err != nil {
		return "", err
	}
	resolved, err := resolve(path)
	if err != nil {
		return "", err
	}
	if !within(resolved, resolvedBase) {
		return "", fmt.Errorf("%w: %s", ErrPathEscapes, filepath.Join(elem...))
	}
	return path, nil
}

// ReadFileInDir reads the file PathInDir names.
func ReadFileInDir(baseDir string, elem ...string) ([]byte, error) {
	path, err := PathInDir(baseDir, elem...)
	if err != nil {
		return nil, err
	}
	// #nosec G304 - path is confined to baseDir above
	return os.ReadFile(path)
}

// resolve follows symlinks of path, or of its longest existing prefix when
// path itself does not exist yet.
func resolve(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved, nil
	}
	if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	parent := filepath.Dir(path)
	if parent == path {
		return path, nil
	}
	resolvedParent, err := resolve(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedParent, filepath.Base(path)), nil
}

func within(path, base string) bool {
	return path == base || strings.HasPrefix(path, base+string(filepath.Separator))
}
