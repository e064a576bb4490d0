package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideRoot is returned for paths that escape the configured directory
var ErrOutsideRoot = errors.New("path is outside configured directory")

// PathValidator confines file access to one directory tree
type PathValidator struct {
	root string
}

// NewPathValidator creates a validator rooted at the given directory. The
// directory need not exist yet; until it does every path is accepted.
func NewPathValidator(root string) (*PathValidator, error) {
	if root == "" {
		return nil, fmt.Errorf("configured directory cannot be empty")
	}
	return &PathValidator{root: root}, nil
}

// Root returns the configured directory
func (v *PathValidator) Root() string {
	return v.root
}

// Resolve returns the absolute form of path after checking it stays inside
// the root. Relative paths are taken relative to the root.
func (v *PathValidator) Resolve(path string) (string, error) {
	path = strings.ReplaceAll(path, "\x00", "")
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(v.root, path)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	within, err := v.Contains(absPath)
	if err != nil {
		return "", fmt.Errorf("path validation failed: %w", err)
	}
	if !within {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}

	return absPath, nil
}

// ResolveDirectory is Resolve for directories; an empty path means the root
func (v *PathValidator) ResolveDirectory(dirPath string) (string, error) {
	if dirPath == "" {
		dirPath = v.root
	}

	absPath, err := v.Resolve(dirPath)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return absPath, nil
		}
		return "", fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", dirPath)
	}

	return absPath, nil
}

// Contains reports whether an absolute path lies inside the root, both as
// written and after resolving symlinks
func (v *PathValidator) Contains(absPath string) (bool, error) {
	if _, err := os.Stat(v.root); os.IsNotExist(err) {
		return true, nil
	}

	absRoot, err := filepath.Abs(v.root)
	if err != nil {
		return false, fmt.Errorf("failed to resolve configured directory: %w", err)
	}

	cleanPath := filepath.Clean(absPath)
	cleanRoot := filepath.Clean(absRoot)

	realRoot := cleanRoot
	if resolved, err := filepath.EvalSymlinks(cleanRoot); err == nil {
		realRoot = resolved
	}

	realPath := cleanPath
	if resolved, err := filepath.EvalSymlinks(cleanPath); err == nil {
		realPath = resolved
	}

	inRoot := func(p string) bool {
		return isWithin(p, cleanRoot) || isWithin(p, realRoot)
	}

	return inRoot(cleanPath) && inRoot(realPath), nil
}

func isWithin(path, dir string) bool {
	if path == dir {
		return true
	}
	if !strings.HasSuffix(dir, string(filepath.Separator)) {
		dir += string(filepath.Separator)
	}
	return strings.HasPrefix(path, dir)
}
