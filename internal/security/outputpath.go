// Package security guards the file paths the CLI writes to.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// maxNameLen caps names derived from profile identifiers.
const maxNameLen = 64

// canonical resolves path to an absolute, symlink-free form. For paths that
// do not exist yet, the nearest existing ancestor is resolved and the
// remainder re-attached, so a symlinked parent cannot smuggle a write
// elsewhere.
func canonical(path string) (string, error) {
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	for dir := filepath.Dir(abs); ; dir = filepath.Dir(dir) {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			rest, _ := filepath.Rel(dir, abs)
			return filepath.Join(resolved, rest), nil
		}
		if dir == filepath.Dir(dir) {
			return abs, nil
		}
	}
}

// WithinDir reports an error unless path resolves to a location inside dir.
func WithinDir(path, dir string) error {
	p, err := canonical(path)
	if err != nil {
		return err
	}
	d, err := canonical(dir)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(d, p)
	if err != nil {
		return fmt.Errorf("%s is outside %s: %w", path, dir, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return fmt.Errorf("%s escapes %s", path, dir)
	}
	return nil
}

// ValidateOutputPath accepts plot and export targets under the working
// directory or the system temp directory.
func ValidateOutputPath(path string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	for _, dir := range []string{cwd, os.TempDir()} {
		if WithinDir(path, dir) == nil {
			return nil
		}
	}
	return fmt.Errorf("output path %s must be under %s or %s", path, cwd, os.TempDir())
}

// SafeName turns a camera or profile name into a file name stem. Runs of
// characters outside [A-Za-z0-9._-] collapse to a single underscore.
func SafeName(s string) string {
	var b strings.Builder
	under := false
	for _, r := range s {
		if b.Len() >= maxNameLen {
			break
		}
		ok := r == '.' || r == '_' || r == '-' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		switch {
		case ok:
			b.WriteRune(r)
			under = false
		case !under:
			b.WriteByte('_')
			under = true
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "camera"
	}
	return out
}
