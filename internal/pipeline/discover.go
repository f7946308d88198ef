package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Discover expands pattern inside dir and returns the matches in glob order
// (lexical). No match returns an empty slice and no error; a malformed
// pattern is an error. Hidden entries (leading dot) are dropped unless
// pattern itself starts with a dot, so a ".partial.hdf5" left by an
// interrupted copy never becomes the first match.
func Discover(dir, pattern string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	return visible(files, pattern), nil
}

// Folders returns the immediate non-hidden subdirectories of root in glob
// order. Plain files under root are ignored; they could never match a
// pattern inside them.
func Folders(root string) ([]string, error) {
	entries, err := filepath.Glob(filepath.Join(root, "*"))
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, e := range visible(entries, "*") {
		fi, err := os.Stat(e)
		if err != nil {
			continue
		}
		if fi.IsDir() {
			dirs = append(dirs, e)
		}
	}
	return dirs, nil
}

// visible drops matches whose base name starts with "." when the last
// pattern element does not.
func visible(matches []string, pattern string) []string {
	if strings.HasPrefix(filepath.Base(pattern), ".") {
		return matches
	}
	out := matches[:0]
	for _, m := range matches {
		if !strings.HasPrefix(filepath.Base(m), ".") {
			out = append(out, m)
		}
	}
	return out
}
