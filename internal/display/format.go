// Package display renders shapes, output lines, sizes, and the banner.
package display

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cuiluyi/rlds-dataset-builder/internal/dataset"
)

// FormatShape renders a shape as a tuple: "(10, 128, 128, 3)", "(50,)" for
// rank 1, "()" for a scalar.
func FormatShape(s dataset.Shape) string {
	switch len(s) {
	case 0:
		return "()"
	case 1:
		return "(" + strconv.FormatUint(s[0], 10) + ",)"
	}
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = strconv.FormatUint(d, 10)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// FormatLine returns "<label> shape: <tuple>", prefixed with "<folder> "
// when folder is non-empty.
func FormatLine(folder, label string, s dataset.Shape) string {
	line := label + " shape: " + FormatShape(s)
	if folder != "" {
		return folder + " " + line
	}
	return line
}

// FormatBytes returns a human-readable size (B, KiB, MiB, GiB, TiB, PiB).
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	suffixes := []string{"KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}
	if exp >= len(suffixes) {
		exp = len(suffixes) - 1
		div = 1
		for i := 0; i <= exp; i++ {
			div *= unit
		}
	}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), suffixes[exp])
}
