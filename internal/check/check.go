// Package check provides dataset diagnostics for the check subcommand: it
// verifies the root directory, lists folders and matches, and test-opens the
// first match of every folder.
package check

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/cuiluyi/rlds-dataset-builder/internal/config"
	"github.com/cuiluyi/rlds-dataset-builder/internal/dataset"
	"github.com/cuiluyi/rlds-dataset-builder/internal/display"
	"github.com/cuiluyi/rlds-dataset-builder/internal/pipeline"
)

// Sentinel errors returned by Inspect.
var (
	ErrNoDataGroup = errors.New("data group missing")
	ErrEmptyData   = errors.New("data group has no demonstrations")
)

// Logger is the minimal logging interface needed by Run.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a recording logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(string, ...interface{})
}

// Run runs the check flow over cfg.Root and reports each finding through
// log. It keeps going past failures and returns false if any folder's first
// match could not be inspected or the root itself is unusable.
func Run(cfg *config.Config, opener dataset.Opener, log Logger) bool {
	log.Info("=== Dataset Check ===")

	fi, err := os.Stat(cfg.Root)
	if err != nil {
		log.Error("Root not accessible: %v", err)
		return false
	}
	if !fi.IsDir() {
		log.Error("Root is not a directory: %s", cfg.Root)
		return false
	}
	log.Success("Root: %s", cfg.Root)

	folders, err := pipeline.Folders(cfg.Root)
	if err != nil {
		log.Error("Cannot list folders: %v", err)
		return false
	}
	if len(folders) == 0 {
		log.Warn("No folders under %s", cfg.Root)
		return true
	}
	log.Info("Folders: %d", len(folders))

	ok := true
	for _, folder := range folders {
		if !checkFolder(cfg, opener, log, folder) {
			ok = false
		}
	}
	return ok
}

// checkFolder reports one folder's matches and inspects the first of them.
func checkFolder(cfg *config.Config, opener dataset.Opener, log Logger, folder string) bool {
	files, err := pipeline.Discover(folder, cfg.Pattern)
	if err != nil {
		log.Error("%s: %v", folder, err)
		return false
	}
	if len(files) == 0 {
		log.Warn("%s: no %s files (skipped when probing)", folder, cfg.Pattern)
		return true
	}

	first := files[0]
	size := "size unknown"
	if fi, err := os.Stat(first); err == nil {
		size = display.FormatBytes(fi.Size())
	}
	log.Info("%s: %d files, first %s (%s)", folder, len(files), filepath.Base(first), size)

	demos, err := Inspect(opener, first, cfg.DataGroup)
	if err != nil {
		log.Error("  %v", err)
		return false
	}
	log.Success("  %d demonstrations under %s", demos, cfg.DataGroup)
	return true
}

// Inspect opens path, resolves dataGroup, and returns the number of
// demonstration keys under it. A missing or empty data group is an error.
func Inspect(opener dataset.Opener, path, dataGroup string) (n int, err error) {
	f, err := opener.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			n, err = 0, cerr
		}
	}()

	g := f.Root()
	for _, seg := range strings.Split(strings.Trim(dataGroup, "/"), "/") {
		next, err := g.Group(seg)
		if err != nil {
			return 0, errors.Join(ErrNoDataGroup, err)
		}
		g = next
	}
	keys := g.Keys()
	if len(keys) == 0 {
		return 0, ErrEmptyData
	}
	return len(keys), nil
}
