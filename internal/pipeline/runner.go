package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/cuiluyi/rlds-dataset-builder/internal/config"
	"github.com/cuiluyi/rlds-dataset-builder/internal/dataset"
	"github.com/cuiluyi/rlds-dataset-builder/internal/display"
	"github.com/cuiluyi/rlds-dataset-builder/internal/logging"
)

// Runner executes probe passes. Shape lines go to Out; everything else goes
// through Log.
type Runner struct {
	Prober *dataset.Prober
	Out    io.Writer
	Log    *logging.Logger
}

// NewRunner builds the prober for cfg's data group, key order, demo, and
// load settings and returns a Runner writing lines to out.
func NewRunner(cfg *config.Config, opener dataset.Opener, out io.Writer, log *logging.Logger) *Runner {
	p := dataset.NewProber(opener, dataset.Options{
		DataGroup: cfg.DataGroup,
		SortKeys:  cfg.KeyOrder == config.KeyOrderSorted,
		Demo:      cfg.Demo,
		Load:      cfg.Load,
	})
	return &Runner{Prober: p, Out: out, Log: log}
}

// Run probes cfg.TargetFolder() in single-folder scope, or every folder
// under cfg.Root when cfg.AllFolders is set. Only the first matching file of
// each folder is opened. A folder with no match prints nothing. The first
// probe error stops the pass and is returned; folders after it are not
// visited.
func (r *Runner) Run(ctx context.Context, cfg *config.Config) (RunStats, error) {
	var stats RunStats
	specs := dataset.SpecsFromPaths(cfg.Arrays)

	if !cfg.AllFolders {
		err := r.probeFolder(cfg, cfg.TargetFolder(), "", specs, &stats)
		return stats, err
	}

	folders, err := Folders(cfg.Root)
	if err != nil {
		return stats, fmt.Errorf("list folders in %s: %w", cfg.Root, err)
	}
	r.Log.Debug("Found %d folders under %s", len(folders), cfg.Root)

	for _, folder := range folders {
		if err := ctx.Err(); err != nil {
			r.Log.Warn("Interrupted")
			return stats, err
		}
		if err := r.probeFolder(cfg, folder, folder, specs, &stats); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

// probeFolder handles one folder: discover → probe first match → print.
// A non-empty prefix marks all-folders output.
func (r *Runner) probeFolder(cfg *config.Config, folder, prefix string, specs []dataset.ArraySpec, stats *RunStats) error {
	stats.FoldersScanned++

	files, err := Discover(folder, cfg.Pattern)
	if err != nil {
		return err
	}
	stats.FilesMatched += len(files)
	if len(files) == 0 {
		r.Log.Debug("Skip (no %s): %s", cfg.Pattern, folder)
		stats.FoldersSkipped++
		return nil
	}

	first := files[0]
	r.Log.Debug("Probing %s (%d matches)", filepath.Base(first), len(files))
	res, err := r.Prober.Probe(first, specs)
	if err != nil {
		return err
	}
	r.Log.Debug("Selected demonstration %s", res.Demo)
	stats.FoldersProbed++

	if prefix != "" && cfg.Layout == config.LayoutHeader {
		if _, err := fmt.Fprintln(r.Out, prefix); err != nil {
			return err
		}
		prefix = ""
	}
	for _, a := range res.Arrays {
		if _, err := fmt.Fprintln(r.Out, display.FormatLine(prefix, a.Spec.Label, a.Shape)); err != nil {
			return err
		}
		stats.ArraysReported++
	}
	return nil
}
