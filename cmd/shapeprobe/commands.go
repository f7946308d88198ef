package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cuiluyi/rlds-dataset-builder/internal/check"
	"github.com/cuiluyi/rlds-dataset-builder/internal/config"
	"github.com/cuiluyi/rlds-dataset-builder/internal/dataset"
	"github.com/cuiluyi/rlds-dataset-builder/internal/display"
	"github.com/cuiluyi/rlds-dataset-builder/internal/logging"
	"github.com/cuiluyi/rlds-dataset-builder/internal/pipeline"
)

// errReported marks a failure that has already been written to the log.
var errReported = errors.New("failure already reported")

// app carries what every subcommand shares.
type app struct {
	v      *viper.Viper
	out    io.Writer
	opener dataset.Opener
}

func newRootCmd(out io.Writer, opener dataset.Opener) *cobra.Command {
	a := &app{v: config.NewViper(), out: out, opener: opener}

	root := &cobra.Command{
		Use:   "shapeprobe",
		Short: "Print array shapes from LIBERO HDF5 datasets",
		Long: `shapeprobe opens the first HDF5 file of a dataset folder, picks one
demonstration under the data group, and prints the shape of each selected
array. Shape lines go to stdout; logs go to stderr.

Commands:
  probe      - Probe arbitrary arrays (--preset, --arrays, --all)
  cameras    - agentview_rgb and eye_in_hand_rgb of one folder
  agentview  - agentview_rgb of every folder under --root
  states     - actions and robot states of every folder under --root
  check      - Inspect the dataset root without printing shapes

Example:
  shapeprobe cameras /data/LIBERO/libero_spatial
  shapeprobe agentview --root /data/LIBERO
  shapeprobe probe --arrays actions,obs/joint_states --key-order sorted`,
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	if err := config.BindFlags(root.PersistentFlags(), a.v); err != nil {
		panic(err)
	}

	root.AddCommand(a.probeCmd())
	root.AddCommand(a.presetCmd("cameras", "[FOLDER]", "Print camera image shapes of one folder"))
	root.AddCommand(a.presetCmd("agentview", "[ROOT]", "Print agentview_rgb shapes of every folder"))
	root.AddCommand(a.presetCmd("states", "[ROOT]", "Print action and robot state shapes of every folder"))
	root.AddCommand(a.checkCmd())
	return root
}

func (a *app) probeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe [FOLDER]",
		Short: "Probe the selected arrays",
		Long: `Probe the first matching file of FOLDER (default: --root), or of every
folder under the root with --all. Arrays come from --preset, --arrays, or
SHAPEPROBE_ARRAYS; explicit arrays replace a preset's.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runProbe(cmd, args)
		},
	}
	if err := config.BindSelectionFlags(cmd.Flags(), a.v); err != nil {
		panic(err)
	}
	return cmd
}

func (a *app) presetCmd(name, argName, short string) *cobra.Command {
	p := config.Presets[name]
	return &cobra.Command{
		Use:   name + " " + argName,
		Short: short,
		Long:  fmt.Sprintf("%s.\n\nArrays: %s", short, strings.Join(p.Arrays, ", ")),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.v.Set(config.KeyPreset, name)
			return a.runProbe(cmd, args)
		},
	}
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [ROOT]",
		Short: "Check that each folder's first file opens and has demonstrations",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(args, true)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			log, err := logging.NewLogger(&cfg)
			if err != nil {
				return err
			}
			defer log.Close()

			display.PrintBanner(a.out)
			if !check.Run(&cfg, a.opener, log) {
				return errReported
			}
			return nil
		},
	}
}

// loadConfig resolves the merged configuration and applies the positional
// argument: the probed folder in single-folder scope, the root otherwise.
func (a *app) loadConfig(args []string, checkOnly bool) (config.Config, error) {
	cfg, err := config.Load(a.v)
	if err != nil {
		return cfg, err
	}
	cfg.CheckOnly = checkOnly
	if len(args) == 1 {
		dir := config.NormalizeDirArg(args[0])
		if cfg.AllFolders || checkOnly {
			cfg.Root = dir
		} else {
			cfg.Folder = dir
		}
	}
	return cfg, nil
}

func (a *app) runProbe(cmd *cobra.Command, args []string) error {
	cfg, err := a.loadConfig(args, false)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	if cfg.AllFolders {
		log.Debug("Root: %s (pattern %s)", cfg.Root, cfg.Pattern)
	} else {
		log.Debug("Folder: %s (pattern %s)", cfg.TargetFolder(), cfg.Pattern)
	}
	log.Debug("Arrays: %s", strings.Join(cfg.Arrays, ", "))

	r := pipeline.NewRunner(&cfg, a.opener, a.out, log)
	stats, err := r.Run(cmd.Context(), &cfg)
	if err != nil {
		log.Error("%v", err)
		return errReported
	}
	if stats.Empty() {
		log.Debug("No %s files found; nothing printed", cfg.Pattern)
	}
	log.Debug("Done: %d folders scanned, %d probed, %d skipped, %d arrays",
		stats.FoldersScanned, stats.FoldersProbed, stats.FoldersSkipped, stats.ArraysReported)
	return nil
}
