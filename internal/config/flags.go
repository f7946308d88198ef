package config

// This file registers the persistent CLI flags and binds them into viper so
// that a flag only wins over env/config-file values when the user passed it.

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps flag names to viper keys.
var flagKeys = map[string]string{
	"config":     KeyConfig,
	"root":       KeyRoot,
	"pattern":    KeyPattern,
	"data-group": KeyDataGroup,
	"key-order":  KeyKeyOrder,
	"demo":       KeyDemo,
	"load":       KeyLoad,
	"verbose":    KeyVerbose,
	"color":      KeyColor,
	"log":        KeyLogFile,
}

// BindFlags registers the global flags on fs and binds each one to v.
func BindFlags(fs *pflag.FlagSet, v *viper.Viper) error {
	d := DefaultConfig()
	fs.String("config", "", "Config file (default: shapeprobe.yaml on the search path)")
	fs.String("root", d.Root, "Dataset root directory (or set SHAPEPROBE_ROOT)")
	fs.String("pattern", d.Pattern, "Glob matched inside each folder")
	fs.String("data-group", d.DataGroup, "Top-level group holding demonstrations")
	fs.String("key-order", string(d.KeyOrder), "Demonstration key selection: first | sorted")
	fs.String("demo", "", "Probe this demonstration key instead of selecting one")
	fs.Bool("load", d.Load, "Read every array fully into memory before reporting")
	fs.BoolP("verbose", "v", d.Verbose, "Verbose output")
	fs.String("color", string(d.ColorMode), "Colored logs: auto | always | never")
	fs.StringP("log", "l", "", "Append logs to file")

	for name, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return fmt.Errorf("bind --%s: %w", name, err)
		}
	}
	return nil
}

// BindSelectionFlags registers the probe-only selection flags on fs.
func BindSelectionFlags(fs *pflag.FlagSet, v *viper.Viper) error {
	fs.String("preset", "", "Array preset: "+strings.Join(PresetNames(), " | "))
	fs.StringSlice("arrays", nil, "Comma-separated array paths under the demonstration, e.g. obs/agentview_rgb,actions")
	fs.Bool("all", false, "Probe every folder under --root")
	fs.String("layout", "", "All-folders output: inline | header (default: preset's, else inline)")

	for name, key := range map[string]string{"preset": KeyPreset, "arrays": KeyArrays, "all": KeyAll, "layout": KeyLayout} {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return fmt.Errorf("bind --%s: %w", name, err)
		}
	}
	return nil
}
