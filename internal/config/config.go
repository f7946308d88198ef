// Package config holds runtime configuration: defaults, array presets,
// viper-backed loading, cobra flag binding, and validation.
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// --- Enum types for validated string fields ---

// KeyOrder selects which demonstration key under the data group is probed.
type KeyOrder string

const (
	KeyOrderFirst  KeyOrder = "first"  // First key in store listing order (default).
	KeyOrderSorted KeyOrder = "sorted" // Lexicographically smallest key.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stderr is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Layout controls how all-folders output attributes lines to a folder.
type Layout string

const (
	LayoutInline Layout = "inline" // "<folder> <label> shape: <tuple>" (default).
	LayoutHeader Layout = "header" // Folder on its own line, then "<label> shape: <tuple>".
)

// Preset is a named array selection with its folder scope.
type Preset struct {
	AllFolders bool
	Layout     Layout
	Arrays     []string
}

// Presets mirror the three inspection passes over a LIBERO checkout: camera
// shapes for one suite, agentview shapes for every suite, and the numeric
// action/state arrays for every suite.
var Presets = map[string]Preset{
	"cameras": {
		AllFolders: false,
		Arrays:     []string{"obs/agentview_rgb", "obs/eye_in_hand_rgb"},
	},
	"agentview": {
		AllFolders: true,
		Arrays:     []string{"obs/agentview_rgb"},
	},
	"states": {
		AllFolders: true,
		Layout:     LayoutHeader,
		Arrays:     []string{"actions", "obs/ee_states", "obs/gripper_states", "obs/joint_states"},
	},
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Config holds all runtime settings. It is populated by [DefaultConfig],
// overlaid by [Load], and then passed by pointer to packages that need it.
type Config struct {
	// Paths.
	Root      string // Dataset root; in all-folders scope every subdirectory is probed.
	Folder    string // Single-folder scope target. Empty means Root.
	Pattern   string // Default: "*.hdf5".
	DataGroup string // Default: "data".

	// Selection.
	Preset     string
	Arrays     []string // Paths relative to the demonstration group, e.g. "obs/agentview_rgb".
	AllFolders bool
	Layout     Layout   `validate:"oneof=inline header"` // Default: "inline".
	KeyOrder   KeyOrder `validate:"oneof=first sorted"`  // Default: "first".
	Demo       string   // Explicit demonstration key; overrides KeyOrder.
	Load       bool     // Materialize arrays fully before reporting.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode `validate:"oneof=auto always never"` // Default: "auto".
	LogFile   string    // Optional log file path.
	CheckOnly bool      // Run diagnostics instead of probing.
}

// DefaultConfig returns a Config with all defaults. Used as the base before
// [Load] applies config file, environment, and flag overrides.
func DefaultConfig() Config {
	return Config{
		Root:      ".",
		Pattern:   "*.hdf5",
		DataGroup: "data",
		Layout:    LayoutInline,
		KeyOrder:  KeyOrderFirst,
		Load:      false,
		Verbose:   false,
		ColorMode: ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// ApplyPreset copies the named preset's scope and arrays into c.
func (c *Config) ApplyPreset(name string) error {
	p, ok := Presets[name]
	if !ok {
		return fmt.Errorf("unknown preset %q (use %s)", name, strings.Join(PresetNames(), ", "))
	}
	c.Preset = name
	c.AllFolders = p.AllFolders
	c.Arrays = append([]string(nil), p.Arrays...)
	if p.Layout != "" {
		c.Layout = p.Layout
	}
	return nil
}

// TargetFolder returns the folder probed in single-folder scope.
func (c *Config) TargetFolder() string {
	if c.Folder != "" {
		return c.Folder
	}
	return c.Root
}

// Validate checks enum fields, the pattern, and the array list. In probe
// mode it also requires the directory the chosen scope reads from.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) && len(fields) > 0 {
			return fieldError(fields[0])
		}
		return err
	}

	if strings.TrimSpace(c.Pattern) == "" {
		return errors.New("file pattern must not be empty")
	}
	if strings.Trim(c.DataGroup, "/") == "" {
		return errors.New("data group must not be empty")
	}

	if c.CheckOnly {
		if c.Root == "" {
			return errors.New("need a dataset root (--root or SHAPEPROBE_ROOT)")
		}
		return nil
	}

	if len(c.Arrays) == 0 {
		return errors.New("no arrays selected (use --preset or --arrays)")
	}
	for _, a := range c.Arrays {
		if err := validateArrayPath(a); err != nil {
			return err
		}
	}

	if c.AllFolders && c.Root == "" {
		return errors.New("need a dataset root (--root or SHAPEPROBE_ROOT)")
	}
	if !c.AllFolders && c.TargetFolder() == "" {
		return errors.New("need a folder to probe")
	}
	return nil
}

// validate checks the `validate` struct tags on Config.
var validate = validator.New()

// enumHints maps a tagged field to the values it accepts.
var enumHints = map[string]string{
	"KeyOrder":  "key order (use 'first' or 'sorted')",
	"Layout":    "layout (use 'inline' or 'header')",
	"ColorMode": "color mode (use 'auto', 'always' or 'never')",
}

func fieldError(fe validator.FieldError) error {
	if hint, ok := enumHints[fe.Field()]; ok {
		return fmt.Errorf("invalid %s, got %q", hint, fe.Value())
	}
	return fmt.Errorf("invalid %s: failed %q", fe.Field(), fe.Tag())
}

// validateArrayPath rejects empty paths and paths with empty segments
// ("obs//x", "/obs").
func validateArrayPath(p string) error {
	if p == "" {
		return errors.New("array path must not be empty")
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == "" {
			return fmt.Errorf("invalid array path %q (empty segment)", p)
		}
	}
	return nil
}
