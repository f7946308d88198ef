package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. SHAPEPROBE_ROOT.
const EnvPrefix = "SHAPEPROBE"

// Viper keys. Flag names use dashes; keys and env vars use underscores.
const (
	KeyConfig    = "config"
	KeyRoot      = "root"
	KeyFolder    = "folder"
	KeyPattern   = "pattern"
	KeyDataGroup = "data_group"
	KeyPreset    = "preset"
	KeyArrays    = "arrays"
	KeyAll       = "all"
	KeyLayout    = "layout"
	KeyKeyOrder  = "key_order"
	KeyDemo      = "demo"
	KeyLoad      = "load"
	KeyVerbose   = "verbose"
	KeyColor     = "color"
	KeyLogFile   = "log"
)

// NewViper returns a viper instance with defaults from [DefaultConfig],
// SHAPEPROBE_* environment lookups, and the shapeprobe.yaml search path.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("shapeprobe")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/shapeprobe")
	v.AddConfigPath("/etc/shapeprobe")
	return v
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault(KeyRoot, d.Root)
	v.SetDefault(KeyFolder, d.Folder)
	v.SetDefault(KeyPattern, d.Pattern)
	v.SetDefault(KeyDataGroup, d.DataGroup)
	v.SetDefault(KeyPreset, d.Preset)
	v.SetDefault(KeyArrays, []string{})
	v.SetDefault(KeyAll, d.AllFolders)
	v.SetDefault(KeyLayout, "")
	v.SetDefault(KeyKeyOrder, string(d.KeyOrder))
	v.SetDefault(KeyDemo, d.Demo)
	v.SetDefault(KeyLoad, d.Load)
	v.SetDefault(KeyVerbose, d.Verbose)
	v.SetDefault(KeyColor, string(d.ColorMode))
	v.SetDefault(KeyLogFile, d.LogFile)
}

// Load reads the optional config file and resolves every key into a Config.
// Precedence: flag > environment > config file > default. A missing
// shapeprobe.yaml on the search path is fine; an explicit --config that
// cannot be read is an error. The result is not validated.
func Load(v *viper.Viper) (Config, error) {
	if path := v.GetString(KeyConfig); path != "" {
		v.SetConfigFile(path)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := DefaultConfig()
	cfg.Root = NormalizeDirArg(v.GetString(KeyRoot))
	cfg.Folder = NormalizeDirArg(v.GetString(KeyFolder))
	cfg.Pattern = v.GetString(KeyPattern)
	cfg.DataGroup = v.GetString(KeyDataGroup)
	cfg.KeyOrder = KeyOrder(strings.ToLower(v.GetString(KeyKeyOrder)))
	cfg.Demo = v.GetString(KeyDemo)
	cfg.Load = v.GetBool(KeyLoad)
	cfg.Verbose = v.GetBool(KeyVerbose)
	cfg.ColorMode = ColorMode(strings.ToLower(v.GetString(KeyColor)))
	cfg.LogFile = v.GetString(KeyLogFile)

	if preset := v.GetString(KeyPreset); preset != "" {
		if err := cfg.ApplyPreset(preset); err != nil {
			return Config{}, err
		}
	}
	// Explicit arrays and layout replace the preset's; --all only widens scope.
	if arrays := splitArrays(v.GetStringSlice(KeyArrays)); len(arrays) > 0 {
		cfg.Arrays = arrays
	}
	if v.GetBool(KeyAll) {
		cfg.AllFolders = true
	}
	if layout := v.GetString(KeyLayout); layout != "" {
		cfg.Layout = Layout(strings.ToLower(layout))
	}
	return cfg, nil
}

// splitArrays flattens comma-joined entries (env vars arrive as one string)
// and trims surrounding slashes and whitespace.
func splitArrays(in []string) []string {
	var out []string
	for _, entry := range in {
		for _, a := range strings.Split(entry, ",") {
			a = strings.Trim(strings.TrimSpace(a), "/")
			if a != "" {
				out = append(out, a)
			}
		}
	}
	return out
}
