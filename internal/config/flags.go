package config

import "github.com/spf13/pflag"

var (
	flagConfig       string
	flagDebug        bool
	flagLogFile      string
	flagStrategy     string
	flagBaseDistance float32
	flagWidth        int
	flagHeight       int
)

// BindFlags registers the config override flags on fs. Call it once on the
// root command's persistent flag set.
func BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&flagConfig, "config", "", "Path to config file")
	fs.BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	fs.StringVar(&flagLogFile, "log-file", "", "Write logs to this file as well")
	fs.StringVar(&flagStrategy, "strategy", "", "Obstruction strategy: adjust, skip or warn")
	fs.Float32Var(&flagBaseDistance, "base-distance", 0, "Template base distance")
	fs.IntVar(&flagWidth, "width", 0, "Viewport width")
	fs.IntVar(&flagHeight, "height", 0, "Viewport height")
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if flagDebug {
		cfg.Logging.Level = "debug"
	}
	if flagLogFile != "" {
		cfg.Logging.LogFile = flagLogFile
	}
	if flagStrategy != "" {
		cfg.Placement.Strategy = flagStrategy
	}
	if flagBaseDistance > 0 {
		cfg.Placement.BaseDistance = flagBaseDistance
	}
	if flagWidth > 0 {
		cfg.Viewport.Width = flagWidth
	}
	if flagHeight > 0 {
		cfg.Viewport.Height = flagHeight
	}
}
