package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names a config file when --config is not given.
const EnvConfigPath = "LIGHTRIG_CONFIG"

// Load builds the effective configuration. Later sources override earlier
// ones: defaults, the config file, command-line flags. The result is
// validated before it is returned.
func Load() (*Config, error) {
	cfg := Default()

	if path := locate(); path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// locate picks the config file: --config, then $LIGHTRIG_CONFIG, then the
// first existing well-known location. An explicit path is returned even
// when it does not exist so that loading reports the error.
func locate() string {
	if p := ConfigPath(); p != "" {
		return p
	}
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	for _, p := range []string{"lightrig.yaml", filepath.Join(ConfigDir(), "config.yaml")} {
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p
		}
	}
	return ""
}

// ConfigDir returns the per-user lightrig config directory.
func ConfigDir() string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Lightrig")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "Lightrig")
		}
		return filepath.Join(home, "AppData", "Roaming", "Lightrig")
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "lightrig")
	}
	return filepath.Join(home, ".config", "lightrig")
}

// loadFromFile decodes YAML over cfg. Keys absent from the file keep their
// current values; sensitivity channels merge per channel name.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	return yaml.Unmarshal(data, cfg)
}

var (
	levelNames    = []string{"debug", "info", "warn", "warning", "error"}
	formatNames   = []string{"console", "json"}
	axisNames     = []string{"xy", "x", "y"}
	strategyNames = []string{"adjust", "skip", "warn", "adjust_position", "skip_light", "warn_only"}
)

// Validate reports every out-of-range setting at once.
func (c *Config) Validate() error {
	var errs error
	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf(format, args...))
		}
	}

	check(oneOf(c.Logging.Level, levelNames), "logging.level: unknown level %q", c.Logging.Level)
	check(oneOf(c.Logging.FileFormat, formatNames), "logging.file_format: must be console or json, got %q", c.Logging.FileFormat)

	v := c.Viewport
	check(v.Width > 0 && v.Height > 0, "viewport: size must be positive, got %dx%d", v.Width, v.Height)
	check(v.FOV > 0 && v.FOV < 180, "viewport.fov: must be in (0, 180), got %g", v.FOV)
	check(v.Near > 0 && v.Far > v.Near, "viewport: need 0 < near < far, got near=%g far=%g", v.Near, v.Far)

	p := c.Positioning
	check(p.DefaultDistance > 0, "positioning.default_distance: must be positive")
	check(p.OrbitRadiansPerPixel > 0, "positioning.orbit_radians_per_pixel: must be positive")
	check(p.FreeFallbackDepth > 0, "positioning.free_fallback_depth: must be positive")

	s := c.Sensitivity
	check(s.SlowSpeed < s.FastSpeed, "sensitivity: slow_speed %g must be below fast_speed %g", s.SlowSpeed, s.FastSpeed)
	check(s.ShortDrag < s.LongDrag, "sensitivity: short_drag %g must be below long_drag %g", s.ShortDrag, s.LongDrag)
	check(oneOf(s.AreaAxis, axisNames), "sensitivity.area_axis: must be xy, x or y, got %q", s.AreaAxis)
	for name, ch := range s.Channels {
		check(ch.Base > 0, "sensitivity.channels.%s.base: must be positive", name)
	}

	pl := c.Placement
	check(oneOf(pl.Strategy, strategyNames), "placement.strategy: unknown strategy %q", pl.Strategy)
	check(pl.BaseDistance > 0, "placement.base_distance: must be positive")
	check(pl.SampleCount > 0, "placement.sample_count: must be at least 1")
	check(pl.SampleRadius >= 0, "placement.sample_radius: must not be negative")
	for i, step := range pl.Steps {
		check(step > 0, "placement.steps[%d]: must be positive, got %g", i, step)
	}
	return errs
}

// oneOf matches s case-insensitively; empty means the default and passes.
func oneOf(s string, names []string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return true
	}
	for _, n := range names {
		if s == n {
			return true
		}
	}
	return false
}
