// Package config handles lightrig configuration loading and management.
package config

// Config holds all lightrig settings.
type Config struct {
	Logging     LoggingConfig     `yaml:"logging"`
	Viewport    ViewportConfig    `yaml:"viewport"`
	Positioning PositioningConfig `yaml:"positioning"`
	Sensitivity SensitivityConfig `yaml:"sensitivity"`
	Placement   PlacementConfig   `yaml:"placement"`
}

// LoggingConfig holds logging settings. The file settings apply only
// when LogFile is set.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	FileFormat string `yaml:"file_format"` // console or json
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// ViewportConfig holds the default camera projection.
type ViewportConfig struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	FOV    float32 `yaml:"fov"` // Vertical field of view, degrees
	Near   float32 `yaml:"near"`
	Far    float32 `yaml:"far"`
}

// PositioningConfig holds interactive positioning settings.
type PositioningConfig struct {
	DefaultDistance      float32     `yaml:"default_distance"`
	OrbitRadiansPerPixel float32     `yaml:"orbit_radians_per_pixel"`
	FreeFallbackDepth    float32     `yaml:"free_fallback_depth"`
	Pivot                PivotConfig `yaml:"pivot"`
}

// PivotConfig controls the pivot derived for lights that have none stored.
type PivotConfig struct {
	SunDistance      float32 `yaml:"sun_distance"`
	SpotMinDistance  float32 `yaml:"spot_min_distance"`
	SpotEnergyFactor float32 `yaml:"spot_energy_factor"`
	MinDistance      float32 `yaml:"min_distance"`  // Point and area lights
	EnergyFactor     float32 `yaml:"energy_factor"` // Point and area lights
}

// ChannelProfile is the sensitivity curve of one scalar channel.
type ChannelProfile struct {
	Base        float32 `yaml:"base"`
	SpeedFactor float32 `yaml:"speed_factor"`
	AccelFactor float32 `yaml:"accel_factor"`
}

// SensitivityConfig holds pointer-to-value scaling settings.
type SensitivityConfig struct {
	Channels  map[string]ChannelProfile `yaml:"channels"`
	SlowSpeed float32                   `yaml:"slow_speed"` // px/s
	FastSpeed float32                   `yaml:"fast_speed"` // px/s
	ShortDrag float32                   `yaml:"short_drag"` // px
	LongDrag  float32                   `yaml:"long_drag"`  // px
	AreaAxis  string                    `yaml:"area_axis"`  // xy, x or y
}

// PlacementConfig holds template placement and obstruction audit settings.
type PlacementConfig struct {
	BaseDistance        float32   `yaml:"base_distance"`
	AutoScale           bool      `yaml:"auto_scale"`
	CameraRelative      bool      `yaml:"camera_relative"`
	IntensityMultiplier float32   `yaml:"intensity_multiplier"`
	SizeMultiplier      float32   `yaml:"size_multiplier"`
	Strategy            string    `yaml:"strategy"` // adjust, skip or warn
	SampleCount         int       `yaml:"sample_count"`
	SampleRadius        float32   `yaml:"sample_radius"`
	LiftMargin          float32   `yaml:"lift_margin"`
	TopTolerance        float32   `yaml:"top_tolerance"`
	Steps               []float32 `yaml:"steps"`
	MaxTemplateLights   int       `yaml:"max_template_lights"`
	MaxSceneLights      int       `yaml:"max_scene_lights"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			FileFormat: "console",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
		Viewport: ViewportConfig{
			Width:  1280,
			Height: 720,
			FOV:    50,
			Near:   0.1,
			Far:    1000,
		},
		Positioning: PositioningConfig{
			DefaultDistance:      5,
			OrbitRadiansPerPixel: 0.01,
			FreeFallbackDepth:    5,
			Pivot: PivotConfig{
				SunDistance:      100,
				SpotMinDistance:  5,
				SpotEnergyFactor: 0.5,
				MinDistance:      2,
				EnergyFactor:     0.3,
			},
		},
		Sensitivity: SensitivityConfig{
			Channels: map[string]ChannelProfile{
				"distance":    {Base: 0.015, SpeedFactor: 1.5, AccelFactor: 2.0},
				"power":       {Base: 0.008, SpeedFactor: 1.2, AccelFactor: 1.8},
				"scale":       {Base: 0.004, SpeedFactor: 1.0, AccelFactor: 1.5},
				"angle":       {Base: 0.001, SpeedFactor: 0.8, AccelFactor: 1.2},
				"temperature": {Base: 0.006, SpeedFactor: 1.3, AccelFactor: 1.6},
				"blend":       {Base: 0.002, SpeedFactor: 0.9, AccelFactor: 1.3},
			},
			SlowSpeed: 100,
			FastSpeed: 1000,
			ShortDrag: 100,
			LongDrag:  500,
			AreaAxis:  "xy",
		},
		Placement: PlacementConfig{
			BaseDistance:        2.0,
			AutoScale:           true,
			CameraRelative:      false,
			IntensityMultiplier: 1,
			SizeMultiplier:      1,
			Strategy:            "adjust",
			SampleCount:         5,
			SampleRadius:        0.1,
			LiftMargin:          0.5,
			TopTolerance:        0.1,
			Steps:               []float32{0.5, 1.0, 1.5, 2.0},
			MaxTemplateLights:   15,
			MaxSceneLights:      20,
		},
	}
}
