// Package config loads and validates arena layout configuration files.
//
// Configurations are nested TOML documents. The loader produces an
// immutable typed Config; unit normalization happens downstream in the
// geometry engines, never by rewriting the loaded values.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/flypanel/layout-tools/pkg/arena/units"
)

// Config is the full arena configuration as read from file.
// Values carry the units declared in the Units section.
type Config struct {
	Panel Panel `mapstructure:"panel"`
	Pins  Pins  `mapstructure:"pins"`
	Units Units `mapstructure:"units"`
	PCB   PCB   `mapstructure:"pcb"`
}

// Panel describes the ring arena wall segments.
type Panel struct {
	Number      int     `mapstructure:"number"`
	Width       float64 `mapstructure:"width"`
	Depth       float64 `mapstructure:"depth"`
	OffsetAngle float64 `mapstructure:"offset_angle"`
	Omitted     []int   `mapstructure:"omitted"`
}

// Pins describes the header mounted on each panel.
type Pins struct {
	Number  int     `mapstructure:"number"`
	Pitch   float64 `mapstructure:"pitch"`
	Depth   float64 `mapstructure:"depth"`
	Omitted []int   `mapstructure:"omitted"`
}

// Units declares the unit system the file's values use.
type Units struct {
	Length string `mapstructure:"length"`
	Angle  string `mapstructure:"angle"`
}

// PCB holds the placement-side parameters for the target board.
type PCB struct {
	CenterX  float64   `mapstructure:"center_x"`
	CenterY  float64   `mapstructure:"center_y"`
	SizeX    float64   `mapstructure:"size_x"`
	SizeY    float64   `mapstructure:"size_y"`
	Panel    RefSeries `mapstructure:"panel"`
	Relative Relative  `mapstructure:"relative"`
	LED      LED       `mapstructure:"led"`
}

// RefSeries names a run of sequential reference designators,
// e.g. prefix "J" starting at 1 gives J1, J2, J3, ...
type RefSeries struct {
	RefPrefix string `mapstructure:"ref_prefix"`
	RefStart  int    `mapstructure:"ref_start"`
}

// Relative configures the relative-placement transform: the model
// header whose as-built local arrangement is copied, and the component
// references that move rigidly with each header (position-for-position
// correspondence with the model's list).
type Relative struct {
	Model      string              `mapstructure:"model"`
	Components map[string][]string `mapstructure:"components"`
}

// LED configures the rectangular LED-array placement.
type LED struct {
	NRows     int     `mapstructure:"nrows"`
	NCols     int     `mapstructure:"ncols"`
	RefPrefix string  `mapstructure:"ref_prefix"`
	RefStart  int     `mapstructure:"ref_start"`
	Angle     float64 `mapstructure:"angle"`
}

// FromFile loads and validates a TOML configuration file.
func FromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %q: %w", path, err)
	}
	return unmarshal(v)
}

// FromMap builds and validates a configuration from an in-memory
// mapping with the same nesting as the file format.
func FromMap(m map[string]any) (*Config, error) {
	v := newViper()
	if err := v.MergeConfigMap(m); err != nil {
		return nil, fmt.Errorf("failed to merge config map: %w", err)
	}
	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetDefault("units.length", string(units.Millimeters))
	v.SetDefault("units.angle", string(units.Degrees))
	v.SetDefault("pcb.panel.ref_start", 1)
	v.SetDefault("pcb.led.ref_start", 1)
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Converter returns the unit converter for this configuration.
func (c *Config) Converter() units.Converter {
	return units.Converter{
		Length: units.LengthUnit(strings.ToLower(c.Units.Length)),
		Angle:  units.AngleUnit(strings.ToLower(c.Units.Angle)),
	}
}

// Validate checks the invariants every tool shares: unit names must be
// known and omitted panel indices must fall inside the declared panel
// range. Sections a given geometry does not use may be absent; their
// requirements are enforced by the engine that reads them.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Units.Length) {
	case string(units.Millimeters), string(units.Inches):
	default:
		return fmt.Errorf("invalid units.length %q (want mm or inch)", c.Units.Length)
	}
	switch strings.ToLower(c.Units.Angle) {
	case string(units.Degrees), string(units.Radians):
	default:
		return fmt.Errorf("invalid units.angle %q (want deg or rad)", c.Units.Angle)
	}
	for _, i := range c.Panel.Omitted {
		if i < 0 || i >= c.Panel.Number {
			return fmt.Errorf("panel.omitted index %d out of range [0,%d)", i, c.Panel.Number)
		}
	}
	return nil
}

// ValidateRing checks the panel and pins sections the ring geometry
// engine requires.
func (c *Config) ValidateRing() error {
	if c.Panel.Number < 1 {
		return fmt.Errorf("panel.number must be >= 1, got %d", c.Panel.Number)
	}
	if c.Panel.Width <= 0 {
		return fmt.Errorf("panel.width must be positive, got %v", c.Panel.Width)
	}
	if c.Panel.Depth <= 0 {
		return fmt.Errorf("panel.depth must be positive, got %v", c.Panel.Depth)
	}
	if c.Pins.Number < 1 {
		return fmt.Errorf("pins.number must be >= 1, got %d", c.Pins.Number)
	}
	if c.Pins.Pitch <= 0 {
		return fmt.Errorf("pins.pitch must be positive, got %v", c.Pins.Pitch)
	}
	return nil
}

// Installed reports whether panel index i is populated.
func (c *Config) Installed(i int) bool {
	for _, o := range c.Panel.Omitted {
		if o == i {
			return false
		}
	}
	return true
}

// NumInstalled counts the populated panel slots.
func (c *Config) NumInstalled() int {
	n := 0
	for i := 0; i < c.Panel.Number; i++ {
		if c.Installed(i) {
			n++
		}
	}
	return n
}
