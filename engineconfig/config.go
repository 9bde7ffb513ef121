// Package engineconfig loads the engine's startup tuning: default world
// size, initial gravity and ambient temperature, input-ring capacity,
// and diagnostics cadence. It is distinct from the JSON content Bundle:
// the Bundle is simulation *content* (elements, reactions); this package
// is *engine* configuration, loaded through Load or Init. No `cmd/` tool
// in this module calls either.
//
// The Tuning section documents the algorithm constants the engine pins
// exactly (chunk size 32, sleep-after 60 idle ticks, thermal ambient
// rate 0.02/threshold 0.5, flood-fill budget 200000) — those values are
// compiled into engine/chunk, engine/thermal, and engine/brush as
// package constants rather than threaded through at runtime, since they
// are fixed parts of the deterministic algorithm, not knobs. Tuning
// holds the same numbers as plain data; neither `cmd/tune` nor
// `diagnostics` reads it.
package engineconfig

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all engine startup configuration.
type Config struct {
	World       WorldConfig       `yaml:"world"`
	Ring        RingConfig        `yaml:"ring"`
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`
	Tuning      TuningConfig      `yaml:"tuning"`

	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds a default grid size and initial field values.
// engine.New takes its size from its caller and does not read this.
type WorldConfig struct {
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	AmbientTemp float64 `yaml:"ambient_temp"`
	GravityX    float64 `yaml:"gravity_x"`
	GravityY    float64 `yaml:"gravity_y"`
}

// RingConfig holds the default input-ring capacity.
type RingConfig struct {
	Capacity int `yaml:"capacity"`
}

// DiagnosticsConfig holds a tick-stat flush cadence. diagnostics.Writer
// and cmd/replay do not read it.
type DiagnosticsConfig struct {
	FlushEveryTicks int `yaml:"flush_every_ticks"`
}

// TuningConfig documents (does not override) the algorithm constants the
// engine fixes exactly, for tooling that needs to report or reason about
// them.
type TuningConfig struct {
	ChunkSize               int     `yaml:"chunk_size"`
	SleepAfterIdleTicks      int     `yaml:"sleep_after_idle_ticks"`
	ThermalAmbientRate       float64 `yaml:"thermal_ambient_rate"`
	ThermalAmbientThreshold  float64 `yaml:"thermal_ambient_threshold"`
	FloodFillBudget          int     `yaml:"flood_fill_budget"`
}

// DerivedConfig holds values computed once after load rather than
// recomputed on every use.
type DerivedConfig struct {
	AmbientTemp32 float32
	GravityX32    float32
	GravityY32    float32
}

// global holds the configuration loaded by Init.
var global *Config

// Init loads configuration from the given path, or uses embedded
// defaults if path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("engineconfig: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("engineconfig: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.AmbientTemp32 = float32(c.World.AmbientTemp)
	c.Derived.GravityX32 = float32(c.World.GravityX)
	c.Derived.GravityY32 = float32(c.World.GravityY)
}
