package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

// Simulation holds all configuration for the NPC simulation host.
type Simulation struct {
	LogLevel     string        `yaml:"log_level"`     // debug, info, warn, error
	TickInterval time.Duration `yaml:"tick_interval"` // wall-clock period between ticks
	TimeScale    float64       `yaml:"time_scale"`    // simulated seconds per real second
	Seed         uint64        `yaml:"seed"`          // 0 = random

	Behavior  BehaviorConfig  `yaml:"behavior"`
	Database  DatabaseConfig  `yaml:"database"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	World     WorldConfig     `yaml:"world"`
}

// BehaviorConfig holds perception, timers and thresholds shared by all NPCs.
type BehaviorConfig struct {
	VisionRange     float64 `yaml:"vision_range"`
	VisionAngle     float64 `yaml:"vision_angle"` // full cone, degrees
	TargetTag       string  `yaml:"target_tag"`
	SearchTimeout   float64 `yaml:"search_timeout"` // seconds
	SearchRadius    float64 `yaml:"search_radius"`
	WaitDuration    float64 `yaml:"wait_duration"` // seconds
	AttackRange     float64 `yaml:"attack_range"`
	ArrivalDistance float64 `yaml:"arrival_distance"`
	SnapTolerance   float64 `yaml:"snap_tolerance"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`

	JournalBuffer int `yaml:"journal_buffer"` // pending transitions before drop
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// TelemetryConfig controls CSV trace output. Empty TraceDir disables it.
type TelemetryConfig struct {
	TraceDir string `yaml:"trace_dir"`
}

// Vec3 is a YAML-friendly point.
type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Vec converts to r3.Vec.
func (v Vec3) Vec() r3.Vec {
	return r3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}

// Vecs converts a slice of points.
func Vecs(points []Vec3) []r3.Vec {
	out := make([]r3.Vec, len(points))
	for i, p := range points {
		out[i] = p.Vec()
	}
	return out
}

// AreaConfig is a flat walkable rectangle at height Z.
type AreaConfig struct {
	MinX float64 `yaml:"min_x"`
	MinY float64 `yaml:"min_y"`
	MaxX float64 `yaml:"max_x"`
	MaxY float64 `yaml:"max_y"`
	Z    float64 `yaml:"z"`
}

// ObstacleConfig is an axis-aligned box blocking line of sight.
type ObstacleConfig struct {
	Tag string `yaml:"tag"`
	Min Vec3   `yaml:"min"`
	Max Vec3   `yaml:"max"`
}

// TargetConfig describes the tracked entity. It walks Path in a loop.
type TargetConfig struct {
	Tag    string  `yaml:"tag"`
	Radius float64 `yaml:"radius"`
	Speed  float64 `yaml:"speed"`
	Path   []Vec3  `yaml:"path"` // first point is the spawn position
}

// NpcConfig describes one NPC spawn.
type NpcConfig struct {
	Name     string  `yaml:"name"`
	Position Vec3    `yaml:"position"`
	Facing   Vec3    `yaml:"facing"`
	Speed    float64 `yaml:"speed"`
	Route    []Vec3  `yaml:"route"`
}

// WorldConfig describes the headless world.
type WorldConfig struct {
	Areas     []AreaConfig     `yaml:"areas"`
	Obstacles []ObstacleConfig `yaml:"obstacles"`
	Target    *TargetConfig    `yaml:"target"`
	Npcs      []NpcConfig      `yaml:"npcs"`
}

// DefaultBehavior returns behavior config with stock values.
func DefaultBehavior() BehaviorConfig {
	return BehaviorConfig{
		VisionRange:     20,
		VisionAngle:     120,
		TargetTag:       "player",
		SearchTimeout:   15,
		SearchRadius:    10,
		WaitDuration:    5,
		AttackRange:     2,
		ArrivalDistance: 0.5,
		SnapTolerance:   4,
	}
}

// Default returns Simulation config with sensible defaults:
// one 60x60 courtyard, a pillar, a wandering player and two guards.
func Default() Simulation {
	return Simulation{
		LogLevel:     "info",
		TickInterval: 100 * time.Millisecond,
		TimeScale:    1,
		Behavior:     DefaultBehavior(),
		Database: DatabaseConfig{
			Host:          "127.0.0.1",
			Port:          5432,
			User:          "warden",
			Password:      "warden",
			DBName:        "warden",
			SSLMode:       "disable",
			JournalBuffer: 1024,
		},
		World: WorldConfig{
			Areas: []AreaConfig{
				{MinX: -30, MinY: -30, MaxX: 30, MaxY: 30, Z: 0},
			},
			Obstacles: []ObstacleConfig{
				{Tag: "wall", Min: Vec3{X: -2, Y: -2, Z: 0}, Max: Vec3{X: 2, Y: 2, Z: 4}},
			},
			Target: &TargetConfig{
				Tag:    "player",
				Radius: 0.5,
				Speed:  2,
				Path: []Vec3{
					{X: 20, Y: 20}, {X: -20, Y: 20},
					{X: -20, Y: -20}, {X: 20, Y: -20},
				},
			},
			Npcs: []NpcConfig{
				{
					Name:     "north-guard",
					Position: Vec3{X: -10, Y: 10},
					Facing:   Vec3{X: 1},
					Speed:    3.5,
					Route:    []Vec3{{X: -10, Y: 10}, {X: 10, Y: 10}},
				},
				{
					Name:     "south-guard",
					Position: Vec3{X: 10, Y: -10},
					Facing:   Vec3{X: -1},
					Speed:    3.5,
					Route:    []Vec3{{X: 10, Y: -10}, {X: -10, Y: -10}, {X: 0, Y: -25}},
				},
			},
		},
	}
}

// Load loads simulation config from a YAML file.
// If the file doesn't exist, returns defaults.
func Load(path string) (Simulation, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks value ranges. Perception and timer semantics are
// validated again by the AI package at controller construction.
func (c Simulation) Validate() error {
	var errs []error

	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("tick_interval must be > 0, got %s", c.TickInterval))
	}
	if c.TimeScale <= 0 {
		errs = append(errs, fmt.Errorf("time_scale must be > 0, got %v", c.TimeScale))
	}
	if c.Behavior.VisionRange <= 0 {
		errs = append(errs, fmt.Errorf("behavior.vision_range must be > 0, got %v", c.Behavior.VisionRange))
	}
	if c.Behavior.VisionAngle <= 0 || c.Behavior.VisionAngle > 360 {
		errs = append(errs, fmt.Errorf("behavior.vision_angle must be in (0, 360], got %v", c.Behavior.VisionAngle))
	}
	if c.Database.Enabled && c.Database.JournalBuffer <= 0 {
		errs = append(errs, fmt.Errorf("database.journal_buffer must be > 0, got %d", c.Database.JournalBuffer))
	}
	for i, n := range c.World.Npcs {
		if n.Speed <= 0 {
			errs = append(errs, fmt.Errorf("world.npcs[%d] (%s): speed must be > 0", i, n.Name))
		}
	}

	return errors.Join(errs...)
}
