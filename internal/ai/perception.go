package ai

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/udisondev/warden/internal/model"
)

// Perception defaults.
const (
	DefaultVisionRange = 20.0
	DefaultVisionAngle = 120.0 // full cone width, degrees
	DefaultTargetTag   = "player"

	// coincidentEpsilon: target closer than this is perceived without a ray.
	coincidentEpsilon = 1e-6
)

var errInvalidPerception = errors.New("invalid perception config")

// PerceptionConfig defines the vision cone of an NPC.
type PerceptionConfig struct {
	VisionRange float64 // max distance, > 0
	VisionAngle float64 // full cone width in degrees, (0, 360]
	TargetTag   string  // surface tag the visibility ray must hit
}

// DefaultPerceptionConfig returns range 20, angle 120, tag "player".
func DefaultPerceptionConfig() PerceptionConfig {
	return PerceptionConfig{
		VisionRange: DefaultVisionRange,
		VisionAngle: DefaultVisionAngle,
		TargetTag:   DefaultTargetTag,
	}
}

// Validate checks ranges.
func (c PerceptionConfig) Validate() error {
	if c.VisionRange <= 0 {
		return fmt.Errorf("%w: vision range %v must be > 0", errInvalidPerception, c.VisionRange)
	}
	if c.VisionAngle <= 0 || c.VisionAngle > 360 {
		return fmt.Errorf("%w: vision angle %v must be in (0, 360]", errInvalidPerception, c.VisionAngle)
	}
	if c.TargetTag == "" {
		return fmt.Errorf("%w: target tag is empty", errInvalidPerception)
	}
	return nil
}

// Perception is the outcome of one sensor evaluation.
type Perception struct {
	Perceivable    bool
	Distance       float64
	Angle          float64 // degrees between forward and direction to target
	TargetPosition r3.Vec
}

// Sensor evaluates whether the target can be perceived from the NPC pose.
// Evaluate has no side effects; caching the last known position is done
// by the owner (see BehaviorAI.IsTargetPerceivable).
type Sensor struct {
	cfg        PerceptionConfig
	pose       Pose
	target     TargetLocator
	visibility VisibilityQuery
}

// NewSensor creates a perception sensor. cfg must be valid.
func NewSensor(cfg PerceptionConfig, pose Pose, target TargetLocator, visibility VisibilityQuery) *Sensor {
	return &Sensor{
		cfg:        cfg,
		pose:       pose,
		target:     target,
		visibility: visibility,
	}
}

// Config returns the perception config.
func (s *Sensor) Config() PerceptionConfig {
	return s.cfg
}

// Evaluate checks range, then cone, then line of sight.
// The visibility query is only issued when range and cone pass.
func (s *Sensor) Evaluate() Perception {
	self := s.pose.Position()
	targetPos := s.target.TargetPosition()
	toTarget := r3.Sub(targetPos, self)

	p := Perception{
		Distance:       model.Distance(self, targetPos),
		Angle:          model.AngleDeg(s.pose.Forward(), toTarget),
		TargetPosition: targetPos,
	}

	if p.Distance > s.cfg.VisionRange || p.Angle > s.cfg.VisionAngle/2 {
		return p
	}

	if p.Distance < coincidentEpsilon {
		p.Perceivable = true
		return p
	}

	hit := s.visibility.TestLineOfSight(self, model.Direction(self, targetPos), p.Distance)
	p.Perceivable = hit.Hit && hit.Tag == s.cfg.TargetTag
	return p
}
