package physics

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("physics: invalid config")

// BroadPhase selects how candidate pairs are found each sub-step
type BroadPhase string

const (
	BroadPhaseOctree     BroadPhase = "octree"
	BroadPhaseBruteForce BroadPhase = "bruteforce"
)

func (b *BroadPhase) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("broad_phase must be a string")
	}

	switch phase := BroadPhase(strings.ToLower(strings.TrimSpace(s))); phase {
	case BroadPhaseOctree, BroadPhaseBruteForce:
		*b = phase
		return nil
	default:
		return fmt.Errorf("unknown broad phase: %s", s)
	}
}

// Config holds the tuning of a World
type Config struct {
	// Gravity is the downward acceleration of airborne bodies, in m/s²
	Gravity float64 `yaml:"gravity"`
	// WalkableSlope is the minimum vertical component of a contact normal
	// for the collider to count as standing on the victim
	WalkableSlope float64    `yaml:"walkable_slope"`
	MaxSubSteps   int        `yaml:"max_substeps"`
	BroadPhase    BroadPhase `yaml:"broad_phase"`
	// Workers is the number of goroutines integrating bodies
	Workers int `yaml:"workers"`
}

func DefaultConfig() Config {
	return Config{
		Gravity:       30,
		WalkableSlope: 0.68,
		MaxSubSteps:   4,
		BroadPhase:    BroadPhaseOctree,
		Workers:       DEFAULT_WORKERS,
	}
}

// Validate checks every field is usable
func (c Config) Validate() error {
	if c.Gravity < 0 {
		return fmt.Errorf("%w: gravity %v is negative", ErrInvalidConfig, c.Gravity)
	}
	if c.WalkableSlope < 0 || c.WalkableSlope > 1 {
		return fmt.Errorf("%w: walkable_slope %v is outside [0, 1]", ErrInvalidConfig, c.WalkableSlope)
	}
	if c.MaxSubSteps < 1 || c.MaxSubSteps > 4 {
		return fmt.Errorf("%w: max_substeps %d is outside [1, 4]", ErrInvalidConfig, c.MaxSubSteps)
	}
	if c.BroadPhase != BroadPhaseOctree && c.BroadPhase != BroadPhaseBruteForce {
		return fmt.Errorf("%w: unknown broad_phase %q", ErrInvalidConfig, c.BroadPhase)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers %d is lower than 1", ErrInvalidConfig, c.Workers)
	}

	return nil
}

// ParseConfig decodes YAML over the defaults, missing keys keep their default value
func ParseConfig(data []byte) (Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("physics: unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func LoadConfig(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("physics: load %s: %w", filename, err)
	}

	config, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("physics: %s: %w", filename, err)
	}

	return config, nil
}
