package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/impact/internal/collision"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 10.0
	DefaultFPS      = 60
)

type Config struct {
	Scenario  string           `yaml:"scenario"`
	Dt        float64          `yaml:"dt"`
	Duration  float64          `yaml:"duration"`
	FPS       int              `yaml:"fps"`
	Particles []ParticleConfig `yaml:"particles"`
}

type ParticleConfig struct {
	Mass     float64 `yaml:"mass"`
	Velocity float64 `yaml:"velocity"`
	Position float64 `yaml:"position"`
}

// DefaultConfig is the textbook head-on scenario: a 5 kg body at
// 10 m/s chasing down a 2 kg body at rest 20 m ahead.
func DefaultConfig() *Config {
	return &Config{
		Scenario: "head_on",
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		FPS:      DefaultFPS,
		Particles: []ParticleConfig{
			{Mass: 5, Velocity: 10, Position: 0},
			{Mass: 2, Velocity: 0, Position: 20},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Particles = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if len(cfg.Particles) == 0 {
		cfg.Particles = DefaultConfig().Particles
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the boundary preconditions: positive timestep and
// duration, positive masses, and left-to-right particle ordering.
func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %g", c.Duration)
	}
	if len(c.Particles) == 0 {
		return fmt.Errorf("at least one particle required")
	}
	for i, p := range c.Particles {
		if p.Mass <= 0 {
			return fmt.Errorf("particle %d: mass must be positive, got %g", i, p.Mass)
		}
		if i > 0 && c.Particles[i-1].Position >= p.Position {
			return fmt.Errorf("particle %d: positions must increase left to right", i)
		}
	}
	return nil
}

// Initial converts the configured particles into simulation values.
func (c *Config) Initial() []collision.Particle {
	out := make([]collision.Particle, len(c.Particles))
	for i, p := range c.Particles {
		out[i] = collision.Particle{
			Mass:     p.Mass,
			Velocity: p.Velocity,
			Position: p.Position,
		}
	}
	return out
}
