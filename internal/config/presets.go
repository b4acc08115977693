package config

import "sort"

var Presets = map[string]*Config{
	"head_on": {
		Scenario: "head_on", Dt: 0.01, Duration: 10.0, FPS: 60,
		Particles: []ParticleConfig{
			{Mass: 5, Velocity: 10, Position: 0},
			{Mass: 2, Velocity: 0, Position: 20},
		},
	},
	"chase": {
		Scenario: "chase", Dt: 0.01, Duration: 15.0, FPS: 60,
		Particles: []ParticleConfig{
			{Mass: 1, Velocity: 6, Position: 0},
			{Mass: 3, Velocity: 2, Position: 10},
		},
	},
	"meet": {
		Scenario: "meet", Dt: 0.01, Duration: 10.0, FPS: 60,
		Particles: []ParticleConfig{
			{Mass: 2, Velocity: 4, Position: 0},
			{Mass: 2, Velocity: -4, Position: 30},
		},
	},
	"freight": {
		Scenario: "freight", Dt: 0.01, Duration: 15.0, FPS: 60,
		Particles: []ParticleConfig{
			{Mass: 50, Velocity: 3, Position: 0},
			{Mass: 1, Velocity: 0, Position: 25},
		},
	},
	"miss": {
		Scenario: "miss", Dt: 0.01, Duration: 10.0, FPS: 60,
		Particles: []ParticleConfig{
			{Mass: 1, Velocity: -2, Position: 0},
			{Mass: 1, Velocity: 3, Position: 10},
		},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
