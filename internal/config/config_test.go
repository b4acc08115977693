package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Scenario != "head_on" {
		t.Errorf("expected scenario head_on, got %s", cfg.Scenario)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if len(cfg.Particles) != 2 {
		t.Errorf("expected 2 particles, got %d", len(cfg.Particles))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero dt", func(c *Config) { c.Dt = 0 }, true},
		{"negative duration", func(c *Config) { c.Duration = -1 }, true},
		{"no particles", func(c *Config) { c.Particles = nil }, true},
		{"zero mass", func(c *Config) { c.Particles[0].Mass = 0 }, true},
		{"negative mass", func(c *Config) { c.Particles[1].Mass = -2 }, true},
		{"unordered positions", func(c *Config) { c.Particles[0].Position = 25 }, true},
		{"equal positions", func(c *Config) { c.Particles[0].Position = 20 }, true},
		{"single particle", func(c *Config) { c.Particles = c.Particles[:1] }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")

	cfg := GetPreset("meet")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Scenario != "meet" {
		t.Errorf("expected scenario meet, got %s", loaded.Scenario)
	}
	if len(loaded.Particles) != 2 {
		t.Fatalf("expected 2 particles, got %d", len(loaded.Particles))
	}
	if loaded.Particles[1].Velocity != -4 {
		t.Errorf("expected velocity -4, got %g", loaded.Particles[1].Velocity)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("head_on")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Particles[0].Mass != 5 {
		t.Errorf("expected mass 5, got %g", cfg.Particles[0].Mass)
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) == 0 {
		t.Fatal("expected presets")
	}
	for _, name := range names {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Fatalf("listed preset %q not found", name)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %q invalid: %v", name, err)
		}
	}
}

func TestInitial(t *testing.T) {
	cfg := DefaultConfig()
	ps := cfg.Initial()
	if len(ps) != 2 {
		t.Fatalf("expected 2 particles, got %d", len(ps))
	}
	if ps[0].Mass != 5 || ps[0].Velocity != 10 || ps[0].Position != 0 {
		t.Errorf("unexpected first particle: %+v", ps[0])
	}
	if ps[1].Mass != 2 || ps[1].Velocity != 0 || ps[1].Position != 20 {
		t.Errorf("unexpected second particle: %+v", ps[1])
	}
}
