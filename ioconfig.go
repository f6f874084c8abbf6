package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	// Output selects the audio backend: "portaudio", "oto" or "none".
	Output      string  `toml:"output"`
	SampleRate  int     `toml:"sample_rate"`
	MasterLevel float64 `toml:"master_level"`

	Generator GeneratorConfig `toml:"generator"`
	TestTone  TestToneConfig  `toml:"test_tone"`
}

type GeneratorConfig struct {
	Hz    int     `toml:"hz"`
	Level float64 `toml:"level"`
}

type TestToneConfig struct {
	Freq     float64 `toml:"freq"`
	Level    float64 `toml:"level"`
	Duration float64 `toml:"duration"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Output:      "portaudio",
		SampleRate:  DEFAULT_SAMPLE_RATE,
		MasterLevel: 1.0,
		Generator: GeneratorConfig{
			Hz:    40,
			Level: 0.25,
		},
		TestTone: TestToneConfig{
			Freq:     3030,
			Level:    0.20,
			Duration: 9.0,
		},
	}
}

// ParseFromFile loads a Config from a TOML file, applying defaults for
// any field the file leaves unset.
func ParseFromFile(file string) (*Config, error) {
	bs, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file at %q: %w", file, err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(bs, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse Config from TOML file %q: %w", file, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config in %q: %w", file, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Output {
	case "portaudio", "oto", "none":
	default:
		return fmt.Errorf("unknown output backend %q", c.Output)
	}

	if c.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", c.SampleRate)
	}

	if c.MasterLevel < 0 || c.MasterLevel > 1 {
		return fmt.Errorf("master_level must be in [0, 1], got %g", c.MasterLevel)
	}

	if c.Generator.Hz < MinHz || c.Generator.Hz > MaxHz {
		return fmt.Errorf("generator hz must be in [%d, %d], got %d", MinHz, MaxHz, c.Generator.Hz)
	}

	if c.Generator.Level <= 0 || c.Generator.Level > 1 {
		return fmt.Errorf("generator level must be in (0, 1], got %g", c.Generator.Level)
	}

	if c.TestTone.Freq <= 0 {
		return fmt.Errorf("test tone freq must be positive, got %g", c.TestTone.Freq)
	}

	if c.TestTone.Level <= 0 || c.TestTone.Level > 1 {
		return fmt.Errorf("test tone level must be in (0, 1], got %g", c.TestTone.Level)
	}

	if floor := fadeInTime + testToneTail; c.TestTone.Duration <= floor {
		return fmt.Errorf("test tone duration must exceed %gs, got %g", floor, c.TestTone.Duration)
	}

	return nil
}
