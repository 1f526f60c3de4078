// Package config loads generator settings from .fsmconform.yaml and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ha1tch/fsm-conformance/pkg/conformance"
)

// FileName is the config file looked up in the working directory.
const FileName = ".fsmconform.yaml"

// Config holds generator settings. Command-line flags override it.
type Config struct {
	// Method is the derivation method: w or wp.
	Method string `yaml:"method"`

	// Reset is the reset symbol prefixed to every test.
	Reset string `yaml:"reset"`

	// MaxLength bounds distinguishing sequence searches.
	MaxLength int `yaml:"max_length"`

	// CoverLength bounds the state cover search; 0 means the number of
	// states.
	CoverLength int `yaml:"cover_length"`

	// Bound is fixed or adaptive.
	Bound string `yaml:"bound"`

	// AdaptiveLimit caps the adaptive bound; 0 means states × inputs.
	AdaptiveLimit int `yaml:"adaptive_limit"`

	// RequireComplete fails suite generation on incomplete artifacts.
	RequireComplete bool `yaml:"require_complete"`

	// Minimize drops tests that are prefixes of other tests.
	Minimize bool `yaml:"minimize"`

	Log LogConfig `yaml:"log"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the reference settings: Wp method, reset "R", bound 4.
func Default() *Config {
	return &Config{
		Method:    string(conformance.MethodWp),
		Reset:     "R",
		MaxLength: conformance.DefaultMaxLength,
		Bound:     string(conformance.BoundFixed),
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load reads settings from path when it is non-empty, then applies
// environment overrides and validates. A missing file at the default
// location is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFromFile(path); err != nil {
			if !(path == FileName && errors.Is(err, os.ErrNotExist)) {
				return nil, fmt.Errorf("load config %s: %w", path, err)
			}
		}
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

func (c *Config) loadFromEnv() error {
	if val := os.Getenv("FSM_METHOD"); val != "" {
		c.Method = val
	}
	if val := os.Getenv("FSM_RESET"); val != "" {
		c.Reset = val
	}
	if val := os.Getenv("FSM_BOUND"); val != "" {
		c.Bound = val
	}
	for _, v := range []struct {
		name string
		dst  *int
	}{
		{"FSM_MAX_LENGTH", &c.MaxLength},
		{"FSM_COVER_LENGTH", &c.CoverLength},
		{"FSM_ADAPTIVE_LIMIT", &c.AdaptiveLimit},
	} {
		if val := os.Getenv(v.name); val != "" {
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("%s: %w", v.name, err)
			}
			*v.dst = n
		}
	}
	if val := os.Getenv("FSM_REQUIRE_COMPLETE"); val != "" {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("FSM_REQUIRE_COMPLETE: %w", err)
		}
		c.RequireComplete = b
	}
	if val := os.Getenv("FSM_LOG_LEVEL"); val != "" {
		c.Log.Level = strings.ToLower(val)
	}
	if val := os.Getenv("FSM_LOG_FORMAT"); val != "" {
		c.Log.Format = strings.ToLower(val)
	}
	return nil
}

// Validate checks the settings.
func (c *Config) Validate() error {
	if _, err := conformance.ParseMethod(c.Method); err != nil {
		return err
	}
	if err := conformance.ValidateReset(c.Reset); err != nil {
		return err
	}
	return c.Options().Validate()
}

// Options converts the settings into search options. The logger is left
// for the caller to set.
func (c *Config) Options() conformance.Options {
	return conformance.Options{
		MaxLength:       c.MaxLength,
		CoverLength:     c.CoverLength,
		Bound:           conformance.BoundPolicy(strings.ToLower(c.Bound)),
		AdaptiveLimit:   c.AdaptiveLimit,
		RequireComplete: c.RequireComplete,
	}
}

// MethodValue returns the parsed method. Call after Validate.
func (c *Config) MethodValue() conformance.Method {
	m, _ := conformance.ParseMethod(c.Method)
	return m
}
