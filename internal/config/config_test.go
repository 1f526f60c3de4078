package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/fsm-conformance/pkg/conformance"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"FSM_METHOD", "FSM_RESET", "FSM_BOUND", "FSM_MAX_LENGTH", "FSM_COVER_LENGTH",
		"FSM_ADAPTIVE_LIMIT", "FSM_REQUIRE_COMPLETE", "FSM_LOG_LEVEL", "FSM_LOG_FORMAT",
	} {
		t.Setenv(name, "")
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conf.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, conformance.MethodWp, cfg.MethodValue())

	opts := cfg.Options()
	assert.Equal(t, conformance.DefaultMaxLength, opts.MaxLength)
	assert.Equal(t, conformance.BoundFixed, opts.Bound)
	assert.False(t, opts.RequireComplete)
}

func TestLoadNoFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMissingDefaultFileIsIgnored(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	_, err := Load(FileName)
	assert.NoError(t, err)

	_, err = Load("elsewhere.yaml")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
method: w
reset: RST
max_length: 6
cover_length: 2
bound: adaptive
adaptive_limit: 5
require_complete: true
minimize: true
log:
  level: debug
  format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, conformance.MethodW, cfg.MethodValue())
	assert.Equal(t, "RST", cfg.Reset)
	assert.True(t, cfg.Minimize)
	assert.Equal(t, LogConfig{Level: "debug", Format: "json"}, cfg.Log)
	assert.Equal(t, conformance.Options{
		MaxLength:       6,
		CoverLength:     2,
		Bound:           conformance.BoundAdaptive,
		AdaptiveLimit:   5,
		RequireComplete: true,
	}, cfg.Options())
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "method: w\nmax_length: 6\n")
	t.Setenv("FSM_METHOD", "wp")
	t.Setenv("FSM_MAX_LENGTH", "2")
	t.Setenv("FSM_REQUIRE_COMPLETE", "true")
	t.Setenv("FSM_RESET", "Z")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "wp", cfg.Method)
	assert.Equal(t, 2, cfg.MaxLength)
	assert.True(t, cfg.RequireComplete)
	assert.Equal(t, "Z", cfg.Reset)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  map[string]string
	}{
		{"bad yaml", "method: [", nil},
		{"unknown method", "method: uio\n", nil},
		{"reset with separator", "reset: R.\n", nil},
		{"zero max length", "max_length: 0\n", nil},
		{"unknown bound", "bound: greedy\n", nil},
		{"non-numeric env", "", map[string]string{"FSM_MAX_LENGTH": "four"}},
		{"non-bool env", "", map[string]string{"FSM_REQUIRE_COMPLETE": "maybe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeFile(t, tt.file))
			assert.Error(t, err)
		})
	}
}

func TestValidateReset(t *testing.T) {
	for _, reset := range []string{"", "R.", "."} {
		cfg := Default()
		cfg.Reset = reset
		assert.ErrorIs(t, cfg.Validate(), conformance.ErrInvalidReset, "reset %q", reset)
	}
}
