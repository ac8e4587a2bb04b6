package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saikumarakula/HVM/internal/engine"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.GreaterOrEqual(t, cfg.Workers, 1)
	assert.Equal(t, int(engine.DefaultNodeCapacity), cfg.NodeCapacity)
	assert.Equal(t, int(engine.DefaultWindowSize), cfg.WindowSize)
	assert.Empty(t, cfg.RecordDB)
}

func TestLoadFull(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "full.yaml"))
	require.NoError(t, err)

	assert.Equal(t, Config{
		Workers:        4,
		NodeCapacity:   65536,
		VarsCapacity:   65536,
		WindowSize:     32,
		ShareThreshold: 16,
		Native:         Backend{Runner: "./bin/hvm-native", Template: "./runtime/hvm.c"},
		Accelerated:    Backend{Runner: "./bin/hvm-cuda"},
		RecordDB:       "runs.db",
	}, cfg)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "partial.yaml"))
	require.NoError(t, err)

	want := Default()
	want.Workers = 2
	assert.Equal(t, want, cfg)
}

func TestLoadRejectsUnknownField(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "unknown_field.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "worker_count")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "zero_workers.yaml"))
	require.ErrorIs(t, err, ErrInvalid)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"one worker", func(c *Config) { c.Workers = 1 }, true},
		{"negative workers", func(c *Config) { c.Workers = -1 }, false},
		{"node capacity too small", func(c *Config) { c.NodeCapacity = 1 }, false},
		{"vars capacity above address space", func(c *Config) { c.VarsCapacity = 1 << 29 }, false},
		{"zero window", func(c *Config) { c.WindowSize = 0 }, false},
		{"zero share threshold", func(c *Config) { c.ShareThreshold = 0 }, false},
		{"runner set", func(c *Config) { c.Native.Runner = "/usr/local/bin/hvm" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalid)
			}
		})
	}
}

func TestRunOptions(t *testing.T) {
	cfg := Default()
	cfg.Workers = 3
	assert.Len(t, cfg.RunOptions(), 4)
}
