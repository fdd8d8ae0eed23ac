package bpart

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
		reason string
	}{
		{name: "Default", modify: func(*Config) {}},
		{name: "MaxSplitDepth", modify: func(c *Config) { c.SplitDepth = MaxSplitDepth }},
		{name: "ZeroEverything", modify: func(c *Config) { *c = Config{} }},
		{name: "SkipOne", modify: func(c *Config) { c.SkipProbability = 1 }},
		{name: "DeepTaskSplitDepth", modify: func(c *Config) { c.TaskSplitDepth = math.MaxUint32 }},
		{
			name:   "SplitDepthTooLarge",
			modify: func(c *Config) { c.SplitDepth = 63 },
			field:  "split_depth",
			reason: "must be <= 62",
		},
		{
			name:   "NegativeSkip",
			modify: func(c *Config) { c.SkipProbability = -0.5 },
			field:  "skip_probability",
			reason: "must be >= 0",
		},
		{
			name:   "SkipAboveOne",
			modify: func(c *Config) { c.SkipProbability = 1.5 },
			field:  "skip_probability",
			reason: "must be <= 1",
		},
		{
			name:   "SkipNaN",
			modify: func(c *Config) { c.SkipProbability = math.NaN() },
			field:  "skip_probability",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, ErrInvalidConfig)
			var ce *ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
			if tt.reason != "" {
				assert.Equal(t, tt.reason, ce.Reason)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("Full", func(t *testing.T) {
		cfg, err := LoadConfig(strings.NewReader(`
split_depth: 8
iterations_per_split: 20
skip_probability: 0.25
task_split_depth: 3
`))
		require.NoError(t, err)
		assert.Equal(t, Config{
			SplitDepth:         8,
			IterationsPerSplit: 20,
			SkipProbability:    0.25,
			TaskSplitDepth:     3,
		}, cfg)
	})

	t.Run("Partial", func(t *testing.T) {
		cfg, err := LoadConfig(strings.NewReader("split_depth: 4\n"))
		require.NoError(t, err)

		want := DefaultConfig()
		want.SplitDepth = 4
		assert.Equal(t, want, cfg)
	})

	t.Run("Empty", func(t *testing.T) {
		cfg, err := LoadConfig(strings.NewReader(""))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("UnknownField", func(t *testing.T) {
		_, err := LoadConfig(strings.NewReader("split_dept: 4\n"))
		require.ErrorIs(t, err, ErrInvalidConfig)

		var ce *ConfigError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "yaml", ce.Field)
	})

	t.Run("Malformed", func(t *testing.T) {
		_, err := LoadConfig(strings.NewReader("split_depth: [1, 2\n"))
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := LoadConfig(strings.NewReader("skip_probability: 2\n"))
		require.ErrorIs(t, err, ErrInvalidConfig)

		var ce *ConfigError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "skip_probability", ce.Field)
	})
}
