package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("UILOOP_PROVIDER", "anthropic")
	t.Setenv("UILOOP_MODEL", "claude-sonnet-4-5")
	t.Setenv("UILOOP_THRESHOLD", "0.9")
	t.Setenv("UILOOP_MAX_ITERATIONS", "7")
	t.Setenv("UILOOP_RELOAD_DELAY", "500ms")
	t.Setenv("UILOOP_VISUAL_CRITIQUE", "false")

	cfg := FromEnv()

	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "claude-sonnet-4-5", cfg.Model)
	assert.InDelta(t, 0.9, cfg.FeedbackThreshold, 1e-9)
	assert.Equal(t, 7, cfg.MaxIterations)
	assert.Equal(t, 500*time.Millisecond, cfg.ReloadDelay)
	assert.False(t, cfg.VisualCritique)
}

func TestFromEnvIgnoresMalformedValues(t *testing.T) {
	t.Setenv("UILOOP_THRESHOLD", "not-a-number")
	t.Setenv("UILOOP_MAX_ITERATIONS", "many")

	cfg := FromEnv()

	assert.InDelta(t, Default().FeedbackThreshold, cfg.FeedbackThreshold, 1e-9)
	assert.Equal(t, Default().MaxIterations, cfg.MaxIterations)
}

func TestValidateRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty prompt", func(c *Config) { c.DesignPrompt = " " }},
		{"unknown provider", func(c *Config) { c.Provider = "cohere" }},
		{"absolute component path", func(c *Config) { c.ComponentPath = "/etc/passwd" }},
		{"empty component path", func(c *Config) { c.ComponentPath = " " }},
		{"threshold above one", func(c *Config) { c.FeedbackThreshold = 1.5 }},
		{"zero iterations", func(c *Config) { c.MaxIterations = 0 }},
		{"empty project root", func(c *Config) { c.ProjectRoot = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
