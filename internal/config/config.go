package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultDesignPrompt is used when no positional prompt is given on the CLI.
const DefaultDesignPrompt = "Create a modern task list component with an input to add tasks, " +
	"checkboxes to complete them, a delete button per task, a progress indicator and an empty state."

// Config is built once in main and passed to every component that needs it.
// No component reads ambient process state after construction.
type Config struct {
	DesignPrompt   string
	SkipGeneration bool
	HumanInput     bool

	Provider string // "openai" | "anthropic" | "gemini"
	Model    string

	AppURL        string
	ProjectRoot   string
	ComponentPath string // relative to ProjectRoot
	ScreenshotDir string
	ReportPath    string
	DatabasePath  string

	FeedbackThreshold float64
	MaxIterations     int
	ReloadDelay       time.Duration
	MaxNavLinks       int
	VisualCritique    bool
	Headless          bool
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DesignPrompt:      DefaultDesignPrompt,
		HumanInput:        true,
		Provider:          "openai",
		Model:             "gpt-5-mini",
		AppURL:            "http://localhost:3000",
		ProjectRoot:       "./app",
		ComponentPath:     filepath.Join("src", "components", "GeneratedComponent.jsx"),
		ScreenshotDir:     "screenshots",
		ReportPath:        "uiloop-report.json",
		DatabasePath:      "uiloop.db",
		FeedbackThreshold: 0.8,
		MaxIterations:     5,
		ReloadDelay:       3 * time.Second,
		MaxNavLinks:       3,
		VisualCritique:    true,
		Headless:          true,
	}
}

// FromEnv layers UILOOP_* environment overrides on top of the defaults.
func FromEnv() Config {
	cfg := Default()
	cfg.Provider = envString("UILOOP_PROVIDER", cfg.Provider)
	cfg.Model = envString("UILOOP_MODEL", cfg.Model)
	cfg.AppURL = envString("UILOOP_APP_URL", cfg.AppURL)
	cfg.ProjectRoot = envString("UILOOP_PROJECT_ROOT", cfg.ProjectRoot)
	cfg.ComponentPath = envString("UILOOP_COMPONENT_PATH", cfg.ComponentPath)
	cfg.ScreenshotDir = envString("UILOOP_SCREENSHOT_DIR", cfg.ScreenshotDir)
	cfg.ReportPath = envString("UILOOP_REPORT_PATH", cfg.ReportPath)
	cfg.DatabasePath = envString("UILOOP_DB_PATH", cfg.DatabasePath)
	cfg.FeedbackThreshold = envFloat("UILOOP_THRESHOLD", cfg.FeedbackThreshold)
	cfg.MaxIterations = envInt("UILOOP_MAX_ITERATIONS", cfg.MaxIterations)
	cfg.ReloadDelay = envDuration("UILOOP_RELOAD_DELAY", cfg.ReloadDelay)
	cfg.MaxNavLinks = envInt("UILOOP_MAX_NAV_LINKS", cfg.MaxNavLinks)
	cfg.VisualCritique = envBool("UILOOP_VISUAL_CRITIQUE", cfg.VisualCritique)
	cfg.Headless = envBool("UILOOP_HEADLESS", cfg.Headless)
	return cfg
}

// Validate rejects configurations the loop cannot run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DesignPrompt) == "" {
		return fmt.Errorf("design prompt is required")
	}
	switch c.Provider {
	case "openai", "anthropic", "gemini":
	default:
		return fmt.Errorf("unsupported provider: %s", c.Provider)
	}
	if strings.TrimSpace(c.ProjectRoot) == "" {
		return fmt.Errorf("project root is required")
	}
	if strings.TrimSpace(c.ComponentPath) == "" {
		return fmt.Errorf("component path is required")
	}
	if filepath.IsAbs(c.ComponentPath) {
		return fmt.Errorf("component path must be relative to the project root")
	}
	if c.FeedbackThreshold < 0 || c.FeedbackThreshold > 1 {
		return fmt.Errorf("feedback threshold must be within [0,1]")
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("max iterations must be at least 1")
	}
	return nil
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
