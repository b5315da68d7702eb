package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-mdreader/internal/config"
)

// envPrefix starts every variable the CLI reads.
const envPrefix = "MDREADER_"

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides without requiring config files.
type envConfig struct {
	ConfigPath     string // MDREADER_CONFIG: config file name or path
	OutputDir      string // MDREADER_OUTPUT_DIR: output directory
	Workers        int    // MDREADER_WORKERS: parallel workers
	LogLevel       string // MDREADER_LOG_LEVEL: trace, debug, info, warn, error
	HighlightStyle string // MDREADER_HIGHLIGHT_STYLE: chroma style name
}

// knownEnvVars lists valid MDREADER_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MDREADER_CONFIG":          true,
	"MDREADER_OUTPUT_DIR":      true,
	"MDREADER_WORKERS":         true,
	"MDREADER_LOG_LEVEL":       true,
	"MDREADER_HIGHLIGHT_STYLE": true,
}

// loadEnvConfig reads configuration from environment variables.
// Invalid worker counts are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:     os.Getenv("MDREADER_CONFIG"),
		OutputDir:      os.Getenv("MDREADER_OUTPUT_DIR"),
		LogLevel:       os.Getenv("MDREADER_LOG_LEVEL"),
		HighlightStyle: os.Getenv("MDREADER_HIGHLIGHT_STYLE"),
	}

	if workers := os.Getenv("MDREADER_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars prints warnings for unrecognized MDREADER_* variables.
// Helps catch typos like MDREADER_WORKER instead of MDREADER_WORKERS.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies set environment values over the loaded config.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied afterwards via mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.HighlightStyle != "" {
		cfg.Highlight.Style = env.HighlightStyle
	}
}
