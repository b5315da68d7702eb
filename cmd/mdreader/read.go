package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/alecthomas/chroma/v2/styles"
	"github.com/go-git/go-billy/v5"
	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	mdreader "github.com/alnah/go-mdreader"
	"github.com/alnah/go-mdreader/internal/assets"
	"github.com/alnah/go-mdreader/internal/config"
	"github.com/alnah/go-mdreader/internal/hints"
	"github.com/alnah/go-mdreader/internal/pipeline"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage              = errors.New("invalid usage")
	ErrNoInput            = errors.New("no input specified")
	ErrNoSources          = errors.New("no sources found")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidFormat      = errors.New("invalid output format")
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrUnknownStyle       = errors.New("unknown highlight style")
	ErrWriteOutput        = errors.New("failed to write output")
	ErrDocumentsFailed    = errors.New("documents failed")
)

// Output formats for metadata sidecars and streamed records.
const (
	formatYAML = "yaml"
	formatJSON = "json"
)

// runRead orchestrates discovery, reading and output of sources.
func runRead(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseReadFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	// Validate worker count early
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	warnUnknownEnvVars(env.Stderr)
	envCfg := loadEnvConfig()

	level, err := resolveLogLevel(&flags.common, envCfg.LogLevel)
	if err != nil {
		return err
	}
	logger := newLogger(env, level)

	// Error ignored: maxprocs.Set only fails if the GOMAXPROCS env is invalid,
	// in which case runtime defaults apply.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Debug().Msgf(format, args...)
	}))

	// Load configuration, then layer env vars and flags on top
	cfg, err := loadConfig(flags.common.config, envCfg.ConfigPath)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)

	if err := validateFormat(cfg.Output.Format); err != nil {
		return err
	}
	if err := validateStyle(cfg.Highlight.Style); err != nil {
		return err
	}

	reg := mdreader.NewRegistry()
	reader, err := mdreader.RegisterCommonMark(reg,
		mdreader.WithConfig(cfg),
		mdreader.WithFilesystem(env.FS),
		mdreader.WithLogger(logger),
	)
	if err != nil {
		if errors.Is(err, pipeline.ErrUnknownExtension) {
			return fmt.Errorf("%w%s", err, hints.ForUnknownExtension(pipeline.ExtensionNames()))
		}
		return err
	}

	if flags.css {
		return reader.CSS(env.Stdout)
	}

	if len(positional) == 0 {
		printReadUsage(env.Stderr)
		return ErrNoInput
	}

	sources, err := discoverSources(env.FS, positional, reg)
	if err != nil {
		return fmt.Errorf("discovering sources: %w", err)
	}
	if len(sources) == 0 {
		return fmt.Errorf("%w in %s", ErrNoSources, strings.Join(positional, ", "))
	}

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	logger.Debug().
		Int("sources", len(sources)).
		Int("workers", mdreader.ResolveWorkers(workers)).
		Msg("reading sources")

	out, err := newOutputWriter(env, cfg, reader, flags)
	if err != nil {
		return err
	}

	results := reader.ReadBatch(ctx, sourcePaths(sources), workers)
	summary := out.writeAll(sources, results)

	if summary.failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrDocumentsFailed, summary.failed, len(results))
	}
	return nil
}

// loadConfig loads the config named by the flag or, failing that, by
// MDREADER_CONFIG. Without either the defaults are returned.
func loadConfig(flagPath, envPath string) (*config.Config, error) {
	nameOrPath := flagPath
	if nameOrPath == "" {
		nameOrPath = envPath
	}
	if nameOrPath == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(nameOrPath)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(strings.Split(err.Error(), ", ")))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags applies explicitly set CLI flags over cfg (CLI wins).
func mergeFlags(flags *readFlags, cfg *config.Config) {
	if flags.output != "" {
		cfg.Output.DefaultDir = flags.output
	}
	if flags.format != "" {
		cfg.Output.Format = flags.format
	}
	if flags.pageStyle != "" {
		cfg.Output.PageStyle = flags.pageStyle
	}
	if flags.assetPath != "" {
		cfg.Output.AssetPath = flags.assetPath
	}
	if flags.highlightStyle != "" {
		cfg.Highlight.Style = flags.highlightStyle
	}
	if flags.noHighlight {
		cfg.Highlight.Enabled = false
	}
}

// resolveLogLevel picks the level from --log-level, then -v/-q, then
// MDREADER_LOG_LEVEL. Defaults to info.
func resolveLogLevel(flags *commonFlags, envLevel string) (zerolog.Level, error) {
	switch {
	case flags.logLevel != "":
		return parseLogLevel(flags.logLevel)
	case flags.verbose:
		return zerolog.DebugLevel, nil
	case flags.quiet:
		return zerolog.ErrorLevel, nil
	case envLevel != "":
		return parseLogLevel(envLevel)
	}
	return zerolog.InfoLevel, nil
}

func parseLogLevel(s string) (zerolog.Level, error) {
	switch level := strings.ToLower(strings.TrimSpace(s)); level {
	case "trace", "debug", "info", "warn", "error":
		parsed, err := zerolog.ParseLevel(level)
		if err != nil {
			return zerolog.NoLevel, fmt.Errorf("%w: %q", ErrInvalidLogLevel, s)
		}
		return parsed, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("%w: %q (must be trace, debug, info, warn or error)", ErrInvalidLogLevel, s)
	}
}

// newLogger returns a console logger on the environment's stderr.
// The global level is lowered when trace output is requested.
func newLogger(env *Environment, level zerolog.Level) zerolog.Logger {
	if level < zerolog.GlobalLevel() {
		zerolog.SetGlobalLevel(level)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: env.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func validateFormat(format string) error {
	switch strings.ToLower(format) {
	case "", formatYAML, formatJSON:
		return nil
	default:
		return fmt.Errorf("%w: %q (must be yaml or json)", ErrInvalidFormat, format)
	}
}

// validateStyle rejects style names chroma does not know. Without this
// check chroma silently falls back to its default style.
func validateStyle(name string) error {
	if name == "" || slices.Contains(styles.Names(), name) {
		return nil
	}
	return fmt.Errorf("%w: %q%s", ErrUnknownStyle, name, hints.ForHighlightStyle())
}

// pageCSS loads the configured page stylesheet, custom directory first.
// An empty style name yields no stylesheet.
func pageCSS(fs billy.Filesystem, cfg *config.Config) (string, error) {
	if cfg.Output.PageStyle == "" {
		return "", nil
	}
	resolver, err := assets.NewStyleResolver(fs, cfg.Output.AssetPath)
	if err != nil {
		return "", err
	}
	css, err := resolver.LoadStyle(cfg.Output.PageStyle)
	if err != nil {
		if errors.Is(err, assets.ErrStyleNotFound) {
			var customDir string
			if resolver.HasCustomLoader() {
				customDir = cfg.Output.AssetPath
			}
			return "", fmt.Errorf("%w%s", err, hints.ForPageStyle(assets.NewEmbeddedLoader().Names(), customDir))
		}
		return "", err
	}
	return css, nil
}

// highlightCSS returns the stylesheet for class-based highlighting, or ""
// when code is highlighted inline or not at all.
func highlightCSS(reader *mdreader.Reader, cfg *config.Config) (string, error) {
	if !cfg.Highlight.Enabled || !cfg.Highlight.Classes {
		return "", nil
	}
	var buf bytes.Buffer
	if err := reader.CSS(&buf); err != nil {
		return "", fmt.Errorf("writing stylesheet: %w", err)
	}
	return buf.String(), nil
}
