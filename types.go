package mdreader

import (
	"fmt"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/rs/zerolog"

	"github.com/alnah/go-mdreader/internal/config"
	"github.com/alnah/go-mdreader/internal/pipeline"
	"github.com/alnah/go-mdreader/metadata"
)

// Document is the rendered form of one source.
type Document struct {
	HTML     string
	Metadata *metadata.Metadata
}

// Result holds the outcome of reading one path in a batch.
type Result struct {
	Path     string
	Document *Document // nil when Err is set
	Err      error
	Duration time.Duration
}

// Config is the reader configuration. See DefaultConfig.
type Config = config.Config

// DefaultConfig returns the configuration used when no option overrides it.
func DefaultConfig() *Config {
	return config.DefaultConfig()
}

// Hook types used to customize rendering. A nil field in Hooks keeps the
// reader's configured hook.
type (
	Hooks         = pipeline.Hooks
	LinkHook      = pipeline.LinkHook
	ImageHook     = pipeline.ImageHook
	FenceHook     = pipeline.FenceHook
	RenderContext = pipeline.RenderContext
	Link          = pipeline.Link
	Image         = pipeline.Image
	Fence         = pipeline.Fence
)

// Option configures a Reader.
type Option func(*readerOptions) error

// readerOptions holds the values collected from options before NewReader
// builds the pipeline.
type readerOptions struct {
	cfg    *config.Config
	fs     billy.Filesystem
	logger zerolog.Logger
	hooks  pipeline.Hooks
}

// WithConfig sets the reader configuration. The config must not be mutated
// afterwards.
func WithConfig(cfg *Config) Option {
	return func(o *readerOptions) error {
		if cfg == nil {
			return fmt.Errorf("%w: nil config", ErrInvalidConfig)
		}
		o.cfg = cfg
		return nil
	}
}

// WithConfigFile loads the configuration from a file path or a config name
// searched in the current directory and the user config directory.
func WithConfigFile(nameOrPath string) Option {
	return func(o *readerOptions) error {
		cfg, err := config.LoadConfig(nameOrPath)
		if err != nil {
			return err
		}
		o.cfg = cfg
		return nil
	}
}

// WithFilesystem sets the filesystem sources are read from. Defaults to the
// OS filesystem with paths taken as given.
func WithFilesystem(fs billy.Filesystem) Option {
	return func(o *readerOptions) error {
		if fs == nil {
			return fmt.Errorf("%w: nil filesystem", ErrInvalidConfig)
		}
		o.fs = fs
		return nil
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *readerOptions) error {
		o.logger = logger
		return nil
	}
}

// WithHooks replaces the configured render hooks. Nil fields keep the
// configured ones.
func WithHooks(hooks Hooks) Option {
	return func(o *readerOptions) error {
		o.hooks = hooks
		return nil
	}
}
