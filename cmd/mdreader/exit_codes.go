package main

import (
	"errors"
	"os"

	mdreader "github.com/alnah/go-mdreader"
	"github.com/alnah/go-mdreader/internal/assets"
	"github.com/alnah/go-mdreader/internal/config"
)

// Exit codes for the mdreader CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess   = 0 // Every document was read
	ExitGeneral   = 1 // General/unexpected error
	ExitUsage     = 2 // Invalid flags, config, or validation
	ExitIO        = 3 // File not found, permission denied, write failure
	ExitDocuments = 4 // One or more documents failed
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Per-document failures (exit 4)
	if errors.Is(err, ErrDocumentsFailed) {
		return ExitDocuments
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrInvalidLogLevel) ||
		errors.Is(err, ErrUnknownStyle) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, mdreader.ErrInvalidConfig) ||
		errors.Is(err, mdreader.ErrNoReader) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, assets.ErrInvalidBasePath) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, mdreader.ErrUnreadableSource) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoSources) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, assets.ErrAssetRead) {
		return ExitIO
	}

	return ExitGeneral
}
