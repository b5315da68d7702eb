package main

// Notes:
// - exitCodeFor: we test each sentinel family and that wrapping keeps the
//   mapping. Per-document failures win over any other wrapped error.

import (
	"errors"
	"fmt"
	"os"
	"testing"

	mdreader "github.com/alnah/go-mdreader"
	"github.com/alnah/go-mdreader/internal/assets"
	"github.com/alnah/go-mdreader/internal/config"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil is success", err: nil, want: ExitSuccess},
		{name: "unknown error is general", err: errors.New("boom"), want: ExitGeneral},

		// Documents
		{name: "documents failed", err: fmt.Errorf("%w: 1 of 2", ErrDocumentsFailed), want: ExitDocuments},

		// Usage
		{name: "bad flag", err: fmt.Errorf("%w: unknown flag", ErrUsage), want: ExitUsage},
		{name: "worker count", err: ErrInvalidWorkerCount, want: ExitUsage},
		{name: "format", err: ErrInvalidFormat, want: ExitUsage},
		{name: "log level", err: ErrInvalidLogLevel, want: ExitUsage},
		{name: "style", err: ErrUnknownStyle, want: ExitUsage},
		{name: "shell", err: ErrUnsupportedShell, want: ExitUsage},
		{name: "reader config", err: fmt.Errorf("%w: x", mdreader.ErrInvalidConfig), want: ExitUsage},
		{name: "no reader for extension", err: mdreader.ErrNoReader, want: ExitUsage},
		{name: "config not found", err: fmt.Errorf("loading config: %w", config.ErrConfigNotFound), want: ExitUsage},
		{name: "config parse", err: config.ErrConfigParse, want: ExitUsage},
		{name: "config too long", err: config.ErrFieldTooLong, want: ExitUsage},
		{name: "config value", err: config.ErrInvalidValue, want: ExitUsage},
		{name: "page style", err: fmt.Errorf("%w: %q", assets.ErrStyleNotFound, "x"), want: ExitUsage},
		{name: "asset path", err: assets.ErrInvalidBasePath, want: ExitUsage},

		// I/O
		{name: "not exist", err: fmt.Errorf("x.md: %w", os.ErrNotExist), want: ExitIO},
		{name: "permission", err: os.ErrPermission, want: ExitIO},
		{name: "unreadable source", err: mdreader.ErrUnreadableSource, want: ExitIO},
		{name: "no input", err: ErrNoInput, want: ExitIO},
		{name: "no sources", err: ErrNoSources, want: ExitIO},
		{name: "write output", err: ErrWriteOutput, want: ExitIO},
		{name: "asset read", err: assets.ErrAssetRead, want: ExitIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
