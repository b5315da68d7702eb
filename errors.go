package mdreader

import (
	"errors"

	"github.com/alnah/go-mdreader/internal/pipeline"
	"github.com/alnah/go-mdreader/metadata"
)

// Sentinel errors for library operations.
var (
	ErrUnreadableSource = errors.New("source cannot be read")
	ErrNoReader         = errors.New("no reader registered for extension")
	ErrInvalidConfig    = errors.New("invalid reader configuration")

	// ErrMalformedFrontMatter reports an unclosed or non-mapping front
	// matter block. The document is not rendered.
	ErrMalformedFrontMatter = pipeline.ErrMalformedFrontMatter

	// ErrMetadataNormalization is recoverable and never returned by Read:
	// the raw value is kept and a warning is logged.
	ErrMetadataNormalization = metadata.ErrNormalization

	// ErrRender reports a failure inside the CommonMark engine.
	ErrRender = pipeline.ErrRender
)
