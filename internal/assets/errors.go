package assets

import "errors"

// Sentinel errors for asset operations.
var (
	// ErrStyleNotFound indicates the requested style does not exist.
	ErrStyleNotFound = errors.New("page style not found")

	// ErrInvalidAssetName indicates a name that is empty, too long, or
	// contains separators or dots.
	ErrInvalidAssetName = errors.New("invalid asset name")

	// ErrInvalidBasePath indicates the configured base path is not a directory.
	ErrInvalidBasePath = errors.New("invalid asset path")

	// ErrAssetRead indicates an I/O error while reading a style.
	ErrAssetRead = errors.New("failed to read asset")
)
