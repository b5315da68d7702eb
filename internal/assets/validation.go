package assets

import (
	"fmt"
	"strings"
)

// MaxNameLength bounds style names.
const MaxNameLength = 64

// ValidateAssetName checks that name can be used as a file name stem.
// Separators and dots are rejected, which rules out traversal and
// extension tricks.
func ValidateAssetName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	case len(name) > MaxNameLength:
		return fmt.Errorf("%w: %d chars (max %d)", ErrInvalidAssetName, len(name), MaxNameLength)
	case strings.ContainsAny(name, "/\\.\x00"):
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
