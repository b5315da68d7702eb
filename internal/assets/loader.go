package assets

// StyleLoader loads a page stylesheet by name (without the .css extension).
// Implementations return ErrStyleNotFound for unknown names and
// ErrInvalidAssetName for names failing ValidateAssetName.
type StyleLoader interface {
	LoadStyle(name string) (string, error)
}
