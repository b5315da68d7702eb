// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
	ErrTempFileExhausted      = errors.New("no free temporary file name")
)

// maxTempAttempts bounds the search for a free temporary file name.
const maxTempAttempts = 100

// WriteFileAtomic writes content to a temporary file next to path and renames
// it into place, so readers never observe a partially written file.
// The parent directory must exist.
func WriteFileAtomic(fs billy.Filesystem, path string, content []byte, perm os.FileMode) error {
	tmpPath, tmpFile, err := createTemp(fs, path, perm)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	cleanup := func() { _ = fs.Remove(tmpPath) }

	if _, writeErr := tmpFile.Write(content); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return fmt.Errorf("writing temp file: %w", writeErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := fs.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// createTemp opens a new hidden file beside path with the final permissions.
func createTemp(fs billy.Filesystem, path string, perm os.FileMode) (string, billy.File, error) {
	dir, base := filepath.Split(path)
	if dir != "" {
		if _, err := fs.Stat(filepath.Clean(dir)); err != nil {
			return "", nil, err
		}
	}

	for range maxTempAttempts {
		name := filepath.Join(dir, fmt.Sprintf(".%s.%08x.tmp", base, rand.Uint32()))
		f, err := fs.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, perm)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", nil, err
		}
		return name, f, nil
	}
	return "", nil, ErrTempFileExhausted
}

// ValidateExtension checks that a file extension (without the dot) is safe
// to join into paths.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "blog" -> false (name)
//   - "./site.yaml" -> true (relative path)
//   - "../shared/site.yaml" -> true (parent path)
//   - "/absolute/site.yaml" -> true (absolute)
//   - "C:\config\site.yaml" -> true (Windows)
//   - "my-site" -> false (hyphenated name)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsURL returns true if the string starts with an http or https scheme.
func IsURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// TrimExtension returns name without its final extension.
func TrimExtension(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
