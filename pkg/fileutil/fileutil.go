// Package fileutil provides file system helpers shared by the loaders.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Resolve joins a declared resource path onto the project base directory.
// Absolute paths pass through unchanged.
func Resolve(baseDir, path string) string {
	if baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// FindFileCaseInsensitive searches dir for a file named filename ignoring
// case, which keeps projects authored on case-insensitive file systems
// loadable everywhere.
func FindFileCaseInsensitive(dir, filename string) (string, error) {
	searchName := strings.ToLower(filename)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.ToLower(entry.Name()) == searchName {
			return filepath.Join(dir, entry.Name()), nil
		}
	}

	return "", fmt.Errorf("file not found: %s (searched in %s)", filename, dir)
}

// ReadScript reads a script file as UTF-8 text. Files carrying a UTF-16 or
// UTF-8 byte order mark are transparently decoded, since script files tend
// to come out of editors with varying defaults.
func ReadScript(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read script: %w", err)
	}
	return DecodeScript(data)
}

// DecodeScript converts raw script bytes to an UTF-8 string, honoring an
// optional byte order mark.
func DecodeScript(data []byte) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	decoded, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return "", fmt.Errorf("failed to decode script: %w", err)
	}
	return string(decoded), nil
}
