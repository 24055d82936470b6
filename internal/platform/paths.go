package platform

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/sdejongh/stall/pkg/models"
)

// NormalizePath cleans a path for use as an entry key
func NormalizePath(path string) string {
	normalized := filepath.Clean(path)

	// On Windows, ensure UNC paths are preserved
	if runtime.GOOS == "windows" {
		if strings.HasPrefix(path, "\\\\") && !strings.HasPrefix(normalized, "\\\\") {
			normalized = "\\\\" + normalized
		}
	}

	return normalized
}

// FileName returns the final path component, failing for paths such as
// "/", "." or ".." that do not name a file
func FileName(path string) (string, error) {
	if path == "" {
		return "", &models.InvalidEntryPathError{Path: path}
	}

	base := filepath.Base(NormalizePath(path))
	if base == "." || base == ".." || base == "/" || base == string(filepath.Separator) {
		return "", &models.InvalidEntryPathError{Path: path}
	}
	if vol := filepath.VolumeName(base); vol != "" && vol == base {
		return "", &models.InvalidEntryPathError{Path: path}
	}

	return base, nil
}

// ExpandHome expands a leading ~ to the user's home directory
func ExpandHome(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("failed to expand home directory in %q: %w", path, err)
	}
	return expanded, nil
}

// ResolveRemote expands ~ and makes a remote path absolute
func ResolveRemote(path string) (string, error) {
	expanded, err := ExpandHome(path)
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %q: %w", path, err)
	}

	return abs, nil
}

// ShortName returns the path without its directory prefix
func ShortName(path string) string {
	if path == "" {
		return path
	}
	return filepath.Base(path)
}
