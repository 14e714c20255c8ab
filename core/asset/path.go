package asset

import (
	"path/filepath"
	"runtime"
	"strings"
)

// caseInsensitiveFS is true on platforms whose default file systems fold case.
var caseInsensitiveFS = runtime.GOOS == "windows" || runtime.GOOS == "darwin"

// NormalizePath returns the index key for p. Relative paths are resolved
// against root when root is set. The result is cleaned, uses forward slashes
// and is lower-cased on case-insensitive platforms. NormalizePath is
// idempotent.
func NormalizePath(root, p string) string {
	return normalize(root, p, caseInsensitiveFS)
}

func normalize(root, p string, foldCase bool) string {
	if p == "" {
		return ""
	}
	p = strings.ReplaceAll(p, "\\", "/")
	if !filepath.IsAbs(filepath.FromSlash(p)) && !strings.HasPrefix(p, "/") && root != "" {
		p = strings.ReplaceAll(root, "\\", "/") + "/" + p
	}
	if abs, err := filepath.Abs(filepath.FromSlash(p)); err == nil {
		p = abs
	}
	p = filepath.ToSlash(filepath.Clean(p))
	if foldCase {
		p = strings.ToLower(p)
	}
	return p
}

// NormalizeKey normalizes a project-relative path without resolving it
// against the file system. Used for catalog keys.
func NormalizeKey(p string) string {
	if p == "" {
		return ""
	}
	p = strings.ReplaceAll(p, "\\", "/")
	p = filepath.ToSlash(filepath.Clean(filepath.FromSlash(p)))
	p = strings.TrimPrefix(p, "./")
	if caseInsensitiveFS {
		p = strings.ToLower(p)
	}
	return p
}
