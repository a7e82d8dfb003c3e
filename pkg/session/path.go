package session

import (
	"path/filepath"
	"strings"
)

// ResolvePath applies the output filename policy: a stem made only of ASCII
// digits gets "_a" appended, so "1700000000000.mp4" becomes
// "1700000000000_a.mp4". Other paths are returned unchanged.
func ResolvePath(path string) string {
	dir, base := filepath.Split(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if !isDigits(stem) {
		return path
	}
	return dir + stem + "_a" + ext
}

// WithContainer replaces the extension of path with container. An empty
// container leaves path unchanged.
func WithContainer(path, container string) string {
	if container == "" {
		return path
	}
	ext := "." + strings.TrimPrefix(container, ".")
	if strings.EqualFold(filepath.Ext(path), ext) {
		return path
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
