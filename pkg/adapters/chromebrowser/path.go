package chromebrowser

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// ResolveChromePath returns explicitPath if set, then $CHROME_PATH, then the
// first Chromium or Chrome found in the platform's usual locations. It
// returns "" when nothing is found.
func ResolveChromePath(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}
	if envPath := os.Getenv("CHROME_PATH"); envPath != "" {
		return envPath
	}
	for _, candidate := range candidates(runtime.GOOS, os.Getenv) {
		if path := resolveExecutable(candidate); path != "" {
			return path
		}
	}
	return ""
}

// candidates lists Chromium before Chrome for goos.
func candidates(goos string, getenv func(string) string) []string {
	switch goos {
	case "darwin":
		return []string{
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Google Chrome Canary.app/Contents/MacOS/Google Chrome Canary",
		}
	case "windows":
		var out []string
		for _, root := range []string{getenv("PROGRAMFILES"), getenv("PROGRAMFILES(X86)"), getenv("LOCALAPPDATA")} {
			if root == "" {
				continue
			}
			out = append(out,
				filepath.Join(root, "Chromium", "Application", "chrome.exe"),
				filepath.Join(root, "Google", "Chrome", "Application", "chrome.exe"),
			)
		}
		return out
	default:
		return []string{"chromium", "chromium-browser", "google-chrome-stable", "google-chrome"}
	}
}

// resolveExecutable stats absolute paths and looks bare names up in PATH.
func resolveExecutable(nameOrPath string) string {
	if filepath.IsAbs(nameOrPath) || (len(nameOrPath) > 1 && nameOrPath[1] == ':') {
		if _, err := os.Stat(nameOrPath); err == nil {
			return nameOrPath
		}
		return ""
	}
	if path, err := exec.LookPath(nameOrPath); err == nil {
		return path
	}
	return ""
}
