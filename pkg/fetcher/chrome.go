package fetcher

import (
	"os/exec"

	"github.com/jmylchreest/fetchmd/internal/logger"
)

// Common Chrome/Chromium binary names across different systems
var chromeBinaryNames = []string{
	"google-chrome-stable",
	"google-chrome",
	"chromium",
	"chromium-browser",
	"chrome",
	"headless-shell",
	// macOS paths
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	"/Applications/Chromium.app/Contents/MacOS/Chromium",
	// Common Linux paths
	"/usr/bin/google-chrome-stable",
	"/usr/bin/chromium",
	"/snap/bin/chromium",
	// Windows paths
	`C:\Program Files\Google\Chrome\Application\chrome.exe`,
	`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// FindChromePath searches PATH and common install locations for a
// Chrome/Chromium binary. Returns "" when none is found, in which case the
// engine falls back to its own lookup.
func FindChromePath() string {
	for _, name := range chromeBinaryNames {
		if path, err := lookPath(name); err == nil {
			logger.Debug("found Chrome binary", "name", name, "path", path)
			return path
		}
	}
	logger.Debug("no Chrome binary found, deferring to engine default")
	return ""
}

// resolveChromePath prefers an explicit path over discovery.
func resolveChromePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return FindChromePath()
}
