package browserpool

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

const binaryEnvVar = "A3S_CHROME_PATH"

// wellKnownPaths lists the locations operators commonly install a headless
// Chromium/Chrome build, in priority order, per platform.
func wellKnownPaths() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
		}
	case "windows":
		return []string{
			`C:\Program Files\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
		}
	default:
		return []string{
			"/usr/bin/google-chrome",
			"/usr/bin/google-chrome-stable",
			"/usr/bin/chromium",
			"/usr/bin/chromium-browser",
		}
	}
}

// DiscoverBinary locates a Chrome/Chromium executable using the precedence
// spec §4.3 calls for: an explicit env var override, then PATH, then
// well-known per-platform install locations, then a cached download
// directory left behind by a prior discovery run.
func DiscoverBinary(cacheDir string) (string, error) {
	if path := os.Getenv(binaryEnvVar); path != "" {
		if isExecutable(path) {
			return path, nil
		}
		return "", &BinaryNotFoundError{Tried: []string{path}}
	}

	tried := make([]string, 0, 8)

	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "chrome"} {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
		tried = append(tried, name)
	}

	for _, path := range wellKnownPaths() {
		tried = append(tried, path)
		if isExecutable(path) {
			return path, nil
		}
	}

	if cacheDir != "" {
		cached := filepath.Join(cacheDir, "chrome", chromeBinaryName())
		tried = append(tried, cached)
		if isExecutable(cached) {
			return cached, nil
		}
	}

	return "", &BinaryNotFoundError{Tried: tried}
}

func chromeBinaryName() string {
	if runtime.GOOS == "windows" {
		return "chrome.exe"
	}
	return "chrome"
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode()&0o111 != 0
}
