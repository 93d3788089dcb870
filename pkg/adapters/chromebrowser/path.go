package chromebrowser

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// ChromePathEnv names the environment variable consulted for the Chrome binary.
const ChromePathEnv = "CHROME_PATH"

// ResolveChromePath returns the Chrome executable to launch.
// An explicit path wins, then $CHROME_PATH, then the first Chromium or
// Chrome found in the platform's usual locations. It returns "" when
// nothing is found.
func ResolveChromePath(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}
	if envPath := os.Getenv(ChromePathEnv); envPath != "" {
		return envPath
	}
	for _, candidate := range chromeCandidates(runtime.GOOS) {
		if path := resolveExecutable(candidate); path != "" {
			return path
		}
	}
	return ""
}

// chromeCandidates lists Chromium before Chrome for goos.
func chromeCandidates(goos string) []string {
	switch goos {
	case "darwin":
		return []string{
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Google Chrome Canary.app/Contents/MacOS/Google Chrome Canary",
		}
	case "windows":
		var candidates []string
		for _, env := range []string{"PROGRAMFILES", "PROGRAMFILES(X86)", "LOCALAPPDATA"} {
			root := os.Getenv(env)
			if root == "" {
				continue
			}
			candidates = append(candidates,
				root+`\Chromium\Application\chrome.exe`,
				root+`\Google\Chrome\Application\chrome.exe`,
			)
		}
		return candidates
	default:
		return []string{
			"chromium",
			"chromium-browser",
			"google-chrome-stable",
			"google-chrome",
		}
	}
}

// resolveExecutable returns nameOrPath if it is an existing absolute path,
// or its PATH lookup result for a bare command name.
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
