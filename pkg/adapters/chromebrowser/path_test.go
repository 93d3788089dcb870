package chromebrowser

import (
	"runtime"
	"strings"
	"testing"
)

func TestResolveChromePath_Explicit(t *testing.T) {
	t.Setenv(ChromePathEnv, "/env/chrome")

	if got := ResolveChromePath("/custom/chrome"); got != "/custom/chrome" {
		t.Errorf("expected explicit path to win, got %s", got)
	}
}

func TestResolveChromePath_EnvVar(t *testing.T) {
	t.Setenv(ChromePathEnv, "/env/chrome")

	if got := ResolveChromePath(""); got != "/env/chrome" {
		t.Errorf("expected %s to be used, got %s", ChromePathEnv, got)
	}
}

func TestResolveChromePath_NothingOnPath(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("absolute install locations may exist on this platform")
	}
	t.Setenv(ChromePathEnv, "")
	t.Setenv("PATH", t.TempDir())

	if got := ResolveChromePath(""); got != "" {
		t.Errorf("expected no chrome, got %s", got)
	}
}

func TestChromeCandidates(t *testing.T) {
	linux := chromeCandidates("linux")
	if len(linux) == 0 || linux[0] != "chromium" {
		t.Errorf("expected chromium first on linux, got %v", linux)
	}

	darwin := chromeCandidates("darwin")
	if !strings.Contains(darwin[0], "Chromium") {
		t.Errorf("expected Chromium first on darwin, got %v", darwin)
	}

	t.Setenv("PROGRAMFILES", `C:\Program Files`)
	t.Setenv("PROGRAMFILES(X86)", "")
	t.Setenv("LOCALAPPDATA", "")
	windows := chromeCandidates("windows")
	if len(windows) != 2 || windows[0] != `C:\Program Files\Chromium\Application\chrome.exe` {
		t.Errorf("unexpected windows candidates %v", windows)
	}
}

func TestResolveExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX paths")
	}

	if got := resolveExecutable("/bin/sh"); got != "/bin/sh" {
		t.Errorf("expected /bin/sh, got %s", got)
	}
	if got := resolveExecutable("/definitely/not/a/real/chrome"); got != "" {
		t.Errorf("expected empty for missing path, got %s", got)
	}
	if got := resolveExecutable("sh"); got == "" {
		t.Error("expected sh to be found on PATH")
	}
	if got := resolveExecutable("definitely-not-a-real-command-xyz123"); got != "" {
		t.Errorf("expected empty for missing command, got %s", got)
	}
}
