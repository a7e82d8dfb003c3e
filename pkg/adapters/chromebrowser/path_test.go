package chromebrowser

import (
	"os"
	"runtime"
	"strings"
	"testing"
)

func TestResolveChromePath_Precedence(t *testing.T) {
	t.Setenv("CHROME_PATH", "/env/chrome")

	if got := ResolveChromePath("/explicit/chrome"); got != "/explicit/chrome" {
		t.Errorf("explicit path: got %s", got)
	}
	if got := ResolveChromePath(""); got != "/env/chrome" {
		t.Errorf("env fallback: got %s", got)
	}
}

func TestCandidates(t *testing.T) {
	env := map[string]string{"PROGRAMFILES": `C:\Program Files`}
	getenv := func(k string) string { return env[k] }

	tests := []struct {
		goos      string
		wantFirst string
		wantLen   int
	}{
		{"linux", "chromium", 4},
		{"darwin", "/Applications/Chromium.app/Contents/MacOS/Chromium", 3},
		{"windows", "", 2},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			got := candidates(tt.goos, getenv)
			if len(got) != tt.wantLen {
				t.Fatalf("len = %d, want %d (%v)", len(got), tt.wantLen, got)
			}
			if tt.wantFirst != "" && got[0] != tt.wantFirst {
				t.Errorf("first = %s, want %s", got[0], tt.wantFirst)
			}
			if tt.goos == "windows" && !strings.Contains(got[0], "Chromium") {
				t.Errorf("Chromium should come first, got %s", got[0])
			}
		})
	}
}

func TestResolveExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses Unix paths")
	}
	if got := resolveExecutable("/bin/sh"); got != "/bin/sh" {
		t.Errorf("existing path: got %q", got)
	}
	if got := resolveExecutable("/definitely/not/a/real/path/chrome"); got != "" {
		t.Errorf("missing path: got %q", got)
	}
	if got := resolveExecutable("definitely-not-a-real-command-xyz123"); got != "" {
		t.Errorf("missing command: got %q", got)
	}
	if _, err := os.Stat("/bin/sh"); err == nil {
		if got := resolveExecutable("sh"); got == "" {
			t.Error("sh should be found in PATH")
		}
	}
}
