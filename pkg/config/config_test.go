package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trigon.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load = %+v, want defaults %+v", cfg, Default())
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
prompt: "tri> "
eval_timeout: 250ms
sliver_area: 2.5
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.LogLevel != "debug" || cfg.Level() != slog.LevelDebug {
		t.Errorf("log level = %q (%v)", cfg.LogLevel, cfg.Level())
	}
	if cfg.Prompt != "tri> " {
		t.Errorf("prompt = %q", cfg.Prompt)
	}
	if cfg.EvalTimeout != 250*time.Millisecond {
		t.Errorf("eval timeout = %s", cfg.EvalTimeout)
	}
	if cfg.SliverArea != 2.5 {
		t.Errorf("sliver area = %v", cfg.SliverArea)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Banner != Default().Banner || cfg.ExportDir != "." {
		t.Errorf("defaults lost: banner %q, export dir %q", cfg.Banner, cfg.ExportDir)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "prompt: [unclosed"))
	if err == nil || !strings.Contains(err.Error(), "parsing config") {
		t.Fatalf("error = %v, want a parsing error", err)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"log level", "log_level: loud", "unknown log_level"},
		{"zero timeout", "eval_timeout: 0s", "eval_timeout must be positive"},
		{"negative sliver", "sliver_area: -1", "sliver_area must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("error = %v, want ErrInvalid", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestResolvePath(t *testing.T) {
	t.Setenv(EnvPath, "")
	if got := ResolvePath(""); got != DefaultPath {
		t.Errorf("ResolvePath(\"\") = %q, want %q", got, DefaultPath)
	}

	t.Setenv(EnvPath, "/etc/trigon.yaml")
	if got := ResolvePath(""); got != "/etc/trigon.yaml" {
		t.Errorf("env override = %q", got)
	}
	if got := ResolvePath("mine.yaml"); got != "mine.yaml" {
		t.Errorf("explicit path = %q", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}

	if got := (Config{LogLevel: "bogus"}).Level(); got != slog.LevelInfo {
		t.Errorf("bogus level falls back to %v, want info", got)
	}
}
