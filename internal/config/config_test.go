package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/five82/roomlog/internal/view"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Variant != view.VariantRoom {
		t.Fatalf("Variant = %v, want room", cfg.Variant)
	}
	if !cfg.Watch || cfg.PollInterval() != 2*time.Second {
		t.Fatalf("Watch/PollInterval = %v/%v, want true/2s", cfg.Watch, cfg.PollInterval())
	}
	if cfg.TimeLayout != view.DefaultDateLayout {
		t.Fatalf("TimeLayout = %q, want default", cfg.TimeLayout)
	}

	wantLogFile, err := expandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("expandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.LogFile != wantLogFile {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLogFile)
	}
}

func TestLoad_DefaultPathUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "roomlog")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("variant = \"participant\"\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Variant != view.VariantParticipant {
		t.Fatalf("Variant = %v, want participant", cfg.Variant)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
variant = "  Participant "
lenient = true
time_layout = " 2006-01-02 15:04 "
timezone = "UTC"
watch = false
poll_seconds = 5
log_file = "  ~/logs/roomlog.log  "
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Variant != view.VariantParticipant || !cfg.Lenient {
		t.Fatalf("Variant/Lenient = %v/%v", cfg.Variant, cfg.Lenient)
	}
	if cfg.TimeLayout != "2006-01-02 15:04" {
		t.Fatalf("TimeLayout = %q", cfg.TimeLayout)
	}
	if cfg.Location != time.UTC {
		t.Fatalf("Location = %v, want UTC", cfg.Location)
	}
	if cfg.Watch || cfg.PollInterval() != 5*time.Second {
		t.Fatalf("Watch/PollInterval = %v/%v", cfg.Watch, cfg.PollInterval())
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}

	f := cfg.Formatter()
	if f.Location != time.UTC || f.Layout != "2006-01-02 15:04" {
		t.Fatalf("Formatter = %#v", f)
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	for _, body := range []string{
		`variant = "grid"`,
		`timezone = "Mars/Olympus"`,
		`not valid toml {{{`,
	} {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Fatalf("Load(%q) returned nil error", body)
		}
	}
}

func TestExpandPath_Tilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/room.jsonl")
	if err != nil {
		t.Fatalf("ExpandPath error: %v", err)
	}
	if got != filepath.Join(home, "room.jsonl") {
		t.Fatalf("ExpandPath = %q", got)
	}
	if _, err := ExpandPath("  "); err == nil {
		t.Fatal("ExpandPath(empty) returned nil error")
	}
}
