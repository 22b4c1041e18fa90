package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/roomlog/internal/view"
)

// Config captures the viewer settings read from config.toml.
type Config struct {
	Variant     view.Variant
	Lenient     bool
	TimeLayout  string
	Location    *time.Location
	Watch       bool
	PollSeconds int
	LogFile     string
}

const (
	defaultConfigPath  = "~/.config/roomlog/config.toml"
	defaultLogFile     = "~/.local/state/roomlog/roomlog.log"
	defaultPollSeconds = 2
)

// Defaults returns the configuration used when no file exists.
func Defaults() Config {
	return Config{
		Variant:     view.VariantRoom,
		TimeLayout:  view.DefaultDateLayout,
		Location:    time.Local,
		Watch:       true,
		PollSeconds: defaultPollSeconds,
		LogFile:     mustExpand(defaultLogFile),
	}
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Variant     string `toml:"variant"`
		Lenient     bool   `toml:"lenient"`
		TimeLayout  string `toml:"time_layout"`
		Timezone    string `toml:"timezone"`
		Watch       *bool  `toml:"watch"`
		PollSeconds int    `toml:"poll_seconds"`
		LogFile     string `toml:"log_file"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.Variant, err = view.ParseVariant(raw.Variant)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.Lenient = raw.Lenient

	if layout := strings.TrimSpace(raw.TimeLayout); layout != "" {
		cfg.TimeLayout = layout
	}

	if tz := strings.TrimSpace(raw.Timezone); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return Config{}, fmt.Errorf("parse config: timezone: %w", err)
		}
		cfg.Location = loc
	}

	if raw.Watch != nil {
		cfg.Watch = *raw.Watch
	}
	if raw.PollSeconds > 0 {
		cfg.PollSeconds = raw.PollSeconds
	}

	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}

	return cfg, nil
}

// PollInterval returns the watcher interval.
func (c Config) PollInterval() time.Duration {
	if c.PollSeconds <= 0 {
		return defaultPollSeconds * time.Second
	}
	return time.Duration(c.PollSeconds) * time.Second
}

// Formatter returns the presentation settings for view rendering.
func (c Config) Formatter() view.Formatter {
	return view.Formatter{Location: c.Location, Layout: c.TimeLayout}
}

// ExpandPath resolves ~ and makes path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
