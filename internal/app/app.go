package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/five82/roomlog/internal/config"
	"github.com/five82/roomlog/internal/logfile"
	"github.com/five82/roomlog/internal/prefs"
	"github.com/five82/roomlog/internal/roomlog"
	"github.com/five82/roomlog/internal/state"
	"github.com/five82/roomlog/internal/ui"
	"github.com/five82/roomlog/internal/view"
)

// Options configure the roomlog application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/roomlog/prefs.toml
	Path       string // log file; "-" reads stdin, empty opens the prompt
	Variant    string // overrides config and prefs when set
	Lenient    bool   // skip bad lines instead of failing the load
	PollEvery  int    // seconds; zero uses the config value
}

// ErrNoInput is returned by Print when no log file was given.
var ErrNoInput = errors.New("no log file given")

// Run boots the roomlog TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	userPrefs := prefs.Load(opts.PrefsPath)
	variant := cfg.Variant
	if opts.Variant == "" && userPrefs.Variant != "" {
		if v, err := view.ParseVariant(userPrefs.Variant); err == nil {
			variant = v
		}
	}

	restore, err := redirectLog(cfg.LogFile)
	if err != nil {
		return err
	}
	defer restore()

	path, err := resolveInput(opts.Path)
	if err != nil {
		return err
	}

	store := &state.Store{}
	preloaded := false
	if path == logfile.Stdin {
		// Bubble Tea reads keys from the terminal, so stdin is consumed up front.
		preloaded = true
		data, err := logfile.Read(path)
		if err != nil {
			store.Update(path, nil, roomlog.Result{}, err)
			log.Printf("read stdin: %v", err)
		} else if err := store.Load(path, data, roomlog.ParseOptions{Lenient: cfg.Lenient}); err != nil {
			log.Printf("%v", err)
		}
	}

	log.Printf("starting ui: path=%q variant=%s lenient=%v watch=%v", path, variant, cfg.Lenient, cfg.Watch)
	return ui.Run(ui.Options{
		Context:   ctx,
		Store:     store,
		Config:    cfg,
		Path:      path,
		Preloaded: preloaded,
		Variant:   variant,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
	})
}

// Print loads the log once and writes the plain text view to w.
func Print(ctx context.Context, opts Options, w io.Writer) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if opts.Path == "" {
		return ErrNoInput
	}
	path, err := resolveInput(opts.Path)
	if err != nil {
		return err
	}

	data, err := logfile.Read(path)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	ix, res, err := roomlog.Load(data, roomlog.ParseOptions{Lenient: cfg.Lenient})
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	for _, p := range res.Problems() {
		log.Printf("%s: %v", path, p)
	}

	nodes := view.Render(ix, view.Options{Variant: cfg.Variant, Formatter: cfg.Formatter()})
	return view.WriteText(w, nodes)
}

// loadConfig reads the config file and applies command line overrides.
func loadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if opts.Variant != "" {
		v, err := view.ParseVariant(opts.Variant)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Variant = v
	}
	if opts.Lenient {
		cfg.Lenient = true
	}
	if opts.PollEvery > 0 {
		cfg.PollSeconds = opts.PollEvery
	}
	return cfg, nil
}

func resolveInput(path string) (string, error) {
	if path == "" || path == logfile.Stdin {
		return path, nil
	}
	return config.ExpandPath(path)
}

// redirectLog sends log output to path while the TUI owns the terminal. The
// returned func restores stderr and closes the file.
func redirectLog(path string) (func(), error) {
	if path == "" {
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(file)
	return func() {
		log.SetOutput(os.Stderr)
		_ = file.Close()
	}, nil
}
