package ui

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/roomlog/internal/config"
	"github.com/five82/roomlog/internal/logfile"
	"github.com/five82/roomlog/internal/prefs"
	"github.com/five82/roomlog/internal/roomlog"
	"github.com/five82/roomlog/internal/state"
	"github.com/five82/roomlog/internal/view"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	Config    config.Config
	Path      string // file to load on start; empty opens the prompt
	Preloaded bool   // Store already holds Path (used for stdin)
	Variant   view.Variant
	ThemeName string
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     *state.Store
	cfg       config.Config
	prefsPath string
	pollTick  time.Duration
	keys      keyMap

	// UI state
	theme   Theme
	variant view.Variant
	width   int
	height  int
	ready   bool

	// Loaded file
	path          string
	stamp         logfile.Stamp
	hasStamp      bool
	loading       bool
	pendingPath   string
	statFailures  int
	snapshot      state.Snapshot
	statusMessage string

	// Rendered view
	viewport viewport.Model
	content  contentState

	// Search
	search searchState

	// Open file prompt
	openActive bool
	openInput  textinput.Model

	showHelp bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	store := opts.Store
	if store == nil {
		store = &state.Store{}
	}

	open := textinput.New()
	open.Placeholder = "path/to/room.jsonl"
	open.CharLimit = 4096

	m := Model{
		ctx:       ctx,
		store:     store,
		cfg:       opts.Config,
		prefsPath: prefsPath,
		pollTick:  opts.Config.PollInterval(),
		keys:      DefaultKeyMap(),
		theme:     GetTheme(opts.ThemeName),
		variant:   opts.Variant,
		path:      opts.Path,
		viewport:  viewport.New(0, 0),
		openInput: open,
		search:    newSearchState(),
	}

	switch {
	case opts.Preloaded:
		m.snapshot = store.Snapshot()
	case opts.Path != "":
		m.loading = true
	default:
		m.openActive = true
		m.openInput.Focus()
	}
	return m
}

// NewProgram wraps the model in a Bubble Tea program bound to ctx. When the
// log comes from stdin the keyboard is read from the terminal instead.
func NewProgram(opts Options) *tea.Program {
	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		progOpts = append(progOpts, tea.WithContext(opts.Context))
	}
	if opts.Path == logfile.Stdin {
		progOpts = append(progOpts, tea.WithInputTTY())
	}
	return tea.NewProgram(New(opts), progOpts...)
}

// Run starts the TUI and blocks until the user quits or ctx is cancelled.
func Run(opts Options) error {
	if _, err := NewProgram(opts).Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.loading {
		cmds = append(cmds, loadCmd(m.store, m.path, m.parseOptions()))
	}
	if m.cfg.Watch {
		cmds = append(cmds, tickCmd(m.pollTick))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeViewport()
		m.ready = true
		m.rebuildContent()
		return m, nil

	case loadedMsg:
		return m.handleLoaded(msg)

	case tickMsg:
		cmd := m.handleTick()
		return m, cmd

	case statMsg:
		cmd := m.handleStat(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.openActive {
		return m.handleOpenKey(msg)
	}
	if m.search.active {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.rebuildContent()
		return m, nil

	case key.Matches(msg, m.keys.ToggleVariant):
		m.variant = m.variant.Next()
		m.savePrefs()
		m.rebuildContent()
		m.viewport.GotoTop()
		return m, nil

	case key.Matches(msg, m.keys.Open):
		m.openPrompt()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Reload):
		if m.path == logfile.Stdin {
			m.statusMessage = "stdin cannot be reloaded"
			return m, nil
		}
		if m.path == "" {
			m.openPrompt()
			return m, textinput.Blink
		}
		cmd := m.requestLoad(m.path)
		return m, cmd

	case key.Matches(msg, m.keys.Search):
		m.startSearch()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.NextMatch):
		m.nextSearchMatch()
		return m, nil

	case key.Matches(msg, m.keys.PrevMatch):
		m.previousSearchMatch()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.clearSearch()
		return m, nil

	case key.Matches(msg, m.keys.NextRoom):
		m.jumpRoom(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevRoom):
		m.jumpRoom(-1)
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
		return m, nil

	case key.Matches(msg, m.keys.HalfPageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keys.HalfPageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		return m, nil
	}
	return m, nil
}

func (m *Model) parseOptions() roomlog.ParseOptions {
	return roomlog.ParseOptions{Lenient: m.cfg.Lenient}
}

// requestLoad starts a load unless one is running; in that case the latest
// request runs once the current one finishes.
func (m *Model) requestLoad(path string) tea.Cmd {
	if m.loading {
		m.pendingPath = path
		return nil
	}
	m.loading = true
	m.statusMessage = ""
	return loadCmd(m.store, path, m.parseOptions())
}

func (m Model) handleLoaded(msg loadedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	m.snapshot = m.store.Snapshot()
	if msg.err != nil {
		m.statusMessage = msg.err.Error()
		m.refreshViewport()
	} else {
		m.path = msg.path
		m.stamp = msg.stamp
		m.hasStamp = msg.hasStamp
		m.statusMessage = ""
		m.rebuildContent()
		m.viewport.GotoTop()
	}

	if next := m.pendingPath; next != "" {
		m.pendingPath = ""
		cmd := m.requestLoad(next)
		return m, cmd
	}
	return m, nil
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, Variant: m.variant.String()}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		log.Printf("save prefs: %v", err)
	}
}
