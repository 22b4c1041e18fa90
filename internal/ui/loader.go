package ui

import (
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/roomlog/internal/logfile"
	"github.com/five82/roomlog/internal/roomlog"
	"github.com/five82/roomlog/internal/state"
)

// Messages

type loadedMsg struct {
	path     string
	stamp    logfile.Stamp
	hasStamp bool
	err      error
}

type tickMsg time.Time

type statMsg struct {
	path  string
	stamp logfile.Stamp
	err   error
}

// Commands

// loadCmd reads path and commits it to the store. The store keeps the
// previous index when anything fails.
func loadCmd(store *state.Store, path string, opts roomlog.ParseOptions) tea.Cmd {
	return func() tea.Msg {
		stamp, statErr := logfile.Stat(path)

		data, err := logfile.Read(path)
		if err != nil {
			store.Update(path, nil, roomlog.Result{}, err)
			log.Printf("load %s: %v", path, err)
			return loadedMsg{path: path, err: err}
		}
		if err := store.Load(path, data, opts); err != nil {
			log.Printf("%v", err)
			return loadedMsg{path: path, err: err}
		}

		snap := store.Snapshot()
		log.Printf("loaded %s: %d records in %d rooms, %d skipped", path, snap.Records, snap.Index.Len(), len(snap.Skipped))
		for _, p := range snap.Problems {
			log.Printf("%s: %v", path, p)
		}
		return loadedMsg{path: path, stamp: stamp, hasStamp: statErr == nil}
	}
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func statCmd(path string) tea.Cmd {
	return func() tea.Msg {
		stamp, err := logfile.Stat(path)
		return statMsg{path: path, stamp: stamp, err: err}
	}
}
