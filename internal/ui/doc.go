// Package ui provides the terminal user interface for roomlog.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program with a single Model. It never parses or
// groups records itself: loads go through state.Store, and every frame is
// built from view.Render output, so the TUI shows exactly what the plain
// text printer would.
//
// # Package Structure
//
//   - app.go: Model, Options, Init/Update/View and key dispatch
//   - loader.go: Messages and commands for loading and polling
//   - watch.go: File change detection with exponential backoff
//   - viewer.go: Display lines, styling and the titled log pane
//   - header.go: Header, command bar and status line
//   - search.go: Regex search with match navigation
//   - open.go: Open file prompt
//   - help.go: Help overlay
//   - theme.go, style_helpers.go: Themes and background-safe styling
//
// # Event Flow
//
//  1. Run builds the Model and starts the program.
//  2. Init loads the initial file, or opens the prompt when there is none.
//  3. loadCmd reads and groups the file off the event loop and commits it to
//     the store; loadedMsg rebuilds the content from a fresh snapshot.
//  4. With watching enabled, tickMsg and statMsg reload the file when its
//     size or modification time changes.
//  5. At most one load runs at a time; the latest request made while one is
//     running is queued.
//
// # Key Bindings
//
//   - o: Open a file
//   - r: Reload the current file
//   - v: Toggle room and participant grouping
//   - [ / ]: Previous/next room
//   - /: Search, n/N: next/previous match, esc: clear search
//   - j/k, g/G, ctrl+d/ctrl+u: Scroll
//   - T: Cycle theme
//   - h or ?: Help
//   - e or Ctrl+C: Exit
package ui
