// Package app wires configuration, loading and the UI together.
//
// # Overview
//
// app is the composition root. It resolves the config file, command line
// overrides and saved preferences into one config.Config, then either starts
// the TUI (Run) or renders the log once as plain text (Print).
//
// # Run
//
//  1. Load ~/.config/roomlog/config.toml and apply flag overrides.
//  2. Load prefs; the saved variant applies unless a flag chose one.
//  3. Send log output to the configured log file.
//  4. Read stdin up front when the path is "-".
//  5. Start the TUI and block until the user exits or ctx is cancelled.
//
// # Print
//
// Print reads and groups the file with the same parser and renderer the TUI
// uses and writes the result through view.WriteText. Parse problems are
// logged to stderr; a strict-mode failure is returned as an error.
package app
