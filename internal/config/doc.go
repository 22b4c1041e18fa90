// Package config loads roomlog's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/roomlog/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Configuration Fields
//
//	variant      = "room"          # or "participant"
//	lenient      = false           # skip malformed lines instead of failing the load
//	time_layout  = "Mon Jan 02 2006 15:04:05 GMT-0700 (MST)"
//	timezone     = "Local"         # IANA name used by the participant view
//	watch        = true            # reload when the file changes on disk
//	poll_seconds = 2
//	log_file     = "~/.local/state/roomlog/roomlog.log"
//
// An unknown variant or timezone is an error rather than a silent default.
// Command-line flags override these values in cmd/roomlog.
package config
