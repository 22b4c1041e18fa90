// Package state holds the one grouping result the viewer shows at a time.
//
// # Overview
//
// A Store is created once by the app and handed to the UI. Every file load
// (initial open, reload key, watcher notification) goes through Store.Load,
// which runs the parse → group pipeline and commits the result:
//
//	raw bytes ──→ roomlog.Load ──→ store.Update ──→ store.Snapshot() ──→ view.Render
//
// # Update Semantics
//
// A load is all or nothing:
//
//	// Success: the previous index is discarded entirely
//	store.Load("a.jsonl", data, opts)
//	→ snapshot.Index = fresh index
//	→ snapshot.Generation++
//	→ snapshot.LastError = nil
//
//	// Failure (strict mode, malformed line): nothing is committed
//	store.Load("b.jsonl", bad, opts)
//	→ snapshot.Index unchanged
//	→ snapshot.Source unchanged
//	→ snapshot.LastError = err
//	→ snapshot.ConsecutiveFailures++
//
// The UI keeps showing the last good view and surfaces LastError in its
// status bar.
//
// # Concurrency Model
//
// Loads run in Bubble Tea commands, so the Store guards its snapshot with a
// sync.RWMutex. Snapshot returns copies of the slices; the Index is shared
// because nothing modifies it after roomlog.Build returns.
package state
