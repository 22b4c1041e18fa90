// Package logfile reads room logs from disk.
//
// Read loads the whole file into memory; the parser works on complete
// content, never on a stream. Input compressed with gzip or zstd is detected
// by its magic bytes and decompressed transparently, so rotated logs such as
// room-1234.jsonl.gz open the same way as plain ones. The path "-" reads
// standard input.
//
// Stat returns a size and modification time stamp that the app's watcher
// compares between polls to decide when to reload.
//
// Errors are wrapped; a missing file surfaces as an error matching
// os.ErrNotExist.
package logfile
