package logfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Stdin is the path that reads the log from standard input.
const Stdin = "-"

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

	// maxBytes caps the decompressed size held in memory.
	maxBytes int64 = 256 << 20
)

// ErrTooLarge is returned when a log exceeds the in-memory limit.
var ErrTooLarge = errors.New("log file too large")

// ErrNotWatchable is returned by Stat for inputs without a file behind them.
var ErrNotWatchable = errors.New("input cannot be watched")

// Read returns the whole log at path, decompressing gzip and zstd input.
func Read(path string) ([]byte, error) {
	if path == Stdin {
		return readAll(os.Stdin)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()
	return readAll(file)
}

func readAll(r io.Reader) ([]byte, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	magic, _ := br.Peek(len(zstdMagic))

	var src io.Reader = br
	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("open gzip: %w", err)
		}
		defer gz.Close()
		src = gz
	case bytes.HasPrefix(magic, zstdMagic):
		dec, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("open zstd: %w", err)
		}
		defer dec.Close()
		src = dec
	}

	data, err := io.ReadAll(io.LimitReader(src, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, maxBytes)
	}
	return data, nil
}

// Stamp identifies one version of a file on disk.
type Stamp struct {
	Size    int64
	ModTime time.Time
}

// Stat returns the current stamp of the file at path.
func Stat(path string) (Stamp, error) {
	if path == Stdin {
		return Stamp{}, ErrNotWatchable
	}
	info, err := os.Stat(path)
	if err != nil {
		return Stamp{}, fmt.Errorf("stat log: %w", err)
	}
	return Stamp{Size: info.Size(), ModTime: info.ModTime()}, nil
}
