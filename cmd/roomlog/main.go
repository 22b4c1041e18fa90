package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/roomlog/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: roomlog [flags] [file.jsonl | -]\n\n")
		flag.PrintDefaults()
	}
	configPath := flag.String("config", "", "override config path (optional)")
	variant := flag.String("variant", "", "grouping: room or participant (optional)")
	lenient := flag.Bool("lenient", false, "skip malformed lines instead of failing the load")
	printOnly := flag.Bool("print", false, "print the grouped log as plain text and exit")
	pollSeconds := flag.Int("poll", 0, "file watch interval in seconds (optional, defaults to 2s)")
	flag.Parse()

	if flag.NArg() > 1 {
		flag.Usage()
		return 2
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		Path:       flag.Arg(0),
		Variant:    *variant,
		Lenient:    *lenient,
	}
	if poll := *pollSeconds; poll > 0 {
		opts.PollEvery = poll
	}

	var err error
	if *printOnly {
		err = app.Print(ctx, opts, os.Stdout)
	} else {
		err = app.Run(ctx, opts)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "roomlog: %v\n", err)
		return 1
	}
	return 0
}
