package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/bookmap/internal/api"
	"github.com/dgallion1/bookmap/internal/config"
	"github.com/dgallion1/bookmap/internal/locator"
	"github.com/dgallion1/bookmap/internal/parser"
	"github.com/dgallion1/bookmap/internal/pipeline"
	"github.com/dgallion1/bookmap/internal/report"
	"github.com/dgallion1/bookmap/internal/stats"
)

const usage = `usage: bookmap <command> [flags] [file]

commands:
  map      [-format json|yaml] [file]   print the structural map of a book
  chapters [file]                       list "Chapter N: " headings for splitting
  split    [-out dir] [file]            write one PDF per located chapter
  serve                                 run the HTTP API

file defaults to $BOOKMAP_INPUT (book.pdf).
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	cmd, rest := args[0], args[1:]
	if cmd == "serve" {
		return serve(cfg)
	}

	// Logs go to stderr so stdout carries only the report.
	log := slog.New(slog.NewJSONHandler(stderr, nil))
	runner := pipeline.NewRunner(cfg, log, stats.NewScanStats(cfg.StatsWindow))

	var err error
	switch cmd {
	case "map":
		err = runMap(runner, cfg, rest, stdout, stderr)
	case "chapters":
		err = runChapters(runner, cfg, rest, stdout, stderr)
	case "split":
		err = runSplit(runner, cfg, rest, stdout, stderr)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usage)
		return 2
	}

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 2
		}
		if errors.Is(err, parser.ErrNotFound) {
			fmt.Fprintln(stderr, "Error: PDF file not found!")
		} else {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func inputPath(fs *flag.FlagSet, cfg config.Config) string {
	if fs.NArg() > 0 {
		return fs.Arg(0)
	}
	return cfg.InputPath
}

func runMap(runner *pipeline.Runner, cfg config.Config, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("map", flag.ContinueOnError)
	fs.SetOutput(stderr)
	format := fs.String("format", report.FormatJSON, "output format: json or yaml")
	if err := fs.Parse(args); err != nil {
		return err
	}
	f, err := report.ParseFormat(*format)
	if err != nil {
		return err
	}

	bm, err := runner.MapBook(inputPath(fs, cfg))
	if err != nil {
		return err
	}
	return report.Encode(stdout, bm, f)
}

func runChapters(runner *pipeline.Runner, cfg config.Config, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("chapters", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	path := inputPath(fs, cfg)

	fmt.Fprintf(stdout, "Analyzing %s for exact chapter pattern 'Chapter X: '...\n", path)
	res, err := runner.FindChapters(path)
	if err != nil {
		return err
	}
	return locator.Render(stdout, res)
}

func runSplit(runner *pipeline.Runner, cfg config.Config, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("split", flag.ContinueOnError)
	fs.SetOutput(stderr)
	outDir := fs.String("out", "chapters", "directory for the chapter files")
	if err := fs.Parse(args); err != nil {
		return err
	}

	outputs, err := runner.SplitChapters(inputPath(fs, cfg), *outDir)
	if err != nil {
		return err
	}
	for _, o := range outputs {
		fmt.Fprintf(stdout, "Chapter %-3d pages %-9s %s\n", o.Chapter, o.Pages(), o.Path)
	}
	fmt.Fprintf(stdout, "\nWrote %d chapter files to %s\n", len(outputs), *outDir)
	return nil
}

func serve(cfg config.Config) int {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := cfg.ValidateServer(); err != nil {
		log.Error("invalid configuration", "error", err)
		return 1
	}

	runner := pipeline.NewRunner(cfg, log, stats.NewScanStats(cfg.StatsWindow))
	srv := api.NewServer(runner, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting bookmap", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		return 1
	}
	return 0
}
