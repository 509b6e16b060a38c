package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/germanamz/askllm/pkg/modeladapter"
	"github.com/germanamz/askllm/pkg/presets"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: askllm [flags]\n\nServe the ask_openrouter_llm, ask_gemini_llm and conversation_with_llm tools over MCP on stdio.\n\nFlags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment:\n  OPENROUTER_API_KEY, GEMINI_API_KEY          provider credentials\n  OPENROUTER_BASE_URL, GEMINI_BASE_URL        endpoint overrides\n  OPENROUTER_REFERER, OPENROUTER_TITLE        OpenRouter attribution headers\n")
	}

	presetName := flag.String("preset", presets.General, "active preset for every call")
	presetsFile := flag.String("presets", presets.DefaultFile, "path to an external presets file (ignored if missing)")
	envFile := flag.String("env", ".env", "path to .env file (ignored if missing)")
	timeout := flag.Duration("timeout", modeladapter.DefaultTimeout, "upstream HTTP timeout (0 disables)")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn or error")
	listPresets := flag.Bool("list-presets", false, "print the preset table and exit")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("askllm", version)
		return
	}

	if err := loadDotEnv(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	log, err := newLogger(os.Stderr, *logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	tbl := presets.NewTable(presets.LoadOptional(*presetsFile, log), log)

	if *listPresets {
		if err := printPresets(os.Stdout, tbl, *presetName); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	opts := options{
		preset:  *presetName,
		timeout: *timeout,
		getenv:  os.Getenv,
	}
	if err := run(opts, tbl, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// run serves the tools on stdio until the client disconnects or the process
// is interrupted.
func run(opts options, tbl *presets.Table, log *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv, active, err := newServer(opts, tbl, log)
	if err != nil {
		return err
	}

	log.Info("askllm ready",
		"version", version,
		"preset", active.Name,
		"provider", active.Provider,
		"model", active.Model,
		"presets", tbl.Len(),
		"timeout", opts.timeout.Round(time.Second),
	)

	err = srv.Serve(ctx, os.Stdin, os.Stdout)
	if ctx.Err() != nil {
		return nil
	}
	return err
}
