package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Makepad-fr/tada-lists/internal/api"
	"github.com/Makepad-fr/tada-lists/internal/cli"
	"github.com/Makepad-fr/tada-lists/internal/config"
	"github.com/Makepad-fr/tada-lists/internal/graphql"
	"github.com/Makepad-fr/tada-lists/internal/log"
	"github.com/Makepad-fr/tada-lists/internal/service"
	"github.com/Makepad-fr/tada-lists/internal/session"
	"github.com/Makepad-fr/tada-lists/internal/ui"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(argv []string, stdout, stderr io.Writer) int {
	// Root flags (apply to every subcommand)
	fs := flag.NewFlagSet("tada", flag.ContinueOnError)
	fs.SetOutput(stderr)
	apiURL := fs.String("api", "", "GraphQL endpoint, overrides TADA_API_URL")
	theme := fs.String("theme", "", "output theme: "+strings.Join(ui.Themes, ", "))
	groupPending := fs.Bool("group", false, "group tasks by pending/done")
	noColor := fs.Bool("no-color", false, "never color output")
	verbose := fs.Bool("v", false, "debug logging, overrides TADA_LOG_LEVEL")
	if err := fs.Parse(argv); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, "tada:", err)
		return 1
	}
	if *apiURL != "" {
		cfg.APIURL = strings.TrimRight(*apiURL, "/")
	}
	if *theme != "" {
		cfg.Theme = *theme
	}

	opts := cli.Options{Group: *groupPending, Theme: cfg.Theme, Out: stdout, Err: stderr}
	if *noColor || os.Getenv("NO_COLOR") != "" {
		opts.Color = ui.ColorNever
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Hand the remaining args to the CLI runner.
	args := fs.Args()
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		return cli.Run(ctx, args, service.Services{}, opts)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, "tada:", err)
		return 2
	}

	closer, err := log.Init(log.Options{
		File:        cfg.LogFile,
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Fprintln(stderr, "tada:", err)
		return 1
	}
	defer closer.Close()
	if *verbose {
		log.SetLevel("debug")
	}

	client := graphql.NewClient(cfg.APIURL, &http.Client{Timeout: cfg.HTTPTimeout})
	sess := session.New()
	store := session.NewStore(cfg.HomeDir, cfg.Token, cfg.Username)
	svc := service.NewServices(api.New(client), sess, store)

	if c, err := svc.Auth.Restore(); err != nil {
		log.Warn().Err(err).Msg("saved session unreadable")
	} else if c != nil {
		log.Debug().Str("username", c.Username).Str("source", c.Source).Msg("session restored")
	}

	log.Info().Str("cmd", args[0]).Str("api", cfg.APIURL).Msg("start")
	return cli.Run(ctx, args, svc, opts)
}
