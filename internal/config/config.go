// Package config provides CLI configuration and command runners for refqueue.
package config

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"golang.org/x/sync/errgroup"

	"github.com/timzifer/refqueue"
	"github.com/timzifer/refqueue/internal/script"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	exit = os.Exit
)

// CLI is the root command configuration with subcommands.
type CLI struct {
	LogLevel string           `kong:"short='l',help='Log level',enum='debug,info,warn,error',default='info'"`
	Replay   ReplayCmd        `kong:"cmd,help='Replay operation scripts against fresh queues'"`
	Version  kong.VersionFlag `kong:"short='v',help='Show version and exit.'"`

	Stdout io.Writer `kong:"-"`
	Stderr io.Writer `kong:"-"`
}

// ReplayCmd runs one or more script files.
type ReplayCmd struct {
	Parallel bool     `kong:"short='p',help='Run scripts concurrently, one queue per script'"`
	Metrics  bool     `kong:"short='m',help='Print operation counters after all scripts finish'"`
	Files    []string `kong:"arg,help='Script files to replay'"`
}

// Run executes the replay command.
func (c *ReplayCmd) Run(ctx context.Context, cli *CLI) error {
	logger := setupLogger(cli.Stderr, cli.LogLevel)

	scripts := make([][]script.Op, len(c.Files))
	for i, path := range c.Files {
		ops, err := parseFile(path)
		if err != nil {
			return err
		}
		scripts[i] = ops
	}

	opts := []refqueue.Option{refqueue.WithLogger(logger)}
	var metrics *refqueue.Metrics
	if c.Metrics {
		metrics = refqueue.DefaultMetrics()
		metrics.Reset()
		opts = append(opts, refqueue.WithMetrics(metrics))
	}

	logger.Info("Replaying scripts", "files", c.Files, "parallel", c.Parallel)

	outputs := make([]bytes.Buffer, len(c.Files))
	results := make([]*script.Result, len(c.Files))

	g, gctx := errgroup.WithContext(ctx)
	if !c.Parallel {
		g.SetLimit(1)
	}
	for i, path := range c.Files {
		g.Go(func() error {
			runner := script.NewRunner(&outputs[i], logger, opts...)
			res, err := runner.Run(gctx, path, scripts[i])
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	err := g.Wait()

	for i, path := range c.Files {
		if results[i] == nil && outputs[i].Len() == 0 {
			continue
		}
		fmt.Fprintf(cli.Stdout, "== %s\n", path)
		_, _ = outputs[i].WriteTo(cli.Stdout)
		if res := results[i]; res != nil {
			fmt.Fprintf(cli.Stdout, "final: %v\n", res.Final)
		}
	}

	if metrics != nil {
		s := metrics.Snapshot()
		fmt.Fprintf(cli.Stdout, "metrics: pushes=%d pops=%d removals=%d traversals=%d reclaimed=%d destroyed=%d\n",
			s.Pushes, s.Pops, s.Removals, s.Traversals, s.Reclaimed, s.Destroyed)
	}

	return err
}

func parseFile(path string) ([]script.Op, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	ops, err := script.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ops, nil
}

// Run parses args and executes the selected command.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := CLI{Stdout: stdout, Stderr: stderr}
	parser, err := kong.New(&cli,
		kong.Name("refqueue"),
		kong.Description("Replay scripted operations against reference queues"),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) { exit(code) }),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": fmt.Sprintf("%s (%s) released on %s", version, commit, date),
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	if err != nil {
		return err
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	return kongCtx.Run(&cli)
}

func setupLogger(w io.Writer, level string) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: parseLogLevel(level),
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
