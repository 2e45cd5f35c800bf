package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/danmuck/p4chord/internal/logging"
	"github.com/danmuck/p4chord/internal/observability"
	"github.com/danmuck/p4chord/internal/protocol/frame"
	"github.com/rs/zerolog/log"
	"github.com/willabides/kongplete"
)

var version = "dev"

// Globals are the flags shared by every command. Non-zero values override the
// config file.
type Globals struct {
	Config        string        `short:"c" help:"Path to a TOML or YAML config file." type:"path" predictor:"config"`
	Destination   string        `short:"d" help:"Responder address (host:port)."`
	Interface     string        `short:"i" help:"Local interface name or bind address."`
	Timeout       time.Duration `short:"t" help:"Per-exchange timeout."`
	Layout        string        `short:"l" help:"Frame layout: legacy or revised." predictor:"layout"`
	Strict        bool          `help:"Reject trailing input after the mask."`
	LogLevel      string        `help:"Log level (trace, debug, info, warn, error)."`
	LogFile       string        `help:"Also write logs to this file, rotated." type:"path"`
	MetricsListen string        `help:"Serve Prometheus metrics on this address."`
	Trace         string        `help:"Trace exporter: noop or stdout."`
}

type CLI struct {
	Globals

	Repl    ReplCmd    `cmd:"" default:"1" help:"Read chord requests interactively"`
	Send    SendCmd    `cmd:"" help:"Send one chord request"`
	Batch   BatchCmd   `cmd:"" help:"Send every request line of a file"`
	Respond RespondCmd `cmd:"" help:"Run the reference responder"`
	Version VersionCmd `cmd:"" help:"Show version"`

	InstallCompletions kongplete.InstallCompletions `cmd:"" help:"Install shell completions"`
}

// resolve layers flags over the config file.
func (g *Globals) resolve() (appConfig, error) {
	cfg, err := loadAppConfig(g.Config)
	if err != nil {
		return appConfig{}, configError(err)
	}
	if v := strings.TrimSpace(g.Destination); v != "" {
		cfg.Exchange.Destination = v
	}
	if v := strings.TrimSpace(g.Interface); v != "" {
		cfg.Exchange.Interface = v
	}
	if g.Timeout > 0 {
		cfg.Exchange.Timeout = g.Timeout
	}
	if strings.TrimSpace(g.Layout) != "" {
		layout, err := frame.ParseLayout(g.Layout)
		if err != nil {
			return appConfig{}, configError(err)
		}
		cfg.Exchange.Layout = layout
	}
	if g.Strict {
		cfg.Exchange.StrictGrammar = true
	}
	if v := strings.TrimSpace(g.LogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(g.LogFile); v != "" {
		cfg.LogFile = v
	}
	if v := strings.TrimSpace(g.MetricsListen); v != "" {
		cfg.MetricsListen = v
	}
	if v := strings.TrimSpace(g.Trace); v != "" {
		cfg.TraceExporter = v
	}
	if err := cfg.Exchange.Validate(); err != nil {
		return appConfig{}, configError(err)
	}
	return cfg, nil
}

// startRuntime configures logging, tracing and metrics for a command and
// returns the matching shutdown.
func startRuntime(ctx context.Context, cfg appConfig) (func(), error) {
	opts := []logging.Option{logging.WithLevel(cfg.LogLevel)}
	if cfg.LogFile != "" {
		opts = append(opts, logging.WithFile(cfg.LogFile))
	}
	logging.ConfigureRuntime(opts...)

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.TraceExporter)
	if err != nil {
		return nil, configError(err)
	}

	observability.RegisterMetrics()
	metricsCtx, stopMetrics := context.WithCancel(ctx)
	if cfg.MetricsListen != "" {
		go func() {
			if err := observability.ServeMetrics(metricsCtx, cfg.MetricsListen); err != nil {
				log.Error().Err(err).Str("listen", cfg.MetricsListen).Msg("metrics server stopped")
			}
		}()
	}

	return func() {
		stopMetrics()
		flushCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn().Err(err).Msg("trace shutdown")
		}
		_ = logging.Close()
	}, nil
}

type runEnv struct {
	ctx context.Context
	in  io.Reader
	out io.Writer
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, in io.Reader, out, errOut io.Writer) int {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("p4chord"),
		kong.Description("Send chord requests to a P4 responder and render the answer."),
		kong.UsageOnError(),
		kong.Writers(out, errOut),
	)
	if err != nil {
		fmt.Fprintf(errOut, "p4chord: %v\n", err)
		return exitError
	}
	kongplete.Complete(parser, predictors()...)

	kctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(errOut, "p4chord: %v\n", err)
		return exitConfig
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// a second signal gets the default handling
	context.AfterFunc(ctx, stop)

	err = kctx.Run(&cli.Globals, &runEnv{ctx: ctx, in: in, out: out})
	if err != nil {
		var exitErr *ExitError
		if !errors.As(err, &exitErr) || exitErr.Code != exitExchange {
			fmt.Fprintf(errOut, "p4chord: %v\n", err)
		}
	}
	return exitCode(err)
}
