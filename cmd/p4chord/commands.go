package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/danmuck/p4chord/internal/console"
	"github.com/danmuck/p4chord/internal/exchange"
	"github.com/danmuck/p4chord/internal/responder"
	"github.com/danmuck/p4chord/internal/transport"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// ExchangeFlags are shared by the commands that run exchanges.
type ExchangeFlags struct {
	NoArtifact bool   `help:"Skip writing the audio artifact."`
	Output     string `short:"o" help:"Artifact path (.wav or .mid)." type:"path"`
	Format     string `help:"Artifact format: wav or midi."`
}

func (f ExchangeFlags) apply(cfg *appConfig) {
	if f.NoArtifact {
		cfg.Artifacts.Enabled = false
	}
	if v := strings.TrimSpace(f.Output); v != "" {
		cfg.Artifacts.Output = v
		cfg.Artifacts.Format = ""
	}
	if v := strings.TrimSpace(f.Format); v != "" {
		cfg.Artifacts.Format = v
	}
}

// session opens the transport handle and builds the console around it.
func session(g *Globals, env *runEnv, flags ExchangeFlags) (*console.Console, appConfig, func(), error) {
	cfg, err := g.resolve()
	if err != nil {
		return nil, appConfig{}, nil, err
	}
	flags.apply(&cfg)
	shutdown, err := startRuntime(env.ctx, cfg)
	if err != nil {
		return nil, appConfig{}, nil, err
	}

	udp, err := transport.ListenUDP(cfg.Exchange.Interface)
	if err != nil {
		shutdown()
		return nil, appConfig{}, nil, configError(err)
	}
	ctrl, err := exchange.NewController(cfg.Exchange, udp)
	if err != nil {
		_ = udp.Close()
		shutdown()
		return nil, appConfig{}, nil, configError(err)
	}
	log.Info().
		Str("local", udp.LocalAddr().String()).
		Str("dest", cfg.Exchange.Destination).
		Str("layout", cfg.Exchange.Layout.Name).
		Dur("timeout", cfg.Exchange.Timeout).
		Msg("p4chord session")

	c := console.New(ctrl, env.in, env.out, cfg.Artifacts)
	return c, cfg, func() {
		_ = udp.Close()
		shutdown()
	}, nil
}

type ReplCmd struct {
	ExchangeFlags
}

func (c *ReplCmd) Run(g *Globals, env *runEnv) error {
	con, _, closeFn, err := session(g, env, c.ExchangeFlags)
	if err != nil {
		return err
	}
	defer closeFn()
	return con.Run(env.ctx)
}

type SendCmd struct {
	ExchangeFlags
	Line []string `arg:"" help:"Chord request, e.g. Af M_ 1234." predictor:"chord"`
}

func (c *SendCmd) Run(g *Globals, env *runEnv) error {
	con, _, closeFn, err := session(g, env, c.ExchangeFlags)
	if err != nil {
		return err
	}
	defer closeFn()
	if err := con.Send(env.ctx, strings.Join(c.Line, " ")); err != nil {
		return exchangeError(err)
	}
	return nil
}

type BatchCmd struct {
	ExchangeFlags
	File string  `arg:"" help:"File with one request per line." type:"existingfile"`
	Rate float64 `help:"Requests per second (0 uses the config value)."`
}

func (c *BatchCmd) Run(g *Globals, env *runEnv) error {
	con, cfg, closeFn, err := session(g, env, c.ExchangeFlags)
	if err != nil {
		return err
	}
	defer closeFn()

	perSecond := cfg.BatchRate
	if c.Rate > 0 {
		perSecond = c.Rate
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if perSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}

	f, err := os.Open(c.File)
	if err != nil {
		return configError(err)
	}
	defer f.Close()

	sum, err := con.RunBatch(env.ctx, f, limiter)
	if err != nil {
		return err
	}
	if sum.Failed > 0 {
		return exchangeError(fmt.Errorf("%d of %d requests failed", sum.Failed, sum.Total))
	}
	return nil
}

type RespondCmd struct {
	Listen string  `help:"UDP address to answer on."`
	BaseHz float64 `help:"Pitch of A at octave 1."`
}

func (c *RespondCmd) Run(g *Globals, env *runEnv) error {
	cfg, err := g.resolve()
	if err != nil {
		return err
	}
	if v := strings.TrimSpace(c.Listen); v != "" {
		cfg.Responder.Listen = v
	}
	if c.BaseHz > 0 {
		cfg.Responder.BaseHz = c.BaseHz
	}
	shutdown, err := startRuntime(env.ctx, cfg)
	if err != nil {
		return err
	}
	defer shutdown()

	r := responder.New(cfg.Responder)
	fmt.Fprintf(env.out, "responding on %s (base %.1f Hz)\n", r.Config().Listen, r.Config().BaseHz)
	return r.ListenAndServe(env.ctx)
}

type VersionCmd struct{}

func (c *VersionCmd) Run(env *runEnv) error {
	fmt.Fprintf(env.out, "p4chord version %s\n", version)
	return nil
}
