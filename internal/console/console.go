package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/danmuck/p4chord/internal/exchange"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	Prompt      = "chord> "
	QuitCommand = "quit"
)

// Exchanger runs one request line.
type Exchanger interface {
	Exchange(ctx context.Context, line string) (exchange.Result, error)
}

type Console struct {
	ex        Exchanger
	in        *bufio.Reader
	out       io.Writer
	artifacts Artifacts
}

func New(ex Exchanger, in io.Reader, out io.Writer, artifacts Artifacts) *Console {
	if artifacts.Enabled {
		artifacts = artifacts.WithDefaults()
	}
	return &Console{
		ex:        ex,
		in:        bufio.NewReader(in),
		out:       out,
		artifacts: artifacts,
	}
}

type readResult struct {
	line string
	err  error
}

// Run reads request lines until "quit", end of input or ctx is done. A
// cancelled ctx returns at once even while a read is pending; the pending read
// is abandoned.
func (c *Console) Run(ctx context.Context) error {
	printInfo(c.out, fmt.Sprintf("enter <note> <chord> <hex mask>, %q to exit", QuitCommand))

	reads := make(chan readResult)
	done := make(chan struct{})
	defer close(done)
	go c.readLines(reads, done)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(c.out, Prompt)

		var r readResult
		select {
		case <-ctx.Done():
			fmt.Fprintln(c.out)
			return nil
		case r = <-reads:
		}
		if r.err != nil && !errors.Is(r.err, io.EOF) {
			return fmt.Errorf("console: read: %w", r.err)
		}
		eof := errors.Is(r.err, io.EOF)

		trimmed := strings.TrimSpace(r.line)
		switch {
		case trimmed == QuitCommand:
			return nil
		case trimmed != "":
			_ = c.handle(ctx, trimmed, 0)
		}
		if eof {
			fmt.Fprintln(c.out)
			return nil
		}
	}
}

func (c *Console) readLines(reads chan<- readResult, done <-chan struct{}) {
	for {
		line, err := c.in.ReadString('\n')
		select {
		case reads <- readResult{line: line, err: err}:
		case <-done:
			return
		}
		if err != nil {
			return
		}
	}
}

// Send runs one line and returns its error, for one-shot use.
func (c *Console) Send(ctx context.Context, line string) error {
	return c.handle(ctx, strings.TrimSpace(line), 0)
}

// BatchSummary counts batch outcomes.
type BatchSummary struct {
	Total  int
	Failed int
}

// RunBatch runs each non-blank, non-comment line of r independently. A nil
// limiter runs unpaced.
func (c *Console) RunBatch(ctx context.Context, r io.Reader, limiter *rate.Limiter) (BatchSummary, error) {
	var sum BatchSummary
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return sum, fmt.Errorf("console: batch paced wait: %w", err)
			}
		}
		sum.Total++
		if err := c.handle(ctx, line, sum.Total); err != nil {
			sum.Failed++
		}
	}
	if err := scanner.Err(); err != nil {
		return sum, fmt.Errorf("console: batch read: %w", err)
	}
	printInfo(c.out, fmt.Sprintf("batch done: %d sent, %d failed", sum.Total, sum.Failed))
	return sum, nil
}

func (c *Console) handle(ctx context.Context, line string, n int) error {
	res, err := c.ex.Exchange(ctx, line)
	if err != nil {
		printError(c.out, err)
		return err
	}
	printResult(c.out, res)
	if !c.artifacts.Enabled {
		return nil
	}
	path := c.artifacts.PathFor(n)
	if err := c.artifacts.Write(path, res); err != nil {
		log.Warn().Err(err).Str("exchange_id", res.ID).Str("path", path).Msg("console.artifact")
		printError(c.out, err)
		return err
	}
	printInfo(c.out, "wrote "+path)
	return nil
}
