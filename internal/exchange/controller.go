package exchange

import (
	"context"
	"encoding/hex"
	"errors"
	"os"
	"time"

	"github.com/danmuck/p4chord/internal/grammar"
	"github.com/danmuck/p4chord/internal/observability"
	"github.com/danmuck/p4chord/internal/protocol"
	"github.com/danmuck/p4chord/internal/protocol/frame"
	"github.com/danmuck/p4chord/internal/transport"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
)

// Result describes one finished exchange. State is set on every return path;
// Response is only meaningful when State is StateDecoded.
type Result struct {
	ID       string
	State    State
	Request  protocol.ChordRequest
	Frame    []byte
	Response protocol.ChordResponse
	Elapsed  time.Duration
}

// Controller runs exchanges against a caller-owned transport handle.
type Controller struct {
	cfg       Config
	transport transport.Transport
	parser    grammar.Parser
	now       func() time.Time
}

func NewController(cfg Config, t transport.Transport) (*Controller, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if t == nil {
		return nil, errors.New("exchange: transport required")
	}
	return &Controller{
		cfg:       cfg,
		transport: t,
		parser:    grammar.Chord(cfg.StrictGrammar),
		now:       time.Now,
	}, nil
}

func (c *Controller) Config() Config {
	return c.cfg
}

// Exchange parses line, sends the encoded request and decodes the reply.
func (c *Controller) Exchange(ctx context.Context, line string) (res Result, err error) {
	start := c.now()
	res.ID = newID(start)
	res.State = StateIdle

	ctx, span := observability.StartSpan(ctx, "chord.exchange",
		attribute.String("exchange.id", res.ID),
		attribute.String("exchange.layout", c.cfg.Layout.Name),
		attribute.String("exchange.dest", c.cfg.Destination),
	)
	defer func() {
		res.Elapsed = c.now().Sub(start)
		span.SetAttributes(attribute.String("exchange.state", res.State.String()))
		observability.EndSpan(span, err)
		observability.RecordExchange(c.cfg.Layout.Name, res.State.String(), res.Elapsed)
		c.logResult(res, err)
	}()

	_, tokens, err := c.parser(line, 0, nil)
	if err != nil {
		res.State = StateParseFailed
		return res, err
	}

	res.State = StateBuilding
	req, err := grammar.Request(tokens)
	if err != nil {
		res.State = stateForBuildError(err)
		return res, err
	}
	res.Request = req

	buf, err := frame.Encode(c.cfg.Layout, req)
	if err != nil {
		res.State = stateForBuildError(err)
		return res, err
	}
	res.Frame = buf
	log.Debug().
		Str("exchange_id", res.ID).
		Str("frame", hex.EncodeToString(buf)).
		Msg("exchange.send")

	rtCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()
	rtCtx = transport.WithReplyMatch(rtCtx, func(reply []byte) bool {
		return frame.Answers(c.cfg.Layout, req, reply)
	})
	res.State = StateSent
	reply, err := c.transport.RoundTrip(rtCtx, buf, c.cfg.Destination)
	switch {
	case isTimeout(err) || (err == nil && len(reply) == 0):
		res.State = StateTimedOut
		return res, ErrTimedOut
	case err != nil:
		res.State = StateTransportFailed
		return res, &TransportError{Dest: c.cfg.Destination, Err: err}
	}

	resp, err := frame.Decode(c.cfg.Layout, reply)
	if err != nil {
		res.State = StateProtocolError
		return res, err
	}
	if resp.Tonic != req.Tonic || resp.ChordType != req.ChordType || resp.ChosenNotes != req.ChosenNotes {
		res.State = StateProtocolError
		return res, ErrReplyMismatch
	}
	res.Response = resp
	res.State = StateDecoded
	return res, nil
}

func stateForBuildError(err error) State {
	var overflow *protocol.FieldOverflowError
	if errors.As(err, &overflow) {
		return StateOverflowed
	}
	return StateParseFailed
}

func isTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded)
}

func (c *Controller) logResult(res Result, err error) {
	event := log.Info()
	switch res.State {
	case StateDecoded:
	case StateParseFailed, StateOverflowed:
		event = log.Debug()
	default:
		event = log.Warn()
	}
	event = event.
		Str("exchange_id", res.ID).
		Str("layout", c.cfg.Layout.Name).
		Str("dest", c.cfg.Destination).
		Str("state", res.State.String()).
		Dur("elapsed", res.Elapsed)
	if err != nil {
		event = event.Err(err)
	}
	if res.State == StateDecoded {
		event = event.Interface("freqs", res.Response.Freqs)
	}
	event.Msg("exchange")
}
