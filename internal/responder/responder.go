package responder

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/danmuck/p4chord/internal/observability"
	"github.com/danmuck/p4chord/internal/protocol/frame"
	"github.com/danmuck/p4chord/internal/transport"
	"github.com/rs/zerolog/log"
)

const DefaultListen = ":9494"

type Config struct {
	Listen string  `toml:"listen" yaml:"listen"`
	BaseHz float64 `toml:"base_hz" yaml:"base_hz"`
}

func DefaultConfig() Config {
	return Config{Listen: DefaultListen, BaseHz: DefaultBaseHz}
}

func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	if strings.TrimSpace(c.Listen) == "" {
		c.Listen = def.Listen
	}
	if c.BaseHz <= 0 {
		c.BaseHz = def.BaseHz
	}
	return c
}

type Responder struct {
	cfg      Config
	voicing  Voicing
	Appeared time.Time
}

func New(cfg Config) *Responder {
	cfg = cfg.WithDefaults()
	return &Responder{
		cfg:      cfg,
		voicing:  Voicing{BaseHz: cfg.BaseHz},
		Appeared: time.Now(),
	}
}

func (r *Responder) Config() Config {
	return r.cfg
}

// Respond decodes one request frame of either layout and returns the filled
// response in the same layout.
func (r *Responder) Respond(buf []byte) ([]byte, error) {
	f, err := frame.DecodeAny(buf)
	if err != nil {
		observability.RecordResponderFrame("unknown", "rejected")
		return nil, err
	}
	resp := f.Response()
	resp.Freqs = r.voicing.Freqs(f.Request(), f.Layout.Max())
	out, err := frame.EncodeResponse(f.Layout, resp)
	if err != nil {
		observability.RecordResponderFrame(f.Layout.Name, "rejected")
		return nil, err
	}
	observability.RecordResponderFrame(f.Layout.Name, "answered")
	log.Debug().
		Str("layout", f.Layout.Name).
		Str("tonic", string(resp.Tonic)).
		Str("chord_type", string(resp.ChordType)).
		Interface("freqs", resp.Freqs).
		Str("frame", hex.EncodeToString(out)).
		Msg("responder.answer")
	return out, nil
}

// Transport answers in process, for loopback use without a socket.
func (r *Responder) Transport() transport.Func {
	return func(ctx context.Context, buf []byte, _ string) ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return r.Respond(buf)
	}
}

// Serve answers datagrams on conn until ctx is done or conn fails. Malformed
// frames are logged and dropped.
func (r *Responder) Serve(ctx context.Context, conn net.PacketConn) error {
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetReadDeadline(time.Now())
	})
	defer stop()

	log.Info().Str("listen", conn.LocalAddr().String()).Msg("responder.serve")
	buf := make([]byte, transport.MaxDatagram)
	for {
		n, from, err := conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				log.Info().Dur("uptime", time.Since(r.Appeared)).Msg("responder.stop")
				return nil
			}
			return fmt.Errorf("responder: read: %w", err)
		}
		out, err := r.Respond(buf[:n])
		if err != nil {
			log.Warn().Err(err).Str("from", from.String()).Int("len", n).Msg("responder.drop")
			continue
		}
		if _, err := conn.WriteTo(out, from); err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.Warn().Err(err).Str("from", from.String()).Msg("responder.write")
		}
	}
}

// ListenAndServe binds the configured UDP address and serves until ctx is done.
func (r *Responder) ListenAndServe(ctx context.Context) error {
	conn, err := net.ListenPacket("udp", r.cfg.Listen)
	if err != nil {
		return fmt.Errorf("responder: listen %s: %w", r.cfg.Listen, err)
	}
	defer conn.Close()
	return r.Serve(ctx, conn)
}
