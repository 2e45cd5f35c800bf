package exchange

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danmuck/p4chord/internal/protocol/frame"
)

const (
	DefaultTimeout     = 5 * time.Second
	DefaultDestination = "127.0.0.1:9494"
)

var ErrDestinationRequired = errors.New("exchange: destination required")

// Config is the explicit addressing and timing for exchanges.
type Config struct {
	// Destination is the responder address handed to the transport.
	Destination string
	// Interface names the local handle the caller bound its transport to.
	Interface     string
	Timeout       time.Duration
	Layout        frame.Layout
	StrictGrammar bool
}

func DefaultConfig() Config {
	return Config{
		Destination: DefaultDestination,
		Timeout:     DefaultTimeout,
		Layout:      frame.Revised,
	}
}

// WithDefaults fills zero values from DefaultConfig.
func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	c.Destination = strings.TrimSpace(c.Destination)
	c.Interface = strings.TrimSpace(c.Interface)
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	if c.Layout.Width == 0 {
		c.Layout = def.Layout
	}
	return c
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Destination) == "" {
		return ErrDestinationRequired
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("exchange: timeout must be positive, got %v", c.Timeout)
	}
	if _, ok := frame.LayoutForVersion(c.Layout.Version); !ok {
		return fmt.Errorf("exchange: unsupported layout %q", c.Layout.Name)
	}
	return nil
}
