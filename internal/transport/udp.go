package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// MaxDatagram bounds one received reply.
const MaxDatagram = 1500

// drainWindow bounds how long RoundTrip polls for queued datagrams before it
// sends.
const drainWindow = time.Millisecond

var ErrNoInterfaceAddr = errors.New("transport: interface has no usable address")

// UDP exchanges frames as single datagrams over one bound socket.
type UDP struct {
	conn *net.UDPConn
}

// ListenUDP opens the transport handle bound to local. local may be empty, a
// host:port, a bare IP, or a network interface name.
func ListenUDP(local string) (*UDP, error) {
	bind, err := BindAddress(local)
	if err != nil {
		return nil, err
	}
	var laddr *net.UDPAddr
	if bind != "" {
		laddr, err = net.ResolveUDPAddr("udp", bind)
		if err != nil {
			return nil, fmt.Errorf("transport: resolve bind %q: %w", bind, err)
		}
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, fmt.Errorf("transport: listen %q: %w", bind, err)
	}
	log.Debug().Str("local", conn.LocalAddr().String()).Msg("transport.udp open")
	return &UDP{conn: conn}, nil
}

func (u *UDP) LocalAddr() net.Addr {
	return u.conn.LocalAddr()
}

func (u *UDP) Close() error {
	return u.conn.Close()
}

// RoundTrip writes frame to dest and waits for the first datagram from dest
// that the context's ReplyMatch accepts. Datagrams already queued before the
// send are discarded, as are datagrams from other peers.
func (u *UDP) RoundTrip(ctx context.Context, frame []byte, dest string) ([]byte, error) {
	raddr, err := net.ResolveUDPAddr("udp", dest)
	if err != nil {
		return nil, fmt.Errorf("transport: resolve %q: %w", dest, err)
	}
	if err := u.drain(); err != nil {
		return nil, err
	}
	match := replyMatchFrom(ctx)

	deadline, _ := ctx.Deadline()
	if err := u.conn.SetDeadline(deadline); err != nil {
		return nil, err
	}
	stop := context.AfterFunc(ctx, func() {
		_ = u.conn.SetDeadline(time.Now())
	})
	defer stop()

	if _, err := u.conn.WriteToUDP(frame, raddr); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("transport: send to %s: %w", raddr, err)
	}

	buf := make([]byte, MaxDatagram)
	for {
		n, from, err := u.conn.ReadFromUDP(buf)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, err
		}
		if !sameEndpoint(from, raddr) {
			log.Debug().Str("from", from.String()).Str("want", raddr.String()).Msg("transport.udp drop stray datagram")
			continue
		}
		if match != nil && !match(buf[:n]) {
			log.Debug().Str("from", from.String()).Int("bytes", n).Msg("transport.udp drop unmatched reply")
			continue
		}
		out := make([]byte, n)
		copy(out, buf[:n])
		return out, nil
	}
}

// drain discards datagrams left on the socket by earlier round trips, such as
// replies that arrived after their exchange timed out.
func (u *UDP) drain() error {
	buf := make([]byte, MaxDatagram)
	for {
		if err := u.conn.SetReadDeadline(time.Now().Add(drainWindow)); err != nil {
			return err
		}
		n, from, err := u.conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				return nil
			}
			return fmt.Errorf("transport: drain: %w", err)
		}
		log.Debug().Str("from", from.String()).Int("bytes", n).Msg("transport.udp drop stale datagram")
	}
}

func sameEndpoint(from, want *net.UDPAddr) bool {
	if from == nil || want == nil {
		return false
	}
	if from.Port != want.Port {
		return false
	}
	if want.IP == nil || want.IP.IsUnspecified() {
		return true
	}
	return from.IP.Equal(want.IP)
}

// BindAddress resolves the configured interface handle to a local UDP address.
func BindAddress(iface string) (string, error) {
	iface = strings.TrimSpace(iface)
	if iface == "" {
		return "", nil
	}
	if _, _, err := net.SplitHostPort(iface); err == nil {
		return iface, nil
	}
	if ip := net.ParseIP(iface); ip != nil {
		return net.JoinHostPort(ip.String(), "0"), nil
	}

	ifi, err := net.InterfaceByName(iface)
	if err != nil {
		return "", fmt.Errorf("transport: interface %q: %w", iface, err)
	}
	addrs, err := ifi.Addrs()
	if err != nil {
		return "", fmt.Errorf("transport: interface %q addrs: %w", iface, err)
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.To4() == nil {
			continue
		}
		return net.JoinHostPort(ipNet.IP.String(), "0"), nil
	}
	return "", fmt.Errorf("%w: %s", ErrNoInterfaceAddr, iface)
}
