package source

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/pd0mz/go-trunk/dmr"
)

// DefaultListen is the usual Homebrew repeater port.
const DefaultListen = "0.0.0.0:62031"

// Listener receives DMRD packets on a UDP socket, as forwarded by a
// Homebrew/MMDVM host.
type Listener struct {
	conn *net.UDPConn

	// Skipped counts datagrams that carried no DMRD packet.
	Skipped int
}

// Listen opens the socket at addr, DefaultListen if empty.
func Listen(addr string) (*Listener, error) {
	if addr == "" {
		addr = DefaultListen
	}
	local, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp", local)
	if err != nil {
		return nil, err
	}
	return &Listener{conn: conn}, nil
}

// Addr returns the local address of the socket.
func (l *Listener) Addr() net.Addr { return l.conn.LocalAddr() }

// Close stops the socket, Frames returns afterwards.
func (l *Listener) Close() error { return l.conn.Close() }

// Frames calls fn for every DMRD burst received, until ctx is done or the
// listener is closed.
func (l *Listener) Frames(ctx context.Context, maxSyncErrors int, fn func(*DMRD, *dmr.Frame)) error {
	stop := context.AfterFunc(ctx, func() { l.conn.Close() })
	defer stop()

	var data = make([]byte, 512)
	for {
		n, peer, err := l.conn.ReadFromUDP(data)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return ctx.Err()
			}
			return err
		}

		if !IsDMRD(data[:n]) {
			l.Skipped++
			continue
		}
		p, err := ParseDMRD(data[:n])
		if err != nil {
			log.Warningf("%s: %v", peer, err)
			l.Skipped++
			continue
		}
		f, err := p.Frame(maxSyncErrors)
		if err != nil {
			log.Warningf("%s: %v", peer, err)
			continue
		}
		f.Time = time.Now()
		fn(p, f)
	}
}
