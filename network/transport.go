package network

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

const (
	// ProbeToken is what the General writes to check a lieutenant is up.
	ProbeToken = "test"
	// AckToken is the only reply that marks a lieutenant as up.
	AckToken = "ack"
	// DefaultTimeout bounds every exchange with a single lieutenant.
	DefaultTimeout = 3 * time.Second
)

// ErrUnexpectedReply is returned by Probe when the lieutenant answers with
// something other than AckToken.
var ErrUnexpectedReply = errors.New("unexpected reply")

// Transport is an helper struct for talking to a single lieutenant at a time.
// The zero value is not usable, build one with NewTransport.
type Transport struct {
	timeout time.Duration
	dialer  net.Dialer
}

func NewTransport(opts ...TransportOption) Transport {
	t := Transport{timeout: DefaultTimeout}
	for _, opt := range opts {
		t = opt(t)
	}
	t.dialer.Timeout = t.timeout
	return t
}

// Timeout returns the bound applied to every exchange.
func (t Transport) Timeout() time.Duration {
	return t.timeout
}

// Deliver writes line followed by a newline to addr and closes the
// connection.
func (t Transport) Deliver(ctx context.Context, addr string, line string) error {
	conn, err := t.dial(ctx, addr)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(conn)
	if _, err := w.WriteString(line + "\n"); err != nil {
		return errors.Join(fmt.Errorf("write: %w", err), conn.Close())
	}
	if err := w.Flush(); err != nil {
		return errors.Join(fmt.Errorf("write: %w", err), conn.Close())
	}
	if err := conn.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return nil
}

// Probe writes ProbeToken to addr and waits for one line in reply.
// It returns nil only if the reply is AckToken.
func (t Transport) Probe(ctx context.Context, addr string) (err error) {
	conn, err := t.dial(ctx, addr)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, ignoreClosed(conn.Close()))
	}()
	if _, err := conn.Write([]byte(ProbeToken + "\n")); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	// A reply cut short by the lieutenant closing the connection still counts.
	reply, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && reply != "") {
		return fmt.Errorf("read: %w", err)
	}
	reply = strings.TrimRight(reply, "\r\n")
	if reply != AckToken {
		return fmt.Errorf("%w %q", ErrUnexpectedReply, reply)
	}
	return nil
}

// dial opens a connection to addr whose whole lifetime is bounded by the
// transport timeout.
func (t Transport) dial(ctx context.Context, addr string) (net.Conn, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	conn, err := t.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	deadline, _ := ctx.Deadline()
	if err := conn.SetDeadline(deadline); err != nil {
		return nil, errors.Join(err, conn.Close())
	}
	return conn, nil
}

func ignoreClosed(err error) error {
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}
