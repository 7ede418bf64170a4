package network

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDeliver(t *testing.T) {
	listeners, _ := CreateListeners(1)
	stub := NewStubLieutenant(listeners[0])
	defer stub.Close()

	tr := NewTransport()
	require.NoError(t, tr.Deliver(context.Background(), stub.Addr(), "attack:general:AQID"))

	select {
	case line := <-stub.Received():
		require.Equal(t, "attack:general:AQID", line)
	case <-time.After(2 * time.Second):
		t.Fatal("lieutenant did not receive the order")
	}
}

func TestDeliverRefused(t *testing.T) {
	addr := CreateAddresses(1)[0]
	err := NewTransport().Deliver(context.Background(), addr, "attack:general:AQID")
	require.Error(t, err)
	var opErr *net.OpError
	require.True(t, errors.As(err, &opErr), "got %T: %v", err, err)
}

func TestProbeAck(t *testing.T) {
	listeners, _ := CreateListeners(1)
	stub := NewStubLieutenant(listeners[0])
	defer stub.Close()

	require.NoError(t, NewTransport().Probe(context.Background(), stub.Addr()))
}

func TestProbeUnexpectedReply(t *testing.T) {
	listeners, _ := CreateListeners(1)
	stub := NewStubLieutenant(listeners[0], Replying("nope"))
	defer stub.Close()

	err := NewTransport().Probe(context.Background(), stub.Addr())
	require.ErrorIs(t, err, ErrUnexpectedReply)
	require.Contains(t, err.Error(), `"nope"`)
}

func TestProbeAckWithoutNewline(t *testing.T) {
	listeners, addresses := CreateListeners(1)
	l := listeners[0]
	defer l.Close()
	go func() {
		conn, err := l.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		if _, err := bufio.NewReader(conn).ReadString('\n'); err != nil {
			return
		}
		_, _ = conn.Write([]byte(AckToken))
	}()

	require.NoError(t, NewTransport().Probe(context.Background(), addresses[0]))
}

func TestProbeClosedWithoutReply(t *testing.T) {
	listeners, addresses := CreateListeners(1)
	l := listeners[0]
	defer l.Close()
	go func() {
		conn, err := l.Accept()
		if err != nil {
			return
		}
		_, _ = bufio.NewReader(conn).ReadString('\n')
		_ = conn.Close()
	}()

	err := NewTransport().Probe(context.Background(), addresses[0])
	require.ErrorIs(t, err, io.EOF)
}

func TestProbeSilentTimesOut(t *testing.T) {
	listeners, _ := CreateListeners(1)
	stub := NewStubLieutenant(listeners[0], Silent())
	defer stub.Close()

	timeout := 200 * time.Millisecond
	tr := NewTransport(WithTimeout(timeout))
	require.Equal(t, timeout, tr.Timeout())

	start := time.Now()
	err := tr.Probe(context.Background(), stub.Addr())
	elapsed := time.Since(start)

	require.Error(t, err)
	var netErr net.Error
	require.True(t, errors.As(err, &netErr) && netErr.Timeout(), "expected a timeout, got %v", err)
	require.Less(t, elapsed, timeout+time.Second)
}

func TestProbeRefused(t *testing.T) {
	addr := CreateAddresses(1)[0]
	require.Error(t, NewTransport().Probe(context.Background(), addr))
}

func TestWithTimeoutIgnoresNonPositive(t *testing.T) {
	require.Equal(t, DefaultTimeout, NewTransport(WithTimeout(0)).Timeout())
	require.Equal(t, DefaultTimeout, NewTransport(WithTimeout(-time.Second)).Timeout())
}
