package network

import (
	"bufio"
	"errors"
	"io"
	"net"
	"strings"
	"sync"
)

// StubLieutenant is a minimal lieutenant speaking the wire protocol. It is
// meant for tests and local experiments: it answers probes with Reply (or
// never, if Silent) and records every other line it receives.
type StubLieutenant struct {
	Reply  string
	Silent bool

	l        net.Listener
	received chan string
	wg       sync.WaitGroup
	mu       sync.Mutex
	conns    map[net.Conn]struct{}
}

// NewStubLieutenant serves on l until Close is called.
func NewStubLieutenant(l net.Listener, opts ...func(*StubLieutenant)) *StubLieutenant {
	s := &StubLieutenant{
		Reply:    AckToken,
		l:        l,
		received: make(chan string, 64),
		conns:    make(map[net.Conn]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.wg.Add(1)
	go s.serve()
	return s
}

// Replying makes the stub answer probes with reply instead of AckToken.
func Replying(reply string) func(*StubLieutenant) {
	return func(s *StubLieutenant) { s.Reply = reply }
}

// Silent makes the stub read probes and never answer.
func Silent() func(*StubLieutenant) {
	return func(s *StubLieutenant) { s.Silent = true }
}

// Addr returns the address the stub listens on.
func (s *StubLieutenant) Addr() string {
	return s.l.Addr().String()
}

// Received delivers every non-probe line, in arrival order.
func (s *StubLieutenant) Received() <-chan string {
	return s.received
}

// Close stops the stub and waits for its goroutines to return.
func (s *StubLieutenant) Close() error {
	err := s.l.Close()
	s.mu.Lock()
	for c := range s.conns {
		_ = c.Close()
	}
	s.mu.Unlock()
	s.wg.Wait()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

func (s *StubLieutenant) serve() {
	defer s.wg.Done()
	for {
		conn, err := s.l.Accept()
		if err != nil {
			return
		}
		s.mu.Lock()
		s.conns[conn] = struct{}{}
		s.mu.Unlock()
		s.wg.Add(1)
		go s.handle(conn)
	}
}

func (s *StubLieutenant) handle(conn net.Conn) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		_ = conn.Close()
	}()
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return
	}
	line = strings.TrimRight(line, "\r\n")
	if line != ProbeToken {
		select {
		case s.received <- line:
		default:
		}
		return
	}
	if s.Silent {
		// hold the connection open until the General gives up
		_, _ = io.Copy(io.Discard, conn)
		return
	}
	_, _ = conn.Write([]byte(s.Reply + "\n"))
}
