package registry

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Endpoint is the network address of a single lieutenant.
type Endpoint struct {
	Host string
	Port int
}

// String returns the endpoint in host:port form, ready to be dialed.
func (e Endpoint) String() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// ParseEndpoint parses a "host:port" string into an Endpoint.
// The host must not be empty and the port must be in 1..65535.
func ParseEndpoint(s string) (Endpoint, error) {
	host, portS, err := net.SplitHostPort(strings.TrimSpace(s))
	if err != nil {
		return Endpoint{}, err
	}
	if host == "" {
		return Endpoint{}, fmt.Errorf("missing host in %q", s)
	}
	port, err := strconv.Atoi(portS)
	if err != nil {
		return Endpoint{}, fmt.Errorf("port %q is not a number", portS)
	}
	if port < 1 || port > 65535 {
		return Endpoint{}, fmt.Errorf("port %d out of range", port)
	}
	return Endpoint{Host: host, Port: port}, nil
}
