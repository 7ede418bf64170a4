package network

import "time"

type TransportOption func(Transport) Transport

// WithTimeout overrides DefaultTimeout. Non-positive values are ignored.
func WithTimeout(timeout time.Duration) TransportOption {
	return func(t Transport) Transport {
		if timeout > 0 {
			t.timeout = timeout
		}
		return t
	}
}
