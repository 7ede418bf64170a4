package general

import "log/slog"

type Option func(*Engine)

// WithCourier replaces the network.Transport used to reach lieutenants.
func WithCourier(c Courier) Option {
	return func(e *Engine) {
		e.courier = c
	}
}

// WithHonesty shares an existing controller with the engine.
func WithHonesty(h *Honesty) Option {
	return func(e *Engine) {
		e.honesty = h
	}
}

func WithSenderID(id string) Option {
	return func(e *Engine) {
		e.senderID = id
	}
}

// WithWorkers bounds how many lieutenants are contacted at the same time.
// Zero or negative means one worker per lieutenant; 1 means sequential.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}
