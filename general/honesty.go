package general

import (
	"sync/atomic"

	"github.com/luca-patrignani/byzantine-general/telemetry"
)

// HonestyState tells whether the General sends consistent orders.
type HonestyState int32

const (
	Honest HonestyState = iota
	Dishonest
)

func (s HonestyState) String() string {
	switch s {
	case Honest:
		return "HONEST"
	case Dishonest:
		return "DISHONEST"
	default:
		return "UNKNOWN"
	}
}

// Honesty holds the current HonestyState. The zero value is Honest and it
// is safe for concurrent use.
type Honesty struct {
	state atomic.Int32
}

// Current returns a snapshot of the state.
func (h *Honesty) Current() HonestyState {
	return HonestyState(h.state.Load())
}

func (h *Honesty) SetHonest() {
	h.state.Store(int32(Honest))
	telemetry.Dishonest.Set(0)
}

func (h *Honesty) SetDishonest() {
	h.state.Store(int32(Dishonest))
	telemetry.Dishonest.Set(1)
}
