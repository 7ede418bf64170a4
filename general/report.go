package general

import (
	"github.com/google/uuid"

	"github.com/luca-patrignani/byzantine-general/order"
	"github.com/luca-patrignani/byzantine-general/registry"
)

// Status is the outcome of a single exchange with a lieutenant.
type Status int

const (
	// Delivered means the order was written, or for probes that the
	// lieutenant acknowledged.
	Delivered Status = iota
	Unreachable
)

// Up is the probe name of Delivered.
const Up = Delivered

func (s Status) String() string {
	if s == Delivered {
		return "delivered"
	}
	return "unreachable"
}

// Result is what happened with the lieutenant at Index in the registry.
type Result struct {
	Index    int
	Endpoint registry.Endpoint
	Status   Status
	// Reason is empty unless Status is Unreachable.
	Reason string
	// Message is the encoded order meant for this lieutenant; empty for
	// probes.
	Message string
}

// Report collects the results of one broadcast or probe round.
type Report struct {
	ID uuid.UUID
	// Honesty is the snapshot the round ran with; meaningless for probes.
	Honesty HonestyState
	// Requested is the label asked for by the operator; empty for probes.
	Requested order.Label
	// Messages are the distinct encoded orders of the round: one when
	// honest, attack then retreat when dishonest.
	Messages []string
	// Results holds one entry per lieutenant, in registry order.
	Results []Result
}

// Delivered counts the lieutenants that were reached.
func (r *Report) Delivered() int {
	n := 0
	for _, res := range r.Results {
		if res.Status == Delivered {
			n++
		}
	}
	return n
}

// Unreachable counts the lieutenants that were not reached.
func (r *Report) Unreachable() int {
	return len(r.Results) - r.Delivered()
}
