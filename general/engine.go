package general

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/luca-patrignani/byzantine-general/network"
	"github.com/luca-patrignani/byzantine-general/order"
	"github.com/luca-patrignani/byzantine-general/registry"
	"github.com/luca-patrignani/byzantine-general/telemetry"
)

// OrderSigner produces signed orders. *order.Signer implements it.
type OrderSigner interface {
	Sign(label order.Label, senderID string) (order.SignedOrder, error)
}

// Courier performs single exchanges with a lieutenant. network.Transport
// implements it.
type Courier interface {
	Deliver(ctx context.Context, addr string, line string) error
	Probe(ctx context.Context, addr string) error
}

// traitorLabels are the orders of a dishonest General, indexed by registry
// position parity.
var traitorLabels = [2]order.Label{order.Attack, order.Retreat}

// Engine disseminates signed orders to the lieutenants of a registry.
type Engine struct {
	endpoints []registry.Endpoint
	signer    OrderSigner
	courier   Courier
	honesty   *Honesty
	senderID  string
	workers   int
	logger    *slog.Logger
}

// New returns an Engine sending to every endpoint of reg. Unless configured
// otherwise it uses a network.Transport with the default timeout, a fresh
// Honest controller, order.DefaultSenderID and one worker per lieutenant.
func New(reg *registry.Registry, signer OrderSigner, opts ...Option) *Engine {
	e := &Engine{
		endpoints: reg.Ordered(),
		signer:    signer,
		courier:   network.NewTransport(),
		honesty:   &Honesty{},
		senderID:  order.DefaultSenderID,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Honesty returns the controller Send reads its snapshot from.
func (e *Engine) Honesty() *Honesty {
	return e.honesty
}

// Send broadcasts label with the honesty state current at the time of the
// call. Changing the state while Send runs has no effect on it.
func (e *Engine) Send(ctx context.Context, label order.Label) (*Report, error) {
	return e.Broadcast(ctx, label, e.honesty.Current())
}

// Broadcast signs and delivers orders to every lieutenant.
//
// When honesty is Honest a single order for label is sent to everyone. When
// it is Dishonest label is ignored: lieutenants at even positions receive a
// signed attack order and those at odd positions a signed retreat order.
//
// The returned error is non-nil only if label is unknown or signing failed,
// in which case nothing has been sent. Delivery failures are reported in
// the Report.
func (e *Engine) Broadcast(ctx context.Context, label order.Label, honesty HonestyState) (*Report, error) {
	parsed, err := order.ParseLabel(string(label))
	if err != nil {
		return nil, err
	}
	label = parsed
	messages, err := e.messages(label, honesty)
	if err != nil {
		return nil, err
	}
	report := &Report{
		ID:        uuid.New(),
		Honesty:   honesty,
		Requested: label,
		Messages:  messages,
	}
	log := e.logger.With("round", report.ID.String(), "mode", honesty.String())
	if honesty == Honest {
		log.Info("signed order", "message", messages[0])
	} else {
		log.Info("signed attack order", "message", messages[0])
		log.Info("signed retreat order", "message", messages[1])
	}

	report.Results = e.fanOut(ctx, "deliver", func(ctx context.Context, i int, ep registry.Endpoint) Result {
		sent, line := label, messages[0]
		if honesty == Dishonest {
			sent, line = traitorLabels[i%2], messages[i%2]
		}
		res := Result{Index: i, Endpoint: ep, Status: Delivered, Message: line}
		if err := e.courier.Deliver(ctx, ep.String(), line); err != nil {
			res.Status = Unreachable
			res.Reason = err.Error()
			log.Warn("lieutenant is down", "lieutenant", ep.String(), "reason", res.Reason)
		}
		telemetry.DeliveriesTotal.WithLabelValues(honesty.String(), string(sent), res.Status.String()).Inc()
		return res
	})
	log.Info("broadcast done", "delivered", report.Delivered(), "unreachable", report.Unreachable())
	return report, nil
}

// ProbeAll checks every lieutenant for liveness. A lieutenant is Up only if
// it acknowledged the probe within the timeout.
func (e *Engine) ProbeAll(ctx context.Context) *Report {
	report := &Report{ID: uuid.New()}
	log := e.logger.With("round", report.ID.String())
	report.Results = e.fanOut(ctx, "probe", func(ctx context.Context, i int, ep registry.Endpoint) Result {
		res := Result{Index: i, Endpoint: ep, Status: Up}
		if err := e.courier.Probe(ctx, ep.String()); err != nil {
			res.Status = Unreachable
			res.Reason = err.Error()
			log.Warn("lieutenant is down", "lieutenant", ep.String(), "reason", res.Reason)
		} else {
			log.Info("lieutenant is up", "lieutenant", ep.String())
		}
		telemetry.ProbesTotal.WithLabelValues(probeStatus(res.Status)).Inc()
		return res
	})
	return report
}

// messages signs the orders of a round before anything is sent, so that a
// signing failure never results in a partial delivery.
func (e *Engine) messages(label order.Label, honesty HonestyState) ([]string, error) {
	labels := []order.Label{label}
	if honesty == Dishonest {
		labels = traitorLabels[:]
	}
	messages := make([]string, 0, len(labels))
	for _, l := range labels {
		o, err := e.signer.Sign(l, e.senderID)
		if err != nil {
			return nil, fmt.Errorf("sign %s order: %w", l, err)
		}
		messages = append(messages, order.Encode(o))
	}
	return messages, nil
}

// fanOut runs fn once per endpoint with at most e.workers running at the
// same time. results[i] always belongs to endpoint i, whatever the
// completion order.
func (e *Engine) fanOut(ctx context.Context, op string, fn func(ctx context.Context, i int, ep registry.Endpoint) Result) []Result {
	results := make([]Result, len(e.endpoints))
	var g errgroup.Group
	g.SetLimit(e.limit())
	for i, ep := range e.endpoints {
		g.Go(func() error {
			done := telemetry.Observe(op)
			defer done()
			results[i] = fn(ctx, i, ep)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (e *Engine) limit() int {
	n := len(e.endpoints)
	if e.workers > 0 && e.workers < n {
		return e.workers
	}
	if n < 1 {
		return 1
	}
	return n
}

func probeStatus(s Status) string {
	if s == Up {
		return "up"
	}
	return "down"
}
