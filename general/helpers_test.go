package general

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/luca-patrignani/byzantine-general/network"
	"github.com/luca-patrignani/byzantine-general/order"
	"github.com/luca-patrignani/byzantine-general/registry"
)

func newRegistry(t *testing.T, addresses []string) *registry.Registry {
	t.Helper()
	src := registry.MapSource{}
	for i, addr := range addresses {
		src[registry.KeyPrefix+strconv.Itoa(i+1)] = addr
	}
	r, err := registry.Load(src, len(addresses))
	require.NoError(t, err)
	return r
}

// startLieutenants starts n stub lieutenants; opts[i], if present, configures
// the i-th one.
func startLieutenants(t *testing.T, n int, opts map[int]func(*network.StubLieutenant)) []*network.StubLieutenant {
	t.Helper()
	listeners, _ := network.CreateListeners(n)
	stubs := make([]*network.StubLieutenant, n)
	for i, l := range listeners {
		var o []func(*network.StubLieutenant)
		if opt, ok := opts[i]; ok {
			o = append(o, opt)
		}
		stubs[i] = network.NewStubLieutenant(l, o...)
		stub := stubs[i]
		t.Cleanup(func() {
			require.NoError(t, stub.Close())
		})
	}
	return stubs
}

func addrs(stubs []*network.StubLieutenant) []string {
	out := make([]string, len(stubs))
	for i, s := range stubs {
		out[i] = s.Addr()
	}
	return out
}

func receive(t *testing.T, stub *network.StubLieutenant) string {
	t.Helper()
	select {
	case line := <-stub.Received():
		return line
	case <-time.After(3 * time.Second):
		t.Fatalf("lieutenant %s received nothing", stub.Addr())
		return ""
	}
}

func newSigner(t *testing.T) (*order.Signer, *order.PublicKey) {
	t.Helper()
	priv, pub, err := order.GenerateKey()
	require.NoError(t, err)
	s, err := order.NewSigner(priv)
	require.NoError(t, err)
	return s, pub
}

type failingSigner struct{}

func (failingSigner) Sign(order.Label, string) (order.SignedOrder, error) {
	return order.SignedOrder{}, &order.SigningError{Reason: "primitive unavailable"}
}

// recordingCourier records every exchange and optionally runs a hook
// before answering.
type recordingCourier struct {
	mu        sync.Mutex
	delivered map[string]string
	probed    []string
	before    func(addr string)
	fail      map[string]error
}

func newRecordingCourier() *recordingCourier {
	return &recordingCourier{delivered: map[string]string{}, fail: map[string]error{}}
}

func (c *recordingCourier) Deliver(_ context.Context, addr string, line string) error {
	if c.before != nil {
		c.before(addr)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err, ok := c.fail[addr]; ok {
		return err
	}
	c.delivered[addr] = line
	return nil
}

func (c *recordingCourier) Probe(_ context.Context, addr string) error {
	if c.before != nil {
		c.before(addr)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.probed = append(c.probed, addr)
	if err, ok := c.fail[addr]; ok {
		return err
	}
	return nil
}

func (c *recordingCourier) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.delivered) + len(c.probed)
}

var errRefused = errors.New("connection refused")

func fakeAddresses(n int) []string {
	out := make([]string, n)
	for i := range n {
		out[i] = "10.0.0." + strconv.Itoa(i+1) + ":9000"
	}
	return out
}
