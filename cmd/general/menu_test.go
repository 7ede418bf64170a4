package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/require"

	"github.com/luca-patrignani/byzantine-general/general"
	"github.com/luca-patrignani/byzantine-general/network"
	"github.com/luca-patrignani/byzantine-general/order"
	"github.com/luca-patrignani/byzantine-general/registry"
)

func TestMain(m *testing.M) {
	pterm.DisableOutput()
	os.Exit(m.Run())
}

// setup writes a key file and a properties file pointing at n stub
// lieutenants and returns the matching Config.
func setup(t *testing.T, n int) (*Config, []*network.StubLieutenant, *order.PublicKey) {
	t.Helper()
	dir := t.TempDir()
	priv, pub, err := order.GenerateKey()
	require.NoError(t, err)
	keyPEM, err := order.EncodePrivateKeyPEM(priv)
	require.NoError(t, err)
	keyFile := filepath.Join(dir, "general.key")
	require.NoError(t, os.WriteFile(keyFile, keyPEM, 0o600))

	listeners, _ := network.CreateListeners(n)
	stubs := make([]*network.StubLieutenant, n)
	var props strings.Builder
	for i, l := range listeners {
		stubs[i] = network.NewStubLieutenant(l)
		stub := stubs[i]
		t.Cleanup(func() { _ = stub.Close() })
		fmt.Fprintf(&props, "lieutenant%d=%s\n", i+1, stub.Addr())
	}
	nodesFile := filepath.Join(dir, "url_nodes.properties")
	require.NoError(t, os.WriteFile(nodesFile, []byte(props.String()), 0o644))

	return &Config{
		PrivateKeyFile: keyFile,
		NodesFile:      nodesFile,
		Lieutenants:    n,
		SenderID:       order.DefaultSenderID,
		Timeout:        time.Second,
	}, stubs, pub
}

func newTestEngine(t *testing.T, config *Config) *general.Engine {
	t.Helper()
	engine, err := newEngine(context.Background(), config, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return engine
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

func TestNewEngineRejectsBadKeyFile(t *testing.T) {
	config, _, _ := setup(t, 2)
	require.NoError(t, os.WriteFile(config.PrivateKeyFile, []byte("garbage"), 0o600))
	_, err := newEngine(context.Background(), config, slog.Default())
	require.ErrorContains(t, err, "invalid private key")
}

func TestNewEngineRejectsWrongLieutenantCount(t *testing.T) {
	config, _, _ := setup(t, 2)
	config.Lieutenants = 5
	_, err := newEngine(context.Background(), config, slog.Default())
	var configErr *registry.ConfigError
	require.True(t, errors.As(err, &configErr))
}

func TestDispatchSendsSignedAttack(t *testing.T) {
	config, stubs, pub := setup(t, 3)
	m := newMenu(newTestEngine(t, config), strings.NewReader(""))

	quit, err := m.dispatch(context.Background(), optionAttack)
	require.NoError(t, err)
	require.False(t, quit)

	for _, stub := range stubs {
		o, err := order.Decode(receive(t, stub))
		require.NoError(t, err)
		require.Equal(t, order.Attack, o.Label)
		require.NoError(t, order.Verify(pub, o))
	}
}

func TestDispatchTogglesHonesty(t *testing.T) {
	config, stubs, _ := setup(t, 2)
	engine := newTestEngine(t, config)
	m := newMenu(engine, strings.NewReader(""))

	_, err := m.dispatch(context.Background(), optionDishonest)
	require.NoError(t, err)
	require.Equal(t, general.Dishonest, engine.Honesty().Current())

	_, err = m.dispatch(context.Background(), optionRetreat)
	require.NoError(t, err)
	first, err := order.Decode(receive(t, stubs[0]))
	require.NoError(t, err)
	second, err := order.Decode(receive(t, stubs[1]))
	require.NoError(t, err)
	require.Equal(t, order.Attack, first.Label)
	require.Equal(t, order.Retreat, second.Label)

	_, err = m.dispatch(context.Background(), optionHonest)
	require.NoError(t, err)
	require.Equal(t, general.Honest, engine.Honesty().Current())
}

func TestDispatchProbeAndInvalidOption(t *testing.T) {
	config, _, _ := setup(t, 2)
	m := newMenu(newTestEngine(t, config), strings.NewReader(""))

	quit, err := m.dispatch(context.Background(), optionProbe)
	require.NoError(t, err)
	require.False(t, quit)

	quit, err = m.dispatch(context.Background(), "42")
	require.NoError(t, err)
	require.False(t, quit)

	quit, err = m.dispatch(context.Background(), optionExit)
	require.NoError(t, err)
	require.True(t, quit)
}

func TestRunReadsLinesUntilExit(t *testing.T) {
	config, stubs, _ := setup(t, 2)
	m := newMenu(newTestEngine(t, config), strings.NewReader("x\n3\n6\n2\n"))
	require.False(t, m.interactive)

	require.NoError(t, m.run(context.Background()))
	for _, stub := range stubs {
		o, err := order.Decode(receive(t, stub))
		require.NoError(t, err)
		require.Equal(t, order.Retreat, o.Label)
	}
	// the attack after exit is never sent
	for _, stub := range stubs {
		select {
		case line := <-stub.Received():
			t.Fatalf("unexpected order %q after exit", line)
		case <-time.After(100 * time.Millisecond):
		}
	}
}

func TestRunStopsAtEndOfInput(t *testing.T) {
	config, _, _ := setup(t, 1)
	m := newMenu(newTestEngine(t, config), strings.NewReader("4\n"))
	require.NoError(t, m.run(context.Background()))
}

func TestRunInterruptedSendsNothing(t *testing.T) {
	config, stubs, _ := setup(t, 2)
	engine := newTestEngine(t, config)
	m := newMenu(engine, strings.NewReader("5\n2\n2\n6\n"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, m.run(ctx), context.Canceled)
	require.Equal(t, general.Honest, engine.Honesty().Current())
	for _, stub := range stubs {
		select {
		case line := <-stub.Received():
			t.Fatalf("unexpected order %q after interrupt", line)
		case <-time.After(100 * time.Millisecond):
		}
	}
}

func TestRunInterruptedWhileWaitingForInput(t *testing.T) {
	config, _, _ := setup(t, 1)
	in, out := io.Pipe()
	t.Cleanup(func() { _ = out.Close() })
	m := newMenu(newTestEngine(t, config), in)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(3 * time.Second):
		t.Fatal("menu kept waiting for input after interrupt")
	}
}

func TestOrderOf(t *testing.T) {
	require.Equal(t, "attack", orderOf("attack:general:c2ln"))
	require.Equal(t, "", orderOf(""))
	require.Equal(t, "retreat", orderOf("retreat"))
}
