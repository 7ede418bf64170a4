package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/luca-patrignani/byzantine-general/general"
	"github.com/luca-patrignani/byzantine-general/network"
	"github.com/luca-patrignani/byzantine-general/order"
	"github.com/luca-patrignani/byzantine-general/registry"
	"github.com/luca-patrignani/byzantine-general/telemetry"
)

// set with -ldflags "-X main.version=... -X main.gitSHA=..."
var (
	version = "dev"
	gitSHA  = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err := Command().ExecuteContext(ctx)
	if errors.Is(err, context.Canceled) {
		pterm.Println("Interrupted.")
		return
	}
	if err != nil {
		pterm.Error.Println(err.Error())
		stop()
		os.Exit(1)
	}
}

func Command() *cobra.Command {
	c := &cobra.Command{
		Use:           "general <private-key-file>",
		Short:         "Runs a Byzantine General sending signed orders to its lieutenants",
		Args:          cobra.ExactArgs(1),
		RunE:          runFunc,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	AddFlags(c.Flags())
	return c
}

func runFunc(c *cobra.Command, args []string) error {
	config, err := ParseFlags(c.Flags(), args)
	if err != nil {
		return err
	}
	ctx := c.Context()

	logger := slog.New(pterm.NewSlogHandler(&pterm.DefaultLogger))
	slog.SetDefault(logger)
	telemetry.SetBuildInfo(version, gitSHA)

	engine, err := newEngine(ctx, config, logger)
	if err != nil {
		return err
	}

	if config.MetricsAddr != "" {
		stopMetrics := serveMetrics(config.MetricsAddr, logger)
		defer stopMetrics()
	}

	return newMenu(engine, os.Stdin).run(ctx)
}

// newEngine loads the private key and the lieutenants; any failure here is
// fatal for the process.
func newEngine(ctx context.Context, config *Config, logger *slog.Logger) (*general.Engine, error) {
	key, err := order.LoadPrivateKeyFile(config.PrivateKeyFile)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	signer, err := order.NewSigner(key)
	if err != nil {
		return nil, err
	}
	reg, err := loadRegistry(ctx, config)
	if err != nil {
		return nil, err
	}
	for i, ep := range reg.Ordered() {
		logger.Info("lieutenant", "n", i+1, "address", ep.String())
	}
	return general.New(reg, signer,
		general.WithCourier(network.NewTransport(network.WithTimeout(config.Timeout))),
		general.WithSenderID(config.SenderID),
		general.WithWorkers(config.Workers),
		general.WithLogger(logger),
	), nil
}

func loadRegistry(ctx context.Context, config *Config) (*registry.Registry, error) {
	var src registry.Source
	if len(config.EtcdEndpoints) > 0 {
		cli, err := registry.NewEtcdClient(config.EtcdEndpoints)
		if err != nil {
			return nil, &registry.ConfigError{Reason: "cannot create etcd client", Err: err}
		}
		defer cli.Close()
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		etcdSrc, err := registry.LoadEtcd(ctx, cli, config.EtcdPrefix)
		if err != nil {
			return nil, err
		}
		src = etcdSrc
	} else {
		propSrc, err := registry.LoadPropertiesFile(config.NodesFile)
		if err != nil {
			return nil, err
		}
		src = propSrc
	}
	return registry.Load(src, config.Lieutenants)
}

func serveMetrics(addr string, logger *slog.Logger) (stop func()) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", telemetry.MetricsHandler())
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "error", err)
		}
	}()
	logger.Info("serving metrics", "address", addr)
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}
}
