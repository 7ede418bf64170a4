package main

import (
	"errors"
	"time"

	"github.com/spf13/pflag"

	"github.com/luca-patrignani/byzantine-general/network"
	"github.com/luca-patrignani/byzantine-general/order"
	"github.com/luca-patrignani/byzantine-general/registry"
)

const (
	NodesKey         = "nodes"
	EtcdEndpointsKey = "etcd-endpoints"
	EtcdPrefixKey    = "etcd-prefix"
	LieutenantsKey   = "lieutenants"
	SenderIDKey      = "sender-id"
	TimeoutKey       = "timeout"
	WorkersKey       = "workers"
	MetricsAddrKey   = "metrics-addr"
)

const defaultNodesFile = "url_nodes/url_nodes.properties"

func AddFlags(flags *pflag.FlagSet) {
	flags.String(NodesKey, defaultNodesFile, "Properties file listing lieutenant1..lieutenantN as host:port")
	flags.StringSlice(EtcdEndpointsKey, nil, "etcd endpoints to read the lieutenants from instead of the properties file")
	flags.String(EtcdPrefixKey, registry.DefaultEtcdPrefix, "etcd key prefix holding the lieutenant entries")
	flags.Int(LieutenantsKey, registry.DefaultLieutenants, "Number of lieutenants the configuration must list")
	flags.String(SenderIDKey, order.DefaultSenderID, "Identity of this General on the wire")
	flags.Duration(TimeoutKey, network.DefaultTimeout, "Bound on every exchange with a lieutenant")
	flags.Int(WorkersKey, 0, "Lieutenants contacted at the same time (0 means all of them)")
	flags.String(MetricsAddrKey, "", "Address to serve Prometheus /metrics on (disabled when empty)")
}

type Config struct {
	PrivateKeyFile string
	NodesFile      string
	EtcdEndpoints  []string
	EtcdPrefix     string
	Lieutenants    int
	SenderID       string
	Timeout        time.Duration
	Workers        int
	MetricsAddr    string
}

// ParseFlags builds the Config of a General from its already parsed flags
// and its positional arguments, the first being the private key file.
func ParseFlags(flags *pflag.FlagSet, args []string) (*Config, error) {
	if len(args) < 1 || args[0] == "" {
		return nil, errors.New("private key file is missing from arguments")
	}
	nodes, err := flags.GetString(NodesKey)
	if err != nil {
		return nil, err
	}
	etcdEndpoints, err := flags.GetStringSlice(EtcdEndpointsKey)
	if err != nil {
		return nil, err
	}
	etcdPrefix, err := flags.GetString(EtcdPrefixKey)
	if err != nil {
		return nil, err
	}
	lieutenants, err := flags.GetInt(LieutenantsKey)
	if err != nil {
		return nil, err
	}
	senderID, err := flags.GetString(SenderIDKey)
	if err != nil {
		return nil, err
	}
	timeout, err := flags.GetDuration(TimeoutKey)
	if err != nil {
		return nil, err
	}
	workers, err := flags.GetInt(WorkersKey)
	if err != nil {
		return nil, err
	}
	metricsAddr, err := flags.GetString(MetricsAddrKey)
	if err != nil {
		return nil, err
	}
	return &Config{
		PrivateKeyFile: args[0],
		NodesFile:      nodes,
		EtcdEndpoints:  etcdEndpoints,
		EtcdPrefix:     etcdPrefix,
		Lieutenants:    lieutenants,
		SenderID:       senderID,
		Timeout:        timeout,
		Workers:        workers,
		MetricsAddr:    metricsAddr,
	}, nil
}
