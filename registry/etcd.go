package registry

import (
	"context"
	"strings"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// DefaultEtcdPrefix is where lieutenant entries live in etcd, one key per
// lieutenant: /byzantine/lieutenants/lieutenant1 -> "host:port".
const DefaultEtcdPrefix = "/byzantine/lieutenants/"

func NewEtcdClient(endpoints []string) (*clientv3.Client, error) {
	return clientv3.New(clientv3.Config{
		Endpoints:   endpoints,
		DialTimeout: 5 * time.Second,
	})
}

// LoadEtcd reads every key under prefix and returns them, with the prefix
// trimmed, as a MapSource to be handed to Load.
func LoadEtcd(ctx context.Context, kv clientv3.KV, prefix string) (MapSource, error) {
	resp, err := kv.Get(ctx, prefix, clientv3.WithPrefix())
	if err != nil {
		return nil, &ConfigError{Key: prefix, Reason: "cannot read lieutenants from etcd", Err: err}
	}
	src := make(MapSource, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		src[strings.TrimPrefix(string(kv.Key), prefix)] = string(kv.Value)
	}
	return src, nil
}
