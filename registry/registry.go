package registry

import (
	"fmt"
	"regexp"
	"strconv"
)

// DefaultLieutenants is the number of lieutenants a General expects to find
// in its configuration unless told otherwise.
const DefaultLieutenants = 5

// KeyPrefix is the prefix of every lieutenant entry; entries are numbered
// from 1, e.g. lieutenant1, lieutenant2, ...
const KeyPrefix = "lieutenant"

var lieutenantKey = regexp.MustCompile(`^` + KeyPrefix + `([0-9]+)$`)

// Registry is the fixed, ordered list of lieutenant endpoints.
// The order is the one of the configuration (lieutenant1 first) and it is
// significant: a dishonest General picks the order to send by position.
// A Registry is never modified after Load.
type Registry struct {
	endpoints []Endpoint
}

// Load reads the entries lieutenant1..lieutenant<expected> from src.
// It fails with a *ConfigError if expected is not positive, if an entry is
// missing or is not a valid host:port, or if src holds more lieutenant
// entries than expected. No Registry is returned on failure.
func Load(src Source, expected int) (*Registry, error) {
	if expected <= 0 {
		return nil, &ConfigError{Reason: fmt.Sprintf("expected lieutenant count must be positive, got %d", expected)}
	}
	found := 0
	for _, k := range src.Keys() {
		if lieutenantKey.MatchString(k) {
			found++
		}
	}
	if found != expected {
		return nil, &ConfigError{Reason: fmt.Sprintf("found %d lieutenant entries, expected %d", found, expected)}
	}

	endpoints := make([]Endpoint, 0, expected)
	for i := 1; i <= expected; i++ {
		key := KeyPrefix + strconv.Itoa(i)
		value, ok := src.Lookup(key)
		if !ok {
			return nil, &ConfigError{Key: key, Reason: "missing entry"}
		}
		e, err := ParseEndpoint(value)
		if err != nil {
			return nil, &ConfigError{Key: key, Reason: "not a host:port", Err: err}
		}
		endpoints = append(endpoints, e)
	}
	return &Registry{endpoints: endpoints}, nil
}

// Ordered returns a copy of the endpoints in load order.
func (r *Registry) Ordered() []Endpoint {
	out := make([]Endpoint, len(r.endpoints))
	copy(out, r.endpoints)
	return out
}

// Len returns the number of endpoints.
func (r *Registry) Len() int {
	return len(r.endpoints)
}
