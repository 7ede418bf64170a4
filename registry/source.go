package registry

import (
	"maps"
	"slices"

	"github.com/magiconair/properties"
)

// Source is a key-value view over a lieutenant configuration.
type Source interface {
	Lookup(key string) (string, bool)
	Keys() []string
}

// MapSource is an in-memory Source.
type MapSource map[string]string

func (m MapSource) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m MapSource) Keys() []string {
	return slices.Sorted(maps.Keys(m))
}

// PropertiesSource is a Source backed by a Java-style .properties file,
// the format the lieutenant addresses have always been distributed in:
//
//	lieutenant1=10.0.0.1:9001
//	lieutenant2=10.0.0.2:9001
type PropertiesSource struct {
	p *properties.Properties
}

// LoadPropertiesFile reads a .properties file. A file that cannot be read or
// parsed yields a *ConfigError.
func LoadPropertiesFile(path string) (PropertiesSource, error) {
	p, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return PropertiesSource{}, &ConfigError{Key: path, Reason: "cannot load properties", Err: err}
	}
	return PropertiesSource{p: p}, nil
}

// ParseProperties parses the content of a .properties file.
func ParseProperties(content string) (PropertiesSource, error) {
	p, err := properties.LoadString(content)
	if err != nil {
		return PropertiesSource{}, &ConfigError{Reason: "cannot parse properties", Err: err}
	}
	return PropertiesSource{p: p}, nil
}

func (s PropertiesSource) Lookup(key string) (string, bool) {
	return s.p.Get(key)
}

func (s PropertiesSource) Keys() []string {
	return s.p.Keys()
}
