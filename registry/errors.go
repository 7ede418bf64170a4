package registry

import "fmt"

// ConfigError reports a malformed or miscounted lieutenant configuration.
// The process must not proceed when loading fails with a ConfigError.
type ConfigError struct {
	Key    string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := "config"
	if e.Key != "" {
		msg += fmt.Sprintf(" %s", e.Key)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
