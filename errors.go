package sdftext

import (
	"errors"
	"fmt"
)

var (
	// ErrNilDevice is returned by New when no device is given.
	ErrNilDevice = errors.New("sdftext: nil device")

	// ErrClosed is returned by operations on a closed Renderer.
	ErrClosed = errors.New("sdftext: renderer closed")
)

// ConfigError reports an invalid option passed to New.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("sdftext: invalid %s: %s", e.Field, e.Reason)
}
