package bpart

import (
	"errors"
	"fmt"

	"github.com/hupe1980/bpart/internal/resource"
)

var (
	// ErrInvalidConfig is returned when a configuration is rejected.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrNilDocument is returned when the input contains a nil document.
	ErrNilDocument = errors.New("nil document")

	// ErrDuplicateDocument is returned when the same document appears more
	// than once in the input.
	ErrDuplicateDocument = errors.New("duplicate document")

	// ErrTooManyDocuments is returned when the input exceeds the number of
	// documents a run can address.
	ErrTooManyDocuments = errors.New("too many documents")

	// ErrMemoryLimitExceeded is returned when the signature tables of a run
	// would exceed the limit set with WithMemoryLimit.
	ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded
)

// ConfigError describes a rejected configuration field.
//
// It matches ErrInvalidConfig with errors.Is. The original validation error
// (if any) can be accessed via errors.Unwrap.
type ConfigError struct {
	Field  string
	Reason string
	cause  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s %s", e.Field, e.Reason)
}

// Is reports whether target is ErrInvalidConfig.
func (e *ConfigError) Is(target error) bool { return target == ErrInvalidConfig }

func (e *ConfigError) Unwrap() error { return e.cause }
