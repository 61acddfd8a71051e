package epidemic

import (
	"errors"
	"fmt"
)

// Engine errors
var (
	ErrInvalidConfig      = errors.New("invalid simulation configuration")
	ErrInvariantViolation = errors.New("simulation invariant violated")
	ErrSimulationFinished = errors.New("simulation finished")
)

// ConfigError describes a parameter rejected at construction time.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s=%v %s", ErrInvalidConfig, e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

func configError(field string, value any, reason string) *ConfigError {
	return &ConfigError{Field: field, Value: value, Reason: reason}
}

// InvariantError reports an agent whose state broke one of the engine rules.
// Agent is -1 for population-wide violations.
type InvariantError struct {
	Tick   int
	Agent  int
	Reason string
}

func (e *InvariantError) Error() string {
	if e.Agent < 0 {
		return fmt.Sprintf("%s at tick %d: %s", ErrInvariantViolation, e.Tick, e.Reason)
	}
	return fmt.Sprintf("%s at tick %d, agent %d: %s", ErrInvariantViolation, e.Tick, e.Agent, e.Reason)
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariantViolation
}
