package relay

import (
	"fmt"
	"strings"
)

// ConfigError represents a relay configuration loading error.
type ConfigError struct {
	Op  string // Operation that failed (read, unmarshal, load_keys)
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("relay config %s error: %v", e.Op, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ValidationError collects configuration validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("relay configuration validation failed: %s", e.Errors[0])
	}
	return fmt.Sprintf("relay configuration validation failed with %d errors:\n  - %s",
		len(e.Errors), strings.Join(e.Errors, "\n  - "))
}

// HasError checks whether a specific field has a validation error.
func (e *ValidationError) HasError(field string) bool {
	for _, err := range e.Errors {
		if strings.Contains(err, field) {
			return true
		}
	}
	return false
}

// IsValidationError checks if an error is a ValidationError.
func IsValidationError(err error) bool {
	_, ok := err.(*ValidationError)
	return ok
}

// IsConfigError checks if an error is a ConfigError.
func IsConfigError(err error) bool {
	_, ok := err.(*ConfigError)
	return ok
}
