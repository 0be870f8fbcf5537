package model

import (
	"errors"
	"fmt"
)

// ErrFieldAbsent marks a field the provider answered without.
var ErrFieldAbsent = errors.New("field absent in provider response")

// NetworkError reports a transport failure or a non-OK response from a provider.
type NetworkError struct {
	Provider   string
	Op         string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Provider, e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// NoDataError reports that the symbol resolved to an empty price history.
type NoDataError struct {
	Symbol string
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no price data found for %q", e.Symbol)
}

// MissingFieldError records a fundamental field that could not be populated.
// It is collected on the snapshot and never returned from an analysis run.
type MissingFieldError struct {
	Provider string
	Field    string
	Err      error
}

func (e MissingFieldError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: field %s unavailable", e.Provider, e.Field)
	}
	return fmt.Sprintf("%s: field %s unavailable: %v", e.Provider, e.Field, e.Err)
}

func (e MissingFieldError) Unwrap() error { return e.Err }

// ConfigurationError reports a missing or invalid setting.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s %s", e.Field, e.Reason)
}

// InsufficientDataError reports an indicator asked to work on an empty input.
type InsufficientDataError struct {
	Indicator string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: empty input series", e.Indicator)
}
