package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData means the provider returned an empty series for the symbol.
	ErrNoData = errors.New("no data found for symbol")

	// ErrInsufficientData means the series is too short for a requested metric.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrValidation marks malformed client input.
	ErrValidation = errors.New("validation failed")
)

// ProviderError wraps a network, status or decode failure from the quote provider.
type ProviderError struct {
	Provider string
	Symbol   string
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s %s: %v", e.Provider, e.Op, e.Symbol, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
