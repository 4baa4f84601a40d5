// Package watchlist stores the symbols each session is watching.
package watchlist

import (
	"context"
	"fmt"
	"strings"

	"MarketLens/internal/model"
)

const (
	// DefaultSession is used when a request carries no session id.
	DefaultSession = "default"
	// MaxSessionLen bounds a client-supplied session id.
	MaxSessionLen = 64
)

var (
	ErrInvalidSession = fmt.Errorf("%w: invalid session id", model.ErrValidation)
	ErrInvalidSymbol  = fmt.Errorf("%w: invalid symbol", model.ErrValidation)
	ErrDuplicate     = fmt.Errorf("%w: symbol already in watchlist", model.ErrValidation)
	ErrNotFound      = fmt.Errorf("%w: symbol not in watchlist", model.ErrValidation)
)

// Store keeps an insertion-ordered symbol list per session.
type Store interface {
	List(ctx context.Context, session string) ([]string, error)
	Add(ctx context.Context, session, symbol string) (string, error)
	Remove(ctx context.Context, session, symbol string) (string, error)
	Close() error
}

// Normalize trims and upper-cases a symbol.
func Normalize(symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return "", ErrInvalidSymbol
	}
	return s, nil
}

// CheckSession rejects session ids longer than MaxSessionLen.
func CheckSession(session string) error {
	if len(session) > MaxSessionLen {
		return ErrInvalidSession
	}
	return nil
}

func sessionOrDefault(session string) string {
	if session = strings.TrimSpace(session); session == "" {
		return DefaultSession
	}
	return session
}
