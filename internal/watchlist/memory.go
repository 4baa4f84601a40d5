package watchlist

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps watchlists in process memory. Contents are lost on restart.
type MemoryStore struct {
	mu    sync.Mutex
	lists map[string][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{lists: make(map[string][]string)}
}

// List returns a copy of the session's symbols.
func (m *MemoryStore) List(_ context.Context, session string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.lists[sessionOrDefault(session)]), nil
}

func (m *MemoryStore) Add(_ context.Context, session, symbol string) (string, error) {
	sym, err := Normalize(symbol)
	if err != nil {
		return "", err
	}
	session = sessionOrDefault(session)

	m.mu.Lock()
	defer m.mu.Unlock()
	if slices.Contains(m.lists[session], sym) {
		return sym, ErrDuplicate
	}
	m.lists[session] = append(m.lists[session], sym)
	return sym, nil
}

func (m *MemoryStore) Remove(_ context.Context, session, symbol string) (string, error) {
	sym, err := Normalize(symbol)
	if err != nil {
		return "", err
	}
	session = sessionOrDefault(session)

	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.Index(m.lists[session], sym)
	if i < 0 {
		return sym, ErrNotFound
	}
	if len(m.lists[session]) == 1 {
		delete(m.lists, session)
		return sym, nil
	}
	m.lists[session] = slices.Delete(m.lists[session], i, i+1)
	return sym, nil
}

func (m *MemoryStore) Close() error { return nil }
