// Package snapshot provides the in-memory snapshot slot store, used for
// tests and for running the service without external storage.
package snapshot

import (
	"context"
	"sync"

	ledger "github.com/pearltrails/engagement-ledger"
)

// Memory is an in-memory ledger.SnapshotStore.
type Memory struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{
		slots: make(map[string][]byte),
	}
}

func (m *Memory) Load(ctx context.Context, slot string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	body, ok := m.slots[slot]
	if !ok {
		return nil, ledger.ErrSnapshotNotFound
	}

	out := make([]byte, len(body))
	copy(out, body)
	return out, nil
}

func (m *Memory) Save(ctx context.Context, slot string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(body))
	copy(stored, body)
	m.slots[slot] = stored
	return nil
}
