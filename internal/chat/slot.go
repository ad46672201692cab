package chat

import (
	"context"
	"sync"
)

// Slot is the single durable value holding the serialized session list.
// Read returns nil, nil when nothing has been stored yet.
type Slot interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}

// MemorySlot keeps the value in process memory.
type MemorySlot struct {
	mu     sync.Mutex
	data   []byte
	writes int
}

func NewMemorySlot(initial []byte) *MemorySlot {
	return &MemorySlot{data: append([]byte(nil), initial...)}
}

func (m *MemorySlot) Read(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.data) == 0 {
		return nil, nil
	}
	return append([]byte(nil), m.data...), nil
}

func (m *MemorySlot) Write(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	m.writes++
	return nil
}

// Writes reports how many times the slot was written.
func (m *MemorySlot) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
