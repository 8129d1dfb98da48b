package kvs

import (
	"fmt"
	"sort"
	"sync"

	"github.com/starford/folio/internal/apperr"
)

// Memory is a Store that lives for the lifetime of the process.
type Memory struct {
	mu    sync.RWMutex
	data  map[string]string
	quota int64
	used  int64
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store with the given quota in bytes.
func NewMemory(quota int64) *Memory {
	return &Memory{data: make(map[string]string), quota: quota}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	used := m.used
	if old, ok := m.data[key]; ok {
		used -= entrySize(key, old)
	}
	used += entrySize(key, value)
	if m.quota > Unlimited && used > m.quota {
		return fmt.Errorf("kvs: set %s: %w", key, apperr.ErrQuotaExceeded)
	}
	m.data[key] = value
	m.used = used
	return nil
}

func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.data[key]; ok {
		m.used -= entrySize(key, old)
		delete(m.data, key)
	}
	return nil
}

func (m *Memory) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.data))
	for k := range m.data {
		out = append(out, k)
	}
	sort.Strings(out)
	return out, nil
}
