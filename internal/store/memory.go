package store

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Memory is an in-process Backend used by tests. Documents round-trip through
// JSON so typed maps behave exactly as with the MySQL store.
type Memory struct {
	mu   sync.Mutex
	docs map[string]string
}

func NewMemory() *Memory {
	return &Memory{docs: map[string]string{}}
}

func (m *Memory) Get(name string, out any) error {
	m.mu.Lock()
	doc, ok := m.docs[name]
	m.mu.Unlock()
	if !ok || doc == "" {
		doc = "{}"
	}
	if err := json.Unmarshal([]byte(doc), out); err != nil {
		return fmt.Errorf("decode collection %q: %w", name, err)
	}
	return nil
}

func (m *Memory) Set(name string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode collection %q: %w", name, err)
	}
	m.mu.Lock()
	m.docs[name] = string(raw)
	m.mu.Unlock()
	return nil
}
