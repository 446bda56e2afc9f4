package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"dailydsa/errs"
)

// MemoryStore keeps encoded records in memory. FailSaves makes every Save
// fail, to exercise storage error paths.
type MemoryStore struct {
	mu        sync.Mutex
	records   map[string][]byte
	saves     map[string]int
	FailSaves bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string][]byte),
		saves:   make(map[string]int),
	}
}

func (m *MemoryStore) Load(_ context.Context, record string, v any) error {
	m.mu.Lock()
	data, ok := m.records[record]
	m.mu.Unlock()
	if !ok {
		return errs.ErrRecordNotFound
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", record, err)
	}
	return nil
}

func (m *MemoryStore) Save(_ context.Context, record string, v any) error {
	if m.FailSaves {
		return fmt.Errorf("%w, memory store configured to fail", errs.ErrStorageIO)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", record, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record] = data
	m.saves[record]++
	return nil
}

// Put stores raw bytes, e.g. a corrupt record.
func (m *MemoryStore) Put(record string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record] = data
}

// Saves reports how many times record was written.
func (m *MemoryStore) Saves(record string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves[record]
}
