// internal/infrastructure/docstore/memory.go
package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Memory is an in-process Store. Documents are stored as JSON so callers
// never share maps with the store.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]map[string][]byte
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{docs: make(map[string]map[string][]byte)}
}

// Get returns a copy of the document
func (m *Memory) Get(ctx context.Context, collection, id string) (Document, bool, error) {
	if err := validateKey(collection, id); err != nil {
		return nil, false, err
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	m.mu.RLock()
	data, ok := m.docs[collection][id]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, false, fmt.Errorf("failed to decode %s/%s: %w", collection, id, err)
	}
	return doc, true, nil
}

// Set creates or replaces the document
func (m *Memory) Set(ctx context.Context, collection, id string, doc Document) error {
	if err := validateKey(collection, id); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s/%s: %w", collection, id, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.docs[collection] == nil {
		m.docs[collection] = make(map[string][]byte)
	}
	m.docs[collection][id] = data
	return nil
}

// Update merges top-level fields into an existing document
func (m *Memory) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	if err := validateKey(collection, id); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.docs[collection][id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to decode %s/%s: %w", collection, id, err)
	}
	for k, v := range fields {
		doc[k] = v
	}

	merged, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s/%s: %w", collection, id, err)
	}
	m.docs[collection][id] = merged
	return nil
}
