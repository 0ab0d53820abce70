// internal/infrastructure/docstore/docstore.go
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Collections used by the client
const (
	CollectionUsers        = "users"
	CollectionAccounts     = "accounts"
	CollectionOrderHistory = "order_history"
)

// ErrNotFound is returned by Update when the document does not exist
var ErrNotFound = errors.New("document not found")

// Document is a JSON object
type Document map[string]interface{}

// Store is a minimal document database: whole-document reads and writes
// plus shallow partial updates.
type Store interface {
	Get(ctx context.Context, collection, id string) (Document, bool, error)
	Set(ctx context.Context, collection, id string, doc Document) error
	Update(ctx context.Context, collection, id string, fields map[string]interface{}) error
}

// Encode converts a struct into a Document through its JSON tags
func Encode(v interface{}) (Document, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return doc, nil
}

// Decode fills v from a Document through its JSON tags
func Decode(doc Document, v interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}

func validateKey(collection, id string) error {
	if collection == "" || id == "" {
		return fmt.Errorf("collection and id are required")
	}
	return nil
}
