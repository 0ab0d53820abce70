// internal/infrastructure/docstore/postgres.go
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record is one document row
type Record struct {
	Collection string    `gorm:"primaryKey;size:64" json:"collection"`
	DocumentID string    `gorm:"primaryKey;size:128" json:"document_id"`
	Data       []byte    `gorm:"type:jsonb;not null" json:"data"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Record) TableName() string {
	return "documents"
}

// Postgres stores documents as jsonb rows
type Postgres struct {
	db *gorm.DB
}

// NewPostgres creates a new Postgres document store
func NewPostgres(db *gorm.DB) *Postgres {
	return &Postgres{db: db}
}

// Get returns the document
func (p *Postgres) Get(ctx context.Context, collection, id string) (Document, bool, error) {
	if err := validateKey(collection, id); err != nil {
		return nil, false, err
	}

	var record Record
	err := p.db.WithContext(ctx).
		Where("collection = ? AND document_id = ?", collection, id).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}

	var doc Document
	if err := json.Unmarshal(record.Data, &doc); err != nil {
		return nil, false, fmt.Errorf("failed to decode %s/%s: %w", collection, id, err)
	}
	return doc, true, nil
}

// Set upserts the document
func (p *Postgres) Set(ctx context.Context, collection, id string, doc Document) error {
	if err := validateKey(collection, id); err != nil {
		return err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s/%s: %w", collection, id, err)
	}

	record := Record{Collection: collection, DocumentID: id, Data: data}
	err = p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "document_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to set %s/%s: %w", collection, id, err)
	}
	return nil
}

// Update merges top-level fields with the jsonb concatenation operator
func (p *Postgres) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	if err := validateKey(collection, id); err != nil {
		return err
	}

	patch, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode update for %s/%s: %w", collection, id, err)
	}

	result := p.db.WithContext(ctx).Model(&Record{}).
		Where("collection = ? AND document_id = ?", collection, id).
		Updates(map[string]interface{}{
			"data":       gorm.Expr("data || ?::jsonb", string(patch)),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update %s/%s: %w", collection, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return nil
}
