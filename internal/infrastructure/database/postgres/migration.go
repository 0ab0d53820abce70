// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"

	"github.com/nabin216/ZotPot/internal/infrastructure/docstore"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db     *gorm.DB
	logger logrus.FieldLogger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, logger logrus.FieldLogger) *Migration {
	return &Migration{
		db:     db,
		logger: logger,
	}
}

// RunAutoMigrations runs GORM auto-migrations for the document table
func (m *Migration) RunAutoMigrations() error {
	models := []interface{}{
		&docstore.Record{},
	}

	for _, model := range models {
		m.logger.WithField("model", fmt.Sprintf("%T", model)).Debug("Migrating model")
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.logger.Info("Database auto-migrations completed")
	return nil
}

// CreateIndexes creates the secondary indexes the document queries rely on
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_documents_collection_updated ON documents(collection, updated_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_documents_data ON documents USING GIN (data)",
	}

	failed := 0
	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			m.logger.WithError(err).Warn("Failed to create index")
			failed++
		}
	}

	m.logger.WithFields(logrus.Fields{
		"created": len(indexes) - failed,
		"failed":  failed,
	}).Info("Database indexes created")
	return nil
}
