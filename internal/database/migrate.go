package database

import (
	"context"
	"fmt"

	"artlink/internal/models"

	"gorm.io/gorm"
)

// Collections lists every document type with its own collection, in migration order.
func Collections() []any {
	return []any{
		&models.User{},
		&models.Artwork{},
		&models.PurchaseRequest{},
		&models.Supply{},
		&models.Order{},
		&models.Post{},
		&models.Comment{},
	}
}

// Migrate creates or updates every collection.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Collections()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// CollectionName returns the collection name for a document value.
func CollectionName(db *gorm.DB, doc any) (string, error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(doc); err != nil {
		return "", err
	}
	return stmt.Schema.Table, nil
}

// PendingCollections returns the collections that do not exist yet.
func PendingCollections(ctx context.Context, db *gorm.DB) ([]string, error) {
	existing, err := ListCollections(ctx, db)
	if err != nil {
		return nil, err
	}
	have := make(map[string]bool, len(existing))
	for _, name := range existing {
		have[name] = true
	}

	var pending []string
	for _, doc := range Collections() {
		name, err := CollectionName(db, doc)
		if err != nil {
			return nil, err
		}
		if !have[name] {
			pending = append(pending, name)
		}
	}
	return pending, nil
}

// DropCollections removes every collection, newest first.
func DropCollections(db *gorm.DB) error {
	docs := Collections()
	for i := len(docs) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(docs[i]); err != nil {
			return fmt.Errorf("failed to drop collection: %w", err)
		}
	}
	return nil
}
