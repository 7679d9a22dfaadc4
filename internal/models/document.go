// Package models contains data structures for the ArtLink domain models.
package models

// Document is a record stored in a named collection. Identifiers are assigned
// by the persistence layer at creation time and are never part of client input.
type Document interface {
	GetID() string
	SetID(id string)
}

// Normalizer is implemented by entities whose list fields fall back to their
// defaults when a client sends an explicit null.
type Normalizer interface {
	Normalize()
}

// Base carries the generated identifier shared by every collection.
type Base struct {
	ID string `gorm:"primaryKey;size:26" json:"id"`
}

// GetID returns the record identifier.
func (b *Base) GetID() string { return b.ID }

// SetID sets the record identifier.
func (b *Base) SetID(id string) { b.ID = id }

func strPtr(s string) *string { return &s }
