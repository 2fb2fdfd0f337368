// Package storage defines the board directory abstraction: one card file
// per item.
package storage

import "github.com/safal938/board28-sub000/internal/models"

// CardExt is the file extension of card files.
const CardExt = ".md"

// Provider is the interface for card file operations. Paths are relative
// to the board root.
type Provider interface {
	// List returns metadata for every card file under dir.
	List(dir string) ([]models.ItemMetadata, error)
	// Read returns the raw bytes of the card file at path.
	Read(path string) ([]byte, error)
	// Write atomically replaces the card file at path.
	Write(path string, content []byte) error
	// Delete removes the card file at path.
	Delete(path string) error
	// Root returns the absolute board directory.
	Root() string
}
