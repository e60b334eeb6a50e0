package history

import (
	"time"
)

// Entry records one completed conversion for the history surface
type Entry struct {
	ID            string    `json:"id" db:"id"`
	OriginalName  string    `json:"original_name" db:"original_name"`
	ConvertedName string    `json:"converted_name" db:"converted_name"`
	OriginalSize  int64     `json:"original_size" db:"original_size"`
	ConvertedSize int64     `json:"converted_size" db:"converted_size"`
	ElapsedMs     int64     `json:"elapsed_ms" db:"elapsed_ms"`
	ConvertedAt   time.Time `json:"converted_at" db:"converted_at"`
}

// Store persists conversion history entries, newest first
type Store interface {
	// Add inserts an entry; stores cap retained entries at their configured
	// maximum, discarding the oldest.
	Add(entry Entry) error

	// List returns all retained entries, newest first
	List() ([]Entry, error)

	// Delete removes the entry with the given id; deleting an unknown id is
	// not an error.
	Delete(id string) error
}

// NewEntry builds a history entry timestamped now
func NewEntry(id, originalName, convertedName string, originalSize, convertedSize int64, elapsed time.Duration) Entry {
	return Entry{
		ID:            id,
		OriginalName:  originalName,
		ConvertedName: convertedName,
		OriginalSize:  originalSize,
		ConvertedSize: convertedSize,
		ElapsedMs:     elapsed.Milliseconds(),
		ConvertedAt:   time.Now().UTC(),
	}
}
