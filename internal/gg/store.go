package gg

import (
	"fmt"

	"goodgood/internal/model"
)

// Store persists daily records, the date index and the latest pointer.
// Each mutating call is an independent durable write: readers see either the
// previous content or the complete new content of a file, never a partial one.
// There is no transaction across the three files.
type Store interface {
	// Exists reports whether a record for date has been written.
	Exists(date string) (bool, error)

	// Put writes the record for date, replacing any existing one.
	Put(date string, record *model.DailyRecord) error

	// Get reads the record for date. Returns nil if none exists.
	Get(date string) (*model.DailyRecord, error)

	// AppendToIndex adds date to the index, keeping it sorted and unique.
	// It is a no-op when date is already indexed.
	AppendToIndex(date string) error

	// Index returns the current index. A missing index is empty.
	Index() (*model.DateIndex, error)

	// SetLatest overwrites the latest pointer with date.
	SetLatest(date string) error

	// Latest returns the latest pointer, or nil if none was written.
	Latest() (*model.LatestPointer, error)

	// Dates lists the dates that have a record, ascending.
	Dates() ([]string, error)

	// Rebuild rewrites the index and latest pointer from the stored records.
	Rebuild() error
}

// StorageError reports a failed persistence step. Err is the underlying
// error, so the OS errno stays reachable with errors.As.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
