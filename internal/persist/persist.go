// Package persist provides the durable slot the prediction history is
// written to. A slot is a single named entry with whole-value load/save
// semantics, a finite capacity, and a retention window: data older than the
// window, truncated, or otherwise unreadable is reported as absent rather
// than as an error.
package persist

import "errors"

// ErrTooLarge is returned by Save when the payload exceeds the slot's
// capacity ceiling.
var ErrTooLarge = errors.New("payload exceeds slot capacity")

// Slot is a named durable byte slot.
type Slot interface {
	// Load reads the slot. present is false when the slot is empty or its
	// contents have aged past the retention window.
	Load() (data []byte, present bool, err error)

	// Save replaces the slot's contents and refreshes its retention clock.
	Save(data []byte) error

	// Name identifies the slot for diagnostics.
	Name() string
}
