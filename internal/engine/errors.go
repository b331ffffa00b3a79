package engine

import (
	"errors"
	"fmt"

	domain "github.com/donaldgifford/price-list-publisher/pkg/types"
)

// Sentinel errors. Typed errors below wrap ErrTransport and ErrPersistence
// so callers can match either the class or the details.
var (
	// ErrNoData means the scrape returned nothing; nothing was published.
	ErrNoData = errors.New("scrape returned no data")
	// ErrFormat means a block could not be rendered. It aborts the run.
	ErrFormat = errors.New("formatting failed")
	// ErrTransport marks a failed send, edit or delete.
	ErrTransport = errors.New("transport failed")
	// ErrPersistence marks a failed ledger read or write.
	ErrPersistence = errors.New("ledger persistence failed")
	// ErrRunInProgress is returned when another run holds the run lock.
	ErrRunInProgress = errors.New("publication run already in progress")
)

// TransportError describes one failed transport call.
type TransportError struct {
	Category domain.Category
	Part     int
	Op       string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s part %d: %v", e.Op, e.Category, e.Part, e.Err)
}

// Unwrap exposes both ErrTransport and the underlying cause.
func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

// PersistenceError describes a failed ledger operation for one category.
type PersistenceError struct {
	Category domain.Category
	Op       string
	Err      error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("ledger %s %s: %v", e.Op, e.Category, e.Err)
}

// Unwrap exposes both ErrPersistence and the underlying cause.
func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}
