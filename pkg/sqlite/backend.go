// Package sqlite provides the public API for the SQLite-indexed Waymark
// store. It exposes the factory function while keeping implementation
// details internal.
package sqlite

import (
	"github.com/petar-djukic/waymark/internal/sqlite"
	"github.com/petar-djukic/waymark/pkg/types"
)

// NewBackend creates a new store backend instance.
// The backend is not open; call Open with a Config to initialize.
//
// Example:
//
//	store := sqlite.NewBackend()
//	err := store.Open(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".waymark",
//	})
//	defer store.Close()
func NewBackend() types.Store {
	return sqlite.NewBackend()
}
