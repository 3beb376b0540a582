// Package journal persists an append-only record of assembly persistence
// events: loads, saves, migrations and schema-drift warnings. Dropped
// parameter values are recorded here so a migration never discards data
// without a durable trace.
package journal

import (
	"context"
	"time"
)

// Event types recorded by the persistence layer.
const (
	EventLoaded   = "assembly_loaded"
	EventSaved    = "assembly_saved"
	EventMigrated = "assembly_migrated"
	EventDrift    = "schema_drift"
)

// Event is one recorded persistence event.
type Event struct {
	ID        string
	Project   string
	Assembly  string
	Type      string
	Timestamp time.Time
	Payload   map[string]any
}

// Store defines the interface for persisting and retrieving events.
type Store interface {
	// Append adds a new event to the journal.
	Append(ctx context.Context, project, assemblyName, eventType string, payload map[string]any) error

	// ByAssembly retrieves all events for one assembly, oldest first.
	ByAssembly(ctx context.Context, project, assemblyName string) ([]Event, error)

	// Recent retrieves the most recent events across all assemblies,
	// newest first, capped at limit.
	Recent(ctx context.Context, limit int) ([]Event, error)

	// Close closes the store and releases resources.
	Close() error
}
