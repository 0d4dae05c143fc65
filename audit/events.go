package audit

import (
	"time"
)

// EventType represents the type of event in the audit log
type EventType string

const (
	// CatalogSelected: a session switched its current catalog
	CatalogSelected EventType = "CATALOG_SELECTED"
	// DatabaseCreated: a database was created in a catalog
	DatabaseCreated EventType = "DATABASE_CREATED"
	// DatabaseDropped: a database and its contents were dropped
	DatabaseDropped EventType = "DATABASE_DROPPED"
	// TableCreated: a table was created (CTAS or seed)
	TableCreated EventType = "TABLE_CREATED"
	// TableReplaced: an existing table was replaced by CREATE OR REPLACE
	TableReplaced EventType = "TABLE_REPLACED"
	// GrantAdded: a privilege was granted on a securable
	GrantAdded EventType = "GRANT_ADDED"
)

// Event records one DDL or grant action.
type Event struct {
	ID        uint64         `json:"id"`        // Sequential event ID (monotonic, 1-indexed)
	RunID     string         `json:"run_id"`    // UUID of the process run that recorded the event
	Type      EventType      `json:"type"`      // Event type
	Timestamp time.Time      `json:"timestamp"` // When the event occurred
	User      string         `json:"user"`      // Acting user
	Object    string         `json:"object"`    // Securable the event concerns, e.g. "table:main.db.movies"
	Detail    map[string]any `json:"detail,omitempty"`
}
