package database

import (
	"sync"

	"github.com/cockroachdb/errors"

	"catmigrate/audit"
	"catmigrate/catalog"
	"catmigrate/grants"
	"catmigrate/storage"
)

// Engine is the managed table service: catalog tree, row storage, grants
// and audit log behind one interface. Sessions (package executor) translate
// SQL into Engine calls.
//
// The component stores lock themselves, but operations spanning more than
// one store (a CTAS writes the catalog then the row file, a cascade drop
// touches all four) hold mu for their whole duration so no interleaving can
// observe or leave half-applied state.
type Engine struct {
	mu      sync.Mutex
	catalog *catalog.Store
	rows    *storage.Engine
	grants  *grants.Registry
	audit   *audit.Log
}

// Open creates an engine rooted at dataDir, loading any persisted state.
func Open(dataDir string) (*Engine, error) {
	store, err := catalog.New(dataDir)
	if err != nil {
		return nil, errors.Wrap(err, "opening catalog store")
	}
	rows, err := storage.NewEngine(dataDir)
	if err != nil {
		return nil, errors.Wrap(err, "opening row storage")
	}
	registry, err := grants.NewRegistry(dataDir)
	if err != nil {
		return nil, errors.Wrap(err, "opening grants registry")
	}
	log, err := audit.NewLog(dataDir)
	if err != nil {
		return nil, errors.Wrap(err, "opening audit log")
	}

	// Sessions start out in hive_metastore.default.
	if _, err := store.CreateDatabase(catalog.LegacyCatalog, "default"); err != nil {
		return nil, err
	}

	return &Engine{
		catalog: store,
		rows:    rows,
		grants:  registry,
		audit:   log,
	}, nil
}

// Audit exposes the audit log for inspection.
func (e *Engine) Audit() *audit.Log {
	return e.audit
}

// Close closes the engine.
func (e *Engine) Close() error {
	return e.audit.Close()
}
