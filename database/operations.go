package database

import (
	"context"

	"github.com/cockroachdb/errors"

	"catmigrate/audit"
	"catmigrate/ctxlog"
	"catmigrate/schema"
	"catmigrate/storage"
)

// EnsureCatalog creates a catalog if absent. The governed flag only applies
// on first creation.
func (e *Engine) EnsureCatalog(ctx context.Context, name string, governed bool) error {
	return e.catalog.EnsureCatalog(name, governed)
}

// Catalogs returns all catalog names.
func (e *Engine) Catalogs() []string {
	return e.catalog.Catalogs()
}

// CatalogExists checks if a catalog exists.
func (e *Engine) CatalogExists(name string) bool {
	return e.catalog.CatalogExists(name)
}

// Databases returns the database names in a catalog.
func (e *Engine) Databases(catalogName string) ([]string, error) {
	return e.catalog.Databases(catalogName)
}

// TableNames returns the table names in a database.
func (e *Engine) TableNames(catalogName, dbName string) ([]string, error) {
	return e.catalog.TableNames(catalogName, dbName)
}

// DatabaseExists checks if a database exists in a catalog.
func (e *Engine) DatabaseExists(catalogName, dbName string) bool {
	return e.catalog.DatabaseExists(catalogName, dbName)
}

// CreateDatabase creates a database in a catalog. Creating an existing
// database reports created=false without error.
func (e *Engine) CreateDatabase(ctx context.Context, user, catalogName, dbName string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	created, err := e.catalog.CreateDatabase(catalogName, dbName)
	if err != nil {
		return false, err
	}
	if !created {
		return false, nil
	}

	ctxlog.FromContext(ctx).Info("database created",
		"catalog", catalogName, "database", dbName, "user", user)
	object := "database:" + catalogName + "." + dbName
	if err := e.audit.Record(user, audit.DatabaseCreated, object, nil); err != nil {
		return true, err
	}
	return true, nil
}

// DropDatabaseCascade drops a database together with its tables, their
// stored rows and any grants attached to them. Dropping an absent database
// reports dropped=false without error.
func (e *Engine) DropDatabaseCascade(ctx context.Context, user, catalogName, dbName string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	dropped, tables, err := e.catalog.DropDatabase(catalogName, dbName)
	if err != nil {
		return false, err
	}
	if !dropped {
		return false, nil
	}

	for _, ref := range tables {
		if err := e.rows.Drop(ref.String()); err != nil {
			return true, err
		}
	}
	object := "database:" + catalogName + "." + dbName
	if err := e.grants.DropObject(object); err != nil {
		return true, err
	}
	if err := e.grants.DropObject("table:" + catalogName + "." + dbName); err != nil {
		return true, err
	}

	ctxlog.FromContext(ctx).Info("database dropped",
		"catalog", catalogName, "database", dbName,
		"tables", len(tables), "user", user)
	if err := e.audit.Record(user, audit.DatabaseDropped, object,
		map[string]any{"tables_dropped": len(tables)}); err != nil {
		return true, err
	}
	return true, nil
}

// Scan resolves a table and reads all of its rows, normalized against the
// table schema (JSON storage reads numbers back as float64).
func (e *Engine) Scan(ref schema.TableRef) (*schema.Table, []storage.Row, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	table, err := e.catalog.Table(ref)
	if err != nil {
		return nil, nil, err
	}
	raw, err := e.rows.ReadAll(ref.String())
	if err != nil {
		return nil, nil, err
	}

	rows := make([]storage.Row, len(raw))
	for i, r := range raw {
		row, err := normalizeRow(table, r)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "row %d of table %q", i, ref.String())
		}
		rows[i] = row
	}
	return table, rows, nil
}

// CreateTableAs creates (or with orReplace, replaces) a table and stores the
// given rows as its full contents. This is the terminal half of a CTAS; the
// executor evaluates the query half.
func (e *Engine) CreateTableAs(ctx context.Context, user string, ref schema.TableRef, columns []schema.Column, rows []storage.Row, orReplace bool) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	replaced, err := e.catalog.CreateTable(ref, columns, orReplace)
	if err != nil {
		return false, err
	}
	if err := e.rows.WriteAll(ref.String(), rows); err != nil {
		return replaced, err
	}

	eventType := audit.TableCreated
	if replaced {
		eventType = audit.TableReplaced
	}
	ctxlog.FromContext(ctx).Info("table written",
		"table", ref.String(), "rows", len(rows),
		"replaced", replaced, "user", user)
	if err := e.audit.Record(user, eventType, "table:"+ref.String(),
		map[string]any{"rows": len(rows)}); err != nil {
		return replaced, err
	}
	return replaced, nil
}

// InsertRows appends rows to an existing table after validating them
// against its schema.
func (e *Engine) InsertRows(ref schema.TableRef, rows []storage.Row) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	table, err := e.catalog.Table(ref)
	if err != nil {
		return err
	}
	for i, row := range rows {
		if err := validateRow(table, row); err != nil {
			return errors.Wrapf(err, "row %d", i)
		}
	}
	return e.rows.Append(ref.String(), rows...)
}

// validateRow validates a row against the table schema.
func validateRow(table *schema.Table, row storage.Row) error {
	for _, col := range table.Columns {
		val, exists := row[col.Name]
		if !exists {
			return errors.Newf("missing column: %s", col.Name)
		}
		if _, err := schema.Cast(val, col.Type); err != nil {
			return errors.Wrapf(err, "column %q expects %s", col.Name, col.Type)
		}
	}
	if len(row) != len(table.Columns) {
		return errors.New("row has extra columns")
	}
	return nil
}

// normalizeRow casts stored values back to their schema types.
func normalizeRow(table *schema.Table, row storage.Row) (storage.Row, error) {
	out := make(storage.Row, len(row))
	for _, col := range table.Columns {
		val, exists := row[col.Name]
		if !exists {
			return nil, errors.Newf("missing column: %s", col.Name)
		}
		cast, err := schema.Cast(val, col.Type)
		if err != nil {
			return nil, err
		}
		out[col.Name] = cast
	}
	return out, nil
}
