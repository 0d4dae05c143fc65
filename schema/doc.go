// Package schema provides type definitions and utilities for table schemas.
//
// The schema package defines the core data structures used throughout the
// engine to represent tables, columns and qualified table references. It also
// implements strict value casting between column types.
//
// Key Types:
//   - ColumnType: Supported data types (INT, DOUBLE, TEXT, BOOL)
//   - Column: Column definition with name and type
//   - Table: Table metadata including name and columns
//   - TableRef: A catalog.database.table reference, possibly partial
//
// Casting:
//   - Cast converts a value to a target ColumnType
//   - Failures return an error marked with ErrCast; there is no implicit
//     sentinel or null fallback, callers express sentinel rules in SQL
//
// Usage Example:
//
//	columns := []schema.Column{
//		{Name: "idx", Type: schema.TypeInt},
//		{Name: "title", Type: schema.TypeText},
//	}
//	table := &schema.Table{Name: "movies", Columns: columns}
//
//	ref, err := schema.ParseTableRef("hive_metastore.mydb.movies")
//
// The schema package is used by virtually all other packages in the engine.
package schema
