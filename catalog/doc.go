// Package catalog provides the metastore: catalogs, databases and tables.
//
// The catalog tree has three levels. Catalogs are top-level namespaces and
// come in two kinds: governed catalogs, which support fine-grained grants,
// and the built-in legacy catalog ("hive_metastore"), which does not.
// Databases (schemas) live inside catalogs and hold table metadata. Row data
// lives elsewhere (package storage); this package only tracks structure.
//
// Key Responsibilities:
//   - Creating catalogs and databases (database creation is idempotent)
//   - Dropping databases with cascade, reporting contained tables
//   - Registering tables, with create-or-replace semantics
//   - Resolving fully qualified table references
//   - Persisting the tree to disk (_metastore.json)
//
// Usage Example:
//
//	store, err := catalog.New("./data")
//	if err != nil {
//		return err
//	}
//
//	created, err := store.CreateDatabase("main", "classroom_jane_table_migration")
//
//	ref := schema.TableRef{Catalog: "main", Database: "classroom_jane_table_migration", Table: "movies"}
//	_, err = store.CreateTable(ref, columns, false)
//
// Package catalog works closely with the schema package for table and
// reference types. It is used by the database package, which layers row
// storage, grants and auditing on top.
package catalog
