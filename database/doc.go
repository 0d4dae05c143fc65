// Package database provides the table engine the SQL layer executes against.
//
// The Engine composes the catalog tree (package catalog), physical row
// storage (package storage), the grants registry (package grants) and the
// audit log (package audit) into one interface. Every mutating operation
// logs through ctxlog and records an audit event with the acting user.
//
// Key Responsibilities:
//   - Creating and dropping databases (drop cascades to rows and grants)
//   - CTAS table writes with create-or-replace semantics
//   - Scanning tables with values normalized to their schema types
//   - Granting and listing privileges, enforcing that securables in legacy
//     catalogs reject fine-grained grant operations
//
// Usage Example:
//
//	engine, err := database.Open("./data")
//	if err != nil {
//		return err
//	}
//	defer engine.Close()
//
//	created, err := engine.CreateDatabase(ctx, user, "main", "mydb")
//
// The executor package builds sessions on top of the engine; the classroom
// package uses it directly for provisioning and teardown.
package database
