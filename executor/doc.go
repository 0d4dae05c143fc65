// Package executor provides SQL statement execution sessions.
//
// A Session bridges parsed statements and engine operations. It tracks the
// current catalog and current database, resolves partially qualified table
// references against them, evaluates CTAS/SELECT projections (including CAST
// and the single-branch CASE form) and renders results.
//
// Supported Operations:
//   - CREATE DATABASE / DROP DATABASE (idempotent with IF [NOT] EXISTS)
//   - USE CATALOG / USE / SHOW DATABASES
//   - CREATE [OR REPLACE] TABLE ... AS SELECT
//   - SELECT with star or expression projections
//   - GRANT / SHOW GRANTS
//
// Usage Example:
//
//	session := executor.NewSession(engine, "jane@example.com")
//
//	res, err := session.Execute(ctx, "USE CATALOG main")
//	if err != nil {
//		return err
//	}
//	fmt.Println(res)
//
// Sessions are not safe for concurrent use; the engine underneath is.
package executor
