// Package audit provides an append-only log of DDL and grant activity.
//
// Every catalog-changing operation (database create/drop, table create or
// replace, grant) is recorded as an immutable Event with a monotonic ID, a
// timestamp, the acting user and a per-run UUID. The log is a JSON-lines
// file under the data directory and survives across runs; IDs continue from
// where the previous run stopped.
//
// Usage Example:
//
//	log, err := audit.NewLog("./data")
//	if err != nil {
//		return err
//	}
//	defer log.Close()
//
//	err = log.Record("jane@example.com", audit.DatabaseCreated,
//		"database:main.classroom_jane_table_migration", nil)
//
// The audit package is written to by the database engine; nothing in the
// engine reads it back except tests and operators.
package audit
