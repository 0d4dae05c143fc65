// Package storage provides physical row storage for the engine.
//
// Rows live in one JSON-lines file per qualified table under the data
// directory. The engine supports exactly the operations the statement surface
// needs: full-file replacement (CREATE OR REPLACE TABLE AS), appends (data
// seeding), full scans (SELECT) and file removal (DROP ... CASCADE).
//
// Values round-trip through JSON, so numeric values read back as float64;
// the database layer normalizes them against the table schema.
package storage
