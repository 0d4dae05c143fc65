package storage

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/errors"
)

// Row represents a table row (map of column name to value)
type Row map[string]any

// Engine handles physical storage of rows on disk.
//
// Each table is stored as one file of JSON lines under <dataDir>/tables,
// keyed by the fully qualified table name. A table replacement rewrites the
// whole file; a drop removes it. Reads are full scans, which is all the
// statement surface needs.
type Engine struct {
	mu      sync.Mutex
	dataDir string
}

// NewEngine creates a new storage engine rooted at dataDir.
func NewEngine(dataDir string) (*Engine, error) {
	dir := filepath.Join(dataDir, "tables")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "creating table directory")
	}
	return &Engine{dataDir: dir}, nil
}

// tableFile returns the file path for a table's data. Keys are qualified
// table names (catalog.database.table), which are safe path components.
func (e *Engine) tableFile(key string) string {
	return filepath.Join(e.dataDir, key+".jsonl")
}

// WriteAll replaces the stored rows for a table with the given rows.
func (e *Engine) WriteAll(key string, rows []Row) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	f, err := os.Create(e.tableFile(key))
	if err != nil {
		return errors.Wrapf(err, "writing table %s", key)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return errors.Wrapf(err, "encoding row for table %s", key)
		}
	}
	return w.Flush()
}

// Append appends rows to a table, creating the file if absent.
func (e *Engine) Append(key string, rows ...Row) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	f, err := os.OpenFile(e.tableFile(key), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "appending to table %s", key)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return errors.Wrapf(err, "encoding row for table %s", key)
		}
	}
	return w.Flush()
}

// ReadAll scans all rows of a table. A missing file reads as empty.
func (e *Engine) ReadAll(key string) ([]Row, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	f, err := os.Open(e.tableFile(key))
	if os.IsNotExist(err) {
		return []Row{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading table %s", key)
	}
	defer f.Close()

	var rows []Row
	dec := json.NewDecoder(bufio.NewReader(f))
	for dec.More() {
		var row Row
		if err := dec.Decode(&row); err != nil {
			return nil, errors.Wrapf(err, "decoding row in table %s", key)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Drop removes a table's data file. Dropping an absent table is a no-op.
func (e *Engine) Drop(key string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := os.Remove(e.tableFile(key))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "dropping table %s", key)
	}
	return nil
}
