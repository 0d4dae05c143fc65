package schema

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// ColumnType represents supported data types
type ColumnType string

const (
	TypeInt    ColumnType = "INT"
	TypeDouble ColumnType = "DOUBLE"
	TypeText   ColumnType = "TEXT"
	TypeBool   ColumnType = "BOOL"
)

// ParseColumnType maps a SQL type name to a ColumnType. Common synonyms
// (INTEGER, BIGINT, FLOAT, STRING, VARCHAR, BOOLEAN) are accepted.
func ParseColumnType(s string) (ColumnType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INT", "INTEGER", "BIGINT":
		return TypeInt, nil
	case "DOUBLE", "FLOAT", "REAL":
		return TypeDouble, nil
	case "TEXT", "STRING", "VARCHAR":
		return TypeText, nil
	case "BOOL", "BOOLEAN":
		return TypeBool, nil
	}
	return "", errors.Newf("unknown column type: %q", s)
}

// Column defines a table column
type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// Table holds table metadata
type Table struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

// Column returns the column with the given name, if present.
func (t *Table) Column(name string) (Column, bool) {
	for _, col := range t.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}
