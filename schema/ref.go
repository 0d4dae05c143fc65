package schema

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// TableRef identifies a table by catalog, database and table name. Catalog
// and Database may be empty in a partially qualified reference; the session
// context fills them in before the reference reaches the engine.
type TableRef struct {
	Catalog  string
	Database string
	Table    string
}

// ParseTableRef parses a dotted table reference. One part names a table,
// two parts a database and table, three parts are fully qualified.
func ParseTableRef(s string) (TableRef, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	for _, p := range parts {
		if p == "" {
			return TableRef{}, errors.Newf("invalid table reference: %q", s)
		}
	}
	switch len(parts) {
	case 1:
		return TableRef{Table: parts[0]}, nil
	case 2:
		return TableRef{Database: parts[0], Table: parts[1]}, nil
	case 3:
		return TableRef{Catalog: parts[0], Database: parts[1], Table: parts[2]}, nil
	}
	return TableRef{}, errors.Newf("invalid table reference: %q", s)
}

// String renders the reference with as many parts as are set.
func (r TableRef) String() string {
	parts := make([]string, 0, 3)
	if r.Catalog != "" {
		parts = append(parts, r.Catalog)
	}
	if r.Database != "" {
		parts = append(parts, r.Database)
	}
	parts = append(parts, r.Table)
	return strings.Join(parts, ".")
}

// Qualified reports whether catalog, database and table are all set.
func (r TableRef) Qualified() bool {
	return r.Catalog != "" && r.Database != "" && r.Table != ""
}
