package parser

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

// DropDatabase represents DROP DATABASE [IF EXISTS] [catalog.]name [CASCADE].
type DropDatabase struct {
	Catalog  string // empty means the session's current catalog
	Name     string
	IfExists bool
	Cascade  bool
}

func (*DropDatabase) stmt() {}

var dropDatabaseRe = regexp.MustCompile(`(?i)^DROP\s+(?:DATABASE|SCHEMA)\s+(IF\s+EXISTS\s+)?([\w.]+?)(\s+CASCADE)?$`)

func (p *Parser) parseDropDatabase(sql string) (*DropDatabase, error) {
	// DROP DATABASE IF EXISTS main.classroom_jane_table_migration CASCADE
	matches := dropDatabaseRe.FindStringSubmatch(sql)
	if matches == nil {
		return nil, errors.Newf("invalid DROP DATABASE syntax: %q", sql)
	}

	stmt := &DropDatabase{
		IfExists: matches[1] != "",
		Cascade:  matches[3] != "",
	}
	parts := strings.Split(matches[2], ".")
	switch len(parts) {
	case 1:
		stmt.Name = parts[0]
	case 2:
		stmt.Catalog, stmt.Name = parts[0], parts[1]
	default:
		return nil, errors.Newf("invalid database reference: %q", matches[2])
	}
	return stmt, nil
}
