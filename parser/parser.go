package parser

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Statement is a parsed SQL statement.
type Statement interface {
	stmt()
}

// Parser handles SQL parsing
type Parser struct{}

// New creates a new parser
func New() *Parser {
	return &Parser{}
}

// Parse parses a single SQL statement. A trailing semicolon is tolerated.
func (p *Parser) Parse(sql string) (Statement, error) {
	sql = strings.TrimSpace(sql)
	sql = strings.TrimSuffix(sql, ";")
	sql = strings.TrimSpace(sql)
	if sql == "" {
		return nil, errors.New("empty statement")
	}

	upper := strings.ToUpper(sql)
	switch {
	case strings.HasPrefix(upper, "CREATE DATABASE"), strings.HasPrefix(upper, "CREATE SCHEMA"):
		return p.parseCreateDatabase(sql)
	case strings.HasPrefix(upper, "CREATE"):
		return p.parseCreateTableAs(sql)
	case strings.HasPrefix(upper, "DROP DATABASE"), strings.HasPrefix(upper, "DROP SCHEMA"):
		return p.parseDropDatabase(sql)
	case strings.HasPrefix(upper, "USE CATALOG"):
		return p.parseUseCatalog(sql)
	case strings.HasPrefix(upper, "USE"):
		return p.parseUseDatabase(sql)
	case strings.HasPrefix(upper, "SHOW DATABASES"), strings.HasPrefix(upper, "SHOW SCHEMAS"):
		return &ShowDatabases{}, nil
	case strings.HasPrefix(upper, "SHOW GRANTS"):
		return p.parseShowGrants(sql)
	case strings.HasPrefix(upper, "SELECT"):
		return p.parseSelect(sql)
	case strings.HasPrefix(upper, "GRANT"):
		return p.parseGrant(sql)
	}

	return nil, errors.Newf("unsupported SQL statement: %q", firstWord(sql))
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
