package parser

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"

	"catmigrate/schema"
)

// CreateDatabase represents CREATE DATABASE [IF NOT EXISTS] [catalog.]name.
type CreateDatabase struct {
	Catalog     string // empty means the session's current catalog
	Name        string
	IfNotExists bool
}

// CreateTableAs represents CREATE [OR REPLACE] TABLE name AS SELECT ...
type CreateTableAs struct {
	Ref       schema.TableRef
	OrReplace bool
	Query     *Select
}

func (*CreateDatabase) stmt() {}
func (*CreateTableAs) stmt()  {}

var (
	createDatabaseRe = regexp.MustCompile(`(?i)^CREATE\s+(?:DATABASE|SCHEMA)\s+(IF\s+NOT\s+EXISTS\s+)?([\w.]+)$`)
	createTableAsRe  = regexp.MustCompile(`(?is)^CREATE\s+(OR\s+REPLACE\s+)?TABLE\s+([\w.]+)\s+AS\s+(SELECT\s.+)$`)
)

func (p *Parser) parseCreateDatabase(sql string) (*CreateDatabase, error) {
	// CREATE DATABASE IF NOT EXISTS main.classroom_jane_table_migration
	matches := createDatabaseRe.FindStringSubmatch(sql)
	if matches == nil {
		return nil, errors.Newf("invalid CREATE DATABASE syntax: %q", sql)
	}

	stmt := &CreateDatabase{IfNotExists: matches[1] != ""}
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

func (p *Parser) parseCreateTableAs(sql string) (*CreateTableAs, error) {
	// CREATE OR REPLACE TABLE movies AS SELECT ...
	matches := createTableAsRe.FindStringSubmatch(sql)
	if matches == nil {
		return nil, errors.Newf("invalid CREATE TABLE syntax: %q (only CREATE TABLE ... AS SELECT is supported)", sql)
	}

	ref, err := schema.ParseTableRef(matches[2])
	if err != nil {
		return nil, err
	}
	query, err := p.parseSelect(strings.TrimSpace(matches[3]))
	if err != nil {
		return nil, err
	}
	return &CreateTableAs{
		Ref:       ref,
		OrReplace: matches[1] != "",
		Query:     query,
	}, nil
}
