package parser

import (
	"regexp"

	"github.com/cockroachdb/errors"
)

// UseCatalog represents USE CATALOG name.
type UseCatalog struct {
	Name string
}

// UseDatabase represents USE name, selecting a database in the current catalog.
type UseDatabase struct {
	Name string
}

// ShowDatabases represents SHOW DATABASES in the current catalog.
type ShowDatabases struct{}

func (*UseCatalog) stmt()    {}
func (*UseDatabase) stmt()   {}
func (*ShowDatabases) stmt() {}

var (
	useCatalogRe  = regexp.MustCompile(`(?i)^USE\s+CATALOG\s+(\w+)$`)
	useDatabaseRe = regexp.MustCompile(`(?i)^USE\s+(\w+)$`)
)

func (p *Parser) parseUseCatalog(sql string) (*UseCatalog, error) {
	matches := useCatalogRe.FindStringSubmatch(sql)
	if matches == nil {
		return nil, errors.Newf("invalid USE CATALOG syntax: %q", sql)
	}
	return &UseCatalog{Name: matches[1]}, nil
}

func (p *Parser) parseUseDatabase(sql string) (*UseDatabase, error) {
	matches := useDatabaseRe.FindStringSubmatch(sql)
	if matches == nil {
		return nil, errors.Newf("invalid USE syntax: %q", sql)
	}
	return &UseDatabase{Name: matches[1]}, nil
}
