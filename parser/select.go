package parser

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"

	"catmigrate/schema"
)

// Select represents SELECT <projection> FROM <table reference>.
type Select struct {
	Star  bool
	Items []SelectItem
	From  schema.TableRef
}

func (*Select) stmt() {}

var selectRe = regexp.MustCompile(`(?is)^SELECT\s+(.+)\s+FROM\s+([\w.]+)$`)

func (p *Parser) parseSelect(sql string) (*Select, error) {
	// SELECT * FROM movies
	// SELECT CAST(idx AS INT) AS idx, title FROM hive_metastore.mydb.movies
	matches := selectRe.FindStringSubmatch(sql)
	if matches == nil {
		return nil, errors.Newf("invalid SELECT syntax: %q", sql)
	}

	from, err := schema.ParseTableRef(matches[2])
	if err != nil {
		return nil, err
	}

	projection := strings.TrimSpace(matches[1])
	if projection == "*" {
		return &Select{Star: true, From: from}, nil
	}

	var items []SelectItem
	for _, part := range splitTop(projection, ',') {
		item, err := parseSelectItem(part)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return &Select{Items: items, From: from}, nil
}
