package parser

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"

	"catmigrate/schema"
)

// ObjectKind identifies the kind of securable a grant statement targets.
type ObjectKind string

const (
	KindTable    ObjectKind = "TABLE"
	KindDatabase ObjectKind = "DATABASE"
)

// Grant represents GRANT <privilege> ON [TABLE|DATABASE] ref TO principal.
// The privilege is kept as text; the engine validates it.
type Grant struct {
	Privilege string
	Kind      ObjectKind
	Object    schema.TableRef
	Principal string
}

// ShowGrants represents SHOW GRANTS ON [TABLE|DATABASE] ref.
type ShowGrants struct {
	Kind   ObjectKind
	Object schema.TableRef
}

func (*Grant) stmt()      {}
func (*ShowGrants) stmt() {}

var (
	grantRe      = regexp.MustCompile("(?i)^GRANT\\s+([A-Za-z_]+(?:\\s+[A-Za-z_]+)*?)\\s+ON\\s+(?:(TABLE|DATABASE|SCHEMA)\\s+)?([\\w.]+)\\s+TO\\s+`?([\\w@.-]+)`?$")
	showGrantsRe = regexp.MustCompile(`(?i)^SHOW\s+GRANTS\s+ON\s+(?:(TABLE|DATABASE|SCHEMA)\s+)?([\w.]+)$`)
)

func (p *Parser) parseGrant(sql string) (*Grant, error) {
	// GRANT SELECT ON TABLE movies TO `analysts`
	// GRANT USAGE ON DATABASE classroom_jane_table_migration TO `analysts`
	matches := grantRe.FindStringSubmatch(sql)
	if matches == nil {
		return nil, errors.Newf("invalid GRANT syntax: %q", sql)
	}

	kind := objectKind(matches[2])
	object, err := parseObjectRef(kind, matches[3])
	if err != nil {
		return nil, err
	}
	return &Grant{
		Privilege: strings.ToUpper(strings.TrimSpace(matches[1])),
		Kind:      kind,
		Object:    object,
		Principal: matches[4],
	}, nil
}

func (p *Parser) parseShowGrants(sql string) (*ShowGrants, error) {
	// SHOW GRANTS ON TABLE movies
	matches := showGrantsRe.FindStringSubmatch(sql)
	if matches == nil {
		return nil, errors.Newf("invalid SHOW GRANTS syntax: %q", sql)
	}

	kind := objectKind(matches[1])
	object, err := parseObjectRef(kind, matches[2])
	if err != nil {
		return nil, err
	}
	return &ShowGrants{Kind: kind, Object: object}, nil
}

// objectKind defaults to TABLE when the statement names no kind.
func objectKind(keyword string) ObjectKind {
	switch strings.ToUpper(keyword) {
	case "DATABASE", "SCHEMA":
		return KindDatabase
	default:
		return KindTable
	}
}

// parseObjectRef parses the securable reference. Table references follow
// normal table resolution; database references take one part (database) or
// two (catalog.database).
func parseObjectRef(kind ObjectKind, s string) (schema.TableRef, error) {
	if kind == KindTable {
		return schema.ParseTableRef(s)
	}
	parts := strings.Split(s, ".")
	switch len(parts) {
	case 1:
		return schema.TableRef{Database: parts[0]}, nil
	case 2:
		return schema.TableRef{Catalog: parts[0], Database: parts[1]}, nil
	}
	return schema.TableRef{}, errors.Newf("invalid database reference: %q", s)
}
