package database

import (
	"context"

	"github.com/cockroachdb/errors"

	"catmigrate/audit"
	"catmigrate/ctxlog"
	"catmigrate/grants"
	"catmigrate/schema"
)

// Securable identifies an object grants can attach to.
type Securable struct {
	Kind string // "table" or "database"
	Ref  schema.TableRef
}

// TableSecurable wraps a fully qualified table reference.
func TableSecurable(ref schema.TableRef) Securable {
	return Securable{Kind: "table", Ref: ref}
}

// DatabaseSecurable wraps a catalog-qualified database name.
func DatabaseSecurable(catalogName, dbName string) Securable {
	return Securable{Kind: "database", Ref: schema.TableRef{Catalog: catalogName, Database: dbName}}
}

// Key renders the registry key, e.g. "table:main.mydb.movies".
func (s Securable) Key() string {
	if s.Kind == "database" {
		return "database:" + s.Ref.Catalog + "." + s.Ref.Database
	}
	return "table:" + s.Ref.String()
}

// checkGovernable verifies the securable exists and lives in a catalog with
// fine-grained access control. Securables in legacy catalogs fail with
// grants.ErrNotGovernable for both reads and writes.
func (e *Engine) checkGovernable(s Securable) error {
	if s.Kind == "database" {
		if !e.catalog.DatabaseExists(s.Ref.Catalog, s.Ref.Database) {
			return errors.Newf("database %s.%s does not exist", s.Ref.Catalog, s.Ref.Database)
		}
	} else {
		if _, err := e.catalog.Table(s.Ref); err != nil {
			return err
		}
	}

	governed, err := e.catalog.Governed(s.Ref.Catalog)
	if err != nil {
		return err
	}
	if !governed {
		return errors.Wrapf(grants.ErrNotGovernable, "catalog %q", s.Ref.Catalog)
	}
	return nil
}

// Grant attaches a privilege for a principal to a securable.
func (e *Engine) Grant(ctx context.Context, user string, s Securable, priv grants.Privilege, principal string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkGovernable(s); err != nil {
		return err
	}
	if err := e.grants.Add(s.Key(), principal, priv); err != nil {
		return err
	}

	ctxlog.FromContext(ctx).Info("privilege granted",
		"object", s.Key(), "privilege", string(priv),
		"principal", principal, "user", user)
	return e.audit.Record(user, audit.GrantAdded, s.Key(), map[string]any{
		"privilege": string(priv),
		"principal": principal,
	})
}

// ShowGrants lists the grants attached to a securable. A securable with no
// grants lists as empty; a securable in a legacy catalog is an error.
func (e *Engine) ShowGrants(s Securable) ([]grants.Grant, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkGovernable(s); err != nil {
		return nil, err
	}
	return e.grants.List(s.Key()), nil
}
