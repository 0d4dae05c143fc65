package classroom

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"catmigrate/catalog"
	"catmigrate/ctxlog"
	"catmigrate/database"
	"catmigrate/schema"
)

// DefaultCourse names the course the walkthrough belongs to. It is part of
// the per-user database name prefix.
const DefaultCourse = "table_migration"

// SourceTableName is the name of the seeded sample table.
const SourceTableName = "movies"

var nonAlnumRe = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Config carries the two values the walkthrough substitutes into its
// statements, plus the fully qualified seeded source table.
type Config struct {
	Catalog     string
	DBName      string
	SourceTable schema.TableRef
}

// Helper provisions and tears down the walkthrough environment for one
// user. Database names embed the sanitized username so concurrent learners
// sharing an engine never collide.
type Helper struct {
	engine      *database.Engine
	user        string
	course      string
	catalogName string
	dbPrefix    string
	dbName      string
}

// New creates a helper for a user. catalogName is the governed catalog the
// walkthrough migrates into; lesson, when non-empty, further scopes the
// database name so one user can run several lessons side by side.
func New(engine *database.Engine, user, catalogName, lesson string) *Helper {
	cleanUser := nonAlnumRe.ReplaceAllString(user, "_")
	prefix := fmt.Sprintf("classroom_%s_%s", cleanUser, DefaultCourse)

	dbName := prefix
	if lesson != "" {
		cleanLesson := nonAlnumRe.ReplaceAllString(strings.ToLower(lesson), "_")
		dbName = prefix + "_" + cleanLesson
	}

	return &Helper{
		engine:      engine,
		user:        user,
		course:      DefaultCourse,
		catalogName: catalogName,
		dbPrefix:    prefix,
		dbName:      dbName,
	}
}

// DBName returns the per-user database name used by this helper.
func (h *Helper) DBName() string { return h.dbName }

// DBPrefix returns the per-user database name prefix cleanup matches on.
func (h *Helper) DBPrefix() string { return h.dbPrefix }

// catalogs lists the catalogs the walkthrough touches: the governed target
// and the legacy source.
func (h *Helper) catalogs() []string {
	if h.catalogName == catalog.LegacyCatalog {
		return []string{catalog.LegacyCatalog}
	}
	return []string{h.catalogName, catalog.LegacyCatalog}
}

// Setup provisions the walkthrough environment: the governed catalog, the
// per-user database in both catalogs, and the sample movies table seeded
// into the legacy copy. Setup is safe to re-run.
func (h *Helper) Setup(ctx context.Context) (*Config, error) {
	log := ctxlog.FromContext(ctx)
	start := time.Now()

	if err := h.engine.EnsureCatalog(ctx, h.catalogName, true); err != nil {
		return nil, err
	}
	for _, cat := range h.catalogs() {
		if _, err := h.engine.CreateDatabase(ctx, h.user, cat, h.dbName); err != nil {
			return nil, err
		}
	}

	source := schema.TableRef{
		Catalog:  catalog.LegacyCatalog,
		Database: h.dbName,
		Table:    SourceTableName,
	}
	if _, err := h.engine.CreateTableAs(ctx, h.user, source, sampleColumns(), nil, true); err != nil {
		return nil, err
	}
	if err := h.engine.InsertRows(source, sampleRows()); err != nil {
		return nil, err
	}

	log.Info("classroom setup completed",
		"user", h.user,
		"catalog", h.catalogName,
		"database", h.dbName,
		"elapsed", time.Since(start))
	return &Config{
		Catalog:     h.catalogName,
		DBName:      h.dbName,
		SourceTable: source,
	}, nil
}

// Cleanup drops every database carrying the user's prefix in every catalog,
// removing all tables, rows and grants the walkthrough created.
func (h *Helper) Cleanup(ctx context.Context) error {
	log := ctxlog.FromContext(ctx)

	for _, cat := range h.engine.Catalogs() {
		dbs, err := h.engine.Databases(cat)
		if err != nil {
			return err
		}
		for _, db := range dbs {
			if !strings.HasPrefix(db, h.dbPrefix) {
				continue
			}
			dropped, err := h.engine.DropDatabaseCascade(ctx, h.user, cat, db)
			if err != nil {
				return err
			}
			if dropped {
				log.Info("classroom database dropped", "catalog", cat, "database", db)
			}
		}
	}
	return nil
}
