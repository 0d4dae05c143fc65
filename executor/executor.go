package executor

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"catmigrate/audit"
	"catmigrate/catalog"
	"catmigrate/ctxlog"
	"catmigrate/database"
	"catmigrate/grants"
	"catmigrate/parser"
	"catmigrate/schema"
	"catmigrate/storage"
)

// Result is the outcome of one executed statement: either a row set with
// named columns, or a plain message for statements that return none.
type Result struct {
	Columns []string
	Rows    [][]any
	Message string
}

// RowCount returns the number of rows in the result.
func (r *Result) RowCount() int {
	return len(r.Rows)
}

// String formats the result for display.
func (r *Result) String() string {
	if len(r.Columns) == 0 {
		return r.Message
	}
	var b strings.Builder
	b.WriteString(strings.Join(r.Columns, "\t"))
	for _, row := range r.Rows {
		b.WriteByte('\n')
		for i, v := range row {
			if i > 0 {
				b.WriteByte('\t')
			}
			fmt.Fprintf(&b, "%v", v)
		}
	}
	if len(r.Rows) == 0 {
		b.WriteString("\n(no rows)")
	}
	return b.String()
}

// Session executes SQL statements against the engine on behalf of one user,
// tracking the current catalog and database used to resolve partial
// references.
type Session struct {
	engine          *database.Engine
	parser          *parser.Parser
	user            string
	currentCatalog  string
	currentDatabase string
}

// NewSession creates a session for the given user. Sessions start out in
// the legacy catalog's default database.
func NewSession(engine *database.Engine, user string) *Session {
	return &Session{
		engine:          engine,
		parser:          parser.New(),
		user:            user,
		currentCatalog:  catalog.LegacyCatalog,
		currentDatabase: "default",
	}
}

// User returns the session's user.
func (s *Session) User() string { return s.user }

// CurrentCatalog returns the catalog partial references resolve against.
func (s *Session) CurrentCatalog() string { return s.currentCatalog }

// CurrentDatabase returns the database partial references resolve against.
func (s *Session) CurrentDatabase() string { return s.currentDatabase }

// Execute parses and executes one SQL statement.
func (s *Session) Execute(ctx context.Context, sql string) (*Result, error) {
	stmt, err := s.parser.Parse(sql)
	if err != nil {
		return nil, err
	}

	switch st := stmt.(type) {
	case *parser.CreateDatabase:
		return s.executeCreateDatabase(ctx, st)
	case *parser.DropDatabase:
		return s.executeDropDatabase(ctx, st)
	case *parser.UseCatalog:
		return s.executeUseCatalog(ctx, st)
	case *parser.UseDatabase:
		return s.executeUseDatabase(st)
	case *parser.ShowDatabases:
		return s.executeShowDatabases()
	case *parser.CreateTableAs:
		return s.executeCreateTableAs(ctx, st)
	case *parser.Select:
		return s.executeSelect(st)
	case *parser.Grant:
		return s.executeGrant(ctx, st)
	case *parser.ShowGrants:
		return s.executeShowGrants(st)
	}
	return nil, errors.Newf("unknown statement type: %T", stmt)
}

// resolveTable fills a partial table reference from the session context.
func (s *Session) resolveTable(ref schema.TableRef) schema.TableRef {
	if ref.Database == "" {
		ref.Database = s.currentDatabase
	}
	if ref.Catalog == "" {
		ref.Catalog = s.currentCatalog
	}
	return ref
}

func (s *Session) executeCreateDatabase(ctx context.Context, st *parser.CreateDatabase) (*Result, error) {
	cat := st.Catalog
	if cat == "" {
		cat = s.currentCatalog
	}

	created, err := s.engine.CreateDatabase(ctx, s.user, cat, st.Name)
	if err != nil {
		return nil, err
	}
	if !created {
		if !st.IfNotExists {
			return nil, errors.Newf("database %s.%s already exists", cat, st.Name)
		}
		return &Result{Message: fmt.Sprintf("Database '%s.%s' already exists, skipped", cat, st.Name)}, nil
	}
	return &Result{Message: fmt.Sprintf("Database '%s.%s' created", cat, st.Name)}, nil
}

func (s *Session) executeDropDatabase(ctx context.Context, st *parser.DropDatabase) (*Result, error) {
	cat := st.Catalog
	if cat == "" {
		cat = s.currentCatalog
	}

	if !st.Cascade {
		tables, err := s.engine.TableNames(cat, st.Name)
		if err == nil && len(tables) > 0 {
			return nil, errors.Newf("database %s.%s is not empty, use CASCADE", cat, st.Name)
		}
	}

	dropped, err := s.engine.DropDatabaseCascade(ctx, s.user, cat, st.Name)
	if err != nil {
		return nil, err
	}
	if !dropped {
		if !st.IfExists {
			return nil, errors.Newf("database %s.%s does not exist", cat, st.Name)
		}
		return &Result{Message: fmt.Sprintf("Database '%s.%s' does not exist, skipped", cat, st.Name)}, nil
	}
	return &Result{Message: fmt.Sprintf("Database '%s.%s' dropped", cat, st.Name)}, nil
}

func (s *Session) executeUseCatalog(ctx context.Context, st *parser.UseCatalog) (*Result, error) {
	if !s.engine.CatalogExists(st.Name) {
		return nil, errors.Newf("catalog %q does not exist", st.Name)
	}
	s.currentCatalog = st.Name
	s.currentDatabase = "default"

	ctxlog.FromContext(ctx).Debug("catalog selected", "catalog", st.Name, "user", s.user)
	if err := s.engine.Audit().Record(s.user, audit.CatalogSelected, "catalog:"+st.Name, nil); err != nil {
		return nil, err
	}
	return &Result{Message: fmt.Sprintf("Using catalog '%s'", st.Name)}, nil
}

func (s *Session) executeUseDatabase(st *parser.UseDatabase) (*Result, error) {
	if !s.engine.DatabaseExists(s.currentCatalog, st.Name) {
		return nil, errors.Newf("database %s.%s does not exist", s.currentCatalog, st.Name)
	}
	s.currentDatabase = st.Name
	return &Result{Message: fmt.Sprintf("Using database '%s'", st.Name)}, nil
}

func (s *Session) executeShowDatabases() (*Result, error) {
	names, err := s.engine.Databases(s.currentCatalog)
	if err != nil {
		return nil, err
	}
	rows := make([][]any, len(names))
	for i, name := range names {
		rows[i] = []any{name}
	}
	return &Result{Columns: []string{"databaseName"}, Rows: rows}, nil
}

func (s *Session) executeSelect(st *parser.Select) (*Result, error) {
	table, rows, err := s.engine.Scan(s.resolveTable(st.From))
	if err != nil {
		return nil, err
	}
	columns, values, err := evalSelect(st, table, rows)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col.Name
	}
	return &Result{Columns: names, Rows: values}, nil
}

func (s *Session) executeCreateTableAs(ctx context.Context, st *parser.CreateTableAs) (*Result, error) {
	dest := s.resolveTable(st.Ref)
	table, rows, err := s.engine.Scan(s.resolveTable(st.Query.From))
	if err != nil {
		return nil, err
	}
	columns, values, err := evalSelect(st.Query, table, rows)
	if err != nil {
		return nil, err
	}

	outRows := make([]storage.Row, len(values))
	for i, vals := range values {
		row := make(storage.Row, len(columns))
		for j, col := range columns {
			row[col.Name] = vals[j]
		}
		outRows[i] = row
	}

	replaced, err := s.engine.CreateTableAs(ctx, s.user, dest, columns, outRows, st.OrReplace)
	if err != nil {
		return nil, err
	}
	verb := "created"
	if replaced {
		verb = "replaced"
	}
	return &Result{Message: fmt.Sprintf("Table '%s' %s (%d rows)", dest.String(), verb, len(outRows))}, nil
}

func (s *Session) executeGrant(ctx context.Context, st *parser.Grant) (*Result, error) {
	priv, err := grants.ParsePrivilege(st.Privilege)
	if err != nil {
		return nil, err
	}
	sec := s.resolveSecurable(st.Kind, st.Object)
	if err := s.engine.Grant(ctx, s.user, sec, priv, st.Principal); err != nil {
		return nil, err
	}
	return &Result{Message: fmt.Sprintf("Granted %s on %s to '%s'", priv, sec.Key(), st.Principal)}, nil
}

func (s *Session) executeShowGrants(st *parser.ShowGrants) (*Result, error) {
	sec := s.resolveSecurable(st.Kind, st.Object)
	list, err := s.engine.ShowGrants(sec)
	if err != nil {
		return nil, err
	}

	rows := make([][]any, len(list))
	for i, g := range list {
		rows[i] = []any{g.Principal, string(g.Privilege), strings.ToUpper(sec.Kind), sec.Key()}
	}
	return &Result{
		Columns: []string{"principal", "privilege", "object_type", "object_key"},
		Rows:    rows,
	}, nil
}

func (s *Session) resolveSecurable(kind parser.ObjectKind, ref schema.TableRef) database.Securable {
	if kind == parser.KindDatabase {
		cat := ref.Catalog
		if cat == "" {
			cat = s.currentCatalog
		}
		return database.DatabaseSecurable(cat, ref.Database)
	}
	return database.TableSecurable(s.resolveTable(ref))
}
