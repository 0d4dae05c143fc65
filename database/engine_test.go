package database

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"catmigrate/catalog"
	"catmigrate/ctxlog"
	"catmigrate/grants"
	"catmigrate/schema"
	"catmigrate/storage"
)

func newTestEngine(t *testing.T) (context.Context, *Engine) {
	t.Helper()

	ctx := ctxlog.WithLogger(context.Background(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	engine, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })
	return ctx, engine
}

func TestOpenProvisionsDefaultDatabase(t *testing.T) {
	t.Parallel()
	_, engine := newTestEngine(t)

	require.True(t, engine.CatalogExists(catalog.LegacyCatalog))
	require.True(t, engine.DatabaseExists(catalog.LegacyCatalog, "default"))
}

func TestScanNormalizesStoredValues(t *testing.T) {
	t.Parallel()
	ctx, engine := newTestEngine(t)

	require.NoError(t, engine.EnsureCatalog(ctx, "main", true))
	_, err := engine.CreateDatabase(ctx, "jane", "main", "mydb")
	require.NoError(t, err)

	ref := schema.TableRef{Catalog: "main", Database: "mydb", Table: "movies"}
	columns := []schema.Column{
		{Name: "year", Type: schema.TypeInt},
		{Name: "rating", Type: schema.TypeDouble},
		{Name: "title", Type: schema.TypeText},
	}
	rows := []storage.Row{
		{"year": int64(1994), "rating": 9.3, "title": "The Shawshank Redemption"},
	}
	_, err = engine.CreateTableAs(ctx, "jane", ref, columns, rows, false)
	require.NoError(t, err)

	// JSON storage reads numbers back as float64; Scan restores schema types.
	table, got, err := engine.Scan(ref)
	require.NoError(t, err)
	require.Equal(t, columns, table.Columns)
	require.Len(t, got, 1)
	require.Equal(t, int64(1994), got[0]["year"])
	require.Equal(t, 9.3, got[0]["rating"])
	require.Equal(t, "The Shawshank Redemption", got[0]["title"])
}

func TestInsertRowsValidates(t *testing.T) {
	t.Parallel()
	ctx, engine := newTestEngine(t)

	_, err := engine.CreateDatabase(ctx, "jane", catalog.LegacyCatalog, "mydb")
	require.NoError(t, err)
	ref := schema.TableRef{Catalog: catalog.LegacyCatalog, Database: "mydb", Table: "t"}
	columns := []schema.Column{
		{Name: "idx", Type: schema.TypeInt},
		{Name: "title", Type: schema.TypeText},
	}
	_, err = engine.CreateTableAs(ctx, "jane", ref, columns, nil, false)
	require.NoError(t, err)

	require.NoError(t, engine.InsertRows(ref, []storage.Row{{"idx": int64(1), "title": "Casablanca"}}))

	err = engine.InsertRows(ref, []storage.Row{{"idx": int64(2)}})
	require.Error(t, err)

	err = engine.InsertRows(ref, []storage.Row{{"idx": "NA", "title": "Seven Samurai"}})
	require.True(t, errors.Is(err, schema.ErrCast))

	err = engine.InsertRows(ref, []storage.Row{{"idx": int64(3), "title": "Parasite", "extra": true}})
	require.Error(t, err)

	_, rows, err := engine.Scan(ref)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestCreateTableAsWithoutDatabase(t *testing.T) {
	t.Parallel()
	ctx, engine := newTestEngine(t)

	ref := schema.TableRef{Catalog: catalog.LegacyCatalog, Database: "missing", Table: "t"}
	_, err := engine.CreateTableAs(ctx, "jane", ref, nil, nil, false)
	require.True(t, errors.Is(err, catalog.ErrNotFound))
}

func TestGrantsRequireGovernedCatalog(t *testing.T) {
	t.Parallel()
	ctx, engine := newTestEngine(t)

	require.NoError(t, engine.EnsureCatalog(ctx, "main", true))
	for _, cat := range []string{"main", catalog.LegacyCatalog} {
		_, err := engine.CreateDatabase(ctx, "jane", cat, "mydb")
		require.NoError(t, err)
		ref := schema.TableRef{Catalog: cat, Database: "mydb", Table: "movies"}
		_, err = engine.CreateTableAs(ctx, "jane", ref, nil, nil, false)
		require.NoError(t, err)
	}

	governed := TableSecurable(schema.TableRef{Catalog: "main", Database: "mydb", Table: "movies"})
	legacy := TableSecurable(schema.TableRef{Catalog: catalog.LegacyCatalog, Database: "mydb", Table: "movies"})

	// Fresh governed table: no grants, no error.
	list, err := engine.ShowGrants(governed)
	require.NoError(t, err)
	require.Empty(t, list)

	require.NoError(t, engine.Grant(ctx, "jane", governed, grants.Select, "analysts"))
	list, err = engine.ShowGrants(governed)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "analysts", list[0].Principal)

	// The legacy catalog rejects both reads and writes of grants.
	err = engine.Grant(ctx, "jane", legacy, grants.Select, "analysts")
	require.True(t, errors.Is(err, grants.ErrNotGovernable))
	_, err = engine.ShowGrants(legacy)
	require.True(t, errors.Is(err, grants.ErrNotGovernable))

	// A securable must exist before governance is even considered.
	missing := TableSecurable(schema.TableRef{Catalog: "main", Database: "mydb", Table: "nope"})
	_, err = engine.ShowGrants(missing)
	require.True(t, errors.Is(err, catalog.ErrNotFound))
}

func TestDropDatabaseCascadeRemovesRowsAndGrants(t *testing.T) {
	t.Parallel()
	ctx, engine := newTestEngine(t)

	require.NoError(t, engine.EnsureCatalog(ctx, "main", true))
	_, err := engine.CreateDatabase(ctx, "jane", "main", "mydb")
	require.NoError(t, err)

	ref := schema.TableRef{Catalog: "main", Database: "mydb", Table: "movies"}
	columns := []schema.Column{{Name: "title", Type: schema.TypeText}}
	_, err = engine.CreateTableAs(ctx, "jane", ref, columns,
		[]storage.Row{{"title": "Casablanca"}}, false)
	require.NoError(t, err)
	require.NoError(t, engine.Grant(ctx, "jane", TableSecurable(ref), grants.Select, "analysts"))
	require.NoError(t, engine.Grant(ctx, "jane", DatabaseSecurable("main", "mydb"), grants.Usage, "analysts"))

	dropped, err := engine.DropDatabaseCascade(ctx, "jane", "main", "mydb")
	require.NoError(t, err)
	require.True(t, dropped)
	require.False(t, engine.DatabaseExists("main", "mydb"))

	// Recreating the same names must come up empty: no leftover rows, no
	// leftover grants.
	_, err = engine.CreateDatabase(ctx, "jane", "main", "mydb")
	require.NoError(t, err)
	_, err = engine.CreateTableAs(ctx, "jane", ref, columns, nil, false)
	require.NoError(t, err)

	_, rows, err := engine.Scan(ref)
	require.NoError(t, err)
	require.Empty(t, rows)
	list, err := engine.ShowGrants(TableSecurable(ref))
	require.NoError(t, err)
	require.Empty(t, list)
	list, err = engine.ShowGrants(DatabaseSecurable("main", "mydb"))
	require.NoError(t, err)
	require.Empty(t, list)

	// Dropping a database that is gone again reports false, not an error.
	dropped, err = engine.DropDatabaseCascade(ctx, "jane", "main", "nope")
	require.NoError(t, err)
	require.False(t, dropped)
}

func TestConcurrentCtasAndDropNeverOrphanRows(t *testing.T) {
	t.Parallel()
	ctx, engine := newTestEngine(t)

	require.NoError(t, engine.EnsureCatalog(ctx, "main", true))
	ref := schema.TableRef{Catalog: "main", Database: "mydb", Table: "movies"}
	columns := []schema.Column{{Name: "title", Type: schema.TypeText}}
	rows := []storage.Row{{"title": "Casablanca"}}

	for i := 0; i < 50; i++ {
		_, err := engine.CreateDatabase(ctx, "jane", "main", "mydb")
		require.NoError(t, err)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = engine.CreateTableAs(ctx, "jane", ref, columns, rows, true)
		}()
		go func() {
			defer wg.Done()
			_, _ = engine.DropDatabaseCascade(ctx, "jane", "main", "mydb")
		}()
		wg.Wait()

		// A CTAS registers the table and then writes its row file. Whatever
		// order the two operations land in, a table absent from the catalog
		// must not leave a row file behind.
		if !engine.DatabaseExists("main", "mydb") {
			got, err := engine.rows.ReadAll(ref.String())
			require.NoError(t, err)
			require.Empty(t, got, "iteration %d left orphaned rows", i)
		}

		_, err = engine.DropDatabaseCascade(ctx, "jane", "main", "mydb")
		require.NoError(t, err)
	}
}
