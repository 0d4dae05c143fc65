package classroom

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"catmigrate/catalog"
	"catmigrate/ctxlog"
	"catmigrate/database"
)

func newTestEngine(t *testing.T) (context.Context, *database.Engine) {
	t.Helper()

	ctx := ctxlog.WithLogger(context.Background(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	engine, err := database.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })
	return ctx, engine
}

func TestDatabaseNaming(t *testing.T) {
	t.Parallel()
	_, engine := newTestEngine(t)

	h := New(engine, "jane.doe@example.com", "main", "")
	require.Equal(t, "classroom_jane_doe_example_com_table_migration", h.DBName())
	require.Equal(t, h.DBName(), h.DBPrefix())

	// A lesson scopes the name further but keeps the cleanup prefix.
	h = New(engine, "jane.doe@example.com", "main", "Migrate")
	require.Equal(t, "classroom_jane_doe_example_com_table_migration_migrate", h.DBName())
	require.Equal(t, "classroom_jane_doe_example_com_table_migration", h.DBPrefix())
}

func TestSetupProvisionsBothCatalogs(t *testing.T) {
	t.Parallel()
	ctx, engine := newTestEngine(t)

	h := New(engine, "jane@example.com", "main", "")
	cfg, err := h.Setup(ctx)
	require.NoError(t, err)
	require.Equal(t, "main", cfg.Catalog)
	require.Equal(t, h.DBName(), cfg.DBName)

	require.True(t, engine.DatabaseExists("main", cfg.DBName))
	require.True(t, engine.DatabaseExists(catalog.LegacyCatalog, cfg.DBName))

	table, rows, err := engine.Scan(cfg.SourceTable)
	require.NoError(t, err)
	require.Len(t, table.Columns, 5)
	require.Len(t, rows, 12)
	require.Equal(t, "NA", rows[3]["budget"])
}

func TestSetupIsRerunnable(t *testing.T) {
	t.Parallel()
	ctx, engine := newTestEngine(t)

	h := New(engine, "jane@example.com", "main", "")
	_, err := h.Setup(ctx)
	require.NoError(t, err)
	cfg, err := h.Setup(ctx)
	require.NoError(t, err)

	// Re-running reseeds rather than duplicating rows.
	_, rows, err := engine.Scan(cfg.SourceTable)
	require.NoError(t, err)
	require.Len(t, rows, 12)
}

func TestCleanupDropsOnlyOwnDatabases(t *testing.T) {
	t.Parallel()
	ctx, engine := newTestEngine(t)

	jane := New(engine, "jane@example.com", "main", "")
	bob := New(engine, "bob@example.com", "main", "")
	require.NotEqual(t, jane.DBName(), bob.DBName())

	_, err := jane.Setup(ctx)
	require.NoError(t, err)
	_, err = bob.Setup(ctx)
	require.NoError(t, err)

	// An unrelated database must survive cleanup.
	_, err = engine.CreateDatabase(ctx, "admin", catalog.LegacyCatalog, "unrelated")
	require.NoError(t, err)

	require.NoError(t, jane.Cleanup(ctx))

	require.False(t, engine.DatabaseExists("main", jane.DBName()))
	require.False(t, engine.DatabaseExists(catalog.LegacyCatalog, jane.DBName()))
	require.True(t, engine.DatabaseExists("main", bob.DBName()))
	require.True(t, engine.DatabaseExists(catalog.LegacyCatalog, bob.DBName()))
	require.True(t, engine.DatabaseExists(catalog.LegacyCatalog, "unrelated"))

	// Cleanup with nothing to do is a no-op.
	require.NoError(t, jane.Cleanup(ctx))
}

func TestCleanupRemovesLessonDatabases(t *testing.T) {
	t.Parallel()
	ctx, engine := newTestEngine(t)

	lesson := New(engine, "jane@example.com", "main", "migrate")
	_, err := lesson.Setup(ctx)
	require.NoError(t, err)

	// Cleanup matches on the prefix, so a helper without a lesson still
	// removes lesson-scoped databases for the same user and course.
	plain := New(engine, "jane@example.com", "main", "")
	require.NoError(t, plain.Cleanup(ctx))
	require.False(t, engine.DatabaseExists("main", lesson.DBName()))
}
