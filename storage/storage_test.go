package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(t.TempDir())
	require.NoError(t, err)

	rows := []Row{
		{"idx": "1", "title": "Casablanca"},
		{"idx": "2", "title": "Parasite"},
	}
	require.NoError(t, engine.WriteAll("hive_metastore.mydb.movies", rows))

	got, err := engine.ReadAll("hive_metastore.mydb.movies")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "Casablanca", got[0]["title"])
}

func TestWriteAllReplaces(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, engine.WriteAll("k", []Row{{"idx": "1"}, {"idx": "2"}, {"idx": "3"}}))
	require.NoError(t, engine.WriteAll("k", []Row{{"idx": "9"}}))

	got, err := engine.ReadAll("k")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "9", got[0]["idx"])
}

func TestAppend(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, engine.WriteAll("k", nil))
	require.NoError(t, engine.Append("k", Row{"idx": "1"}, Row{"idx": "2"}))
	require.NoError(t, engine.Append("k", Row{"idx": "3"}))

	got, err := engine.ReadAll("k")
	require.NoError(t, err)
	require.Len(t, got, 3)
}

func TestMissingTableReadsEmpty(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(t.TempDir())
	require.NoError(t, err)

	got, err := engine.ReadAll("never.created")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestDrop(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, engine.WriteAll("k", []Row{{"idx": "1"}}))
	require.NoError(t, engine.Drop("k"))

	got, err := engine.ReadAll("k")
	require.NoError(t, err)
	require.Empty(t, got)

	// Dropping an absent table is a no-op.
	require.NoError(t, engine.Drop("k"))
}
