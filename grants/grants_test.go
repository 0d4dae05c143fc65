package grants

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddAndList(t *testing.T) {
	t.Parallel()

	r, err := NewRegistry(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, r.Add("table:main.mydb.movies", "analysts", Select))
	require.NoError(t, r.Add("table:main.mydb.movies", "analysts", Modify))
	require.NoError(t, r.Add("table:main.mydb.movies", "admins", AllPrivileges))

	// Duplicate grants are no-ops.
	require.NoError(t, r.Add("table:main.mydb.movies", "analysts", Select))

	got := r.List("table:main.mydb.movies")
	require.Len(t, got, 3)
	require.Equal(t, "admins", got[0].Principal)
	require.Equal(t, AllPrivileges, got[0].Privilege)
	require.Equal(t, Modify, got[1].Privilege)
	require.Equal(t, Select, got[2].Privilege)
}

func TestListEmptyObject(t *testing.T) {
	t.Parallel()

	r, err := NewRegistry(t.TempDir())
	require.NoError(t, err)
	require.Empty(t, r.List("table:main.mydb.fresh"))
}

func TestDropObjectCascades(t *testing.T) {
	t.Parallel()

	r, err := NewRegistry(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, r.Add("database:main.mydb", "analysts", Usage))
	require.NoError(t, r.Add("table:main.mydb.movies", "analysts", Select))
	require.NoError(t, r.Add("table:main.otherdb.movies", "analysts", Select))

	require.NoError(t, r.DropObject("database:main.mydb"))
	require.NoError(t, r.DropObject("table:main.mydb"))

	require.Empty(t, r.List("database:main.mydb"))
	require.Empty(t, r.List("table:main.mydb.movies"))
	require.Len(t, r.List("table:main.otherdb.movies"), 1)
}

func TestPersistence(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	r, err := NewRegistry(dir)
	require.NoError(t, err)
	require.NoError(t, r.Add("table:main.mydb.movies", "analysts", Select))

	reopened, err := NewRegistry(dir)
	require.NoError(t, err)
	require.Len(t, reopened.List("table:main.mydb.movies"), 1)
}

func TestParsePrivilege(t *testing.T) {
	t.Parallel()

	p, err := ParsePrivilege("select")
	require.NoError(t, err)
	require.Equal(t, Select, p)

	p, err = ParsePrivilege("all  privileges")
	require.NoError(t, err)
	require.Equal(t, AllPrivileges, p)

	_, err = ParsePrivilege("OWNERSHIP")
	require.Error(t, err)
}
