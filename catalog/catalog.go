package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"

	"catmigrate/schema"
)

// LegacyCatalog is the built-in catalog without fine-grained access control.
// It always exists; the migration walkthrough moves tables out of it.
const LegacyCatalog = "hive_metastore"

// ErrNotFound is returned when a catalog, database or table does not resolve.
var ErrNotFound = errors.New("not found")

// ErrExists is returned when creating a table that already exists without
// OR REPLACE.
var ErrExists = errors.New("already exists")

// Database is a named container for tables within a catalog.
type Database struct {
	Name   string                   `json:"name"`
	Tables map[string]*schema.Table `json:"tables"`
}

// Catalog is a top-level namespace grouping databases. Governed catalogs
// support fine-grained grants; the legacy catalog does not.
type Catalog struct {
	Name      string               `json:"name"`
	Governed  bool                 `json:"governed"`
	Databases map[string]*Database `json:"databases"`
}

// Store manages the catalog tree and persists it to disk.
type Store struct {
	mu       sync.RWMutex
	catalogs map[string]*Catalog
	dataDir  string
}

// New creates a store rooted at dataDir, loading any persisted state. The
// legacy catalog is created if absent.
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, errors.Wrap(err, "creating data directory")
	}

	s := &Store{
		catalogs: make(map[string]*Catalog),
		dataDir:  dataDir,
	}
	if err := s.load(); err != nil {
		return nil, err
	}

	if _, ok := s.catalogs[LegacyCatalog]; !ok {
		s.catalogs[LegacyCatalog] = &Catalog{
			Name:      LegacyCatalog,
			Governed:  false,
			Databases: make(map[string]*Database),
		}
		if err := s.save(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) metastoreFile() string {
	return filepath.Join(s.dataDir, "_metastore.json")
}

// load loads the catalog tree from disk
func (s *Store) load() error {
	data, err := os.ReadFile(s.metastoreFile())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "reading metastore file")
	}
	if err := json.Unmarshal(data, &s.catalogs); err != nil {
		return errors.Wrap(err, "decoding metastore file")
	}
	return nil
}

// save saves the catalog tree to disk
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.catalogs, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding metastore")
	}
	return os.WriteFile(s.metastoreFile(), data, 0644)
}

// EnsureCatalog creates a catalog if absent. Re-ensuring an existing catalog
// is a no-op and does not change its governance mode.
func (s *Store) EnsureCatalog(name string, governed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.catalogs[name]; ok {
		return nil
	}
	s.catalogs[name] = &Catalog{
		Name:      name,
		Governed:  governed,
		Databases: make(map[string]*Database),
	}
	return s.save()
}

// Catalogs returns the names of all catalogs, sorted.
func (s *Store) Catalogs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.catalogs))
	for name := range s.catalogs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Governed reports whether a catalog supports fine-grained grants.
func (s *Store) Governed(catalogName string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cat, ok := s.catalogs[catalogName]
	if !ok {
		return false, errors.Wrapf(ErrNotFound, "catalog %q", catalogName)
	}
	return cat.Governed, nil
}

// CatalogExists checks if a catalog exists.
func (s *Store) CatalogExists(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.catalogs[name]
	return ok
}

// CreateDatabase creates a database inside a catalog. It is idempotent:
// creating an existing database reports created=false without error and
// leaves its contents untouched.
func (s *Store) CreateDatabase(catalogName, dbName string) (created bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat, ok := s.catalogs[catalogName]
	if !ok {
		return false, errors.Wrapf(ErrNotFound, "catalog %q", catalogName)
	}
	if _, ok := cat.Databases[dbName]; ok {
		return false, nil
	}
	cat.Databases[dbName] = &Database{
		Name:   dbName,
		Tables: make(map[string]*schema.Table),
	}
	return true, s.save()
}

// DropDatabase removes a database and returns the refs of the tables it
// contained so callers can drop their stored rows. Dropping an absent
// database reports dropped=false without error.
func (s *Store) DropDatabase(catalogName, dbName string) (dropped bool, tables []schema.TableRef, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat, ok := s.catalogs[catalogName]
	if !ok {
		return false, nil, errors.Wrapf(ErrNotFound, "catalog %q", catalogName)
	}
	db, ok := cat.Databases[dbName]
	if !ok {
		return false, nil, nil
	}
	for name := range db.Tables {
		tables = append(tables, schema.TableRef{
			Catalog:  catalogName,
			Database: dbName,
			Table:    name,
		})
	}
	delete(cat.Databases, dbName)
	return true, tables, s.save()
}

// Databases returns the database names in a catalog, sorted.
func (s *Store) Databases(catalogName string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cat, ok := s.catalogs[catalogName]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "catalog %q", catalogName)
	}
	names := make([]string, 0, len(cat.Databases))
	for name := range cat.Databases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// TableNames returns the table names in a database, sorted.
func (s *Store) TableNames(catalogName, dbName string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	db, err := s.databaseLocked(catalogName, dbName)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(db.Tables))
	for name := range db.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// DatabaseExists checks if a database exists in a catalog.
func (s *Store) DatabaseExists(catalogName, dbName string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cat, ok := s.catalogs[catalogName]
	if !ok {
		return false
	}
	_, ok = cat.Databases[dbName]
	return ok
}

// CreateTable registers a table under a fully qualified reference. Without
// orReplace, an existing table of the same name is an error; with it, the
// old definition is replaced and replaced=true is reported.
func (s *Store) CreateTable(ref schema.TableRef, columns []schema.Column, orReplace bool) (replaced bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.databaseLocked(ref.Catalog, ref.Database)
	if err != nil {
		return false, err
	}
	if _, ok := db.Tables[ref.Table]; ok {
		if !orReplace {
			return false, errors.Wrapf(ErrExists, "table %q", ref.String())
		}
		replaced = true
	}
	db.Tables[ref.Table] = &schema.Table{
		Name:    ref.Table,
		Columns: columns,
	}
	return replaced, s.save()
}

// Table resolves a fully qualified table reference to its schema.
func (s *Store) Table(ref schema.TableRef) (*schema.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	db, err := s.databaseLocked(ref.Catalog, ref.Database)
	if err != nil {
		return nil, err
	}
	table, ok := db.Tables[ref.Table]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "table %q", ref.String())
	}
	return table, nil
}

// TableExists checks if a table exists.
func (s *Store) TableExists(ref schema.TableRef) bool {
	_, err := s.Table(ref)
	return err == nil
}

func (s *Store) databaseLocked(catalogName, dbName string) (*Database, error) {
	cat, ok := s.catalogs[catalogName]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "catalog %q", catalogName)
	}
	db, ok := cat.Databases[dbName]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "database %s.%s", catalogName, dbName)
	}
	return db, nil
}
