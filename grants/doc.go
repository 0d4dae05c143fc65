// Package grants records privileges granted to principals on securables.
//
// A securable is identified by a string key such as "table:main.db.movies"
// or "database:main.db". The registry itself knows nothing about catalogs;
// the database engine decides whether an object is governable before calling
// in, and returns ErrNotGovernable for objects in legacy catalogs.
package grants
