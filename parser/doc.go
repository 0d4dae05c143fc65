// Package parser provides SQL statement parsing for the statement surface
// the migration walkthrough uses.
//
// Each statement kind is recognized by prefix and parsed with its own
// regular expression, producing a typed Statement:
//   - CreateDatabase: CREATE DATABASE [IF NOT EXISTS] [catalog.]name
//   - DropDatabase:   DROP DATABASE [IF EXISTS] [catalog.]name [CASCADE]
//   - UseCatalog:     USE CATALOG name
//   - UseDatabase:    USE name
//   - ShowDatabases:  SHOW DATABASES
//   - CreateTableAs:  CREATE [OR REPLACE] TABLE name AS SELECT ...
//   - Select:         SELECT * | <projection> FROM ref
//   - Grant:          GRANT <privilege> ON [TABLE|DATABASE] ref TO principal
//   - ShowGrants:     SHOW GRANTS ON [TABLE|DATABASE] ref
//
// Projections support column references, string and numeric literals,
// CAST(expr AS TYPE), the single-branch CASE WHEN col = lit THEN expr ELSE
// expr END form, and AS aliases.
//
// Usage Example:
//
//	p := parser.New()
//	stmt, err := p.Parse("CREATE DATABASE IF NOT EXISTS mydb")
//	if err != nil {
//		return err
//	}
//	create := stmt.(*parser.CreateDatabase)
//
// The parser knows nothing about session context: partially qualified
// references come out partial and the executor resolves them.
package parser
