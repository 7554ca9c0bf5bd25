// Package postercache keeps a small SQLite table of Letterboxd film slugs and
// the poster URLs they resolved to, so repeated grid builds do not hit the
// poster endpoint again.
//
// The cache is optional. Open creates the database and schema on first use;
// a schema version mismatch is reported as ErrSchemaMismatch and fixed by
// running `reeldiary cache clear` or deleting the file.
package postercache
