// Package wslib implements the workspace search library of spec.md §6: a
// SQL-backed catalog recording every )SAVE'd workspace's id, file path,
// save timestamp and tool revision, plus the library search-path
// directories GOAPL_LIB_PATH lists. It generalises the teacher's
// DatabaseModule connection registry from one ad-hoc scan target into a
// small persistent schema with a driver picked by DSN scheme.
package wslib

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"goapl/internal/aplerr"
)

// Catalog is the open connection to the workspace catalog database.
type Catalog struct {
	db       *sql.DB
	postgres bool // Postgres uses $N placeholders, every other driver here uses ?
}

// Entry is one catalog row: a previously )SAVE'd workspace.
type Entry struct {
	WSID     string
	Path     string
	SavedAt  time.Time
	Revision string
}

// driverForDSN picks the database/sql driver registered above from the
// DSN's scheme, so a single catalog DSN can point at sqlite, Postgres,
// MySQL or SQL Server interchangeably.
func driverForDSN(dsn string) string {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "postgres"
	case strings.HasPrefix(dsn, "mysql://"):
		return "mysql"
	case strings.HasPrefix(dsn, "sqlserver://"):
		return "sqlserver"
	}
	return "sqlite3"
}

// Open connects to the catalog named by dsn and ensures its schema exists.
// An empty dsn opens an in-process sqlite catalog, the default for a
// single-user interpreter instance.
func Open(dsn string) (*Catalog, *aplerr.Error) {
	driver := "sqlite3"
	dial := dsn
	memory := dsn == ""
	if memory {
		dial = "file::memory:?cache=shared"
	} else {
		driver = driverForDSN(dsn)
		dial = strings.TrimPrefix(strings.TrimPrefix(dsn, "mysql://"), "sqlserver://")
	}
	db, err := sql.Open(driver, dial)
	if err != nil {
		return nil, aplerr.Wrap(aplerr.DOMAIN, err, "cannot open workspace catalog %s", dsn)
	}
	if memory {
		// a shared-cache :memory: sqlite db is only actually shared across
		// one connection; a pooled second connection sees an empty database.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, aplerr.Wrap(aplerr.DOMAIN, err, "cannot reach workspace catalog %s", dsn)
	}
	c := &Catalog{db: db, postgres: driver == "postgres"}
	if aerr := c.ensureSchema(); aerr != nil {
		db.Close()
		return nil, aerr
	}
	return c, nil
}

// ph renders the nth (1-based) bind placeholder for the open driver.
func (c *Catalog) ph(n int) string {
	if c.postgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (c *Catalog) ensureSchema() *aplerr.Error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS workspaces (
			wsid TEXT PRIMARY KEY,
			path TEXT NOT NULL,
			saved_at TEXT NOT NULL,
			revision TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS search_path (
			seq INTEGER PRIMARY KEY,
			dir TEXT NOT NULL UNIQUE
		)`,
	}
	for _, stmt := range stmts {
		if _, err := c.db.Exec(stmt); err != nil {
			return aplerr.Wrap(aplerr.DOMAIN, err, "cannot prepare workspace catalog schema")
		}
	}
	return nil
}

// RecordSave upserts the catalog row produced by a )SAVE of wsid.
func (c *Catalog) RecordSave(wsid, path, revision string, when time.Time) *aplerr.Error {
	if _, err := c.db.Exec(`DELETE FROM workspaces WHERE wsid = `+c.ph(1), wsid); err != nil {
		return aplerr.Wrap(aplerr.DOMAIN, err, "cannot record save of %s", wsid)
	}
	q := fmt.Sprintf(`INSERT INTO workspaces (wsid, path, saved_at, revision) VALUES (%s, %s, %s, %s)`,
		c.ph(1), c.ph(2), c.ph(3), c.ph(4))
	if _, err := c.db.Exec(q, wsid, path, when.UTC().Format(time.RFC3339), revision); err != nil {
		return aplerr.Wrap(aplerr.DOMAIN, err, "cannot record save of %s", wsid)
	}
	return nil
}

// Lookup returns the catalog entry for wsid, the `)LOAD wsid` path needs
// to resolve a bare name to a file.
func (c *Catalog) Lookup(wsid string) (*Entry, bool, *aplerr.Error) {
	row := c.db.QueryRow(
		`SELECT wsid, path, saved_at, revision FROM workspaces WHERE wsid = `+c.ph(1), wsid)
	var e Entry
	var saved string
	if err := row.Scan(&e.WSID, &e.Path, &saved, &e.Revision); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, aplerr.Wrap(aplerr.DOMAIN, err, "cannot look up workspace %s", wsid)
	}
	if t, perr := time.Parse(time.RFC3339, saved); perr == nil {
		e.SavedAt = t
	}
	return &e, true, nil
}

// List returns every catalogued workspace, most recently saved first.
func (c *Catalog) List() ([]Entry, *aplerr.Error) {
	rows, err := c.db.Query(`SELECT wsid, path, saved_at, revision FROM workspaces ORDER BY saved_at DESC`)
	if err != nil {
		return nil, aplerr.Wrap(aplerr.DOMAIN, err, "cannot list workspace catalog")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var saved string
		if err := rows.Scan(&e.WSID, &e.Path, &saved, &e.Revision); err != nil {
			return nil, aplerr.Wrap(aplerr.DOMAIN, err, "cannot read workspace catalog row")
		}
		if t, perr := time.Parse(time.RFC3339, saved); perr == nil {
			e.SavedAt = t
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// AddSearchDir appends dir to the library search path, ignoring a
// duplicate add (GOAPL_LIB_PATH entries are idempotent across restarts).
func (c *Catalog) AddSearchDir(dir string) *aplerr.Error {
	q := fmt.Sprintf(`INSERT INTO search_path (dir) VALUES (%s)`, c.ph(1))
	if _, err := c.db.Exec(q, dir); err != nil {
		if strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "duplicate") {
			return nil
		}
		return aplerr.Wrap(aplerr.DOMAIN, err, "cannot add search directory %s", dir)
	}
	return nil
}

// SearchPath returns the library search directories in the order they
// were added (spec.md §6's GOAPL_LIB_PATH list).
func (c *Catalog) SearchPath() ([]string, *aplerr.Error) {
	rows, err := c.db.Query(`SELECT dir FROM search_path ORDER BY seq ASC`)
	if err != nil {
		return nil, aplerr.Wrap(aplerr.DOMAIN, err, "cannot read search path")
	}
	defer rows.Close()

	var dirs []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, aplerr.Wrap(aplerr.DOMAIN, err, "cannot read search path row")
		}
		dirs = append(dirs, d)
	}
	return dirs, nil
}

// Close releases the catalog's underlying connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}
