// Package db opens the sqlite database and applies the embedded schema.
package db

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/xo/dburl"
)

//go:embed schema.sql
var schemaFS embed.FS

// OpenURL parses a database url like "sqlite3:news.sqlite3?_busy_timeout=10000"
// and opens it, see github.com/xo/dburl.
func OpenURL(rawURL string) (*sql.DB, error) {
	u, err := dburl.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if u.Driver != "sqlite3" {
		return nil, fmt.Errorf("unsupported database driver %q", u.Driver)
	}
	return Open(u.Driver, u.DSN)
}

// Open opens the database, pings it and migrates it to the current schema.
func Open(driver, dsn string) (*sql.DB, error) {
	if dir := filepath.Dir(dsnPath(dsn)); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}

func migrate(db *sql.DB) error {
	sqlBytes, err := fs.ReadFile(schemaFS, "schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(string(sqlBytes))
	return err
}

// dsnPath strips the "file:" prefix and the query string off a sqlite dsn.
func dsnPath(dsn string) string {
	if len(dsn) > 5 && dsn[:5] == "file:" {
		dsn = dsn[5:]
	}
	for i := 0; i < len(dsn); i++ {
		if dsn[i] == '?' {
			return dsn[:i]
		}
	}
	return dsn
}
