package source

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DimensionStore persists probed headers across processes.
type DimensionStore interface {
	Get(path string, size, mod int64) (Dimensions, bool)
	Put(path string, size, mod int64, d Dimensions) error
}

// DiskCache is a DimensionStore backed by a SQLite file. Rows are keyed by
// path; a row whose size or modification time differs is a miss.
type DiskCache struct {
	db *sql.DB
}

// OpenDiskCache opens or creates the cache at path.
func OpenDiskCache(path string) (*DiskCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open probe cache %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	// MEMORY journal: the database file is the only file on disk, so a
	// watcher ignoring it sees no side files.
	for _, stmt := range []string{
		"PRAGMA journal_mode=MEMORY",
		"PRAGMA synchronous=NORMAL",
		`CREATE TABLE IF NOT EXISTS dimensions (
			path   TEXT PRIMARY KEY,
			size   INTEGER NOT NULL,
			mtime  INTEGER NOT NULL,
			width  INTEGER NOT NULL,
			height INTEGER NOT NULL
		)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init probe cache %s: %w", path, err)
		}
	}
	return &DiskCache{db: db}, nil
}

func (c *DiskCache) Get(path string, size, mod int64) (Dimensions, bool) {
	var d Dimensions
	err := c.db.QueryRow(
		"SELECT width, height FROM dimensions WHERE path = ? AND size = ? AND mtime = ?",
		path, size, mod,
	).Scan(&d.Width, &d.Height)
	if err != nil {
		return Dimensions{}, false
	}
	return d, true
}

func (c *DiskCache) Put(path string, size, mod int64, d Dimensions) error {
	_, err := c.db.Exec(
		`INSERT INTO dimensions (path, size, mtime, width, height) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET size = excluded.size, mtime = excluded.mtime,
			width = excluded.width, height = excluded.height`,
		path, size, mod, d.Width, d.Height,
	)
	return err
}

// Len returns the number of cached rows.
func (c *DiskCache) Len() (int, error) {
	var n int
	err := c.db.QueryRow("SELECT count(*) FROM dimensions").Scan(&n)
	return n, err
}

func (c *DiskCache) Close() error { return c.db.Close() }
