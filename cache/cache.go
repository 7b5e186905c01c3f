/*
Package cache stores converted bitmaps in a SQLite database so the same
source image converted with the same options is only processed once.

Entries are keyed on the SHA-1 of the source bytes and a string describing
the conversion options.
*/
package cache

import (
	"crypto/sha1"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // register sqlite3 driver
)

// Entry is a cached conversion result
type Entry struct {
	Width  int
	Height int
	Colors int
	Bitmap []byte
}

// Cache is a SQLite backed conversion cache
type Cache struct {
	db *sql.DB
}

// New opens or creates the cache database in file
func New(file string) (*Cache, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS source (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS bitmap (source_id INTEGER NOT NULL, options TEXT NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, colors INTEGER NOT NULL, data BLOB NOT NULL, UNIQUE(source_id, options), FOREIGN KEY(source_id) REFERENCES source(id))"); err != nil {
		db.Close()
		return nil, err
	}

	return &Cache{
		db: db,
	}, nil
}

// Close closes the underlying database
func (c *Cache) Close() error {
	return c.db.Close()
}

// Key returns the hash used to identify a source image
func Key(data []byte) string {
	return fmt.Sprintf("%X", sha1.Sum(data))
}

func (c *Cache) addSource(sha string) (int64, error) {
	var id int64
	switch err := c.db.QueryRow("SELECT id FROM source WHERE sha1 = ?", sha).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := c.db.Exec("INSERT INTO source (sha1) VALUES (?)", sha)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

// Put stores e for the source hash and options, replacing any existing entry
func (c *Cache) Put(sha, options string, e *Entry) error {
	id, err := c.addSource(sha)
	if err != nil {
		return err
	}

	if _, err := c.db.Exec("INSERT OR REPLACE INTO bitmap (source_id, options, width, height, colors, data) VALUES (?, ?, ?, ?, ?, ?)", id, options, e.Width, e.Height, e.Colors, e.Bitmap); err != nil {
		return err
	}
	return nil
}

// Get returns the entry for the source hash and options, or nil if there
// isn't one
func (c *Cache) Get(sha, options string) (*Entry, error) {
	var e Entry
	switch err := c.db.QueryRow("SELECT b.width, b.height, b.colors, b.data FROM source AS s JOIN bitmap AS b ON b.source_id = s.id WHERE s.sha1 = ? AND b.options = ?", sha, options).Scan(&e.Width, &e.Height, &e.Colors, &e.Bitmap); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return &e, nil
	default:
		return nil, err
	}
}

// Len returns the number of cached bitmaps
func (c *Cache) Len() (int, error) {
	var n int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM bitmap").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Purge removes every cached entry
func (c *Cache) Purge() error {
	if _, err := c.db.Exec("DELETE FROM bitmap"); err != nil {
		return err
	}

	if _, err := c.db.Exec("DELETE FROM source"); err != nil {
		return err
	}

	return nil
}
