package storage

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Catalog is a SQLite index over saved runs, fast to query without scanning
// run directories. It is additive: the per-run files remain the source of
// truth and List falls back to a directory scan when no catalog exists.
type Catalog struct {
	path string

	mu sync.Mutex
	db *sql.DB
}

func NewCatalog(path string) *Catalog {
	return &Catalog{path: path}
}

func (c *Catalog) Init(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.path == "" {
		return errors.New("storage: catalog path is required")
	}
	if c.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", c.path)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id         TEXT PRIMARY KEY,
			sampler    TEXT NOT NULL,
			topology   TEXT NOT NULL,
			rows       INTEGER NOT NULL,
			cols       INTEGER NOT NULL,
			steps      INTEGER NOT NULL,
			seed       INTEGER NOT NULL,
			fixed_seed INTEGER NOT NULL,
			points     INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)
	`)
	if err != nil {
		_ = db.Close()
		return err
	}

	c.db = db
	return nil
}

func (c *Catalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

func (c *Catalog) getDB() (*sql.DB, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return nil, errors.New("storage: catalog not initialized")
	}
	return c.db, nil
}

// Record upserts one run into the catalog.
func (c *Catalog) Record(ctx context.Context, meta RunMetadata) error {
	db, err := c.getDB()
	if err != nil {
		return err
	}

	fixedSeed := 0
	if meta.FixedSeed {
		fixedSeed = 1
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, sampler, topology, rows, cols, steps, seed, fixed_seed, points, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			sampler = excluded.sampler,
			topology = excluded.topology,
			rows = excluded.rows,
			cols = excluded.cols,
			steps = excluded.steps,
			seed = excluded.seed,
			fixed_seed = excluded.fixed_seed,
			points = excluded.points,
			created_at = excluded.created_at
	`, meta.ID, meta.Sampler, meta.Topology, meta.Rows, meta.Cols, meta.Steps,
		meta.Seed, fixedSeed, meta.Points, meta.Timestamp.UTC().Format(time.RFC3339Nano))
	return err
}

// Runs returns the cataloged runs, newest first.
func (c *Catalog) Runs(ctx context.Context) ([]RunMetadata, error) {
	db, err := c.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, sampler, topology, rows, cols, steps, seed, fixed_seed, points, created_at
		FROM runs
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunMetadata
	for rows.Next() {
		var (
			meta      RunMetadata
			fixedSeed int
			createdAt string
		)
		if err := rows.Scan(&meta.ID, &meta.Sampler, &meta.Topology, &meta.Rows,
			&meta.Cols, &meta.Steps, &meta.Seed, &fixedSeed, &meta.Points, &createdAt); err != nil {
			return nil, err
		}
		meta.FixedSeed = fixedSeed != 0
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			meta.Timestamp = ts
		}
		runs = append(runs, meta)
	}
	return runs, rows.Err()
}
