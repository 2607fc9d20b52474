package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/brand-insights/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS sites (
	id         TEXT PRIMARY KEY,
	site_url   TEXT NOT NULL UNIQUE,
	domain     TEXT NOT NULL,
	context    TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS products (
	id      TEXT PRIMARY KEY,
	site_id TEXT NOT NULL REFERENCES sites(id),
	title   TEXT NOT NULL,
	url     TEXT,
	price   REAL,
	data    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sites_domain ON sites(domain);
CREATE INDEX IF NOT EXISTS idx_products_site_id ON products(site_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveBrandContext(ctx context.Context, bc *model.BrandContext) error {
	contextJSON, err := json.Marshal(bc)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal context")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO sites (id, site_url, domain, context, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(site_url) DO UPDATE SET
		   domain = excluded.domain, context = excluded.context, updated_at = excluded.updated_at`,
		uuid.New().String(), bc.SiteURL, bc.Domain, string(contextJSON), now, now,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: upsert site %s", bc.SiteURL)
	}

	var siteID string
	if err := tx.QueryRowContext(ctx,
		`SELECT id FROM sites WHERE site_url = ?`, bc.SiteURL,
	).Scan(&siteID); err != nil {
		return eris.Wrap(err, "sqlite: site id")
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE site_id = ?`, siteID); err != nil {
		return eris.Wrap(err, "sqlite: clear products")
	}

	for _, p := range cappedProducts(bc) {
		productJSON, err := json.Marshal(p)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal product")
		}
		var price any
		if p.Price != nil {
			price = *p.Price
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO products (id, site_id, title, url, price, data) VALUES (?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), siteID, p.Title, p.URL, price, string(productJSON),
		); err != nil {
			return eris.Wrapf(err, "sqlite: insert product %s", p.Title)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit")
}

func (s *SQLiteStore) GetBrandContext(ctx context.Context, siteURL string) (*model.BrandContext, error) {
	var contextJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT context FROM sites WHERE site_url = ?`, siteURL,
	).Scan(&contextJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get site %s", siteURL)
	}

	var bc model.BrandContext
	if err := json.Unmarshal([]byte(contextJSON), &bc); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal context")
	}
	return &bc, nil
}
