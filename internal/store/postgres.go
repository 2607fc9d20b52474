package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/brand-insights/internal/model"
)

// Pool is the slice of pgxpool.Pool the store uses; pgxmock satisfies it too.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS sites (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	site_url   TEXT NOT NULL UNIQUE,
	domain     TEXT NOT NULL,
	context    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS products (
	id      TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	site_id TEXT NOT NULL REFERENCES sites(id),
	title   TEXT NOT NULL,
	url     TEXT,
	price   DOUBLE PRECISION,
	data    JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sites_domain ON sites(domain);
CREATE INDEX IF NOT EXISTS idx_products_site_id ON products(site_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveBrandContext(ctx context.Context, bc *model.BrandContext) error {
	contextJSON, err := json.Marshal(bc)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal context")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin")
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO sites (id, site_url, domain, context, updated_at)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (site_url) DO UPDATE SET
		   domain = excluded.domain, context = excluded.context, updated_at = now()`,
		uuid.New().String(), bc.SiteURL, bc.Domain, string(contextJSON),
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: upsert site %s", bc.SiteURL)
	}

	var siteID string
	if err := tx.QueryRow(ctx,
		`SELECT id FROM sites WHERE site_url = $1`, bc.SiteURL,
	).Scan(&siteID); err != nil {
		return eris.Wrap(err, "postgres: site id")
	}

	if _, err := tx.Exec(ctx, `DELETE FROM products WHERE site_id = $1`, siteID); err != nil {
		return eris.Wrap(err, "postgres: clear products")
	}

	for _, p := range cappedProducts(bc) {
		productJSON, err := json.Marshal(p)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal product")
		}
		var price any
		if p.Price != nil {
			price = *p.Price
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO products (id, site_id, title, url, price, data) VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New().String(), siteID, p.Title, p.URL, price, string(productJSON),
		); err != nil {
			return eris.Wrapf(err, "postgres: insert product %s", p.Title)
		}
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit")
}

func (s *PostgresStore) GetBrandContext(ctx context.Context, siteURL string) (*model.BrandContext, error) {
	var contextJSON string
	err := s.pool.QueryRow(ctx,
		`SELECT context FROM sites WHERE site_url = $1`, siteURL,
	).Scan(&contextJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get site %s", siteURL)
	}

	var bc model.BrandContext
	if err := json.Unmarshal([]byte(contextJSON), &bc); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal context")
	}
	return &bc, nil
}
