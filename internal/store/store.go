// Package store persists extracted brand contexts. Each site is a single
// upserted row keyed by URL; its product rows are replaced wholesale on
// every save.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/brand-insights/internal/config"
	"github.com/sells-group/brand-insights/internal/model"
)

// maxProductRows caps how many product rows one save writes. The full
// catalog always survives inside the site's context document.
const maxProductRows = 1000

// Store defines the persistence interface for extraction results.
type Store interface {
	SaveBrandContext(ctx context.Context, bc *model.BrandContext) error
	GetBrandContext(ctx context.Context, siteURL string) (*model.BrandContext, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a Store for the configured driver and runs migrations.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Driver {
	case "sqlite":
		s, err = NewSQLite(cfg.DatabaseURL)
	case "postgres":
		s, err = NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func cappedProducts(bc *model.BrandContext) []model.Product {
	products := bc.Products
	if len(products) > maxProductRows {
		products = products[:maxProductRows]
	}
	return products
}
