package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Seeder upserts a seed catalog into the products and categories tables.
// Existing rows are matched by slug so re-running the seeder is idempotent.
type Seeder struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewSeeder creates a new catalog seeder.
func NewSeeder(pool *pgxpool.Pool, logger zerolog.Logger) *Seeder {
	return &Seeder{
		pool:   pool,
		logger: logger.With().Str("component", "catalog-seeder").Logger(),
	}
}

// Seed writes the catalog in one transaction so a partially applied catalog
// is never visible.
func (s *Seeder) Seed(ctx context.Context, catalog *SeedCatalog) error {
	if err := catalog.Validate(); err != nil {
		return fmt.Errorf("invalid catalog: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	categoryQuery := `
		INSERT INTO categories (name, slug)
		VALUES ($1, $2)
		ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
	`
	for _, cat := range catalog.Categories {
		if _, err = tx.Exec(ctx, categoryQuery, cat.Name, cat.Slug); err != nil {
			s.logger.Error().Err(err).Str("slug", cat.Slug).Msg("failed to upsert category")
			return fmt.Errorf("failed to upsert category %s: %w", cat.Slug, err)
		}
	}

	productQuery := `
		INSERT INTO products (name, slug, description, price, image_url, stock, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, (SELECT id FROM categories WHERE slug = $7))
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			image_url = EXCLUDED.image_url,
			stock = EXCLUDED.stock,
			category_id = EXCLUDED.category_id
	`
	for _, p := range catalog.Products {
		_, err = tx.Exec(ctx, productQuery,
			p.Name, p.Slug, p.Description, p.Price, p.ImageURL, p.Stock, p.CategorySlug)
		if err != nil {
			s.logger.Error().Err(err).Str("slug", p.Slug).Msg("failed to upsert product")
			return fmt.Errorf("failed to upsert product %s: %w", p.Slug, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to commit transaction")
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}

	s.logger.Info().
		Int("categories", len(catalog.Categories)).
		Int("products", len(catalog.Products)).
		Msg("catalog seeded successfully")

	return nil
}
