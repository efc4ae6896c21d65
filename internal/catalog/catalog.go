package catalog

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// SeedCategory is one category entry in a seed catalog file.
type SeedCategory struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// SeedProduct is one product entry in a seed catalog file. CategorySlug
// references a category from the same file.
type SeedProduct struct {
	Name         string          `json:"name"`
	Slug         string          `json:"slug"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	ImageURL     string          `json:"imageUrl"`
	Stock        int             `json:"stock"`
	CategorySlug string          `json:"categorySlug"`
}

// SeedCatalog is the parsed contents of a catalog seed file.
type SeedCatalog struct {
	Categories []SeedCategory `json:"categories"`
	Products   []SeedProduct  `json:"products"`
}

// Validate checks referential integrity and value constraints before any row
// touches the database.
func (c *SeedCatalog) Validate() error {
	if len(c.Categories) == 0 {
		return fmt.Errorf("catalog has no categories")
	}

	slugs := make(map[string]bool, len(c.Categories))
	for i, cat := range c.Categories {
		if cat.Name == "" || cat.Slug == "" {
			return fmt.Errorf("category %d: name and slug are required", i)
		}
		if slugs[cat.Slug] {
			return fmt.Errorf("duplicate category slug: %s", cat.Slug)
		}
		slugs[cat.Slug] = true
	}

	productSlugs := make(map[string]bool, len(c.Products))
	for i, p := range c.Products {
		if p.Name == "" || p.Slug == "" {
			return fmt.Errorf("product %d: name and slug are required", i)
		}
		if productSlugs[p.Slug] {
			return fmt.Errorf("duplicate product slug: %s", p.Slug)
		}
		productSlugs[p.Slug] = true
		if p.Price.IsNegative() {
			return fmt.Errorf("product %s: price must not be negative", p.Slug)
		}
		if p.Stock < 0 {
			return fmt.Errorf("product %s: stock must not be negative", p.Slug)
		}
		if !slugs[p.CategorySlug] {
			return fmt.Errorf("product %s: unknown category slug %s", p.Slug, p.CategorySlug)
		}
	}

	return nil
}

// Loader defines the interface for loading catalog seed files.
type Loader interface {
	// Load reads a JSON catalog file and returns the parsed catalog.
	Load(ctx context.Context, source string) (*SeedCatalog, error)
}
