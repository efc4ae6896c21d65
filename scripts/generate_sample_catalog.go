package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// generateSampleCatalog writes a small catalog.json for local development:
// three categories and four products matching the demo storefront.
func main() {
	outputDir := "."
	if len(os.Args) > 1 {
		outputDir = os.Args[1]
	}

	catalog := map[string]any{
		"categories": []map[string]any{
			{"name": "Electronics", "slug": "electronics"},
			{"name": "Books", "slug": "books"},
			{"name": "Fashion", "slug": "fashion"},
		},
		"products": []map[string]any{
			{
				"name":         "Wireless Headphones",
				"slug":         "wireless-headphones",
				"description":  "Comfortable over-ear wireless headphones with noise cancelling.",
				"price":        "99.99",
				"imageUrl":     "/images/wireless-headphones.svg",
				"stock":        50,
				"categorySlug": "electronics",
			},
			{
				"name":         "Smartphone Case",
				"slug":         "smartphone-case",
				"description":  "Durable protective case for your smartphone.",
				"price":        "19.99",
				"imageUrl":     "/images/smartphone-case.svg",
				"stock":        200,
				"categorySlug": "electronics",
			},
			{
				"name":         "Novel: The Journey",
				"slug":         "novel-the-journey",
				"description":  "An inspiring adventure story.",
				"price":        "12.50",
				"imageUrl":     "/images/novel-the-journey.svg",
				"stock":        100,
				"categorySlug": "books",
			},
			{
				"name":         "T-Shirt",
				"slug":         "t-shirt",
				"description":  "Comfortable cotton t-shirt.",
				"price":        "15.00",
				"imageUrl":     "/images/t-shirt.svg",
				"stock":        150,
				"categorySlug": "fashion",
			},
		},
	}

	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		log.Fatalf("failed to marshal catalog: %v", err)
	}

	path := filepath.Join(outputDir, "catalog.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatalf("failed to write %s: %v", path, err)
	}

	fmt.Printf("wrote %s\n", path)
}
