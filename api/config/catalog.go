package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalog describes the single product offered at checkout and how its
// prices are ordered for display.
type Catalog struct {
	ProductID string `yaml:"product_id"`
	// PriceOrder lists price ids in display order; unlisted prices sort by interval count.
	PriceOrder    []string `yaml:"price_order"`
	FallbackImage string   `yaml:"fallback_image"`
}

// DefaultCatalog is the tirzepatide program sold by the intake funnel.
func DefaultCatalog() Catalog {
	return Catalog{
		ProductID: "prod_Tlz6Xoylok5j7H",
		PriceOrder: []string{
			"price_1SoR8eDQIH4O9FhrvfFwzZgX", // monthly
			"price_1SoRAGDQIH4O9Fhr1FF5EPtD", // 3 months
			"price_1SoRASDQIH4O9FhrHyAhVxMf", // 6 months
		},
		FallbackImage: "https://static.wixstatic.com/media/c49a9b_b87d0b24fd2c46a4817d308db9b8122c~mv2.webp",
	}
}

// LoadCatalog returns DefaultCatalog overlaid with the YAML file at path.
// An empty path returns the defaults unchanged.
func LoadCatalog(path string) (Catalog, error) {
	cat := DefaultCatalog()
	if path == "" {
		return cat, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog file: %w", err)
	}
	var file Catalog
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog file %s: %w", path, err)
	}
	if file.ProductID != "" {
		cat.ProductID = file.ProductID
	}
	if file.PriceOrder != nil {
		cat.PriceOrder = file.PriceOrder
	}
	if file.FallbackImage != "" {
		cat.FallbackImage = file.FallbackImage
	}
	return cat, nil
}
