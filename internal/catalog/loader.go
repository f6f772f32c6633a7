package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/anshumaan69/tenderflow/internal/domain"
)

type fileFormat struct {
	Products []domain.CatalogProduct    `yaml:"products"`
	Services []domain.ServiceDefinition `yaml:"services"`
}

// LoadFile reads an inventory from a YAML file
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML inventory document
func Parse(data []byte) (*Catalog, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(f.Products) == 0 {
		return nil, fmt.Errorf("catalog has no products")
	}
	return New(f.Products, f.Services)
}

// Load returns the catalog at path, or the built-in one when path is empty
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}
