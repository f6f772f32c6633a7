// Package catalog holds the fixed inventory of products and services that
// requirements are quoted against.
package catalog

import (
	"fmt"
	"strings"

	"github.com/anshumaan69/tenderflow/internal/domain"
)

// Catalog is an immutable product and service inventory
type Catalog struct {
	products []domain.CatalogProduct
	services []domain.ServiceDefinition
	byID     map[string]int
}

// New validates and copies the given inventory
func New(products []domain.CatalogProduct, services []domain.ServiceDefinition) (*Catalog, error) {
	c := &Catalog{
		products: make([]domain.CatalogProduct, 0, len(products)),
		services: make([]domain.ServiceDefinition, 0, len(services)),
		byID:     make(map[string]int, len(products)),
	}

	for i, p := range products {
		if strings.TrimSpace(p.ID) == "" {
			return nil, fmt.Errorf("product %d: id is required", i)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("product %s: duplicate id", p.ID)
		}
		if !p.Category.Valid() {
			return nil, fmt.Errorf("product %s: unknown category %q", p.ID, p.Category)
		}
		if p.UnitPrice < 0 {
			return nil, fmt.Errorf("product %s: negative unit price", p.ID)
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, copyProduct(p))
	}

	seen := make(map[string]bool, len(services))
	for i, s := range services {
		if strings.TrimSpace(s.ID) == "" {
			return nil, fmt.Errorf("service %d: id is required", i)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("service %s: duplicate id", s.ID)
		}
		if s.Price < 0 {
			return nil, fmt.Errorf("service %s: negative price", s.ID)
		}
		seen[s.ID] = true

		keywords := make([]string, 0, len(s.Keywords))
		for _, kw := range s.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				keywords = append(keywords, kw)
			}
		}
		s.Keywords = keywords
		c.services = append(c.services, s)
	}

	return c, nil
}

// Products returns a copy of the products in declaration order
func (c *Catalog) Products() []domain.CatalogProduct {
	out := make([]domain.CatalogProduct, len(c.products))
	for i, p := range c.products {
		out[i] = copyProduct(p)
	}
	return out
}

// Services returns a copy of the services in declaration order
func (c *Catalog) Services() []domain.ServiceDefinition {
	out := make([]domain.ServiceDefinition, len(c.services))
	for i, s := range c.services {
		s.Keywords = append([]string(nil), s.Keywords...)
		out[i] = s
	}
	return out
}

// Product looks up a product by id
func (c *Catalog) Product(id string) (domain.CatalogProduct, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.CatalogProduct{}, false
	}
	return copyProduct(c.products[i]), true
}

func copyProduct(p domain.CatalogProduct) domain.CatalogProduct {
	s := make(map[string]string, len(p.Specs))
	for k, v := range p.Specs {
		s[strings.ToLower(k)] = v
	}
	p.Specs = s
	return p
}
