package view

import (
	"fmt"
	"strings"

	"bundle-manager/models"
)

// ProductPicker is the product selection dialog state
type ProductPicker struct {
	Products      []models.Product
	Query         string
	MaxSelections int
	selected      []string
}

// NewProductPicker creates a picker; maxSelections below 1 means 1
func NewProductPicker(products []models.Product, maxSelections int) *ProductPicker {
	if maxSelections < 1 {
		maxSelections = 1
	}
	return &ProductPicker{Products: products, MaxSelections: maxSelections}
}

// Filtered returns the products whose title contains the query, case-insensitively
func (p *ProductPicker) Filtered() []models.Product {
	q := strings.ToLower(strings.TrimSpace(p.Query))
	if q == "" {
		return p.Products
	}
	var out []models.Product
	for _, product := range p.Products {
		if strings.Contains(strings.ToLower(product.Title), q) {
			out = append(out, product)
		}
	}
	return out
}

// IsSelected reports whether the product is selected
func (p *ProductPicker) IsSelected(id string) bool {
	for _, s := range p.selected {
		if s == id {
			return true
		}
	}
	return false
}

// Toggle selects or deselects a product. Selecting beyond MaxSelections is ignored.
// It returns whether the product is selected afterwards.
func (p *ProductPicker) Toggle(id string) bool {
	for i, s := range p.selected {
		if s == id {
			p.selected = append(p.selected[:i], p.selected[i+1:]...)
			return false
		}
	}
	if len(p.selected) >= p.MaxSelections {
		return false
	}
	p.selected = append(p.selected, id)
	return true
}

// Selected returns the selected product ids in selection order
func (p *ProductPicker) Selected() []string {
	return append([]string(nil), p.selected...)
}

// CanAdd reports whether the Add action is enabled
func (p *ProductPicker) CanAdd() bool {
	return len(p.selected) > 0
}

// SelectionLabel reads like "1/3 products selected"
func (p *ProductPicker) SelectionLabel() string {
	return fmt.Sprintf("%d/%d products selected", len(p.selected), p.MaxSelections)
}
