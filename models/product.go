package models

// Product is the read-only view of a platform product
type Product struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	ImageURL  string `json:"imageUrl,omitempty"`
	Price     string `json:"price,omitempty"`
	Variant   string `json:"variant,omitempty"`
	VariantID string `json:"variantId,omitempty"`
}

// CreatedProduct is the result of a successful productCreate call
type CreatedProduct struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId"`
	Title     string `json:"title"`
}

// VariantPrice is the price of a product's first variant
type VariantPrice struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId"`
	Price     string `json:"price"`
}

// DemoProductResponse is returned by the dashboard product generator
type DemoProductResponse struct {
	Product CreatedProduct `json:"product"`
	Variant VariantPrice   `json:"variant"`
}

// ProductSearchResponse is returned by the product picker search endpoint
type ProductSearchResponse struct {
	Products []Product `json:"products"`
}
