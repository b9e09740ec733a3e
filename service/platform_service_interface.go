package service

import (
	"context"

	"bundle-manager/models"
)

// PlatformServiceInterface defines the contract for platform Admin API operations
type PlatformServiceInterface interface {
	CreateProduct(ctx context.Context, session AdminSession, title string) (*models.CreatedProduct, error)
	SetVariantPrice(ctx context.Context, session AdminSession, productID string, variantID string, price string) error
	GetVariantPrice(ctx context.Context, session AdminSession, productID string) (*models.VariantPrice, error)
	DeleteProduct(ctx context.Context, session AdminSession, productID string) error
	GetProducts(ctx context.Context, session AdminSession, ids []string) ([]models.Product, error)
	SearchProducts(ctx context.Context, session AdminSession, query string, limit int) ([]models.Product, error)
}
