package service

import (
	"context"

	"bundle-manager/models"
)

// BundleServiceInterface defines the contract for bundle operations
type BundleServiceInterface interface {
	ListBundles(ctx context.Context, shop string) ([]models.BundleSummary, error)
	GetBundleDetail(ctx context.Context, shop string, id string) (*models.BundleDetail, error)
	// CreateBundle creates the backing product first, then the bundle row.
	// When the row cannot be saved the product is deleted again, or recorded for reconciliation.
	CreateBundle(ctx context.Context, shop string, req models.CreateBundleRequest) (*models.Bundle, error)
	UpdateBundle(ctx context.Context, shop string, id string, req models.UpdateBundleRequest) error
	GenerateDemoProduct(ctx context.Context, shop string) (*models.DemoProductResponse, error)
	ReconcileOrphans(ctx context.Context) (*models.ReconcileResult, error)
}
