package service

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"bundle-manager/models"
	"bundle-manager/repository"
)

// ErrProductNotFound is returned when the platform does not know the product
var ErrProductNotFound = errors.New("product not found")

// ProductServiceInterface defines the contract for the product picker
type ProductServiceInterface interface {
	SearchProducts(ctx context.Context, shop string, query string, limit int) ([]models.Product, error)
	Thumbnail(ctx context.Context, shop string, productID string, size string) ([]byte, error)
}

// ProductService serves catalog products to the product picker
type ProductService struct {
	sessions  repository.SessionRepositoryInterface
	platform  PlatformServiceInterface
	optimizer *ImageOptimizer
}

var _ ProductServiceInterface = (*ProductService)(nil)

// NewProductService creates a new ProductService
func NewProductService(sessions repository.SessionRepositoryInterface, platform PlatformServiceInterface, optimizer *ImageOptimizer) *ProductService {
	return &ProductService{
		sessions:  sessions,
		platform:  platform,
		optimizer: optimizer,
	}
}

func (s *ProductService) adminSession(ctx context.Context, shop string) (AdminSession, error) {
	token, err := s.sessions.GetAccessToken(ctx, shop)
	if err != nil {
		return AdminSession{}, err
	}
	return AdminSession{Shop: shop, AccessToken: token}, nil
}

// SearchProducts searches the shop catalog
func (s *ProductService) SearchProducts(ctx context.Context, shop string, query string, limit int) ([]models.Product, error) {
	session, err := s.adminSession(ctx, shop)
	if err != nil {
		return nil, err
	}
	products, err := s.platform.SearchProducts(ctx, session, query, limit)
	if err != nil {
		log.Errorf("❌ SearchProducts: shop=%s, query=%q: %v", shop, query, err)
		return nil, err
	}
	return products, nil
}

// Thumbnail returns the optimized featured image of a product
func (s *ProductService) Thumbnail(ctx context.Context, shop string, productID string, size string) ([]byte, error) {
	if data, ok := s.optimizer.Cached(productID, size); ok {
		return data, nil
	}

	session, err := s.adminSession(ctx, shop)
	if err != nil {
		return nil, err
	}

	products, err := s.platform.GetProducts(ctx, session, []string{productID})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 || products[0].ImageURL == "" {
		return nil, ErrProductNotFound
	}

	return s.optimizer.Thumbnail(ctx, productID, products[0].ImageURL, size)
}
