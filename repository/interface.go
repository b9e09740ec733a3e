package repository

import (
	"context"

	"github.com/pkg/errors"

	"bundle-manager/models"
)

var (
	// ErrBundleNotFound is returned when no bundle matches the id within the shop
	ErrBundleNotFound = errors.New("bundle not found")
	// ErrSessionNotFound is returned when the shop has no stored offline session
	ErrSessionNotFound = errors.New("session not found")
)

// BundleRepositoryInterface defines the contract for bundle persistence
type BundleRepositoryInterface interface {
	ListBundles(ctx context.Context, shop string) ([]models.Bundle, error)
	CountItems(ctx context.Context, bundleID string) (int, error)
	CountItemsByBundle(ctx context.Context, bundleIDs []string) (map[string]int, error)
	GetBundle(ctx context.Context, id string, shop string) (*models.Bundle, error)
	ListItems(ctx context.Context, bundleID string) ([]models.BundleItem, error)
	InsertBundle(ctx context.Context, bundle *models.Bundle) error
	UpdateBundle(ctx context.Context, id string, shop string, fields models.BundleUpdate) error
}

// SessionRepositoryInterface defines the contract for reading stored shop sessions
type SessionRepositoryInterface interface {
	GetAccessToken(ctx context.Context, shop string) (string, error)
}

// ReconciliationRepositoryInterface defines the contract for orphaned product bookkeeping
type ReconciliationRepositoryInterface interface {
	RecordOrphan(ctx context.Context, shop string, productID string, reason string) error
	ListUnresolved(ctx context.Context) ([]models.Reconciliation, error)
	MarkResolved(ctx context.Context, id int64) error
}
