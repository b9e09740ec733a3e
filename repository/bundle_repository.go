package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"bundle-manager/db"
	"bundle-manager/models"
)

// BundleRepository handles database operations for bundles and bundle items
type BundleRepository struct{}

// NewBundleRepository creates a new BundleRepository
func NewBundleRepository() *BundleRepository {
	return &BundleRepository{}
}

// Ensure BundleRepository implements BundleRepositoryInterface
var _ BundleRepositoryInterface = (*BundleRepository)(nil)

const bundleColumns = `"id", "shop", "title", "type", "productId", "status", "createdAt", "updatedAt"`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBundle(row rowScanner) (*models.Bundle, error) {
	var b models.Bundle
	var bundleType, status string
	if err := row.Scan(&b.ID, &b.Shop, &b.Title, &bundleType, &b.ProductID, &status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.Type = models.BundleType(bundleType)
	b.Status = models.BundleStatus(status)
	return &b, nil
}

// ListBundles returns every bundle of the shop, newest first
func (r *BundleRepository) ListBundles(ctx context.Context, shop string) ([]models.Bundle, error) {
	query := `SELECT ` + bundleColumns + ` FROM "Bundle" WHERE "shop" = $1 ORDER BY "createdAt" DESC`

	rows, err := db.DB.QueryContext(ctx, query, shop)
	if err != nil {
		log.Errorf("❌ Error querying bundles for shop %s: %v", shop, err)
		return nil, errors.Wrap(err, "failed to query bundles")
	}
	defer rows.Close()

	bundles := []models.Bundle{}
	for rows.Next() {
		b, err := scanBundle(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan bundle")
		}
		bundles = append(bundles, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate bundles")
	}

	log.Debugf("✓ Loaded %d bundles for shop %s", len(bundles), shop)
	return bundles, nil
}

// CountItems returns the number of items of a bundle
func (r *BundleRepository) CountItems(ctx context.Context, bundleID string) (int, error) {
	var count int
	err := db.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM "BundleItem" WHERE "bundleId" = $1`, bundleID).Scan(&count)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to count items of bundle %s", bundleID)
	}
	return count, nil
}

// CountItemsByBundle returns item counts keyed by bundle id in a single query.
// Bundles without items are present with a zero count.
func (r *BundleRepository) CountItemsByBundle(ctx context.Context, bundleIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(bundleIDs))
	if len(bundleIDs) == 0 {
		return counts, nil
	}

	placeholders := make([]string, len(bundleIDs))
	args := make([]interface{}, len(bundleIDs))
	for i, id := range bundleIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
		counts[id] = 0
	}

	query := `SELECT "bundleId", COUNT(*) FROM "BundleItem" WHERE "bundleId" IN (` +
		strings.Join(placeholders, ", ") + `) GROUP BY "bundleId"`

	rows, err := db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count bundle items")
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, errors.Wrap(err, "failed to scan bundle item count")
		}
		counts[id] = count
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate bundle item counts")
	}
	return counts, nil
}

// GetBundle returns the bundle with the given id if it belongs to the shop
func (r *BundleRepository) GetBundle(ctx context.Context, id string, shop string) (*models.Bundle, error) {
	query := `SELECT ` + bundleColumns + ` FROM "Bundle" WHERE "id" = $1 AND "shop" = $2`

	b, err := scanBundle(db.DB.QueryRowContext(ctx, query, id, shop))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBundleNotFound
		}
		log.Errorf("❌ Error fetching bundle %s: %v", id, err)
		return nil, errors.Wrapf(err, "failed to get bundle %s", id)
	}
	return b, nil
}

// ListItems returns the items of a bundle
func (r *BundleRepository) ListItems(ctx context.Context, bundleID string) ([]models.BundleItem, error) {
	rows, err := db.DB.QueryContext(ctx,
		`SELECT "id", "bundleId", "productId" FROM "BundleItem" WHERE "bundleId" = $1 ORDER BY "id"`, bundleID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query items of bundle %s", bundleID)
	}
	defer rows.Close()

	items := []models.BundleItem{}
	for rows.Next() {
		var item models.BundleItem
		if err := rows.Scan(&item.ID, &item.BundleID, &item.ProductID); err != nil {
			return nil, errors.Wrap(err, "failed to scan bundle item")
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate bundle items")
	}
	return items, nil
}

// InsertBundle inserts a new bundle row
func (r *BundleRepository) InsertBundle(ctx context.Context, bundle *models.Bundle) error {
	log.Infof("💾 InsertBundle: id=%s, shop=%s, type=%s, productId=%s", bundle.ID, bundle.Shop, bundle.Type, bundle.ProductID)

	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to start transaction")
	}
	defer tx.Rollback()

	query := `
		INSERT INTO "Bundle" ("id", "shop", "title", "type", "productId", "status", "createdAt", "updatedAt")
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = tx.ExecContext(ctx, query,
		bundle.ID,
		bundle.Shop,
		bundle.Title,
		string(bundle.Type),
		bundle.ProductID,
		string(bundle.Status),
		bundle.CreatedAt,
		bundle.UpdatedAt,
	)
	if err != nil {
		log.Errorf("❌ Error inserting bundle %s: %v", bundle.ID, err)
		return errors.Wrap(err, "failed to insert bundle")
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	log.Infof("✓ Bundle inserted: id=%s", bundle.ID)
	return nil
}

// UpdateBundle overwrites the title and status of a bundle of the shop
func (r *BundleRepository) UpdateBundle(ctx context.Context, id string, shop string, fields models.BundleUpdate) error {
	query := `
		UPDATE "Bundle"
		SET "title" = $1, "status" = $2, "updatedAt" = $3
		WHERE "id" = $4 AND "shop" = $5
	`
	result, err := db.DB.ExecContext(ctx, query, fields.Title, string(fields.Status), time.Now().UTC(), id, shop)
	if err != nil {
		log.Errorf("❌ Error updating bundle %s: %v", id, err)
		return errors.Wrapf(err, "failed to update bundle %s", id)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return ErrBundleNotFound
	}

	log.Infof("✓ Bundle updated: id=%s, status=%s", id, fields.Status)
	return nil
}
