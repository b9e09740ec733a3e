package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"bundle-manager/db"
	"bundle-manager/models"
)

// ReconciliationRepository stores platform products left without a local bundle
type ReconciliationRepository struct{}

// NewReconciliationRepository creates a new ReconciliationRepository
func NewReconciliationRepository() *ReconciliationRepository {
	return &ReconciliationRepository{}
}

var _ ReconciliationRepositoryInterface = (*ReconciliationRepository)(nil)

// RecordOrphan stores a product that needs manual or scheduled cleanup
func (r *ReconciliationRepository) RecordOrphan(ctx context.Context, shop string, productID string, reason string) error {
	_, err := db.DB.ExecContext(ctx,
		`INSERT INTO "BundleReconciliation" ("shop", "productId", "reason", "createdAt") VALUES ($1, $2, $3, $4)`,
		shop, productID, reason, time.Now().UTC())
	if err != nil {
		return errors.Wrapf(err, "failed to record orphaned product %s", productID)
	}
	log.Warnf("⚠️  Recorded orphaned product %s for shop %s: %s", productID, shop, reason)
	return nil
}

// ListUnresolved returns the orphans that were not cleaned up yet, oldest first
func (r *ReconciliationRepository) ListUnresolved(ctx context.Context) ([]models.Reconciliation, error) {
	rows, err := db.DB.QueryContext(ctx, `
		SELECT "id", "shop", "productId", "reason", "createdAt", "resolvedAt"
		FROM "BundleReconciliation"
		WHERE "resolvedAt" IS NULL
		ORDER BY "createdAt"
	`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query reconciliation entries")
	}
	defer rows.Close()

	var entries []models.Reconciliation
	for rows.Next() {
		var e models.Reconciliation
		var resolvedAt sql.NullTime
		if err := rows.Scan(&e.ID, &e.Shop, &e.ProductID, &e.Reason, &e.CreatedAt, &resolvedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan reconciliation entry")
		}
		if resolvedAt.Valid {
			t := resolvedAt.Time
			e.ResolvedAt = &t
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate reconciliation entries")
	}
	return entries, nil
}

// MarkResolved flags a reconciliation entry as handled
func (r *ReconciliationRepository) MarkResolved(ctx context.Context, id int64) error {
	result, err := db.DB.ExecContext(ctx,
		`UPDATE "BundleReconciliation" SET "resolvedAt" = $1 WHERE "id" = $2 AND "resolvedAt" IS NULL`,
		time.Now().UTC(), id)
	if err != nil {
		return errors.Wrapf(err, "failed to resolve reconciliation entry %d", id)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		log.Warnf("⚠️  Reconciliation entry %d was already resolved", id)
	}
	return nil
}
