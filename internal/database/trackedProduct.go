package database

import (
	"context"

	"github.com/pkg/errors"

	"dealbot/internal/model"
)

// ProductFindActive returns the product only if it has not been
// soft-deleted; soft-deleted products behave as if they do not exist.
func (db Database) ProductFindActive(ctx context.Context, id int64) (model.TrackedProduct, error) {
	var p model.TrackedProduct
	err := db.NewSelect().Model(&p).
		Where("id = ?", id).
		Where("is_active = 1").
		Scan(ctx)
	return p, errors.Wrapf(err, "error finding active TrackedProduct with ID: %d", id)
}

func (db Database) ProductsFindActiveByUser(ctx context.Context, userID int64) ([]model.TrackedProduct, error) {
	var ps []model.TrackedProduct
	err := db.NewSelect().Model(&ps).
		Where("user_id = ?", userID).
		Where("is_active = 1").
		OrderExpr("created_at DESC, id DESC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "error finding active TrackedProducts for UserID: %d", userID)
	}
	return ps, nil
}

func (db Database) ProductInsert(ctx context.Context, p model.TrackedProduct) (int64, error) {
	if _, err := db.NewInsert().Model(&p).Exec(ctx); err != nil {
		return 0, errors.Wrapf(err, "error inserting TrackedProduct with ASIN: %s for UserID: %d", p.ASIN, p.UserID)
	}
	return p.ID, nil
}

// ProductSoftDelete flips is_active to 0. Running it on an already
// soft-deleted product changes nothing, so the operation is idempotent.
// Price history rows are left in place.
func (db Database) ProductSoftDelete(ctx context.Context, id int64) error {
	_, err := db.NewUpdate().Model((*model.TrackedProduct)(nil)).
		Set("is_active = 0").
		Where("id = ?", id).
		Exec(ctx)
	return errors.Wrapf(err, "error soft-deleting TrackedProduct with ID: %d", id)
}

// ProductTargetUpdate sets the target price on an active product and
// reports whether a row matched. Soft-deleted products are never written.
func (db Database) ProductTargetUpdate(ctx context.Context, id int64, targetPrice float64) (bool, error) {
	res, err := db.NewUpdate().Model((*model.TrackedProduct)(nil)).
		Set("target_price = ?", targetPrice).
		Where("id = ?", id).
		Where("is_active = 1").
		Exec(ctx)
	if err != nil {
		return false, errors.Wrapf(err, "error updating target price for TrackedProduct with ID: %d", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrapf(err, "error getting affected rows for TrackedProduct with ID: %d", id)
	}
	return n > 0, nil
}
