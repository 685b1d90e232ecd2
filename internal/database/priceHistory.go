package database

import (
	"context"

	"github.com/pkg/errors"

	"dealbot/internal/model"
)

func (db Database) PriceHistoryInsert(ctx context.Context, ph model.PriceHistory) error {
	_, err := db.NewInsert().Model(&ph).Exec(ctx)
	return errors.Wrapf(err, "error inserting PriceHistory for ProductID: %d", ph.ProductID)
}

// PriceHistoryFind returns up to limit observations for a product, oldest
// first, which is the order the chart wants.
func (db Database) PriceHistoryFind(ctx context.Context, productID int64, limit int) ([]model.PriceHistory, error) {
	var phs []model.PriceHistory
	err := db.NewSelect().Model(&phs).
		Where("product_id = ?", productID).
		OrderExpr("recorded_at ASC, id ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "error finding PriceHistory for ProductID: %d", productID)
	}
	return phs, nil
}
