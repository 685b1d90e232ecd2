package database

import (
	"context"

	"github.com/pkg/errors"

	"dealbot/internal/model"
)

func (db Database) UserFindByPhone(ctx context.Context, phone string) (model.User, error) {
	var u model.User
	err := db.NewSelect().Model(&u).Where("phone_number = ?", phone).Scan(ctx)
	return u, errors.Wrapf(err, "error finding User with phone number: %s", phone)
}

func (db Database) UserFindByID(ctx context.Context, id int64) (model.User, error) {
	var u model.User
	err := db.NewSelect().Model(&u).Where("id = ?", id).Scan(ctx)
	return u, errors.Wrapf(err, "error finding User with ID: %d", id)
}

func (db Database) UserInsert(ctx context.Context, u model.User) (int64, error) {
	if _, err := db.NewInsert().Model(&u).Exec(ctx); err != nil {
		return 0, errors.Wrapf(err, "error inserting User with phone number: %s", u.PhoneNumber)
	}
	return u.ID, nil
}

// UserDelete hard-deletes a user. The dashboard never does this on its own;
// it exists for operator tooling and relies on the schema cascades to take
// the user's products and their history along.
func (db Database) UserDelete(ctx context.Context, id int64) error {
	_, err := db.NewDelete().Model((*model.User)(nil)).Where("id = ?", id).Exec(ctx)
	return errors.Wrapf(err, "error deleting User with ID: %d", id)
}

// UsersSummary returns every user with their count of active tracked
// products, newest user first.
func (db Database) UsersSummary(ctx context.Context) ([]model.UserSummary, error) {
	var us []model.UserSummary
	err := db.NewSelect().
		TableExpr("users AS u").
		ColumnExpr("u.phone_number").
		ColumnExpr("u.created_at").
		ColumnExpr("COUNT(p.id) AS product_count").
		Join("LEFT JOIN tracked_products AS p ON p.user_id = u.id AND p.is_active = 1").
		GroupExpr("u.id, u.phone_number, u.created_at").
		OrderExpr("u.created_at DESC").
		Scan(ctx, &us)
	return us, errors.Wrap(err, "error getting Users summary")
}

// StatsCounts returns the landing page totals: all users and all active
// tracked products.
func (db Database) StatsCounts(ctx context.Context) (userCount int, productCount int, err error) {
	userCount, err = db.NewSelect().Model((*model.User)(nil)).Count(ctx)
	if err != nil {
		return 0, 0, errors.Wrap(err, "error counting Users")
	}
	productCount, err = db.NewSelect().
		Model((*model.TrackedProduct)(nil)).
		Where("is_active = 1").
		Count(ctx)
	if err != nil {
		return 0, 0, errors.Wrap(err, "error counting active TrackedProducts")
	}
	return userCount, productCount, nil
}
