package database_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/pkg/errors"

	"dealbot/internal/database"
	"dealbot/internal/model"
)

func newTestDB(t *testing.T) database.Database {
	t.Helper()
	db, err := database.ConnectDB(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory DB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return database.Database{DB: db}
}

func seedUser(t *testing.T, db database.Database, phone string) int64 {
	t.Helper()
	id, err := db.UserInsert(context.Background(), model.User{PhoneNumber: phone})
	if err != nil {
		t.Fatalf("failed to insert user: %v", err)
	}
	return id
}

func seedProduct(t *testing.T, db database.Database, userID int64, asin string) int64 {
	t.Helper()
	current := 29.99
	id, err := db.ProductInsert(context.Background(), model.TrackedProduct{
		UserID:       userID,
		ASIN:         asin,
		Name:         "Test product " + asin,
		URL:          "https://www.amazon.com/dp/" + asin,
		CurrentPrice: &current,
		IsActive:     1,
	})
	if err != nil {
		t.Fatalf("failed to insert product: %v", err)
	}
	return id
}

func TestProductListingExcludesSoftDeleted(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	userID := seedUser(t, db, "+15550000001")
	p1 := seedProduct(t, db, userID, "B000000001")
	p2 := seedProduct(t, db, userID, "B000000002")
	p3 := seedProduct(t, db, userID, "B000000003")

	if err := db.ProductSoftDelete(ctx, p2); err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}

	ps, err := db.ProductsFindActiveByUser(ctx, userID)
	if err != nil {
		t.Fatalf("listing failed: %v", err)
	}
	if len(ps) != 2 {
		t.Fatalf("got %d products, want 2", len(ps))
	}
	for _, p := range ps {
		if p.ID == p2 {
			t.Errorf("soft-deleted product %d still listed", p2)
		}
		if p.ID != p1 && p.ID != p3 {
			t.Errorf("unexpected product %d in listing", p.ID)
		}
	}
}

func TestProductSoftDeleteIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	userID := seedUser(t, db, "+15550000002")
	productID := seedProduct(t, db, userID, "B000000010")
	for i := 0; i < 3; i++ {
		if err := db.PriceHistoryInsert(ctx, model.PriceHistory{ProductID: productID, Price: 20 + float64(i)}); err != nil {
			t.Fatalf("history insert failed: %v", err)
		}
	}

	if err := db.ProductSoftDelete(ctx, productID); err != nil {
		t.Fatalf("first soft delete failed: %v", err)
	}
	if err := db.ProductSoftDelete(ctx, productID); err != nil {
		t.Fatalf("second soft delete failed: %v", err)
	}

	if _, err := db.ProductFindActive(ctx, productID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows for soft-deleted product, got: %v", err)
	}

	phs, err := db.PriceHistoryFind(ctx, productID, 60)
	if err != nil {
		t.Fatalf("history lookup failed: %v", err)
	}
	if len(phs) != 3 {
		t.Errorf("got %d history rows after soft delete, want 3", len(phs))
	}
}

func TestProductTargetUpdate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	userID := seedUser(t, db, "+15550000003")
	productID := seedProduct(t, db, userID, "B000000020")

	updated, err := db.ProductTargetUpdate(ctx, productID, 19.99)
	if err != nil {
		t.Fatalf("target update failed: %v", err)
	}
	if !updated {
		t.Fatal("expected update to match the active product")
	}

	p, err := db.ProductFindActive(ctx, productID)
	if err != nil {
		t.Fatalf("product lookup failed: %v", err)
	}
	if p.TargetPrice == nil || *p.TargetPrice != 19.99 {
		t.Errorf("got target price %v, want 19.99", p.TargetPrice)
	}
}

func TestProductTargetUpdateIgnoresInactive(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	userID := seedUser(t, db, "+15550000004")
	productID := seedProduct(t, db, userID, "B000000030")
	if err := db.ProductSoftDelete(ctx, productID); err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}

	updated, err := db.ProductTargetUpdate(ctx, productID, 9.99)
	if err != nil {
		t.Fatalf("target update failed: %v", err)
	}
	if updated {
		t.Error("expected no match for a soft-deleted product")
	}
}

func TestPriceHistoryOrderedAscending(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	userID := seedUser(t, db, "+15550000005")
	productID := seedProduct(t, db, userID, "B000000040")

	base := time.Now().Add(-3 * time.Hour).Truncate(time.Second)
	prices := []float64{30, 25, 27.5}
	for i, price := range prices {
		ph := model.PriceHistory{
			ProductID:  productID,
			Price:      price,
			RecordedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := db.PriceHistoryInsert(ctx, ph); err != nil {
			t.Fatalf("history insert failed: %v", err)
		}
	}

	phs, err := db.PriceHistoryFind(ctx, productID, 60)
	if err != nil {
		t.Fatalf("history lookup failed: %v", err)
	}
	if len(phs) != len(prices) {
		t.Fatalf("got %d history rows, want %d", len(phs), len(prices))
	}
	for i := 1; i < len(phs); i++ {
		if phs[i].RecordedAt.Before(phs[i-1].RecordedAt) {
			t.Errorf("history not ascending at index %d", i)
		}
	}
	for i, ph := range phs {
		if ph.Price != prices[i] {
			t.Errorf("history[%d].Price = %v, want %v", i, ph.Price, prices[i])
		}
	}
}

func TestUserDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	userID := seedUser(t, db, "+15550000006")
	productID := seedProduct(t, db, userID, "B000000050")
	if err := db.PriceHistoryInsert(ctx, model.PriceHistory{ProductID: productID, Price: 10}); err != nil {
		t.Fatalf("history insert failed: %v", err)
	}
	if _, err := db.AccessTokenCreate(ctx, userID, time.Hour); err != nil {
		t.Fatalf("token create failed: %v", err)
	}

	if err := db.UserDelete(ctx, userID); err != nil {
		t.Fatalf("user delete failed: %v", err)
	}

	products, err := db.NewSelect().Model((*model.TrackedProduct)(nil)).Count(ctx)
	if err != nil {
		t.Fatalf("product count failed: %v", err)
	}
	if products != 0 {
		t.Errorf("got %d products after user delete, want 0", products)
	}

	histories, err := db.NewSelect().Model((*model.PriceHistory)(nil)).Count(ctx)
	if err != nil {
		t.Fatalf("history count failed: %v", err)
	}
	if histories != 0 {
		t.Errorf("got %d history rows after user delete, want 0", histories)
	}

	tokens, err := db.NewSelect().Model((*model.AccessToken)(nil)).Count(ctx)
	if err != nil {
		t.Fatalf("token count failed: %v", err)
	}
	if tokens != 0 {
		t.Errorf("got %d access tokens after user delete, want 0", tokens)
	}
}

func TestAccessTokenSingleUse(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	userID := seedUser(t, db, "+15550000007")
	at, err := db.AccessTokenCreate(ctx, userID, time.Hour)
	if err != nil {
		t.Fatalf("token create failed: %v", err)
	}
	if len(at.Token) != 64 {
		t.Fatalf("got token length %d, want 64", len(at.Token))
	}

	consumed, err := db.AccessTokenConsume(ctx, at.Token)
	if err != nil {
		t.Fatalf("first consume failed: %v", err)
	}
	if !consumed.Used() {
		t.Error("consumed token has no used_at")
	}
	if consumed.UserID != userID {
		t.Errorf("consumed token UserID = %d, want %d", consumed.UserID, userID)
	}

	if _, err := db.AccessTokenConsume(ctx, at.Token); !errors.Is(err, database.ErrTokenInvalid) {
		t.Errorf("second consume: got err %v, want ErrTokenInvalid", err)
	}

	stored, err := db.AccessTokenFind(ctx, at.Token)
	if err != nil {
		t.Fatalf("token lookup failed: %v", err)
	}
	if !stored.UsedAt.Equal(consumed.UsedAt) {
		t.Errorf("used_at changed on second consume: %v != %v", stored.UsedAt, consumed.UsedAt)
	}
}

func TestAccessTokenExpired(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	userID := seedUser(t, db, "+15550000008")
	at, err := db.AccessTokenCreate(ctx, userID, -time.Hour)
	if err != nil {
		t.Fatalf("token create failed: %v", err)
	}

	if _, err := db.AccessTokenConsume(ctx, at.Token); !errors.Is(err, database.ErrTokenInvalid) {
		t.Errorf("expired consume: got err %v, want ErrTokenInvalid", err)
	}
}

func TestUserFindByPhoneUnknown(t *testing.T) {
	db := newTestDB(t)

	_, err := db.UserFindByPhone(context.Background(), "+10000000000")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("got err %v, want sql.ErrNoRows", err)
	}
}

func TestUsersSummaryCountsActiveOnly(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	userID := seedUser(t, db, "+15550000009")
	seedProduct(t, db, userID, "B000000060")
	deleted := seedProduct(t, db, userID, "B000000061")
	if err := db.ProductSoftDelete(ctx, deleted); err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}

	us, err := db.UsersSummary(ctx)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if len(us) != 1 {
		t.Fatalf("got %d summary rows, want 1", len(us))
	}
	if us[0].PhoneNumber != "+15550000009" {
		t.Errorf("summary phone = %s, want +15550000009", us[0].PhoneNumber)
	}
	if us[0].ProductCount != 1 {
		t.Errorf("summary product count = %d, want 1", us[0].ProductCount)
	}
}
