package model

import (
	"time"

	"github.com/uptrace/bun"
)

// PriceHistory is one price observation for a product, inserted by the bot
// on each check. Rows survive soft deletion and are only removed when the
// owning product is hard-deleted through the user cascade.
type PriceHistory struct {
	bun.BaseModel `bun:"table:price_history"`

	ID         int64     `bun:"id,pk,autoincrement"`
	ProductID  int64     `bun:"product_id,notnull"`
	Price      float64   `bun:"price,notnull"`
	RecordedAt time.Time `bun:"recorded_at,nullzero,notnull,default:current_timestamp"`
}
