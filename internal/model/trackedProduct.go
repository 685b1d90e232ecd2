package model

import (
	"time"

	"github.com/uptrace/bun"
)

// TrackedProduct is an Amazon product a user watches. IsActive is the
// soft-delete flag (0/1): the dashboard only ever flips it to 0, it never
// removes the row, so the price history underneath stays intact.
type TrackedProduct struct {
	bun.BaseModel `bun:"table:tracked_products"`

	ID           int64     `bun:"id,pk,autoincrement"`
	UserID       int64     `bun:"user_id,notnull"`
	ASIN         string    `bun:"asin,notnull"`
	Name         string    `bun:"name"`
	URL          string    `bun:"url"`
	CurrentPrice *float64  `bun:"current_price"`
	TargetPrice  *float64  `bun:"target_price"`
	IsActive     int       `bun:"is_active,notnull,default:1"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
