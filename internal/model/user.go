package model

import (
	"time"

	"github.com/uptrace/bun"
)

// User rows are created by the WhatsApp bot on first interaction and are
// never deleted by the dashboard.
type User struct {
	bun.BaseModel `bun:"table:users"`

	ID          int64     `bun:"id,pk,autoincrement"`
	PhoneNumber string    `bun:"phone_number,notnull,unique"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// UserSummary is one row of the per-user overview: a phone number with its
// count of active tracked products.
type UserSummary struct {
	PhoneNumber  string    `bun:"phone_number"`
	ProductCount int       `bun:"product_count"`
	CreatedAt    time.Time `bun:"created_at"`
}
