package model

import (
	"time"

	"github.com/uptrace/bun"
)

// AccessToken backs the magic-link login. Tokens are single-use: UsedAt is
// set exactly once on consumption, and a token is only valid while UsedAt
// is NULL and ExpiresAt is in the future.
type AccessToken struct {
	bun.BaseModel `bun:"table:access_tokens"`

	ID        int64     `bun:"id,pk,autoincrement"`
	UserID    int64     `bun:"user_id,notnull"`
	Token     string    `bun:"token,notnull,unique"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	ExpiresAt time.Time `bun:"expires_at,notnull"`
	UsedAt    time.Time `bun:"used_at,nullzero"`
}

func (t AccessToken) Used() bool {
	return !t.UsedAt.IsZero()
}
