package database

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"time"

	"github.com/pkg/errors"

	"dealbot/internal/model"
)

// ErrTokenInvalid covers every way a magic-link token can fail: unknown,
// expired, or already consumed.
var ErrTokenInvalid = errors.New("access token invalid, expired, or already used")

// AccessTokenCreate mints a 64-character random token for the user and
// stores it with the given expiry.
func (db Database) AccessTokenCreate(ctx context.Context, userID int64, ttl time.Duration) (model.AccessToken, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return model.AccessToken{}, errors.Wrapf(err, "error generating AccessToken for UserID: %d", userID)
	}
	at := model.AccessToken{
		UserID:    userID,
		Token:     hex.EncodeToString(raw),
		ExpiresAt: time.Now().Add(ttl),
	}
	if _, err := db.NewInsert().Model(&at).Exec(ctx); err != nil {
		return model.AccessToken{}, errors.Wrapf(err, "error inserting AccessToken for UserID: %d", userID)
	}
	return at, nil
}

// AccessTokenConsume marks the token used and returns its row. The UPDATE
// only matches while used_at is still NULL and the token is unexpired, so
// a token can be consumed at most once even under concurrent requests;
// losers get ErrTokenInvalid.
func (db Database) AccessTokenConsume(ctx context.Context, token string) (model.AccessToken, error) {
	res, err := db.NewUpdate().Model((*model.AccessToken)(nil)).
		Set("used_at = ?", time.Now()).
		Where("token = ?", token).
		Where("used_at IS NULL").
		Where("expires_at > ?", time.Now()).
		Exec(ctx)
	if err != nil {
		return model.AccessToken{}, errors.Wrap(err, "error consuming AccessToken")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.AccessToken{}, errors.Wrap(err, "error getting affected rows for AccessToken")
	}
	if n == 0 {
		return model.AccessToken{}, ErrTokenInvalid
	}

	var at model.AccessToken
	if err := db.NewSelect().Model(&at).Where("token = ?", token).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.AccessToken{}, ErrTokenInvalid
		}
		return model.AccessToken{}, errors.Wrap(err, "error finding consumed AccessToken")
	}
	return at, nil
}

func (db Database) AccessTokenFind(ctx context.Context, token string) (model.AccessToken, error) {
	var at model.AccessToken
	err := db.NewSelect().Model(&at).Where("token = ?", token).Scan(ctx)
	return at, errors.Wrap(err, "error finding AccessToken")
}
