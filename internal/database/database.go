package database

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type Database struct {
	*bun.DB
}

// ConnectDB opens the store the same way the bot does: a postgres:// or
// postgresql:// URL selects PostgreSQL, anything else is treated as a
// SQLite file path. The schema is applied on every connect.
func ConnectDB(ctx context.Context, databaseURL string) (*bun.DB, error) {
	var db *bun.DB
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(databaseURL)))
		db = bun.NewDB(sqldb, pgdialect.New())
	} else {
		dsn := "file:" + databaseURL + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
		sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
		if err != nil {
			return nil, errors.Wrapf(err, "error opening SQLite DB at: %s", databaseURL)
		}
		// A single connection keeps the foreign_keys pragma and in-memory
		// databases consistent across statements.
		sqldb.SetMaxOpenConns(1)
		db = bun.NewDB(sqldb, sqlitedialect.New())
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, errors.Wrapf(err, "error pinging DB at: %s", databaseURL)
	}
	if err := createSchema(ctx, db); err != nil {
		return nil, err
	}
	return db, nil
}

func createSchema(ctx context.Context, db *bun.DB) error {
	stmts := schemaSQLite
	if db.Dialect().Name().String() == "pg" {
		stmts = schemaPostgres
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "error applying schema statement: %s", stmt)
		}
	}
	return nil
}
