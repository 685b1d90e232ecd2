package database

// The schema is shared with the WhatsApp bot and must stay identical on both
// sides: four tables with ON DELETE CASCADE from users down to price_history,
// plus the lookup indexes. Statements are idempotent so they can run on every
// startup.

var schemaSQLite = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		phone_number TEXT NOT NULL UNIQUE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS tracked_products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		asin TEXT NOT NULL,
		name TEXT,
		url TEXT,
		current_price NUMERIC(10,2),
		target_price NUMERIC(10,2),
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS price_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		product_id INTEGER NOT NULL REFERENCES tracked_products(id) ON DELETE CASCADE,
		price NUMERIC(10,2) NOT NULL,
		recorded_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS access_tokens (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token VARCHAR(64) NOT NULL UNIQUE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		expires_at TIMESTAMP NOT NULL,
		used_at TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tracked_products_user_id ON tracked_products(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_price_history_product_id ON price_history(product_id)`,
	`CREATE INDEX IF NOT EXISTS idx_access_tokens_token ON access_tokens(token)`,
}

var schemaPostgres = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		phone_number TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS tracked_products (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		asin TEXT NOT NULL,
		name TEXT,
		url TEXT,
		current_price NUMERIC(10,2),
		target_price NUMERIC(10,2),
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS price_history (
		id BIGSERIAL PRIMARY KEY,
		product_id BIGINT NOT NULL REFERENCES tracked_products(id) ON DELETE CASCADE,
		price NUMERIC(10,2) NOT NULL,
		recorded_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS access_tokens (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token VARCHAR(64) NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		expires_at TIMESTAMPTZ NOT NULL,
		used_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tracked_products_user_id ON tracked_products(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_price_history_product_id ON price_history(product_id)`,
	`CREATE INDEX IF NOT EXISTS idx_access_tokens_token ON access_tokens(token)`,
}
