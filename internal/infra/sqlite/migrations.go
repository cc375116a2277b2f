package sqlite

// Migrations returns the schema migration statements.
// Each string is a single SQL statement (SQLite executes one at a time).
func Migrations() []string {
	return []string{
		// Chart of accounts (flat arena; parent_id forms the hierarchy)
		`CREATE TABLE IF NOT EXISTS accounts (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			code           TEXT NOT NULL UNIQUE,
			name           TEXT NOT NULL,
			type           TEXT NOT NULL,
			normal_balance TEXT NOT NULL,
			parent_id      INTEGER REFERENCES accounts(id),
			is_active      INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE INDEX IF NOT EXISTS idx_accounts_parent ON accounts(parent_id)`,

		// Cost category → account mapping
		`CREATE TABLE IF NOT EXISTS cost_categories (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			code              TEXT NOT NULL UNIQUE,
			name              TEXT NOT NULL,
			type              TEXT NOT NULL,
			debit_account_id  INTEGER REFERENCES accounts(id),
			credit_account_id INTEGER REFERENCES accounts(id)
		)`,

		// Fixed assets with depreciation parameters
		`CREATE TABLE IF NOT EXISTS assets (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			asset_no           TEXT NOT NULL UNIQUE,
			name               TEXT NOT NULL,
			category           TEXT NOT NULL DEFAULT '',
			acquisition_value  TEXT NOT NULL,
			residual_value     TEXT NOT NULL,
			useful_life_years  INTEGER NOT NULL DEFAULT 0,
			method             TEXT NOT NULL,
			depreciation_class INTEGER NOT NULL DEFAULT 0,
			basis              TEXT NOT NULL DEFAULT 'YEARLY',
			start_date         TEXT,
			commissioned_at    TEXT,
			registered_year    INTEGER NOT NULL DEFAULT 0,
			cost_unit_id       INTEGER
		)`,

		// Depreciation schedule rows, regenerated wholesale per asset
		`CREATE TABLE IF NOT EXISTS depreciation_schedule (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			asset_id      INTEGER NOT NULL,
			period        TEXT NOT NULL,
			method        TEXT NOT NULL,
			annual_rate   TEXT NOT NULL,
			opening_value TEXT NOT NULL,
			expense       TEXT NOT NULL,
			accumulated   TEXT NOT NULL,
			closing_value TEXT NOT NULL,
			UNIQUE(asset_id, period)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_schedule_asset ON depreciation_schedule(asset_id)`,

		// Journal headers; source_tag identifies the originating event
		`CREATE TABLE IF NOT EXISTS journal_headers (
			id           TEXT PRIMARY KEY,
			date         TEXT NOT NULL,
			reference_no TEXT NOT NULL DEFAULT '',
			voucher_no   TEXT NOT NULL DEFAULT '',
			description  TEXT NOT NULL DEFAULT '',
			source_tag   TEXT NOT NULL,
			print_count  INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_headers_source ON journal_headers(source_tag)`,
		`CREATE INDEX IF NOT EXISTS idx_headers_date ON journal_headers(date)`,

		// Journal lines. source_tag is denormalized from the header so the
		// UNIQUE(source_tag, category_id) backstop can stop a duplicate
		// double-post even if two writers race past the existence check.
		`CREATE TABLE IF NOT EXISTS journal_lines (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			header_id    TEXT NOT NULL REFERENCES journal_headers(id) ON DELETE CASCADE,
			source_tag   TEXT NOT NULL,
			account_id   INTEGER NOT NULL,
			category_id  INTEGER,
			debit        TEXT NOT NULL DEFAULT '0',
			credit       TEXT NOT NULL DEFAULT '0',
			cost_unit_id INTEGER,
			asset_id     INTEGER,
			UNIQUE(source_tag, category_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_lines_header ON journal_lines(header_id)`,
		`CREATE INDEX IF NOT EXISTS idx_lines_account ON journal_lines(account_id)`,

		// Time-bucketed reference number counters
		`CREATE TABLE IF NOT EXISTS sequence_counters (
			key   TEXT PRIMARY KEY,
			value INTEGER NOT NULL DEFAULT 0
		)`,
	}
}
