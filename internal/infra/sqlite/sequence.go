package sqlite

import "database/sql"

// ─── Sequence Counter Operations ────────────────────────────────────────────

// NextSequence atomically increments the counter for a bucket key and
// returns the new value. The upsert is a single read-modify-write statement,
// so concurrent callers can never observe a lost update.
func (db *DB) NextSequence(key string) (int64, error) {
	var value int64
	err := db.db.QueryRow(`
		INSERT INTO sequence_counters (key, value) VALUES (?, 1)
		ON CONFLICT(key) DO UPDATE SET value = value + 1
		RETURNING value
	`, key).Scan(&value)
	return value, err
}

// PeekSequence returns the current counter value without incrementing.
// Missing keys read as zero.
func (db *DB) PeekSequence(key string) (int64, error) {
	var value int64
	err := db.db.QueryRow(`SELECT value FROM sequence_counters WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return value, err
}
