package sqlite

import (
	"database/sql"

	"github.com/pdamkota/asetledger/internal/domain"
)

// ─── Account Operations ─────────────────────────────────────────────────────

// InsertAccount creates an account and returns its id.
// A duplicate code maps to a domain conflict.
func (db *DB) InsertAccount(a domain.Account) (int64, error) {
	res, err := db.db.Exec(`
		INSERT INTO accounts (code, name, type, normal_balance, parent_id, is_active)
		VALUES (?, ?, ?, ?, ?, ?)
	`, a.Code, a.Name, string(a.Type), string(a.NormalBalance), a.ParentID, boolToInt(a.IsActive))
	if err != nil {
		return 0, translateUnique(err, "account code "+a.Code)
	}
	return res.LastInsertId()
}

// GetAccount retrieves one account by id.
func (db *DB) GetAccount(id int64) (domain.Account, error) {
	row := db.db.QueryRow(`
		SELECT id, code, name, type, normal_balance, parent_id, is_active
		FROM accounts WHERE id = ?
	`, id)
	return scanAccount(row)
}

// ListAccounts returns accounts, optionally filtered by a code/name substring,
// ordered by code.
func (db *DB) ListAccounts(q string) ([]domain.Account, error) {
	query := `SELECT id, code, name, type, normal_balance, parent_id, is_active FROM accounts`
	var args []any
	if q != "" {
		query += ` WHERE code LIKE ? OR name LIKE ?`
		pattern := "%" + q + "%"
		args = append(args, pattern, pattern)
	}
	query += ` ORDER BY code`

	rows, err := db.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

// UpdateAccount overwrites an account's mutable fields.
func (db *DB) UpdateAccount(a domain.Account) error {
	res, err := db.db.Exec(`
		UPDATE accounts
		SET code = ?, name = ?, type = ?, normal_balance = ?, parent_id = ?, is_active = ?
		WHERE id = ?
	`, a.Code, a.Name, string(a.Type), string(a.NormalBalance), a.ParentID, boolToInt(a.IsActive), a.ID)
	if err != nil {
		return translateUnique(err, "account code "+a.Code)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFoundf("account %d not found", a.ID)
	}
	return nil
}

// DeleteAccount removes an account. Children are detached (parent_id → NULL),
// never cascaded. Deletion is blocked while journal lines reference the
// account, so historical postings always resolve.
func (db *DB) DeleteAccount(id int64) error {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var refs int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM journal_lines WHERE account_id = ?`, id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return domain.Conflictf("account %d is referenced by %d journal lines", id, refs)
	}

	if _, err := tx.Exec(`UPDATE accounts SET parent_id = NULL WHERE parent_id = ?`, id); err != nil {
		return err
	}

	res, err := tx.Exec(`DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFoundf("account %d not found", id)
	}
	return tx.Commit()
}

// AccountReferenced reports whether any journal line references the account.
func (db *DB) AccountReferenced(id int64) (bool, error) {
	var refs int
	err := db.db.QueryRow(`SELECT COUNT(*) FROM journal_lines WHERE account_id = ?`, id).Scan(&refs)
	return refs > 0, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (domain.Account, error) {
	var a domain.Account
	var typ, normal string
	var parent sql.NullInt64
	var active int
	err := row.Scan(&a.ID, &a.Code, &a.Name, &typ, &normal, &parent, &active)
	if err == sql.ErrNoRows {
		return a, domain.NotFoundf("account not found")
	}
	if err != nil {
		return a, err
	}
	a.Type = domain.AccountType(typ)
	a.NormalBalance = domain.NormalBalance(normal)
	if parent.Valid {
		a.ParentID = &parent.Int64
	}
	a.IsActive = active == 1
	return a, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
