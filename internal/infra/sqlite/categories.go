package sqlite

import (
	"database/sql"

	"github.com/pdamkota/asetledger/internal/domain"
)

// ─── Cost Category Operations ───────────────────────────────────────────────

// InsertCostCategory creates a cost category and returns its id.
func (db *DB) InsertCostCategory(c domain.CostCategory) (int64, error) {
	res, err := db.db.Exec(`
		INSERT INTO cost_categories (code, name, type, debit_account_id, credit_account_id)
		VALUES (?, ?, ?, ?, ?)
	`, c.Code, c.Name, string(c.Type), c.DebitAccountID, c.CreditAccountID)
	if err != nil {
		return 0, translateUnique(err, "category code "+c.Code)
	}
	return res.LastInsertId()
}

// GetCostCategory retrieves one cost category by id.
func (db *DB) GetCostCategory(id int64) (domain.CostCategory, error) {
	row := db.db.QueryRow(`
		SELECT id, code, name, type, debit_account_id, credit_account_id
		FROM cost_categories WHERE id = ?
	`, id)
	return scanCategory(row)
}

// ListCostCategories returns all categories ordered by code.
func (db *DB) ListCostCategories() ([]domain.CostCategory, error) {
	rows, err := db.db.Query(`
		SELECT id, code, name, type, debit_account_id, credit_account_id
		FROM cost_categories ORDER BY code
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CostCategory
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// UpdateCostCategory overwrites a category's mutable fields.
func (db *DB) UpdateCostCategory(c domain.CostCategory) error {
	res, err := db.db.Exec(`
		UPDATE cost_categories
		SET code = ?, name = ?, type = ?, debit_account_id = ?, credit_account_id = ?
		WHERE id = ?
	`, c.Code, c.Name, string(c.Type), c.DebitAccountID, c.CreditAccountID, c.ID)
	if err != nil {
		return translateUnique(err, "category code "+c.Code)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFoundf("cost category %d not found", c.ID)
	}
	return nil
}

// DeleteCostCategory removes a category unless journal lines reference it.
func (db *DB) DeleteCostCategory(id int64) error {
	var refs int
	if err := db.db.QueryRow(`SELECT COUNT(*) FROM journal_lines WHERE category_id = ?`, id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return domain.Conflictf("cost category %d is referenced by %d journal lines", id, refs)
	}
	res, err := db.db.Exec(`DELETE FROM cost_categories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFoundf("cost category %d not found", id)
	}
	return nil
}

func scanCategory(row rowScanner) (domain.CostCategory, error) {
	var c domain.CostCategory
	var typ string
	var debit, credit sql.NullInt64
	err := row.Scan(&c.ID, &c.Code, &c.Name, &typ, &debit, &credit)
	if err == sql.ErrNoRows {
		return c, domain.NotFoundf("cost category not found")
	}
	if err != nil {
		return c, err
	}
	c.Type = domain.CategoryType(typ)
	if debit.Valid {
		c.DebitAccountID = &debit.Int64
	}
	if credit.Valid {
		c.CreditAccountID = &credit.Int64
	}
	return c, nil
}
