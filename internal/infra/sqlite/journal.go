package sqlite

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pdamkota/asetledger/internal/domain"
)

// ─── Journal Operations ─────────────────────────────────────────────────────

// DoubleEntryParams is the resolved input for one idempotent posting attempt.
// Category and account ids are resolved by the posting service before the
// transaction starts; only the atomic check-then-create happens here.
type DoubleEntryParams struct {
	HeaderID         string
	SourceTag        string
	Date             time.Time
	Description      string
	ReferenceNo      string
	VoucherNo        string
	DebitCategoryID  int64
	DebitAccountID   int64
	CreditCategoryID int64
	CreditAccountID  int64
	Amount           decimal.Decimal
	CostUnitID       *int64
	AssetID          *int64
}

// PostDoubleEntry creates the missing side(s) of a balanced double entry for
// a source event inside a single transaction. It returns how many lines were
// created: 0 means both sides already existed (idempotent success). The
// UNIQUE(source_tag, category_id) constraint is the last line of defense
// against two writers racing past the existence check; a violation is folded
// into the same already-posted result.
func (db *DB) PostDoubleEntry(p DoubleEntryParams) (created int, err error) {
	tx, err := db.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	debitExists, err := lineExists(tx, p.SourceTag, p.DebitCategoryID)
	if err != nil {
		return 0, err
	}
	creditExists, err := lineExists(tx, p.SourceTag, p.CreditCategoryID)
	if err != nil {
		return 0, err
	}
	if debitExists && creditExists {
		return 0, nil
	}

	// Attach to the source's existing header when one side was posted
	// earlier; otherwise open a new header.
	headerID, err := findHeader(tx, p.SourceTag)
	if err != nil {
		return 0, err
	}
	if headerID == "" {
		headerID = p.HeaderID
		_, err = tx.Exec(`
			INSERT INTO journal_headers (id, date, reference_no, voucher_no, description, source_tag)
			VALUES (?, ?, ?, ?, ?, ?)
		`, headerID, p.Date.Format(dateFormat), p.ReferenceNo, p.VoucherNo, p.Description, p.SourceTag)
		if err != nil {
			return 0, err
		}
	}

	if !debitExists {
		_, err = tx.Exec(`
			INSERT INTO journal_lines (header_id, source_tag, account_id, category_id, debit, credit, cost_unit_id, asset_id)
			VALUES (?, ?, ?, ?, ?, '0', ?, ?)
		`, headerID, p.SourceTag, p.DebitAccountID, p.DebitCategoryID, p.Amount.String(), p.CostUnitID, p.AssetID)
		if isUniqueViolation(err) {
			return 0, nil
		}
		if err != nil {
			return 0, err
		}
		created++
	}
	if !creditExists {
		_, err = tx.Exec(`
			INSERT INTO journal_lines (header_id, source_tag, account_id, category_id, debit, credit, cost_unit_id, asset_id)
			VALUES (?, ?, ?, ?, '0', ?, ?, ?)
		`, headerID, p.SourceTag, p.CreditAccountID, p.CreditCategoryID, p.Amount.String(), p.CostUnitID, p.AssetID)
		if isUniqueViolation(err) {
			return 0, nil
		}
		if err != nil {
			return 0, err
		}
		created++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return created, nil
}

// SourcePosted reports whether both sides of a double entry already exist
// for a source event. This is an unlocked read; PostDoubleEntry re-checks
// inside its transaction.
func (db *DB) SourcePosted(sourceTag string, debitCategoryID, creditCategoryID int64) (bool, error) {
	var n int
	err := db.db.QueryRow(`
		SELECT COUNT(*) FROM journal_lines
		WHERE source_tag = ? AND category_id IN (?, ?)
	`, sourceTag, debitCategoryID, creditCategoryID).Scan(&n)
	return n >= 2, err
}

func lineExists(tx *sql.Tx, sourceTag string, categoryID int64) (bool, error) {
	var n int
	err := tx.QueryRow(`
		SELECT COUNT(*) FROM journal_lines WHERE source_tag = ? AND category_id = ?
	`, sourceTag, categoryID).Scan(&n)
	return n > 0, err
}

func findHeader(tx *sql.Tx, sourceTag string) (string, error) {
	var id string
	err := tx.QueryRow(`SELECT id FROM journal_headers WHERE source_tag = ? LIMIT 1`, sourceTag).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return id, err
}

// ─── Header Browsing ────────────────────────────────────────────────────────

// HeaderFilter narrows ListHeaders.
type HeaderFilter struct {
	From   *time.Time
	To     *time.Time
	Query  string // substring of description, reference or voucher number
	Source string // exact source_tag match
	Limit  int
	Offset int
}

// ListHeaders returns journal headers (without lines) newest first, plus the
// total count matching the filter.
func (db *DB) ListHeaders(f HeaderFilter) ([]domain.JournalHeader, int, error) {
	where := ` WHERE 1=1`
	var args []any
	if f.From != nil {
		where += ` AND date >= ?`
		args = append(args, f.From.Format(dateFormat))
	}
	if f.To != nil {
		where += ` AND date <= ?`
		args = append(args, f.To.Format(dateFormat))
	}
	if f.Query != "" {
		where += ` AND (description LIKE ? OR reference_no LIKE ? OR voucher_no LIKE ?)`
		pattern := "%" + f.Query + "%"
		args = append(args, pattern, pattern, pattern)
	}
	if f.Source != "" {
		where += ` AND source_tag = ?`
		args = append(args, f.Source)
	}

	var total int
	if err := db.db.QueryRow(`SELECT COUNT(*) FROM journal_headers`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, date, reference_no, voucher_no, description, source_tag, print_count
		FROM journal_headers` + where + ` ORDER BY date DESC, id LIMIT ? OFFSET ?`
	args = append(args, limit, f.Offset)

	rows, err := db.db.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.JournalHeader
	for rows.Next() {
		h, err := scanHeader(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, h)
	}
	return result, total, rows.Err()
}

// GetHeader retrieves one header with its lines and bumps the print count.
func (db *DB) GetHeader(id string) (domain.JournalHeader, error) {
	row := db.db.QueryRow(`
		SELECT id, date, reference_no, voucher_no, description, source_tag, print_count
		FROM journal_headers WHERE id = ?
	`, id)
	h, err := scanHeader(row)
	if err != nil {
		return h, err
	}
	if h.Lines, err = db.linesForHeader(id); err != nil {
		return h, err
	}
	if _, err := db.db.Exec(`UPDATE journal_headers SET print_count = print_count + 1 WHERE id = ?`, id); err != nil {
		return h, err
	}
	h.PrintCount++
	return h, nil
}

// HeadersBySource returns every header (with lines) for a source event.
func (db *DB) HeadersBySource(sourceTag string) ([]domain.JournalHeader, error) {
	rows, err := db.db.Query(`
		SELECT id, date, reference_no, voucher_no, description, source_tag, print_count
		FROM journal_headers WHERE source_tag = ? ORDER BY date, id
	`, sourceTag)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.JournalHeader
	for rows.Next() {
		h, err := scanHeader(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range result {
		if result[i].Lines, err = db.linesForHeader(result[i].ID); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// DeleteHeadersBySource removes all headers derived from a source event.
// Lines cascade, restoring a clean slate for re-posting.
func (db *DB) DeleteHeadersBySource(sourceTag string) (int, error) {
	res, err := db.db.Exec(`DELETE FROM journal_headers WHERE source_tag = ?`, sourceTag)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (db *DB) linesForHeader(headerID string) ([]domain.JournalLine, error) {
	rows, err := db.db.Query(`
		SELECT id, header_id, account_id, category_id, debit, credit, cost_unit_id, asset_id
		FROM journal_lines WHERE header_id = ? ORDER BY id
	`, headerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.JournalLine
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

// ─── Aggregation Reads ──────────────────────────────────────────────────────

// LineFilter narrows LinesAsOf.
type LineFilter struct {
	CostUnitID *int64
	AssetID    *int64
}

// LinesAsOf returns every journal line whose header is dated on or before
// the cutoff. This is a snapshot read; the trial balance tolerates entries
// posted concurrently.
func (db *DB) LinesAsOf(cutoff time.Time, f LineFilter) ([]domain.JournalLine, error) {
	query := `
		SELECT l.id, l.header_id, l.account_id, l.category_id, l.debit, l.credit, l.cost_unit_id, l.asset_id
		FROM journal_lines l
		JOIN journal_headers h ON h.id = l.header_id
		WHERE h.date <= ?`
	args := []any{cutoff.Format(dateFormat)}
	if f.CostUnitID != nil {
		query += ` AND l.cost_unit_id = ?`
		args = append(args, *f.CostUnitID)
	}
	if f.AssetID != nil {
		query += ` AND l.asset_id = ?`
		args = append(args, *f.AssetID)
	}

	rows, err := db.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.JournalLine
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

// PostedPeriods counts distinct depreciation source events already posted
// for an asset.
func (db *DB) PostedPeriods(assetID int64) (int, error) {
	var n int
	err := db.db.QueryRow(`
		SELECT COUNT(DISTINCT source_tag) FROM journal_lines
		WHERE asset_id = ? AND source_tag LIKE 'depreciation:%'
	`, assetID).Scan(&n)
	return n, err
}

func scanHeader(row rowScanner) (domain.JournalHeader, error) {
	var h domain.JournalHeader
	var date string
	err := row.Scan(&h.ID, &date, &h.ReferenceNo, &h.VoucherNo, &h.Description, &h.SourceTag, &h.PrintCount)
	if err == sql.ErrNoRows {
		return h, domain.NotFoundf("journal header not found")
	}
	if err != nil {
		return h, err
	}
	if h.Date, err = time.Parse(dateFormat, date); err != nil {
		return h, err
	}
	return h, nil
}

func scanLine(row rowScanner) (domain.JournalLine, error) {
	var l domain.JournalLine
	var debit, credit string
	var category, costUnit, asset sql.NullInt64
	err := row.Scan(&l.ID, &l.HeaderID, &l.AccountID, &category, &debit, &credit, &costUnit, &asset)
	if err != nil {
		return l, err
	}
	if l.Debit, err = decimal.NewFromString(debit); err != nil {
		return l, err
	}
	if l.Credit, err = decimal.NewFromString(credit); err != nil {
		return l, err
	}
	if category.Valid {
		l.CategoryID = &category.Int64
	}
	if costUnit.Valid {
		l.CostUnitID = &costUnit.Int64
	}
	if asset.Valid {
		l.AssetID = &asset.Int64
	}
	return l, nil
}
