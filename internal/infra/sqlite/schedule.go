package sqlite

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pdamkota/asetledger/internal/domain"
)

// ─── Depreciation Schedule Operations ───────────────────────────────────────

// ReplaceSchedule atomically deletes every schedule row for an asset and
// inserts the recomputed rows. Readers never observe a half-rewritten
// schedule; there is no incremental update path.
func (db *DB) ReplaceSchedule(assetID int64, rows []domain.ScheduleEntry) error {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM depreciation_schedule WHERE asset_id = ?`, assetID); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO depreciation_schedule (asset_id, period, method, annual_rate,
			opening_value, expense, accumulated, closing_value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err := stmt.Exec(assetID, r.Period.Format(dateFormat), string(r.Method),
			r.AnnualRate.String(), r.OpeningValue.String(), r.Expense.String(),
			r.Accumulated.String(), r.ClosingValue.String())
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListSchedule returns an asset's schedule rows in period order.
func (db *DB) ListSchedule(assetID int64) ([]domain.ScheduleEntry, error) {
	rows, err := db.db.Query(`
		SELECT id, asset_id, period, method, annual_rate, opening_value,
			expense, accumulated, closing_value
		FROM depreciation_schedule WHERE asset_id = ? ORDER BY period
	`, assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ScheduleEntry
	for rows.Next() {
		e, err := scanScheduleEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// GetScheduleEntry retrieves one schedule row by id.
func (db *DB) GetScheduleEntry(id int64) (domain.ScheduleEntry, error) {
	row := db.db.QueryRow(`
		SELECT id, asset_id, period, method, annual_rate, opening_value,
			expense, accumulated, closing_value
		FROM depreciation_schedule WHERE id = ?
	`, id)
	return scanScheduleEntry(row)
}

func scanScheduleEntry(row rowScanner) (domain.ScheduleEntry, error) {
	var e domain.ScheduleEntry
	var period, method, rate, opening, expense, accumulated, closing string
	err := row.Scan(&e.ID, &e.AssetID, &period, &method, &rate, &opening,
		&expense, &accumulated, &closing)
	if err == sql.ErrNoRows {
		return e, domain.NotFoundf("schedule entry not found")
	}
	if err != nil {
		return e, err
	}
	if e.Period, err = time.Parse(dateFormat, period); err != nil {
		return e, err
	}
	e.Method = domain.DepreciationMethod(method)
	if e.AnnualRate, err = decimal.NewFromString(rate); err != nil {
		return e, err
	}
	if e.OpeningValue, err = decimal.NewFromString(opening); err != nil {
		return e, err
	}
	if e.Expense, err = decimal.NewFromString(expense); err != nil {
		return e, err
	}
	if e.Accumulated, err = decimal.NewFromString(accumulated); err != nil {
		return e, err
	}
	if e.ClosingValue, err = decimal.NewFromString(closing); err != nil {
		return e, err
	}
	return e, nil
}
