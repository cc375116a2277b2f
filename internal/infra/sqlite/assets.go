package sqlite

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pdamkota/asetledger/internal/domain"
)

// ─── Asset Operations ───────────────────────────────────────────────────────
// Monetary columns are TEXT holding exact decimal strings; they are never
// stored as floats.

// InsertAsset creates an asset and returns its id.
func (db *DB) InsertAsset(a domain.Asset) (int64, error) {
	res, err := db.db.Exec(`
		INSERT INTO assets (asset_no, name, category, acquisition_value, residual_value,
			useful_life_years, method, depreciation_class, basis, start_date,
			commissioned_at, registered_year, cost_unit_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.AssetNo, a.Name, a.Category, a.AcquisitionValue.String(), a.ResidualValue.String(),
		a.UsefulLifeYears, string(a.Method), a.DepreciationClass, string(a.Basis),
		dateOrNil(a.StartDate), dateOrNil(a.CommissionedAt), a.RegisteredYear, a.CostUnitID)
	if err != nil {
		return 0, translateUnique(err, "asset number "+a.AssetNo)
	}
	return res.LastInsertId()
}

// GetAsset retrieves one asset by id.
func (db *DB) GetAsset(id int64) (domain.Asset, error) {
	row := db.db.QueryRow(`
		SELECT id, asset_no, name, category, acquisition_value, residual_value,
			useful_life_years, method, depreciation_class, basis, start_date,
			commissioned_at, registered_year, cost_unit_id
		FROM assets WHERE id = ?
	`, id)
	return scanAsset(row)
}

// ListAssets returns all assets ordered by asset number.
func (db *DB) ListAssets() ([]domain.Asset, error) {
	rows, err := db.db.Query(`
		SELECT id, asset_no, name, category, acquisition_value, residual_value,
			useful_life_years, method, depreciation_class, basis, start_date,
			commissioned_at, registered_year, cost_unit_id
		FROM assets ORDER BY asset_no
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

// UpdateAsset overwrites an asset's depreciation parameters.
func (db *DB) UpdateAsset(a domain.Asset) error {
	res, err := db.db.Exec(`
		UPDATE assets
		SET name = ?, category = ?, acquisition_value = ?, residual_value = ?,
			useful_life_years = ?, method = ?, depreciation_class = ?, basis = ?,
			start_date = ?, commissioned_at = ?, registered_year = ?, cost_unit_id = ?
		WHERE id = ?
	`, a.Name, a.Category, a.AcquisitionValue.String(), a.ResidualValue.String(),
		a.UsefulLifeYears, string(a.Method), a.DepreciationClass, string(a.Basis),
		dateOrNil(a.StartDate), dateOrNil(a.CommissionedAt), a.RegisteredYear, a.CostUnitID, a.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFoundf("asset %d not found", a.ID)
	}
	return nil
}

func scanAsset(row rowScanner) (domain.Asset, error) {
	var a domain.Asset
	var acq, res, method, basis string
	var start, commissioned sql.NullString
	var costUnit sql.NullInt64
	err := row.Scan(&a.ID, &a.AssetNo, &a.Name, &a.Category, &acq, &res,
		&a.UsefulLifeYears, &method, &a.DepreciationClass, &basis, &start,
		&commissioned, &a.RegisteredYear, &costUnit)
	if err == sql.ErrNoRows {
		return a, domain.NotFoundf("asset not found")
	}
	if err != nil {
		return a, err
	}
	if a.AcquisitionValue, err = decimal.NewFromString(acq); err != nil {
		return a, err
	}
	if a.ResidualValue, err = decimal.NewFromString(res); err != nil {
		return a, err
	}
	a.Method = domain.DepreciationMethod(method)
	a.Basis = domain.PeriodBasis(basis)
	if start.Valid {
		t, err := time.Parse(dateFormat, start.String)
		if err != nil {
			return a, err
		}
		a.StartDate = &t
	}
	if commissioned.Valid {
		t, err := time.Parse(dateFormat, commissioned.String)
		if err != nil {
			return a, err
		}
		a.CommissionedAt = &t
	}
	if costUnit.Valid {
		a.CostUnitID = &costUnit.Int64
	}
	return a, nil
}

func dateOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateFormat)
}
