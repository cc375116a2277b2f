// Package assets owns the fixed-asset registry: asset records carry the
// parameters that drive depreciation scheduling.
package assets

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pdamkota/asetledger/internal/app/depreciation"
	"github.com/pdamkota/asetledger/internal/app/sequence"
	"github.com/pdamkota/asetledger/internal/domain"
	"github.com/pdamkota/asetledger/internal/infra/sqlite"
)

// Service manages asset records. Any change to depreciation parameters
// triggers a wholesale schedule regeneration.
type Service struct {
	db    *sqlite.DB
	seq   *sequence.Allocator
	sched *depreciation.Service
}

// NewService creates an asset service.
func NewService(db *sqlite.DB, seq *sequence.Allocator, sched *depreciation.Service) *Service {
	return &Service{db: db, seq: seq, sched: sched}
}

// Params carries the fields for asset registration.
type Params struct {
	Name              string
	Category          string
	AcquisitionValue  decimal.Decimal
	ResidualValue     decimal.Decimal
	UsefulLifeYears   int
	Method            domain.DepreciationMethod
	DepreciationClass int
	Basis             domain.PeriodBasis
	StartDate         *time.Time
	CommissionedAt    *time.Time
	RegisteredYear    int
	CostUnitID        *int64
}

// Create registers an asset, assigns it a sequential asset number, and
// builds its initial schedule.
func (s *Service) Create(p Params) (domain.Asset, error) {
	a := domain.Asset{
		Name:              p.Name,
		Category:          p.Category,
		AcquisitionValue:  domain.Round2(p.AcquisitionValue),
		ResidualValue:     domain.Round2(p.ResidualValue),
		UsefulLifeYears:   p.UsefulLifeYears,
		Method:            p.Method,
		DepreciationClass: p.DepreciationClass,
		Basis:             p.Basis,
		StartDate:         p.StartDate,
		CommissionedAt:    p.CommissionedAt,
		RegisteredYear:    p.RegisteredYear,
		CostUnitID:        p.CostUnitID,
	}
	if a.RegisteredYear == 0 {
		a.RegisteredYear = time.Now().Year()
	}
	if err := validate(a); err != nil {
		return domain.Asset{}, err
	}

	assetNo, err := s.seq.NextAssetNo(time.Now())
	if err != nil {
		return domain.Asset{}, err
	}
	a.AssetNo = assetNo

	id, err := s.db.InsertAsset(a)
	if err != nil {
		return domain.Asset{}, err
	}
	a.ID = id

	if _, err := s.sched.Regenerate(id); err != nil {
		return domain.Asset{}, err
	}
	return a, nil
}

// Patch carries partial parameter updates; nil fields are left unchanged.
type Patch struct {
	Name              *string
	Category          *string
	AcquisitionValue  *decimal.Decimal
	ResidualValue     *decimal.Decimal
	UsefulLifeYears   *int
	Method            *domain.DepreciationMethod
	DepreciationClass *int
	Basis             *domain.PeriodBasis
	StartDate         *time.Time
	CommissionedAt    *time.Time
	CostUnitID        *int64
}

// UpdateParameters applies a partial update and regenerates the schedule.
// Regeneration is destructive: prior rows are replaced wholesale.
func (s *Service) UpdateParameters(id int64, patch Patch) (domain.Asset, error) {
	a, err := s.db.GetAsset(id)
	if err != nil {
		return domain.Asset{}, err
	}

	if patch.Name != nil {
		a.Name = *patch.Name
	}
	if patch.Category != nil {
		a.Category = *patch.Category
	}
	if patch.AcquisitionValue != nil {
		a.AcquisitionValue = domain.Round2(*patch.AcquisitionValue)
	}
	if patch.ResidualValue != nil {
		a.ResidualValue = domain.Round2(*patch.ResidualValue)
	}
	if patch.UsefulLifeYears != nil {
		a.UsefulLifeYears = *patch.UsefulLifeYears
	}
	if patch.Method != nil {
		a.Method = *patch.Method
	}
	if patch.DepreciationClass != nil {
		a.DepreciationClass = *patch.DepreciationClass
	}
	if patch.Basis != nil {
		a.Basis = *patch.Basis
	}
	if patch.StartDate != nil {
		a.StartDate = patch.StartDate
	}
	if patch.CommissionedAt != nil {
		a.CommissionedAt = patch.CommissionedAt
	}
	if patch.CostUnitID != nil {
		a.CostUnitID = patch.CostUnitID
	}

	if err := validate(a); err != nil {
		return domain.Asset{}, err
	}
	if err := s.db.UpdateAsset(a); err != nil {
		return domain.Asset{}, err
	}
	if _, err := s.sched.Regenerate(id); err != nil {
		return domain.Asset{}, err
	}
	return a, nil
}

// Get returns one asset.
func (s *Service) Get(id int64) (domain.Asset, error) {
	return s.db.GetAsset(id)
}

// List returns all assets ordered by asset number.
func (s *Service) List() ([]domain.Asset, error) {
	return s.db.ListAssets()
}

// Summary aggregates an asset's schedule for display.
type Summary struct {
	Periods       int             `json:"periods"`
	TotalExpense  decimal.Decimal `json:"total_expense"`
	Accumulated   decimal.Decimal `json:"accumulated"`
	PostedPeriods int             `json:"posted_periods"`
}

// Summarize computes the schedule summary for an asset.
func (s *Service) Summarize(id int64, rows []domain.ScheduleEntry) (Summary, error) {
	sum := Summary{Periods: len(rows)}
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Expense)
	}
	sum.TotalExpense = total
	if len(rows) > 0 {
		sum.Accumulated = rows[len(rows)-1].Accumulated
	} else {
		sum.Accumulated = decimal.Zero
	}

	posted, err := s.db.PostedPeriods(id)
	if err != nil {
		return Summary{}, err
	}
	sum.PostedPeriods = posted
	return sum, nil
}

func validate(a domain.Asset) error {
	if a.Name == "" {
		return domain.Validationf("asset name must not be empty")
	}
	if !a.Method.Valid() {
		return domain.Validationf("unknown depreciation method %q", a.Method)
	}
	if !a.Basis.Valid() {
		return domain.Validationf("unknown period basis %q", a.Basis)
	}
	if a.AcquisitionValue.IsNegative() {
		return domain.Validationf("acquisition value must not be negative")
	}
	if a.ResidualValue.IsNegative() {
		return domain.Validationf("residual value must not be negative")
	}
	if a.Depreciable() && a.AcquisitionValue.LessThanOrEqual(a.ResidualValue) {
		return domain.Validationf("acquisition value %s must exceed residual value %s",
			a.AcquisitionValue, a.ResidualValue)
	}
	// The class must resolve to a rate now, not when the generator runs;
	// a late failure would leave the stored row and schedule disagreeing.
	if a.Method == domain.MethodDecliningBalance {
		if _, ok := depreciation.ClassRate(a.DepreciationClass); !ok {
			return domain.Validationf("unknown depreciation class %d", a.DepreciationClass)
		}
	}
	return nil
}
