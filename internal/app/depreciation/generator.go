// Package depreciation computes per-asset depreciation schedules.
// Generation is pure: the same asset parameters always yield identical rows,
// which is what makes wholesale regeneration safe.
package depreciation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pdamkota/asetledger/internal/domain"
)

// ─── Declining-Balance Rate Classes ─────────────────────────────────────────

// classRates maps a depreciation class to its fixed annual rate.
var classRates = map[int]decimal.Decimal{
	1: decimal.RequireFromString("0.05"),
	2: decimal.RequireFromString("0.10"),
	3: decimal.RequireFromString("0.125"),
	4: decimal.RequireFromString("0.25"),
	5: decimal.RequireFromString("0.50"),
}

// ClassRate returns the annual rate for a declining-balance class.
func ClassRate(class int) (decimal.Decimal, bool) {
	r, ok := classRates[class]
	return r, ok
}

var (
	one    = decimal.NewFromInt(1)
	twelve = decimal.NewFromInt(12)
)

// ─── Schedule Generation ────────────────────────────────────────────────────

// Generate computes the full depreciation schedule for an asset.
// Non-depreciable assets yield an empty (nil) schedule. Every period's
// expense is rounded to 2 decimal places before it feeds the next period,
// and the final period is clipped so the closing value never drops below
// the residual value.
func Generate(a domain.Asset) ([]domain.ScheduleEntry, error) {
	if !a.Depreciable() {
		return nil, nil
	}
	if err := validateValues(a); err != nil {
		return nil, err
	}

	annualRate, err := annualRateFor(a.Method, a.UsefulLifeYears, a.DepreciationClass, nil)
	if err != nil {
		return nil, err
	}

	anchor := firstOfPeriod(a.AnchorDate())
	maxPeriods := a.UsefulLifeYears
	if a.Basis == domain.BasisMonthly {
		maxPeriods = a.UsefulLifeYears * 12
	}

	return run(runParams{
		method:      a.Method,
		basis:       a.Basis,
		annualRate:  annualRate,
		acquisition: a.AcquisitionValue,
		residual:    a.ResidualValue,
		lifeYears:   a.UsefulLifeYears,
		anchor:      anchor,
		maxPeriods:  maxPeriods,
		assetID:     a.ID,
	}), nil
}

// ─── Simulation ─────────────────────────────────────────────────────────────

// Window caps keep simulation output bounded.
const (
	MaxSimulationMonths = 120
	MaxSimulationYears  = 50
)

// SimulationRequest describes an unsaved what-if computation over an
// explicit date window, optionally overriding the asset's method or rate.
type SimulationRequest struct {
	From         time.Time
	To           time.Time
	Basis        domain.PeriodBasis
	Method       domain.DepreciationMethod // empty = asset's method
	RateOverride *decimal.Decimal          // declining balance only
}

// Simulate runs the per-period computation over the requested window
// without persisting anything. A window larger than the cap fails with a
// validation error naming the limit.
func Simulate(a domain.Asset, req SimulationRequest) ([]domain.ScheduleEntry, error) {
	if !req.Basis.Valid() {
		return nil, domain.Validationf("basis must be MONTHLY or YEARLY")
	}
	if req.To.Before(req.From) {
		return nil, domain.Validationf("window end %s is before start %s",
			req.To.Format("2006-01-02"), req.From.Format("2006-01-02"))
	}

	method := a.Method
	if req.Method != "" {
		if !req.Method.Valid() {
			return nil, domain.Validationf("unknown depreciation method %q", req.Method)
		}
		method = req.Method
	}

	if !a.Depreciable() {
		return nil, nil
	}
	if err := validateValues(a); err != nil {
		return nil, err
	}

	periods := periodsInWindow(req.From, req.To, req.Basis)
	if req.Basis == domain.BasisMonthly && periods > MaxSimulationMonths {
		return nil, domain.Validationf("simulation window of %d monthly periods exceeds the limit of %d", periods, MaxSimulationMonths)
	}
	if req.Basis == domain.BasisYearly && periods > MaxSimulationYears {
		return nil, domain.Validationf("simulation window of %d yearly periods exceeds the limit of %d", periods, MaxSimulationYears)
	}

	annualRate, err := annualRateFor(method, a.UsefulLifeYears, a.DepreciationClass, req.RateOverride)
	if err != nil {
		return nil, err
	}

	return run(runParams{
		method:      method,
		basis:       req.Basis,
		annualRate:  annualRate,
		acquisition: a.AcquisitionValue,
		residual:    a.ResidualValue,
		lifeYears:   a.UsefulLifeYears,
		anchor:      firstOfPeriod(req.From),
		maxPeriods:  periods,
		assetID:     a.ID,
	}), nil
}

// ─── Period Loop ────────────────────────────────────────────────────────────

type runParams struct {
	method      domain.DepreciationMethod
	basis       domain.PeriodBasis
	annualRate  decimal.Decimal
	acquisition decimal.Decimal
	residual    decimal.Decimal
	lifeYears   int
	anchor      time.Time
	maxPeriods  int
	assetID     int64
}

func run(p runParams) []domain.ScheduleEntry {
	depreciable := p.acquisition.Sub(p.residual)

	// Straight line: a flat expense per period, never recomputed from the
	// declining opening balance.
	var flatExpense decimal.Decimal
	if p.method == domain.MethodStraightLine {
		divisor := decimal.NewFromInt(int64(p.lifeYears))
		if p.basis == domain.BasisMonthly {
			divisor = divisor.Mul(twelve)
		}
		flatExpense = domain.Round2(depreciable.Div(divisor))
	}

	periodRate := p.annualRate
	if p.basis == domain.BasisMonthly {
		periodRate = p.annualRate.Div(twelve)
	}

	var rows []domain.ScheduleEntry
	opening := p.acquisition
	accumulated := decimal.Zero

	for i := 0; i < p.maxPeriods; i++ {
		var expense decimal.Decimal
		if p.method == domain.MethodStraightLine {
			expense = flatExpense
		} else {
			expense = domain.Round2(opening.Mul(periodRate))
		}

		// Clip so the closing value never drops below the residual. The
		// last straight-line period also absorbs accumulated rounding
		// drift so the schedule lands exactly on the residual value.
		if opening.Sub(expense).LessThan(p.residual) ||
			(p.method == domain.MethodStraightLine && i == p.maxPeriods-1) {
			expense = domain.Round2(opening.Sub(p.residual))
		}

		closing := domain.Round2(opening.Sub(expense))
		accumulated = domain.Round2(accumulated.Add(expense))

		rows = append(rows, domain.ScheduleEntry{
			AssetID:      p.assetID,
			Period:       advance(p.anchor, p.basis, i),
			Method:       p.method,
			AnnualRate:   p.annualRate,
			OpeningValue: opening,
			Expense:      expense,
			Accumulated:  accumulated,
			ClosingValue: closing,
		})

		opening = closing
		if domain.WithinEpsilon(closing, p.residual) {
			break
		}
	}
	return rows
}

func validateValues(a domain.Asset) error {
	if a.ResidualValue.IsNegative() {
		return domain.Validationf("residual value %s must not be negative", a.ResidualValue)
	}
	if a.AcquisitionValue.LessThanOrEqual(a.ResidualValue) {
		return domain.Validationf("acquisition value %s must exceed residual value %s",
			a.AcquisitionValue, a.ResidualValue)
	}
	return nil
}

func annualRateFor(method domain.DepreciationMethod, lifeYears, class int, override *decimal.Decimal) (decimal.Decimal, error) {
	switch method {
	case domain.MethodStraightLine:
		return one.Div(decimal.NewFromInt(int64(lifeYears))), nil
	case domain.MethodDecliningBalance:
		if override != nil {
			if !override.IsPositive() || override.GreaterThan(one) {
				return decimal.Zero, domain.Validationf("rate override %s must be in (0, 1]", override)
			}
			return *override, nil
		}
		rate, ok := ClassRate(class)
		if !ok {
			return decimal.Zero, domain.Validationf("unknown depreciation class %d", class)
		}
		return rate, nil
	default:
		return decimal.Zero, domain.Validationf("unknown depreciation method %q", method)
	}
}

// firstOfPeriod normalizes a date to the first day of its month.
func firstOfPeriod(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func advance(anchor time.Time, basis domain.PeriodBasis, i int) time.Time {
	if basis == domain.BasisMonthly {
		return anchor.AddDate(0, i, 0)
	}
	return anchor.AddDate(i, 0, 0)
}

func periodsInWindow(from, to time.Time, basis domain.PeriodBasis) int {
	from = firstOfPeriod(from)
	to = firstOfPeriod(to)
	if basis == domain.BasisMonthly {
		return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month()) + 1
	}
	return to.Year() - from.Year() + 1
}
