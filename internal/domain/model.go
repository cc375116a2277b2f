// Package domain contains pure business types with ZERO infrastructure imports.
// This is the innermost ring of the application; it depends on nothing
// except the decimal type used for money.
package domain

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// ─── Chart of Accounts ──────────────────────────────────────────────────────

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountAsset       AccountType = "ASSET"
	AccountLiability   AccountType = "LIABILITY"
	AccountEquity      AccountType = "EQUITY"
	AccountRevenue     AccountType = "REVENUE"
	AccountExpense     AccountType = "EXPENSE"
	AccountContraAsset AccountType = "CONTRA_ASSET"
	AccountContraRev   AccountType = "CONTRA_REVENUE"
)

// Valid reports whether the account type is one of the enumerated values.
func (t AccountType) Valid() bool {
	switch t {
	case AccountAsset, AccountLiability, AccountEquity, AccountRevenue,
		AccountExpense, AccountContraAsset, AccountContraRev:
		return true
	}
	return false
}

// NormalBalance is the side on which an account's balance is conventionally
// expressed.
type NormalBalance string

const (
	NormalDebit  NormalBalance = "DEBIT"
	NormalCredit NormalBalance = "CREDIT"
)

// Valid reports whether the normal balance is DEBIT or CREDIT.
func (n NormalBalance) Valid() bool {
	return n == NormalDebit || n == NormalCredit
}

// Account is one node in the hierarchical chart of accounts.
// ParentID is nil for top-level accounts. The hierarchy is stored flat;
// ancestor chains are resolved by iterative parent lookups with a cycle guard.
type Account struct {
	ID            int64         `json:"id"`
	Code          string        `json:"code"`
	Name          string        `json:"name"`
	Type          AccountType   `json:"type"`
	NormalBalance NormalBalance `json:"normal_balance"`
	ParentID      *int64        `json:"parent_id,omitempty"`
	IsActive      bool          `json:"is_active"`
}

// MaxAccountDepth bounds the ancestor walk so a corrupted parent chain can
// never loop forever.
const MaxAccountDepth = 32

// ─── Cost Categories ────────────────────────────────────────────────────────

// CategoryType is the business classification of a cost category.
// The values follow the operator's bookkeeping terms.
type CategoryType string

const (
	CategoryBiaya      CategoryType = "BIAYA"      // expense
	CategoryPendapatan CategoryType = "PENDAPATAN" // revenue
	CategoryAset       CategoryType = "ASET"       // asset
)

// Valid reports whether the category type is enumerated.
func (t CategoryType) Valid() bool {
	return t == CategoryBiaya || t == CategoryPendapatan || t == CategoryAset
}

// CostCategory maps a business cost category to a default debit/credit
// account pair used when generating journal entries from source events.
// Either mapping may be absent until an operator configures it.
type CostCategory struct {
	ID              int64        `json:"id"`
	Code            string       `json:"code"`
	Name            string       `json:"name"`
	Type            CategoryType `json:"type"`
	DebitAccountID  *int64       `json:"debit_account_id,omitempty"`
	CreditAccountID *int64       `json:"credit_account_id,omitempty"`
}

// ─── Assets ─────────────────────────────────────────────────────────────────

// DepreciationMethod selects the schedule algorithm for an asset.
type DepreciationMethod string

const (
	MethodStraightLine     DepreciationMethod = "STRAIGHT_LINE"
	MethodDecliningBalance DepreciationMethod = "DECLINING_BALANCE"
)

// Valid reports whether the method is enumerated.
func (m DepreciationMethod) Valid() bool {
	return m == MethodStraightLine || m == MethodDecliningBalance
}

// PeriodBasis selects monthly or yearly depreciation periods.
type PeriodBasis string

const (
	BasisMonthly PeriodBasis = "MONTHLY"
	BasisYearly  PeriodBasis = "YEARLY"
)

// Valid reports whether the basis is enumerated.
func (b PeriodBasis) Valid() bool {
	return b == BasisMonthly || b == BasisYearly
}

// CategoryLand marks land assets, which are never depreciated.
const CategoryLand = "LAND"

// Asset carries the parameters that drive depreciation scheduling.
// Assets are never disposed by this core.
type Asset struct {
	ID                int64              `json:"id"`
	AssetNo           string             `json:"asset_no"`
	Name              string             `json:"name"`
	Category          string             `json:"category"`
	AcquisitionValue  decimal.Decimal    `json:"acquisition_value"`
	ResidualValue     decimal.Decimal    `json:"residual_value"`
	UsefulLifeYears   int                `json:"useful_life_years"`
	Method            DepreciationMethod `json:"method"`
	DepreciationClass int                `json:"depreciation_class"`
	Basis             PeriodBasis        `json:"basis"`
	StartDate         *time.Time         `json:"start_date,omitempty"`
	CommissionedAt    *time.Time         `json:"commissioned_at,omitempty"`
	RegisteredYear    int                `json:"registered_year"`
	CostUnitID        *int64             `json:"cost_unit_id,omitempty"`
}

// Depreciable reports whether a schedule should exist for the asset at all.
// Land, zero/negative life, and non-positive acquisition values yield an
// empty schedule.
func (a Asset) Depreciable() bool {
	if a.Category == CategoryLand {
		return false
	}
	if a.UsefulLifeYears <= 0 {
		return false
	}
	return a.AcquisitionValue.IsPositive()
}

// AnchorDate is the date of the asset's first depreciation period:
// the declared start date, else the commissioning date, else January 1st of
// the registration year.
func (a Asset) AnchorDate() time.Time {
	if a.StartDate != nil {
		return *a.StartDate
	}
	if a.CommissionedAt != nil {
		return *a.CommissionedAt
	}
	return time.Date(a.RegisteredYear, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// ScheduleEntry is one period row of an asset's depreciation schedule.
// The whole schedule is regenerated wholesale on every parameter change;
// rows are never patched individually.
type ScheduleEntry struct {
	ID           int64              `json:"id"`
	AssetID      int64              `json:"asset_id"`
	Period       time.Time          `json:"period"` // first day of the period
	Method       DepreciationMethod `json:"method"`
	AnnualRate   decimal.Decimal    `json:"annual_rate"`
	OpeningValue decimal.Decimal    `json:"opening_value"`
	Expense      decimal.Decimal    `json:"expense"`
	Accumulated  decimal.Decimal    `json:"accumulated"`
	ClosingValue decimal.Decimal    `json:"closing_value"`
}

// ─── Journal ────────────────────────────────────────────────────────────────

// JournalHeader groups the lines of one double-entry posting.
// SourceTag is an opaque "<kind>:<id>" string identifying the originating
// event, e.g. "depreciation:42" or "manual:7".
type JournalHeader struct {
	ID          string        `json:"id"`
	Date        time.Time     `json:"date"`
	ReferenceNo string        `json:"reference_no,omitempty"`
	VoucherNo   string        `json:"voucher_no,omitempty"`
	Description string        `json:"description"`
	SourceTag   string        `json:"source_tag"`
	PrintCount  int           `json:"print_count"`
	Lines       []JournalLine `json:"lines,omitempty"`
}

// JournalLine is a single debit or credit against an account.
// CategoryID tags the line with the cost category that produced it; the
// posting service uses the tag to detect an already-posted side.
type JournalLine struct {
	ID         int64           `json:"id"`
	HeaderID   string          `json:"header_id"`
	AccountID  int64           `json:"account_id"`
	CategoryID *int64          `json:"category_id,omitempty"`
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
	CostUnitID *int64          `json:"cost_unit_id,omitempty"`
	AssetID    *int64          `json:"asset_id,omitempty"`
}

// Balanced reports whether the header's lines sum to equal debits and
// credits. Other event sources may create unbalanced headers; the system
// exposes this as a derived flag rather than preventing them.
func (h JournalHeader) Balanced() bool {
	debit := decimal.Zero
	credit := decimal.Zero
	for _, l := range h.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit.Equal(credit)
}

// SourceTag formats the canonical "<kind>:<id>" tag for a source event.
func SourceTag(kind string, id int64) string {
	return kind + ":" + strconv.FormatInt(id, 10)
}

// ─── Roles ──────────────────────────────────────────────────────────────────

// Role names resolved by the external auth collaborator and carried in the
// bearer token.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RolePimpinan Role = "PIMPINAN"
	RoleKeuangan Role = "KEUANGAN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RolePimpinan, RoleKeuangan:
		return true
	}
	return false
}
