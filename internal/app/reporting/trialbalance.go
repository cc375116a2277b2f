// Package reporting derives the trial balance and balance sheet figures
// from journal lines.
package reporting

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pdamkota/asetledger/internal/domain"
	"github.com/pdamkota/asetledger/internal/infra/observability"
	"github.com/pdamkota/asetledger/internal/infra/sqlite"
)

// Service aggregates journal lines into balanced reports.
type Service struct {
	db *sqlite.DB
}

// NewService creates a reporting service.
func NewService(db *sqlite.DB) *Service {
	return &Service{db: db}
}

// Options narrow a trial balance run.
type Options struct {
	CostUnitID *int64
	AssetID    *int64
	ShowZero   bool
}

// Row is one account's net balance as of the cutoff, expressed on the
// account's normal side: positive when the account sits on its normal
// direction, regardless of type. Contra accounts therefore show positive
// balances here too; their negative effect appears only in the section
// total. Consumers wanting signed figures combine Balance with Type and
// NormalBalance, both carried on the row.
type Row struct {
	AccountID     int64                `json:"account_id"`
	Code          string               `json:"code"`
	Name          string               `json:"name"`
	Type          domain.AccountType   `json:"type"`
	NormalBalance domain.NormalBalance `json:"normal_balance"`
	Balance       decimal.Decimal      `json:"balance"`
}

// Section groups rows of one report bucket. Total nets contra accounts
// against their bucket with the opposite sign.
type Section struct {
	Rows  []Row           `json:"rows"`
	Total decimal.Decimal `json:"total"`
}

// Totals carries the balance check. The aggregator reports the difference;
// it never auto-corrects.
type Totals struct {
	Assets                decimal.Decimal `json:"assets"`
	LiabilitiesPlusEquity decimal.Decimal `json:"liabilities_plus_equity"`
	Balanced              bool            `json:"balanced"`
	Difference            decimal.Decimal `json:"difference"`
}

// TrialBalance is the full report as of a cutoff date.
type TrialBalance struct {
	AsOf        time.Time       `json:"as_of"`
	Assets      Section         `json:"assets"`
	Liabilities Section         `json:"liabilities"`
	Equity      Section         `json:"equity"`
	Revenue     Section         `json:"revenue"`
	Expense     Section         `json:"expense"`
	ProfitLoss  decimal.Decimal `json:"profit_loss"`
	Totals      Totals          `json:"totals"`
}

// Compute sums all journal lines dated on or before the cutoff, signed per
// account normal balance, and rolls the buckets up into a balance check.
// The read is an unlocked snapshot.
func (s *Service) Compute(asOf time.Time, opts Options) (TrialBalance, error) {
	lines, err := s.db.LinesAsOf(asOf, sqlite.LineFilter{
		CostUnitID: opts.CostUnitID,
		AssetID:    opts.AssetID,
	})
	if err != nil {
		return TrialBalance{}, err
	}

	type sums struct{ debit, credit decimal.Decimal }
	perAccount := make(map[int64]*sums)
	for _, l := range lines {
		acc, ok := perAccount[l.AccountID]
		if !ok {
			acc = &sums{debit: decimal.Zero, credit: decimal.Zero}
			perAccount[l.AccountID] = acc
		}
		acc.debit = acc.debit.Add(l.Debit)
		acc.credit = acc.credit.Add(l.Credit)
	}

	// Resolve accounts lazily, pulling in missing ancestors so zero-balance
	// parent rows can still be displayed with their name and code.
	accounts := make(map[int64]domain.Account)
	for id := range perAccount {
		if err := s.resolveWithAncestors(id, accounts); err != nil {
			return TrialBalance{}, err
		}
	}

	var rows []Row
	for id, a := range accounts {
		sum, ok := perAccount[id]
		balance := decimal.Zero
		if ok {
			if a.NormalBalance == domain.NormalDebit {
				balance = sum.debit.Sub(sum.credit)
			} else {
				balance = sum.credit.Sub(sum.debit)
			}
			balance = domain.Round2(balance)
		}
		if !opts.ShowZero && balance.Abs().LessThan(domain.BalanceTolerance) {
			continue
		}
		rows = append(rows, Row{
			AccountID:     a.ID,
			Code:          a.Code,
			Name:          a.Name,
			Type:          a.Type,
			NormalBalance: a.NormalBalance,
			Balance:       balance,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Code < rows[j].Code })

	tb := TrialBalance{AsOf: asOf}
	for _, r := range rows {
		switch r.Type {
		case domain.AccountAsset:
			tb.Assets.Rows = append(tb.Assets.Rows, r)
			tb.Assets.Total = tb.Assets.Total.Add(r.Balance)
		case domain.AccountContraAsset:
			tb.Assets.Rows = append(tb.Assets.Rows, r)
			tb.Assets.Total = tb.Assets.Total.Sub(r.Balance)
		case domain.AccountLiability:
			tb.Liabilities.Rows = append(tb.Liabilities.Rows, r)
			tb.Liabilities.Total = tb.Liabilities.Total.Add(r.Balance)
		case domain.AccountEquity:
			tb.Equity.Rows = append(tb.Equity.Rows, r)
			tb.Equity.Total = tb.Equity.Total.Add(r.Balance)
		case domain.AccountRevenue:
			tb.Revenue.Rows = append(tb.Revenue.Rows, r)
			tb.Revenue.Total = tb.Revenue.Total.Add(r.Balance)
		case domain.AccountContraRev:
			tb.Revenue.Rows = append(tb.Revenue.Rows, r)
			tb.Revenue.Total = tb.Revenue.Total.Sub(r.Balance)
		case domain.AccountExpense:
			tb.Expense.Rows = append(tb.Expense.Rows, r)
			tb.Expense.Total = tb.Expense.Total.Add(r.Balance)
		}
	}

	tb.ProfitLoss = domain.Round2(tb.Revenue.Total.Sub(tb.Expense.Total))
	tb.Totals.Assets = domain.Round2(tb.Assets.Total)
	tb.Totals.LiabilitiesPlusEquity = domain.Round2(
		tb.Liabilities.Total.Add(tb.Equity.Total).Add(tb.ProfitLoss))
	tb.Totals.Difference = tb.Totals.Assets.Sub(tb.Totals.LiabilitiesPlusEquity)
	tb.Totals.Balanced = tb.Totals.Difference.Abs().LessThanOrEqual(domain.BalanceTolerance)

	if tb.Totals.Balanced {
		observability.TrialBalanceImbalance.Set(0)
	} else {
		observability.TrialBalanceImbalance.Set(1)
	}
	return tb, nil
}

// resolveWithAncestors loads an account and its parent chain into the cache.
// The walk is bounded by the visited cache plus a depth cap.
func (s *Service) resolveWithAncestors(id int64, cache map[int64]domain.Account) error {
	for depth := 0; depth < domain.MaxAccountDepth; depth++ {
		if _, ok := cache[id]; ok {
			return nil
		}
		a, err := s.db.GetAccount(id)
		if err != nil {
			return err
		}
		cache[id] = a
		if a.ParentID == nil {
			return nil
		}
		id = *a.ParentID
	}
	return nil
}
