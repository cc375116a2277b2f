package reporting

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdamkota/asetledger/internal/domain"
	"github.com/pdamkota/asetledger/internal/infra/sqlite"
)

type ledgerFixture struct {
	db  *sqlite.DB
	svc *Service

	cash     int64 // 1101 ASSET / DEBIT
	accumDep int64 // 1209 CONTRA_ASSET / CREDIT
	equity   int64 // 3101 EQUITY / CREDIT
	revenue  int64 // 4101 REVENUE / CREDIT
	expense  int64 // 5101 EXPENSE / DEBIT

	// categories maps each account id to a cost category mapped to it.
	categories map[int64]int64
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &ledgerFixture{db: db, svc: NewService(db), categories: make(map[int64]int64)}

	add := func(code, name string, typ domain.AccountType, normal domain.NormalBalance) int64 {
		id, err := db.InsertAccount(domain.Account{
			Code: code, Name: name, Type: typ, NormalBalance: normal, IsActive: true,
		})
		require.NoError(t, err)
		cat, err := db.InsertCostCategory(domain.CostCategory{
			Code: "C-" + code, Name: name, Type: domain.CategoryBiaya,
			DebitAccountID: &id, CreditAccountID: &id,
		})
		require.NoError(t, err)
		f.categories[id] = cat
		return id
	}

	f.cash = add("1101", "Kas", domain.AccountAsset, domain.NormalDebit)
	f.accumDep = add("1209", "Akumulasi Penyusutan", domain.AccountContraAsset, domain.NormalCredit)
	f.equity = add("3101", "Modal", domain.AccountEquity, domain.NormalCredit)
	f.revenue = add("4101", "Pendapatan Air", domain.AccountRevenue, domain.NormalCredit)
	f.expense = add("5101", "Beban Penyusutan", domain.AccountExpense, domain.NormalDebit)
	return f
}

// post creates one balanced debit/credit pair dated in June 2024.
func (f *ledgerFixture) post(t *testing.T, tag string, debitAcc, creditAcc int64, amount int64) {
	t.Helper()
	created, err := f.db.PostDoubleEntry(sqlite.DoubleEntryParams{
		HeaderID:         uuid.NewString(),
		SourceTag:        tag,
		Date:             time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		Description:      tag,
		DebitCategoryID:  f.categories[debitAcc],
		DebitAccountID:   debitAcc,
		CreditCategoryID: f.categories[creditAcc],
		CreditAccountID:  creditAcc,
		Amount:           decimal.NewFromInt(amount),
	})
	require.NoError(t, err)
	require.Equal(t, 2, created)
}

func cutoff() time.Time {
	return time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
}

func findRow(t *testing.T, rows []Row, code string) Row {
	t.Helper()
	for _, r := range rows {
		if r.Code == code {
			return r
		}
	}
	t.Fatalf("no row with code %s", code)
	return Row{}
}

func TestDepreciationScenario(t *testing.T) {
	f := newLedgerFixture(t)
	f.post(t, "depreciation:1", f.expense, f.accumDep, 1000000)

	tb, err := f.svc.Compute(cutoff(), Options{})
	require.NoError(t, err)

	// Both rows carry their balance on the normal side.
	exp := findRow(t, tb.Expense.Rows, "5101")
	assert.True(t, exp.Balance.Equal(decimal.NewFromInt(1000000)), "5101 = %s", exp.Balance)
	accum := findRow(t, tb.Assets.Rows, "1209")
	assert.True(t, accum.Balance.Equal(decimal.NewFromInt(1000000)), "1209 = %s", accum.Balance)

	// The contra account nets against the asset section with the opposite sign.
	assert.True(t, tb.Assets.Total.Equal(decimal.NewFromInt(-1000000)),
		"assets total = %s", tb.Assets.Total)
	assert.True(t, tb.ProfitLoss.Equal(decimal.NewFromInt(-1000000)),
		"profit/loss = %s", tb.ProfitLoss)

	// −1M assets vs 0 + 0 + (−1M) P/L: the books still balance.
	assert.True(t, tb.Totals.Balanced)
	assert.True(t, tb.Totals.Difference.IsZero(), "difference = %s", tb.Totals.Difference)
}

func TestFullScenarioBalances(t *testing.T) {
	f := newLedgerFixture(t)
	f.post(t, "manual:1", f.cash, f.equity, 50000000)   // paid-in capital
	f.post(t, "manual:2", f.cash, f.revenue, 8000000)   // water sales
	f.post(t, "manual:3", f.expense, f.cash, 3000000)   // operating cost
	f.post(t, "depreciation:1", f.expense, f.accumDep, 1000000)

	tb, err := f.svc.Compute(cutoff(), Options{})
	require.NoError(t, err)

	cash := findRow(t, tb.Assets.Rows, "1101")
	assert.True(t, cash.Balance.Equal(decimal.NewFromInt(55000000)), "cash = %s", cash.Balance)

	// 55M cash − 1M accumulated depreciation.
	assert.True(t, tb.Assets.Total.Equal(decimal.NewFromInt(54000000)))
	assert.True(t, tb.Revenue.Total.Equal(decimal.NewFromInt(8000000)))
	assert.True(t, tb.Expense.Total.Equal(decimal.NewFromInt(4000000)))
	assert.True(t, tb.ProfitLoss.Equal(decimal.NewFromInt(4000000)))
	assert.True(t, tb.Totals.LiabilitiesPlusEquity.Equal(decimal.NewFromInt(54000000)))
	assert.True(t, tb.Totals.Balanced)
}

func TestOrderingInvariance(t *testing.T) {
	first := newLedgerFixture(t)
	first.post(t, "manual:1", first.cash, first.equity, 1000)
	first.post(t, "manual:2", first.expense, first.cash, 400)

	second := newLedgerFixture(t)
	second.post(t, "manual:2", second.expense, second.cash, 400)
	second.post(t, "manual:1", second.cash, second.equity, 1000)

	a, err := first.svc.Compute(cutoff(), Options{})
	require.NoError(t, err)
	b, err := second.svc.Compute(cutoff(), Options{})
	require.NoError(t, err)

	assert.True(t, a.Assets.Total.Equal(b.Assets.Total))
	assert.True(t, a.Expense.Total.Equal(b.Expense.Total))
	assert.True(t, a.Totals.Difference.Equal(b.Totals.Difference))
}

func TestCutoffExcludesLaterEntries(t *testing.T) {
	f := newLedgerFixture(t)
	f.post(t, "manual:1", f.cash, f.equity, 1000)

	created, err := f.db.PostDoubleEntry(sqlite.DoubleEntryParams{
		HeaderID:         uuid.NewString(),
		SourceTag:        "manual:2",
		Date:             time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC),
		Description:      "after cutoff",
		DebitCategoryID:  f.categories[f.cash],
		DebitAccountID:   f.cash,
		CreditCategoryID: f.categories[f.equity],
		CreditAccountID:  f.equity,
		Amount:           decimal.NewFromInt(999),
	})
	require.NoError(t, err)
	require.Equal(t, 2, created)

	tb, err := f.svc.Compute(cutoff(), Options{})
	require.NoError(t, err)
	cash := findRow(t, tb.Assets.Rows, "1101")
	assert.True(t, cash.Balance.Equal(decimal.NewFromInt(1000)),
		"July entry must not count in the June report")
}

func TestZeroRowsSuppressed(t *testing.T) {
	f := newLedgerFixture(t)
	// Two entries that cancel exactly on the cash account.
	f.post(t, "manual:1", f.cash, f.equity, 500)
	f.post(t, "manual:2", f.expense, f.cash, 500)

	tb, err := f.svc.Compute(cutoff(), Options{})
	require.NoError(t, err)
	for _, r := range tb.Assets.Rows {
		assert.NotEqual(t, "1101", r.Code, "zero-balance row should be hidden")
	}

	tb, err = f.svc.Compute(cutoff(), Options{ShowZero: true})
	require.NoError(t, err)
	cash := findRow(t, tb.Assets.Rows, "1101")
	assert.True(t, cash.Balance.IsZero())
}

func TestRowsSortedByCode(t *testing.T) {
	f := newLedgerFixture(t)
	f.post(t, "manual:1", f.cash, f.equity, 1000)
	f.post(t, "depreciation:1", f.expense, f.accumDep, 200)

	tb, err := f.svc.Compute(cutoff(), Options{})
	require.NoError(t, err)
	require.Len(t, tb.Assets.Rows, 2)
	assert.Equal(t, "1101", tb.Assets.Rows[0].Code)
	assert.Equal(t, "1209", tb.Assets.Rows[1].Code)
}
