package sqlite

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pdamkota/asetledger/internal/domain"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func mustInsertAccount(t *testing.T, db *DB, code string, typ domain.AccountType, normal domain.NormalBalance) int64 {
	t.Helper()
	id, err := db.InsertAccount(domain.Account{
		Code: code, Name: "Account " + code, Type: typ, NormalBalance: normal, IsActive: true,
	})
	if err != nil {
		t.Fatalf("insert account %s: %v", code, err)
	}
	return id
}

// ─── Accounts ───────────────────────────────────────────────────────────────

func TestAccountRoundTrip(t *testing.T) {
	db := openTestDB(t)

	id := mustInsertAccount(t, db, "1101", domain.AccountAsset, domain.NormalDebit)
	got, err := db.GetAccount(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Code != "1101" || got.Type != domain.AccountAsset || !got.IsActive {
		t.Errorf("got %+v", got)
	}
}

func TestAccountDuplicateCodeConflicts(t *testing.T) {
	db := openTestDB(t)

	mustInsertAccount(t, db, "1101", domain.AccountAsset, domain.NormalDebit)
	_, err := db.InsertAccount(domain.Account{
		Code: "1101", Name: "Duplicate", Type: domain.AccountAsset,
		NormalBalance: domain.NormalDebit, IsActive: true,
	})
	if domain.KindOf(err) != domain.KindConflict {
		t.Errorf("duplicate code: got %v, want conflict", err)
	}
}

func TestAccountGetMissing(t *testing.T) {
	db := openTestDB(t)
	_, err := db.GetAccount(999)
	if domain.KindOf(err) != domain.KindNotFound {
		t.Errorf("got %v, want not-found", err)
	}
}

func TestDeleteAccountDetachesChildren(t *testing.T) {
	db := openTestDB(t)

	parent := mustInsertAccount(t, db, "1100", domain.AccountAsset, domain.NormalDebit)
	childID, err := db.InsertAccount(domain.Account{
		Code: "1101", Name: "Child", Type: domain.AccountAsset,
		NormalBalance: domain.NormalDebit, ParentID: &parent, IsActive: true,
	})
	if err != nil {
		t.Fatalf("insert child: %v", err)
	}

	if err := db.DeleteAccount(parent); err != nil {
		t.Fatalf("delete parent: %v", err)
	}

	child, err := db.GetAccount(childID)
	if err != nil {
		t.Fatalf("get child: %v", err)
	}
	if child.ParentID != nil {
		t.Errorf("child still points at deleted parent %d", *child.ParentID)
	}
}

func TestDeleteAccountBlockedByJournalLines(t *testing.T) {
	db := openTestDB(t)

	debit := mustInsertAccount(t, db, "5101", domain.AccountExpense, domain.NormalDebit)
	credit := mustInsertAccount(t, db, "1209", domain.AccountContraAsset, domain.NormalCredit)
	catD, catC := insertCategoryPair(t, db, debit, credit)

	if _, err := db.PostDoubleEntry(testEntry(debit, credit, catD, catC, "depreciation:1")); err != nil {
		t.Fatalf("post: %v", err)
	}

	if err := db.DeleteAccount(debit); domain.KindOf(err) != domain.KindConflict {
		t.Errorf("delete referenced account: got %v, want conflict", err)
	}
}

// ─── Cost Categories ────────────────────────────────────────────────────────

func insertCategoryPair(t *testing.T, db *DB, debitAcc, creditAcc int64) (int64, int64) {
	t.Helper()
	catD, err := db.InsertCostCategory(domain.CostCategory{
		Code: "BL-01", Name: "Beban Penyusutan", Type: domain.CategoryBiaya,
		DebitAccountID: &debitAcc, CreditAccountID: &creditAcc,
	})
	if err != nil {
		t.Fatalf("insert debit category: %v", err)
	}
	catC, err := db.InsertCostCategory(domain.CostCategory{
		Code: "AK-01", Name: "Akumulasi Penyusutan", Type: domain.CategoryAset,
		DebitAccountID: &debitAcc, CreditAccountID: &creditAcc,
	})
	if err != nil {
		t.Fatalf("insert credit category: %v", err)
	}
	return catD, catC
}

func TestCostCategoryDeleteBlockedByLines(t *testing.T) {
	db := openTestDB(t)

	debit := mustInsertAccount(t, db, "5101", domain.AccountExpense, domain.NormalDebit)
	credit := mustInsertAccount(t, db, "1209", domain.AccountContraAsset, domain.NormalCredit)
	catD, catC := insertCategoryPair(t, db, debit, credit)

	if _, err := db.PostDoubleEntry(testEntry(debit, credit, catD, catC, "manual:3")); err != nil {
		t.Fatalf("post: %v", err)
	}
	if err := db.DeleteCostCategory(catD); domain.KindOf(err) != domain.KindConflict {
		t.Errorf("delete referenced category: got %v, want conflict", err)
	}
}

// ─── Journal ────────────────────────────────────────────────────────────────

func testEntry(debitAcc, creditAcc, catD, catC int64, tag string) DoubleEntryParams {
	return DoubleEntryParams{
		HeaderID:         uuid.NewString(),
		SourceTag:        tag,
		Date:             time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		Description:      "test entry",
		ReferenceNo:      tag,
		VoucherNo:        "JRN/2024-06/00001",
		DebitCategoryID:  catD,
		DebitAccountID:   debitAcc,
		CreditCategoryID: catC,
		CreditAccountID:  creditAcc,
		Amount:           decimal.NewFromInt(1000000),
	}
}

func TestPostDoubleEntryIdempotent(t *testing.T) {
	db := openTestDB(t)

	debit := mustInsertAccount(t, db, "5101", domain.AccountExpense, domain.NormalDebit)
	credit := mustInsertAccount(t, db, "1209", domain.AccountContraAsset, domain.NormalCredit)
	catD, catC := insertCategoryPair(t, db, debit, credit)

	created, err := db.PostDoubleEntry(testEntry(debit, credit, catD, catC, "depreciation:7"))
	if err != nil {
		t.Fatalf("first post: %v", err)
	}
	if created != 2 {
		t.Errorf("first post created %d lines, want 2", created)
	}

	created, err = db.PostDoubleEntry(testEntry(debit, credit, catD, catC, "depreciation:7"))
	if err != nil {
		t.Fatalf("second post: %v", err)
	}
	if created != 0 {
		t.Errorf("second post created %d lines, want 0", created)
	}

	headers, err := db.HeadersBySource("depreciation:7")
	if err != nil {
		t.Fatalf("headers: %v", err)
	}
	if len(headers) != 1 {
		t.Fatalf("got %d headers, want 1", len(headers))
	}
	if len(headers[0].Lines) != 2 {
		t.Errorf("got %d lines, want 2", len(headers[0].Lines))
	}
	if !headers[0].Balanced() {
		t.Error("posted entry should balance")
	}
}

func TestPostDoubleEntryConcurrent(t *testing.T) {
	db := openTestDB(t)

	debit := mustInsertAccount(t, db, "5101", domain.AccountExpense, domain.NormalDebit)
	credit := mustInsertAccount(t, db, "1209", domain.AccountContraAsset, domain.NormalCredit)
	catD, catC := insertCategoryPair(t, db, debit, credit)

	const writers = 8
	var wg sync.WaitGroup
	results := make(chan int, writers)
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			created, err := db.PostDoubleEntry(testEntry(debit, credit, catD, catC, "depreciation:9"))
			if err != nil {
				errs <- err
				return
			}
			results <- created
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent post: %v", err)
	}
	total := 0
	for created := range results {
		total += created
	}
	if total != 2 {
		t.Errorf("concurrent writers created %d lines in total, want 2", total)
	}
}

func TestDeleteHeadersBySource(t *testing.T) {
	db := openTestDB(t)

	debit := mustInsertAccount(t, db, "5101", domain.AccountExpense, domain.NormalDebit)
	credit := mustInsertAccount(t, db, "1209", domain.AccountContraAsset, domain.NormalCredit)
	catD, catC := insertCategoryPair(t, db, debit, credit)

	if _, err := db.PostDoubleEntry(testEntry(debit, credit, catD, catC, "depreciation:5")); err != nil {
		t.Fatalf("post: %v", err)
	}
	removed, err := db.DeleteHeadersBySource("depreciation:5")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed %d headers, want 1", removed)
	}

	// Slate is clean: the same source posts again in full.
	created, err := db.PostDoubleEntry(testEntry(debit, credit, catD, catC, "depreciation:5"))
	if err != nil {
		t.Fatalf("re-post: %v", err)
	}
	if created != 2 {
		t.Errorf("re-post created %d lines, want 2", created)
	}
}

func TestGetHeaderBumpsPrintCount(t *testing.T) {
	db := openTestDB(t)

	debit := mustInsertAccount(t, db, "5101", domain.AccountExpense, domain.NormalDebit)
	credit := mustInsertAccount(t, db, "1209", domain.AccountContraAsset, domain.NormalCredit)
	catD, catC := insertCategoryPair(t, db, debit, credit)
	p := testEntry(debit, credit, catD, catC, "manual:1")
	if _, err := db.PostDoubleEntry(p); err != nil {
		t.Fatalf("post: %v", err)
	}

	h, err := db.GetHeader(p.HeaderID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if h.PrintCount != 1 {
		t.Errorf("print count = %d, want 1", h.PrintCount)
	}
	h, err = db.GetHeader(p.HeaderID)
	if err != nil {
		t.Fatalf("get again: %v", err)
	}
	if h.PrintCount != 2 {
		t.Errorf("print count = %d, want 2", h.PrintCount)
	}
}

func TestListHeadersFilters(t *testing.T) {
	db := openTestDB(t)

	debit := mustInsertAccount(t, db, "5101", domain.AccountExpense, domain.NormalDebit)
	credit := mustInsertAccount(t, db, "1209", domain.AccountContraAsset, domain.NormalCredit)
	catD, catC := insertCategoryPair(t, db, debit, credit)
	for i, tag := range []string{"depreciation:1", "depreciation:2", "manual:1"} {
		p := testEntry(debit, credit, catD, catC, tag)
		p.Date = time.Date(2024, time.Month(i+1), 15, 0, 0, 0, 0, time.UTC)
		if _, err := db.PostDoubleEntry(p); err != nil {
			t.Fatalf("post %s: %v", tag, err)
		}
	}

	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	headers, total, err := db.ListHeaders(HeaderFilter{From: &from})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(headers) != 2 {
		t.Errorf("from filter: total=%d len=%d, want 2/2", total, len(headers))
	}

	headers, total, err = db.ListHeaders(HeaderFilter{Source: "manual:1"})
	if err != nil {
		t.Fatalf("list by source: %v", err)
	}
	if total != 1 || len(headers) != 1 {
		t.Errorf("source filter: total=%d len=%d, want 1/1", total, len(headers))
	}
}

// ─── Schedule ───────────────────────────────────────────────────────────────

func TestReplaceScheduleIsDestructive(t *testing.T) {
	db := openTestDB(t)

	assetID, err := db.InsertAsset(domain.Asset{
		AssetNo: "AST/2024-01/0001", Name: "Pompa", Category: "MACHINE",
		AcquisitionValue: decimal.NewFromInt(1000), ResidualValue: decimal.Zero,
		UsefulLifeYears: 2, Method: domain.MethodStraightLine,
		Basis: domain.BasisYearly, RegisteredYear: 2024,
	})
	if err != nil {
		t.Fatalf("insert asset: %v", err)
	}

	row := func(period time.Time, expense int64) domain.ScheduleEntry {
		return domain.ScheduleEntry{
			AssetID: assetID, Period: period, Method: domain.MethodStraightLine,
			AnnualRate:   decimal.RequireFromString("0.5"),
			OpeningValue: decimal.NewFromInt(1000),
			Expense:      decimal.NewFromInt(expense),
			Accumulated:  decimal.NewFromInt(expense),
			ClosingValue: decimal.NewFromInt(1000 - expense),
		}
	}
	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	if err := db.ReplaceSchedule(assetID, []domain.ScheduleEntry{
		row(jan, 500), row(jan.AddDate(1, 0, 0), 500),
	}); err != nil {
		t.Fatalf("first replace: %v", err)
	}
	if err := db.ReplaceSchedule(assetID, []domain.ScheduleEntry{row(jan, 999)}); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	rows, err := db.ListSchedule(assetID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1 after wholesale replacement", len(rows))
	}
	if !rows[0].Expense.Equal(decimal.NewFromInt(999)) {
		t.Errorf("expense = %s, want 999", rows[0].Expense)
	}
}

// ─── Sequence Counters ──────────────────────────────────────────────────────

func TestNextSequenceMonotonic(t *testing.T) {
	db := openTestDB(t)

	for want := int64(1); want <= 3; want++ {
		got, err := db.NextSequence("JRN-202406")
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if got != want {
			t.Errorf("got %d, want %d", got, want)
		}
	}

	// A different key starts its own counter.
	got, err := db.NextSequence("JRN-202407")
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if got != 1 {
		t.Errorf("new bucket got %d, want 1", got)
	}
}

func TestNextSequenceConcurrent(t *testing.T) {
	db := openTestDB(t)

	const n = 20
	var wg sync.WaitGroup
	values := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := db.NextSequence("AST-202406")
			if err != nil {
				t.Errorf("next: %v", err)
				return
			}
			values <- v
		}()
	}
	wg.Wait()
	close(values)

	seen := make(map[int64]bool)
	for v := range values {
		if seen[v] {
			t.Errorf("value %d allocated twice", v)
		}
		seen[v] = true
	}
	if len(seen) != n {
		t.Errorf("allocated %d distinct values, want %d", len(seen), n)
	}
}
