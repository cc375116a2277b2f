// Package posting turns source events into balanced journal entries,
// at most once per (source, category) pair.
package posting

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/pdamkota/asetledger/internal/app/sequence"
	"github.com/pdamkota/asetledger/internal/domain"
	"github.com/pdamkota/asetledger/internal/infra/observability"
	"github.com/pdamkota/asetledger/internal/infra/sqlite"
)

// SourceKindDepreciation tags postings derived from schedule rows;
// SourceKindManual tags operator-entered cost transactions.
const (
	SourceKindDepreciation = "depreciation"
	SourceKindManual       = "manual"
)

// Service posts and unposts journal entries.
type Service struct {
	db  *sqlite.DB
	seq *sequence.Allocator
}

// NewService creates a posting service.
func NewService(db *sqlite.DB, seq *sequence.Allocator) *Service {
	return &Service{db: db, seq: seq}
}

// Request describes one posting attempt before category resolution.
type Request struct {
	SourceID         int64
	SourceKind       string
	DebitCategoryID  int64
	CreditCategoryID int64
	Amount           decimal.Decimal
	Date             time.Time
	Description      string
	CostUnitID       *int64
	AssetID          *int64
}

// Result reports what a posting attempt did.
type Result struct {
	Created       int    `json:"created"`
	AlreadyPosted bool   `json:"already_posted"`
	SourceTag     string `json:"source_tag"`
	VoucherNo     string `json:"voucher_no,omitempty"`
}

// Post resolves both cost categories to their mapped accounts and creates
// exactly the missing side(s) of a balanced double entry for the source.
// Posting the same source twice is an idempotent success, not an error.
func (s *Service) Post(req Request) (Result, error) {
	if req.SourceKind == "" {
		return Result{}, domain.Validationf("source kind must not be empty")
	}
	if !req.Amount.IsPositive() {
		return Result{}, domain.Validationf("amount %s must be positive", req.Amount)
	}
	if req.Date.IsZero() {
		return Result{}, domain.Validationf("date must be set")
	}
	// The UNIQUE(source_tag, category_id) backstop exists for concurrent
	// writers, not for a single entry debiting and crediting one category;
	// that shape would trip it mid-transaction and roll the entry back.
	if req.DebitCategoryID == req.CreditCategoryID {
		return Result{}, domain.Validationf("debit and credit categories must differ")
	}

	debitAccount, err := s.resolveMapping(req.DebitCategoryID, domain.NormalDebit)
	if err != nil {
		return Result{}, err
	}
	creditAccount, err := s.resolveMapping(req.CreditCategoryID, domain.NormalCredit)
	if err != nil {
		return Result{}, err
	}

	tag := domain.SourceTag(req.SourceKind, req.SourceID)

	// Settle the common re-post before allocating a voucher number, so
	// idempotent retries do not consume sequence values. A writer racing
	// past this check burns at most one number; the backstop still keeps
	// the ledger correct.
	posted, err := s.db.SourcePosted(tag, req.DebitCategoryID, req.CreditCategoryID)
	if err != nil {
		return Result{}, err
	}
	if posted {
		observability.Postings.WithLabelValues("already_posted").Inc()
		return Result{Created: 0, AlreadyPosted: true, SourceTag: tag}, nil
	}

	voucherNo, err := s.seq.Next(sequence.PrefixVoucher, req.Date)
	if err != nil {
		return Result{}, err
	}
	created, err := s.db.PostDoubleEntry(sqlite.DoubleEntryParams{
		HeaderID:         uuid.NewString(),
		SourceTag:        tag,
		Date:             req.Date,
		Description:      req.Description,
		ReferenceNo:      tag,
		VoucherNo:        voucherNo,
		DebitCategoryID:  req.DebitCategoryID,
		DebitAccountID:   debitAccount,
		CreditCategoryID: req.CreditCategoryID,
		CreditAccountID:  creditAccount,
		Amount:           domain.Round2(req.Amount),
		CostUnitID:       req.CostUnitID,
		AssetID:          req.AssetID,
	})
	if err != nil {
		observability.Postings.WithLabelValues("failed").Inc()
		return Result{}, err
	}

	if created == 0 {
		observability.Postings.WithLabelValues("already_posted").Inc()
		return Result{Created: 0, AlreadyPosted: true, SourceTag: tag}, nil
	}

	observability.Postings.WithLabelValues("created").Inc()
	log.Info().Str("source", tag).Int("lines", created).Str("voucher", voucherNo).
		Msg("journal entry posted")
	return Result{Created: created, SourceTag: tag, VoucherNo: voucherNo}, nil
}

// PostScheduleEntry posts one depreciation period using the given category
// mapping. The amount and date come from the stored schedule row.
func (s *Service) PostScheduleEntry(entryID, debitCategoryID, creditCategoryID int64) (Result, error) {
	entry, err := s.db.GetScheduleEntry(entryID)
	if err != nil {
		return Result{}, err
	}
	asset, err := s.db.GetAsset(entry.AssetID)
	if err != nil {
		return Result{}, err
	}

	return s.Post(Request{
		SourceID:         entryID,
		SourceKind:       SourceKindDepreciation,
		DebitCategoryID:  debitCategoryID,
		CreditCategoryID: creditCategoryID,
		Amount:           entry.Expense,
		Date:             entry.Period,
		Description: fmt.Sprintf("Depreciation %s - %s", entry.Period.Format("2006-01"),
			asset.Name),
		CostUnitID: asset.CostUnitID,
		AssetID:    &entry.AssetID,
	})
}

// Unpost deletes every header derived from a source event, cascading its
// lines and restoring a clean slate for re-posting.
func (s *Service) Unpost(sourceKind string, sourceID int64) (int, error) {
	if sourceKind == "" {
		return 0, domain.Validationf("source kind must not be empty")
	}
	tag := domain.SourceTag(sourceKind, sourceID)
	removed, err := s.db.DeleteHeadersBySource(tag)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		observability.Unposts.Add(float64(removed))
		log.Info().Str("source", tag).Int("headers", removed).Msg("journal entries unposted")
	}
	return removed, nil
}

// resolveMapping loads a category and returns the account id mapped for the
// requested side. A missing category or mapping is a not-found failure.
func (s *Service) resolveMapping(categoryID int64, side domain.NormalBalance) (int64, error) {
	category, err := s.db.GetCostCategory(categoryID)
	if err != nil {
		return 0, err
	}

	var accountID *int64
	if side == domain.NormalDebit {
		accountID = category.DebitAccountID
	} else {
		accountID = category.CreditAccountID
	}
	if accountID == nil {
		return 0, domain.NotFoundf("cost category %s has no %s account mapping",
			category.Code, side)
	}

	// The mapping must still resolve to a live account row.
	if _, err := s.db.GetAccount(*accountID); err != nil {
		return 0, err
	}
	return *accountID, nil
}
