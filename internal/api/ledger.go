package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/pdamkota/asetledger/internal/app/posting"
	"github.com/pdamkota/asetledger/internal/app/reporting"
	"github.com/pdamkota/asetledger/internal/domain"
	"github.com/pdamkota/asetledger/internal/infra/sqlite"
)

// ─── Depreciation Posting ───────────────────────────────────────────────────

type postDepreciationRequest struct {
	DebitCategoryID  int64 `json:"debit_category_id"`
	CreditCategoryID int64 `json:"credit_category_id"`
}

// handlePostDepreciation posts one schedule row to the journal. Re-posting
// the same row answers success without creating anything.
func (s *Server) handlePostDepreciation(w http.ResponseWriter, r *http.Request) {
	entryID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req postDepreciationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := s.Posting.PostScheduleEntry(entryID, req.DebitCategoryID, req.CreditCategoryID)
	if err != nil {
		writeError(w, err)
		return
	}
	if result.AlreadyPosted {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message": "already posted",
			"result":  result,
		})
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// ─── Manual Cost Transactions ───────────────────────────────────────────────

type manualEntryRequest struct {
	SourceID         int64           `json:"source_id"`
	DebitCategoryID  int64           `json:"debit_category_id"`
	CreditCategoryID int64           `json:"credit_category_id"`
	Amount           decimal.Decimal `json:"amount"`
	Date             string          `json:"date"`
	Description      string          `json:"description"`
	CostUnitID       *int64          `json:"cost_unit_id"`
	AssetID          *int64          `json:"asset_id"`
}

func (s *Server) handlePostManual(w http.ResponseWriter, r *http.Request) {
	var req manualEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.SourceID <= 0 {
		writeError(w, domain.Validationf("source_id must be positive"))
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := s.Posting.Post(posting.Request{
		SourceID:         req.SourceID,
		SourceKind:       posting.SourceKindManual,
		DebitCategoryID:  req.DebitCategoryID,
		CreditCategoryID: req.CreditCategoryID,
		Amount:           req.Amount,
		Date:             date,
		Description:      req.Description,
		CostUnitID:       req.CostUnitID,
		AssetID:          req.AssetID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if result.AlreadyPosted {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message": "already posted",
			"result":  result,
		})
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// ─── Journal Browsing ───────────────────────────────────────────────────────

func (s *Server) handleListJournal(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := sqlite.HeaderFilter{
		Query:  q.Get("q"),
		Source: q.Get("source"),
	}
	if v := q.Get("from"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			writeError(w, err)
			return
		}
		filter.From = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			writeError(w, err)
			return
		}
		filter.To = &t
	}
	if v := q.Get("limit"); v != "" {
		filter.Limit, _ = strconv.Atoi(v)
	}
	if v := q.Get("offset"); v != "" {
		filter.Offset, _ = strconv.Atoi(v)
	}

	headers, total, err := s.DB.ListHeaders(filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"headers": headers,
		"total":   total,
	})
}

func (s *Server) handleGetJournal(w http.ResponseWriter, r *http.Request) {
	header, err := s.DB.GetHeader(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"header":   header,
		"balanced": header.Balanced(),
	})
}

// handleUnpost removes every journal entry derived from a source event.
func (s *Server) handleUnpost(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("type")
	rawID := r.URL.Query().Get("id")
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		writeError(w, domain.Validationf("invalid source id %q", rawID))
		return
	}

	removed, err := s.Posting.Unpost(kind, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"removed": removed})
}

// ─── Trial Balance ──────────────────────────────────────────────────────────

// handleTrialBalance reports signed account balances as of a cutoff.
// The cutoff comes from ?asOf=YYYY-MM-DD or ?period=YYYY-MM (last day of
// that month); the default is today.
func (s *Server) handleTrialBalance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	asOf := time.Now()
	if v := q.Get("asOf"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			writeError(w, err)
			return
		}
		asOf = t
	} else if v := q.Get("period"); v != "" {
		t, err := time.Parse("2006-01", v)
		if err != nil {
			writeError(w, domain.Validationf("invalid period %q, want YYYY-MM", v))
			return
		}
		asOf = t.AddDate(0, 1, -1)
	}

	var opts reporting.Options
	if v := q.Get("unitId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, domain.Validationf("invalid unitId %q", v))
			return
		}
		opts.CostUnitID = &id
	}
	if v := q.Get("assetId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, domain.Validationf("invalid assetId %q", v))
			return
		}
		opts.AssetID = &id
	}
	opts.ShowZero = q.Get("showZero") == "true"

	tb, err := s.Reporting.Compute(asOf, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tb)
}
