package api

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/pdamkota/asetledger/internal/app/assets"
	"github.com/pdamkota/asetledger/internal/app/depreciation"
	"github.com/pdamkota/asetledger/internal/domain"
)

type assetRequest struct {
	Name              *string                    `json:"name"`
	Category          *string                    `json:"category"`
	AcquisitionValue  *decimal.Decimal           `json:"acquisition_value"`
	ResidualValue     *decimal.Decimal           `json:"residual_value"`
	UsefulLifeYears   *int                       `json:"useful_life_years"`
	Method            *domain.DepreciationMethod `json:"method"`
	DepreciationClass *int                       `json:"depreciation_class"`
	Basis             *domain.PeriodBasis        `json:"basis"`
	StartDate         *string                    `json:"start_date"`
	CommissionedAt    *string                    `json:"commissioned_at"`
	RegisteredYear    *int                       `json:"registered_year"`
	CostUnitID        *int64                     `json:"cost_unit_id"`
}

func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	list, err := s.Assets.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"assets": list})
}

func (s *Server) handleCreateAsset(w http.ResponseWriter, r *http.Request) {
	var req assetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	p := assets.Params{CostUnitID: req.CostUnitID}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.AcquisitionValue != nil {
		p.AcquisitionValue = *req.AcquisitionValue
	}
	if req.ResidualValue != nil {
		p.ResidualValue = *req.ResidualValue
	}
	if req.UsefulLifeYears != nil {
		p.UsefulLifeYears = *req.UsefulLifeYears
	}
	if req.Method != nil {
		p.Method = *req.Method
	}
	if req.DepreciationClass != nil {
		p.DepreciationClass = *req.DepreciationClass
	}
	if req.Basis != nil {
		p.Basis = *req.Basis
	}
	if req.RegisteredYear != nil {
		p.RegisteredYear = *req.RegisteredYear
	}
	if req.StartDate != nil {
		t, err := parseDate(*req.StartDate)
		if err != nil {
			writeError(w, err)
			return
		}
		p.StartDate = &t
	}
	if req.CommissionedAt != nil {
		t, err := parseDate(*req.CommissionedAt)
		if err != nil {
			writeError(w, err)
			return
		}
		p.CommissionedAt = &t
	}

	asset, err := s.Assets.Create(p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, asset)
}

func (s *Server) handleGetDepreciation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	asset, err := s.Assets.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	rows, err := s.Depreciation.Schedule(id)
	if err != nil {
		writeError(w, err)
		return
	}
	summary, err := s.Assets.Summarize(id, rows)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"asset":   asset,
		"rows":    rows,
		"summary": summary,
	})
}

// handleUpdateDepreciation applies new depreciation parameters and replaces
// the stored schedule wholesale.
func (s *Server) handleUpdateDepreciation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req assetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	patch := assets.Patch{
		Name:              req.Name,
		Category:          req.Category,
		AcquisitionValue:  req.AcquisitionValue,
		ResidualValue:     req.ResidualValue,
		UsefulLifeYears:   req.UsefulLifeYears,
		Method:            req.Method,
		DepreciationClass: req.DepreciationClass,
		Basis:             req.Basis,
		CostUnitID:        req.CostUnitID,
	}
	if req.StartDate != nil {
		t, err := parseDate(*req.StartDate)
		if err != nil {
			writeError(w, err)
			return
		}
		patch.StartDate = &t
	}
	if req.CommissionedAt != nil {
		t, err := parseDate(*req.CommissionedAt)
		if err != nil {
			writeError(w, err)
			return
		}
		patch.CommissionedAt = &t
	}

	asset, err := s.Assets.UpdateParameters(id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	rows, err := s.Depreciation.Schedule(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"asset": asset,
		"rows":  rows,
	})
}

type simulateRequest struct {
	From         string                    `json:"from"`
	To           string                    `json:"to"`
	Basis        domain.PeriodBasis        `json:"basis"`
	Method       domain.DepreciationMethod `json:"method"`
	RateOverride *decimal.Decimal          `json:"rate_override"`
}

// handleSimulateDepreciation runs an unsaved what-if schedule over a window.
func (s *Server) handleSimulateDepreciation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req simulateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	from, err := parseDate(req.From)
	if err != nil {
		writeError(w, err)
		return
	}
	to, err := parseDate(req.To)
	if err != nil {
		writeError(w, err)
		return
	}

	rows, err := s.Depreciation.SimulateAsset(id, depreciation.SimulationRequest{
		From:         from,
		To:           to,
		Basis:        req.Basis,
		Method:       req.Method,
		RateOverride: req.RateOverride,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"rows": rows})
}
