package assets

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdamkota/asetledger/internal/app/depreciation"
	"github.com/pdamkota/asetledger/internal/app/sequence"
	"github.com/pdamkota/asetledger/internal/domain"
	"github.com/pdamkota/asetledger/internal/infra/sqlite"
)

func newService(t *testing.T) (*Service, *depreciation.Service) {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	sched := depreciation.NewService(db)
	return NewService(db, sequence.NewAllocator(db), sched), sched
}

func pumpParams() Params {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return Params{
		Name:             "Pompa Distribusi",
		Category:         "MACHINE",
		AcquisitionValue: decimal.NewFromInt(120000000),
		ResidualValue:    decimal.Zero,
		UsefulLifeYears:  10,
		Method:           domain.MethodStraightLine,
		Basis:            domain.BasisYearly,
		StartDate:        &start,
		RegisteredYear:   2024,
	}
}

func TestCreateAssignsNumberAndSchedule(t *testing.T) {
	svc, sched := newService(t)

	asset, err := svc.Create(pumpParams())
	require.NoError(t, err)
	assert.NotZero(t, asset.ID)
	assert.Contains(t, asset.AssetNo, "AST/")

	rows, err := sched.Schedule(asset.ID)
	require.NoError(t, err)
	require.Len(t, rows, 10)
	assert.True(t, rows[0].Expense.Equal(decimal.NewFromInt(12000000)))
}

func TestCreateLandHasEmptySchedule(t *testing.T) {
	svc, sched := newService(t)

	p := pumpParams()
	p.Name = "Tanah Instalasi"
	p.Category = domain.CategoryLand
	asset, err := svc.Create(p)
	require.NoError(t, err)

	rows, err := sched.Schedule(asset.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestUpdateParametersRegeneratesWholesale(t *testing.T) {
	svc, sched := newService(t)

	asset, err := svc.Create(pumpParams())
	require.NoError(t, err)

	life := 5
	_, err = svc.UpdateParameters(asset.ID, Patch{UsefulLifeYears: &life})
	require.NoError(t, err)

	rows, err := sched.Schedule(asset.ID)
	require.NoError(t, err)
	require.Len(t, rows, 5, "old rows must be fully replaced")
	assert.True(t, rows[0].Expense.Equal(decimal.NewFromInt(24000000)))
}

func TestUpdateToNonDepreciableClearsSchedule(t *testing.T) {
	svc, sched := newService(t)

	asset, err := svc.Create(pumpParams())
	require.NoError(t, err)

	land := domain.CategoryLand
	_, err = svc.UpdateParameters(asset.ID, Patch{Category: &land})
	require.NoError(t, err)

	rows, err := sched.Schedule(asset.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newService(t)

	p := pumpParams()
	p.Name = ""
	_, err := svc.Create(p)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	p = pumpParams()
	p.ResidualValue = p.AcquisitionValue
	_, err = svc.Create(p)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	p = pumpParams()
	p.Method = "SUM_OF_YEARS"
	_, err = svc.Create(p)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestCreateUnknownClassPersistsNothing(t *testing.T) {
	svc, _ := newService(t)

	p := pumpParams()
	p.Method = domain.MethodDecliningBalance
	p.DepreciationClass = 9
	_, err := svc.Create(p)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	list, err := svc.List()
	require.NoError(t, err)
	assert.Empty(t, list, "a failed create must not leave an asset row behind")
}

func TestUpdateUnknownClassKeepsStoredState(t *testing.T) {
	svc, sched := newService(t)

	asset, err := svc.Create(pumpParams())
	require.NoError(t, err)

	method := domain.MethodDecliningBalance
	class := 9
	_, err = svc.UpdateParameters(asset.ID, Patch{Method: &method, DepreciationClass: &class})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	// Stored parameters and schedule are both untouched by the rejected update.
	got, err := svc.Get(asset.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MethodStraightLine, got.Method)
	assert.Equal(t, 0, got.DepreciationClass)

	rows, err := sched.Schedule(asset.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 10)
}

func TestSummarize(t *testing.T) {
	svc, sched := newService(t)

	asset, err := svc.Create(pumpParams())
	require.NoError(t, err)
	rows, err := sched.Schedule(asset.ID)
	require.NoError(t, err)

	summary, err := svc.Summarize(asset.ID, rows)
	require.NoError(t, err)
	assert.Equal(t, 10, summary.Periods)
	assert.True(t, summary.TotalExpense.Equal(decimal.NewFromInt(120000000)))
	assert.True(t, summary.Accumulated.Equal(decimal.NewFromInt(120000000)))
	assert.Equal(t, 0, summary.PostedPeriods)
}
