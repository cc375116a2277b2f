package depreciation

import (
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdamkota/asetledger/internal/domain"
	"github.com/pdamkota/asetledger/internal/infra/sqlite"
)

func newServiceWithAsset(t *testing.T) (*Service, int64) {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assetID, err := db.InsertAsset(domain.Asset{
		AssetNo: "AST/2024-01/0001", Name: "Instalasi Pengolahan", Category: "BUILDING",
		AcquisitionValue: decimal.NewFromInt(120000000), ResidualValue: decimal.Zero,
		UsefulLifeYears: 10, Method: domain.MethodStraightLine,
		Basis: domain.BasisYearly, StartDate: &start, RegisteredYear: 2024,
	})
	require.NoError(t, err)
	return NewService(db), assetID
}

func TestRegenerateRoundTrip(t *testing.T) {
	svc, assetID := newServiceWithAsset(t)

	first, err := svc.Regenerate(assetID)
	require.NoError(t, err)
	require.Len(t, first, 10)

	second, err := svc.Regenerate(assetID)
	require.NoError(t, err)
	require.Len(t, second, 10)

	stored, err := svc.Schedule(assetID)
	require.NoError(t, err)
	require.Len(t, stored, 10)
	for i := range stored {
		assert.Equal(t, first[i].Period, stored[i].Period)
		assert.True(t, first[i].Expense.Equal(stored[i].Expense))
		assert.True(t, first[i].OpeningValue.Equal(stored[i].OpeningValue))
		assert.True(t, first[i].ClosingValue.Equal(stored[i].ClosingValue))
		assert.True(t, first[i].Accumulated.Equal(stored[i].Accumulated))
	}
}

func TestRegenerateConcurrentSameAsset(t *testing.T) {
	svc, assetID := newServiceWithAsset(t)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Regenerate(assetID); err != nil {
				t.Errorf("regenerate: %v", err)
			}
		}()
	}
	wg.Wait()

	rows, err := svc.Schedule(assetID)
	require.NoError(t, err)
	assert.Len(t, rows, 10, "concurrent regeneration must not duplicate rows")
}

func TestEntryLookup(t *testing.T) {
	svc, assetID := newServiceWithAsset(t)

	rows, err := svc.Regenerate(assetID)
	require.NoError(t, err)
	stored, err := svc.Schedule(assetID)
	require.NoError(t, err)

	entry, err := svc.Entry(stored[0].ID)
	require.NoError(t, err)
	assert.Equal(t, rows[0].Period, entry.Period)

	_, err = svc.Entry(99999)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}
