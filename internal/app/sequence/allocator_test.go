package sequence

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdamkota/asetledger/internal/infra/sqlite"
)

func newAllocator(t *testing.T) *Allocator {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAllocator(db)
}

func TestNextFormat(t *testing.T) {
	a := newAllocator(t)
	date := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	got, err := a.Next(PrefixVoucher, date)
	require.NoError(t, err)
	assert.Equal(t, "JRN/2024-06/00001", got)

	got, err = a.Next(PrefixVoucher, date)
	require.NoError(t, err)
	assert.Equal(t, "JRN/2024-06/00002", got)
}

func TestNextAssetNoFourDigitPad(t *testing.T) {
	a := newAllocator(t)
	date := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	got, err := a.NextAssetNo(date)
	require.NoError(t, err)
	assert.Equal(t, "AST/2024-06/0001", got)
}

func TestBucketsAreIndependent(t *testing.T) {
	a := newAllocator(t)
	june := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	july := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	_, err := a.Next(PrefixVoucher, june)
	require.NoError(t, err)
	_, err = a.Next(PrefixVoucher, june)
	require.NoError(t, err)

	// A new month restarts numbering; a different prefix in the same month
	// keeps its own counter too.
	got, err := a.Next(PrefixVoucher, july)
	require.NoError(t, err)
	assert.Equal(t, "JRN/2024-07/00001", got)

	got, err = a.Next(PrefixStock, june)
	require.NoError(t, err)
	assert.Equal(t, "STK/2024-06/00001", got)
}

func TestNextConcurrentDistinct(t *testing.T) {
	a := newAllocator(t)
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	const n = 16
	var wg sync.WaitGroup
	numbers := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := a.Next(PrefixVoucher, date)
			if err != nil {
				t.Errorf("next: %v", err)
				return
			}
			numbers <- v
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[string]bool)
	for v := range numbers {
		assert.False(t, seen[v], "number %s allocated twice", v)
		seen[v] = true
	}
	assert.Len(t, seen, n)
}
