// Package sequence hands out monotonically increasing, human-readable
// reference numbers scoped by a time-bucketed key.
package sequence

import (
	"fmt"
	"time"

	"github.com/pdamkota/asetledger/internal/infra/observability"
	"github.com/pdamkota/asetledger/internal/infra/sqlite"
)

// Well-known prefixes.
const (
	PrefixVoucher = "JRN" // journal vouchers
	PrefixAsset   = "AST" // asset numbers
	PrefixStock   = "STK" // stock documents
)

// Allocator produces reference numbers backed by a durable atomic counter.
// Call sites stay decoupled from the storage mechanism; the counter is never
// held in process memory.
type Allocator struct {
	db *sqlite.DB
}

// NewAllocator creates an allocator over the given store.
func NewAllocator(db *sqlite.DB) *Allocator {
	return &Allocator{db: db}
}

// Next allocates the next number in the month bucket for a prefix and
// renders it as "PREFIX/yyyy-mm/NNNNN" (5-digit pad).
func (a *Allocator) Next(prefix string, date time.Time) (string, error) {
	return a.next(prefix, date, 5)
}

// NextAssetNo allocates the next asset number, padded to 4 digits.
func (a *Allocator) NextAssetNo(date time.Time) (string, error) {
	return a.next(PrefixAsset, date, 4)
}

func (a *Allocator) next(prefix string, date time.Time, pad int) (string, error) {
	key := fmt.Sprintf("%s-%s", prefix, date.Format("200601"))
	value, err := a.db.NextSequence(key)
	if err != nil {
		return "", err
	}
	observability.SequenceAllocations.WithLabelValues(prefix).Inc()
	return fmt.Sprintf("%s/%s/%0*d", prefix, date.Format("2006-01"), pad, value), nil
}
