package depreciation

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/pdamkota/asetledger/internal/domain"
	"github.com/pdamkota/asetledger/internal/infra/observability"
	"github.com/pdamkota/asetledger/internal/infra/sqlite"
)

// Service regenerates and reads persisted depreciation schedules.
type Service struct {
	db *sqlite.DB

	// Regeneration for one asset is serialized; different assets may
	// regenerate in parallel.
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewService creates a depreciation service.
func NewService(db *sqlite.DB) *Service {
	return &Service{db: db, locks: make(map[int64]*sync.Mutex)}
}

// Regenerate recomputes an asset's full schedule and replaces the stored
// rows atomically. Existing rows are always deleted first, so an asset that
// became non-depreciable ends up with an empty schedule.
func (s *Service) Regenerate(assetID int64) ([]domain.ScheduleEntry, error) {
	lock := s.assetLock(assetID)
	lock.Lock()
	defer lock.Unlock()

	asset, err := s.db.GetAsset(assetID)
	if err != nil {
		return nil, err
	}

	rows, err := Generate(asset)
	if err != nil {
		return nil, err
	}

	if err := s.db.ReplaceSchedule(assetID, rows); err != nil {
		return nil, err
	}

	observability.ScheduleRegenerations.Inc()
	log.Info().Int64("asset_id", assetID).Int("periods", len(rows)).
		Msg("depreciation schedule regenerated")
	return rows, nil
}

// Schedule returns the stored schedule rows for an asset in period order.
func (s *Service) Schedule(assetID int64) ([]domain.ScheduleEntry, error) {
	return s.db.ListSchedule(assetID)
}

// Entry returns one stored schedule row.
func (s *Service) Entry(id int64) (domain.ScheduleEntry, error) {
	return s.db.GetScheduleEntry(id)
}

// SimulateAsset runs an unsaved simulation against a stored asset.
func (s *Service) SimulateAsset(assetID int64, req SimulationRequest) ([]domain.ScheduleEntry, error) {
	asset, err := s.db.GetAsset(assetID)
	if err != nil {
		return nil, err
	}
	return Simulate(asset, req)
}

func (s *Service) assetLock(assetID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[assetID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[assetID] = lock
	}
	return lock
}
