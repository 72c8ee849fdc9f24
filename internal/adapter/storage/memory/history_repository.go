package memory

import (
	"sync"

	"route-warmer/internal/domain/entity"
	domainRepo "route-warmer/internal/domain/repository"
)

// Compile-time check
var _ domainRepo.TxHistoryRepository = (*HistoryRepository)(nil)

// HistoryRepository keeps the most recent transfers, newest first.
type HistoryRepository struct {
	mu      sync.RWMutex
	limit   int
	records []entity.TxRecord
}

// NewHistoryRepository creates a history bounded to limit entries.
func NewHistoryRepository(limit int) *HistoryRepository {
	if limit <= 0 {
		limit = 10
	}
	return &HistoryRepository{limit: limit}
}

// Add prepends rec and evicts the oldest entries beyond the limit.
func (r *HistoryRepository) Add(rec entity.TxRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records := make([]entity.TxRecord, 0, min(len(r.records)+1, r.limit))
	records = append(records, rec)
	for _, old := range r.records {
		if len(records) == r.limit {
			break
		}
		records = append(records, old)
	}
	r.records = records
}

// Update applies fn to the record with the given hash.
func (r *HistoryRepository) Update(hash string, fn func(*entity.TxRecord)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.records {
		if r.records[i].Hash == hash {
			fn(&r.records[i])
			return true
		}
	}
	return false
}

// Get returns a copy of the record with the given hash.
func (r *HistoryRepository) Get(hash string) (entity.TxRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.records {
		if rec.Hash == hash {
			return copyRecord(rec), true
		}
	}
	return entity.TxRecord{}, false
}

// List returns copies of all records, newest first.
func (r *HistoryRepository) List() []entity.TxRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.TxRecord, len(r.records))
	for i, rec := range r.records {
		out[i] = copyRecord(rec)
	}
	return out
}

func copyRecord(rec entity.TxRecord) entity.TxRecord {
	if rec.Steps != nil {
		rec.Steps = append([]entity.TxStep(nil), rec.Steps...)
	}
	if rec.Code != nil {
		code := *rec.Code
		rec.Code = &code
	}
	return rec
}
