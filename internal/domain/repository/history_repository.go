package repository

import "route-warmer/internal/domain/entity"

// TxHistoryRepository keeps a bounded, newest-first list of broadcast transfers.
type TxHistoryRepository interface {
	Add(rec entity.TxRecord)
	// Update applies fn to the record with the given hash and reports whether it was found.
	Update(hash string, fn func(*entity.TxRecord)) bool
	Get(hash string) (entity.TxRecord, bool)
	List() []entity.TxRecord
}
