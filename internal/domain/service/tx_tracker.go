package service

import (
	"context"

	"route-warmer/internal/domain/entity"
)

// TxResult is the outcome of an included transaction.
type TxResult struct {
	Hash    string `json:"hash"`
	Height  int64  `json:"height,string"`
	Code    uint32 `json:"code"`
	Log     string `json:"log,omitempty"`
	GasUsed int64  `json:"gasUsed,string"`
}

// Succeeded reports whether the transaction executed without error.
func (r TxResult) Succeeded() bool {
	return r.Code == 0
}

// TxTracker waits for a transaction to be included in a block.
type TxTracker interface {
	Track(ctx context.Context, rpcURL entity.EndpointURL, txHash string) (*TxResult, error)
}
