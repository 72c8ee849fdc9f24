package service

import (
	"context"

	"route-warmer/internal/domain/codec"
	"route-warmer/internal/domain/entity"
)

// BroadcastMode selects when the node acknowledges a submitted transaction.
type BroadcastMode string

// Broadcast modes.
const (
	BroadcastModeSync  BroadcastMode = "sync"
	BroadcastModeAsync BroadcastMode = "async"
)

// SignResponse carries the document the wallet actually signed and the 64-byte signature.
type SignResponse struct {
	Signed    codec.SignDoc
	Signature []byte
}

// Wallet is the signing capability. Implementations hold the keys; callers never see them.
type Wallet interface {
	GetKey(ctx context.Context, chainID string) (entity.Key, error)
	SignDirect(ctx context.Context, chainID, signer string, doc codec.SignDoc) (*SignResponse, error)
	// SendTx submits raw transaction bytes and returns the transaction hash.
	SendTx(ctx context.Context, chainID string, txBytes []byte, mode BroadcastMode) ([]byte, error)
}
