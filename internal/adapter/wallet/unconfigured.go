package wallet

import (
	"context"
	"fmt"

	"route-warmer/internal/domain/codec"
	"route-warmer/internal/domain/entity"
	domainService "route-warmer/internal/domain/service"
	"route-warmer/internal/pkg/apperrors"
)

// Compile-time check
var _ domainService.Wallet = Unconfigured{}

// Unconfigured stands in when no signing key is available; read-only operations keep working.
type Unconfigured struct{}

var errNoKey = fmt.Errorf("%w: no wallet key configured (set ROUTE_WARMER_WALLET_PRIVATE_KEY_HEX)", apperrors.ErrInvalidInput)

// GetKey implements domainService.Wallet.
func (Unconfigured) GetKey(context.Context, string) (entity.Key, error) {
	return entity.Key{}, errNoKey
}

// SignDirect implements domainService.Wallet.
func (Unconfigured) SignDirect(context.Context, string, string, codec.SignDoc) (*domainService.SignResponse, error) {
	return nil, errNoKey
}

// SendTx implements domainService.Wallet.
func (Unconfigured) SendTx(context.Context, string, []byte, domainService.BroadcastMode) ([]byte, error) {
	return nil, errNoKey
}
