// Package wallet provides a signing wallet backed by a locally held secp256k1 key.
package wallet

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"route-warmer/internal/application/port"
	"route-warmer/internal/domain/codec"
	"route-warmer/internal/domain/entity"
	domainService "route-warmer/internal/domain/service"
	"route-warmer/internal/pkg/address"
	"route-warmer/internal/pkg/apperrors"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"go.uber.org/zap"
)

// Compile-time check
var _ domainService.Wallet = (*LocalWallet)(nil)

const (
	broadcastPath = "/cosmos/tx/v1beta1/txs"
	// codeTxInMempool is returned when a retried broadcast finds its own transaction already queued.
	codeTxInMempool = 19
)

// chainLookup resolves bech32 prefixes for chain ids.
type chainLookup interface {
	GetChain(ctx context.Context, chainID string) (entity.ChainInfo, error)
}

// LocalWallet signs with a single private key for every chain and broadcasts through the
// chain's REST endpoints.
type LocalWallet struct {
	key       *secp256k1.PrivateKey
	chains    chainLookup
	endpoints port.EndpointService
	logger    *zap.Logger
}

// NewLocalWallet parses a hex-encoded 32-byte private key.
func NewLocalWallet(privateKeyHex string, chains chainLookup, endpoints port.EndpointService, logger *zap.Logger) (*LocalWallet, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: private key is not hex: %v", apperrors.ErrInvalidInput, err)
	}
	if len(raw) != secp256k1.PrivKeyBytesLen {
		return nil, fmt.Errorf("%w: private key must be %d bytes, got %d", apperrors.ErrInvalidInput, secp256k1.PrivKeyBytesLen, len(raw))
	}
	return &LocalWallet{
		key:       secp256k1.PrivKeyFromBytes(raw),
		chains:    chains,
		endpoints: endpoints,
		logger:    logger.Named("LocalWallet"),
	}, nil
}

// GetKey returns the account address on chainID and the compressed public key.
func (w *LocalWallet) GetKey(ctx context.Context, chainID string) (entity.Key, error) {
	chain, err := w.chains.GetChain(ctx, chainID)
	if err != nil {
		return entity.Key{}, err
	}
	if chain.Bech32Prefix == "" {
		return entity.Key{}, fmt.Errorf("%w: chain %s has no bech32 prefix", apperrors.ErrInvalidInput, chainID)
	}

	pub := w.key.PubKey().SerializeCompressed()
	addr, err := address.FromPubKey(chain.Bech32Prefix, pub)
	if err != nil {
		return entity.Key{}, err
	}
	return entity.Key{Bech32Address: addr, PubKey: pub}, nil
}

// SignDirect signs the SIGN_MODE_DIRECT document. The signature is the 64-byte R||S form.
func (w *LocalWallet) SignDirect(ctx context.Context, chainID, signer string, doc codec.SignDoc) (*domainService.SignResponse, error) {
	key, err := w.GetKey(ctx, chainID)
	if err != nil {
		return nil, err
	}
	if key.Bech32Address != signer {
		return nil, fmt.Errorf("%w: wallet holds %s, cannot sign for %s", apperrors.ErrInvalidInput, key.Bech32Address, signer)
	}
	if doc.ChainID != chainID {
		return nil, fmt.Errorf("%w: sign doc is for chain %q, not %q", apperrors.ErrInvalidInput, doc.ChainID, chainID)
	}

	hash := sha256.Sum256(codec.EncodeSignDoc(doc))
	compact := ecdsa.SignCompact(w.key, hash[:], true)

	w.logger.Debug("Signed document", zap.String("chainId", chainID), zap.Uint64("accountNumber", doc.AccountNumber))
	return &domainService.SignResponse{Signed: doc, Signature: compact[1:]}, nil
}

type broadcastRequest struct {
	TxBytes []byte `json:"tx_bytes"`
	Mode    string `json:"mode"`
}

type broadcastResponse struct {
	TxResponse struct {
		TxHash    string `json:"txhash"`
		Code      uint32 `json:"code"`
		Codespace string `json:"codespace"`
		RawLog    string `json:"raw_log"`
	} `json:"tx_response"`
}

func broadcastMode(mode domainService.BroadcastMode) string {
	if mode == domainService.BroadcastModeAsync {
		return "BROADCAST_MODE_ASYNC"
	}
	return "BROADCAST_MODE_SYNC"
}

// SendTx submits the transaction and returns its hash. A non-zero check code means the node
// refused the transaction.
func (w *LocalWallet) SendTx(ctx context.Context, chainID string, txBytes []byte, mode domainService.BroadcastMode) ([]byte, error) {
	payload, err := json.Marshal(broadcastRequest{TxBytes: txBytes, Mode: broadcastMode(mode)})
	if err != nil {
		return nil, fmt.Errorf("%w: encoding broadcast request: %v", apperrors.ErrInternal, err)
	}

	var resp broadcastResponse
	if err := w.endpoints.RequestJSON(ctx, chainID, entity.EndpointKindREST, port.RequestOptions{
		Method:  http.MethodPost,
		Path:    broadcastPath,
		Body:    payload,
		Headers: map[string]string{"Content-Type": "application/json"},
	}, &resp); err != nil {
		return nil, err
	}

	tx := resp.TxResponse
	if tx.Code != 0 && tx.Code != codeTxInMempool {
		w.logger.Warn("Node refused transaction",
			zap.String("chainId", chainID), zap.Uint32("code", tx.Code), zap.String("codespace", tx.Codespace), zap.String("log", tx.RawLog),
		)
		return nil, fmt.Errorf("%w: broadcast failed with code %d (%s): %s", apperrors.ErrUpstreamRejected, tx.Code, tx.Codespace, tx.RawLog)
	}

	hash, err := hex.DecodeString(tx.TxHash)
	if err != nil || len(hash) == 0 {
		return nil, fmt.Errorf("%w: invalid tx hash %q", apperrors.ErrMalformedResponse, tx.TxHash)
	}
	return hash, nil
}
