// Package address handles Cosmos bech32 account addresses.
package address

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"route-warmer/internal/pkg/apperrors"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // cosmos account addresses are defined with ripemd160
)

// Decode returns the human-readable prefix and the raw address bytes.
func Decode(addr string) (string, []byte, error) {
	hrp, data, err := bech32.DecodeNoLimit(strings.TrimSpace(addr))
	if err != nil {
		return "", nil, fmt.Errorf("%w: invalid bech32 address %q: %v", apperrors.ErrInvalidInput, addr, err)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", nil, fmt.Errorf("%w: invalid bech32 payload in %q: %v", apperrors.ErrInvalidInput, addr, err)
	}
	return hrp, raw, nil
}

// Prefix returns the human-readable part of a bech32 address.
func Prefix(addr string) (string, error) {
	hrp, _, err := Decode(addr)
	return hrp, err
}

// Encode builds a bech32 address from raw bytes.
func Encode(prefix string, raw []byte) (string, error) {
	conv, err := bech32.ConvertBits(raw, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("%w: converting address bits: %v", apperrors.ErrInternal, err)
	}
	addr, err := bech32.Encode(prefix, conv)
	if err != nil {
		return "", fmt.Errorf("%w: encoding bech32 address with prefix %q: %v", apperrors.ErrInvalidInput, prefix, err)
	}
	return addr, nil
}

// FromPubKey derives the account address of a compressed secp256k1 public key.
func FromPubKey(prefix string, pubKey []byte) (string, error) {
	sum := sha256.Sum256(pubKey)
	h := ripemd160.New()
	_, _ = h.Write(sum[:])
	return Encode(prefix, h.Sum(nil))
}
