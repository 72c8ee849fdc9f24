package message

import (
	"fmt"
	"strings"

	"route-warmer/internal/domain"
	"route-warmer/internal/pkg/address"
	"route-warmer/internal/pkg/amount"
	"route-warmer/internal/pkg/apperrors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// MaxMemoBytes bounds the memo attached to a transfer.
const MaxMemoBytes = 256

const ibcChannelPrefix = "channel-"

// ValidateChannel checks an ICS-20 channel identifier such as "channel-141".
func ValidateChannel(channel string) error {
	if channel == "" {
		return fmt.Errorf("%w: channel id is required", apperrors.ErrInvalidInput)
	}
	if !strings.HasPrefix(channel, ibcChannelPrefix) || len(channel) == len(ibcChannelPrefix) {
		return fmt.Errorf("%w: channel id %q must start with %q", apperrors.ErrInvalidInput, channel, ibcChannelPrefix)
	}
	return nil
}

// ValidateMemo bounds the memo size.
func ValidateMemo(memo string) error {
	if len(memo) > MaxMemoBytes {
		return fmt.Errorf("%w: memo is %d bytes, at most %d allowed", apperrors.ErrInvalidInput, len(memo), MaxMemoBytes)
	}
	return nil
}

// ValidateCosmosRecipient checks the recipient is bech32 and, when prefix is known, that it
// belongs to the destination chain.
func ValidateCosmosRecipient(recipient, prefix string) error {
	if recipient == "" {
		return fmt.Errorf("%w: recipient address is required", apperrors.ErrInvalidInput)
	}
	hrp, err := address.Prefix(recipient)
	if err != nil {
		return err
	}
	if prefix != "" && hrp != prefix {
		return fmt.Errorf("%w: recipient address should start with %q", apperrors.ErrInvalidInput, prefix)
	}
	return nil
}

// ValidateEthereumRecipient checks a 0x-prefixed 20-byte hex address.
func ValidateEthereumRecipient(recipient string) error {
	if !strings.HasPrefix(recipient, "0x") || !common.IsHexAddress(recipient) {
		return fmt.Errorf("%w: %q is not a valid Ethereum address", apperrors.ErrInvalidInput, recipient)
	}
	return nil
}

func validateCommon(sender, denom, amt string) (decimal.Decimal, error) {
	if sender == "" {
		return decimal.Zero, fmt.Errorf("%w: sender address is required", apperrors.ErrInvalidInput)
	}
	if denom == "" {
		return decimal.Zero, fmt.Errorf("%w: denom is required", apperrors.ErrInvalidInput)
	}
	return amount.ParseBaseUnits(amt)
}

// ValidateEurekaRoute checks the route is served by the Eureka contract and the amount meets
// the per-denom minimum.
func (c EurekaConfig) ValidateEurekaRoute(sourceChainID, destChainID, denom string, value decimal.Decimal) error {
	if !c.supports(sourceChainID, destChainID) {
		return fmt.Errorf("%w: eureka does not route %s -> %s", domain.ErrUnsupportedRoute, sourceChainID, destChainID)
	}
	minRaw, ok := c.MinAmounts[denom]
	if !ok {
		return nil
	}
	minimum, err := decimal.NewFromString(minRaw)
	if err != nil {
		return fmt.Errorf("%w: bad eureka minimum %q for %s: %v", apperrors.ErrInternal, minRaw, denom, err)
	}
	if value.LessThan(minimum) {
		return fmt.Errorf("%w: minimum amount for eureka routes is %s%s", apperrors.ErrInvalidInput, minimum.String(), denom)
	}
	return nil
}

func (c EurekaConfig) supports(source, dest string) bool {
	if len(c.Routes) == 0 {
		return true
	}
	for _, d := range c.Routes[source] {
		if d == dest {
			return true
		}
	}
	return false
}
