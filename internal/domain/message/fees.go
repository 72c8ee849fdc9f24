package message

import (
	"route-warmer/internal/pkg/amount"
)

// EthereumChainID is the destination id the route service uses for Ethereum mainnet.
const EthereumChainID = "1"

// EurekaFees is the fee breakdown shown before a Eureka transfer, in base units.
type EurekaFees struct {
	ProtocolFee string `json:"protocolFee"`
	RelayerFee  string `json:"relayerFee"`
	TotalFee    string `json:"totalFee"`
}

// CalculateEurekaFees applies a 0.1% protocol fee and a relayer fee of 1% towards Ethereum or
// 0.1% otherwise. Results are floored to whole base units.
func CalculateEurekaFees(amt, destChainID string) (EurekaFees, error) {
	value, err := amount.ParseBaseUnits(amt)
	if err != nil {
		return EurekaFees{}, err
	}
	relayerPerMille := int64(1)
	if destChainID == EthereumChainID {
		relayerPerMille = 10
	}

	protocol := amount.Fraction(value, 1, 1000)
	relayer := amount.Fraction(value, relayerPerMille, 1000)
	return EurekaFees{
		ProtocolFee: protocol.String(),
		RelayerFee:  relayer.String(),
		TotalFee:    protocol.Add(relayer).String(),
	}, nil
}
