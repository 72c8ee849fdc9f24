package port

import (
	"context"

	"route-warmer/internal/domain/entity"
	"route-warmer/internal/domain/message"
)

// TransferRequest is a route warm-up as entered by the user.
type TransferRequest struct {
	RouteType          entity.TxRouteType `json:"routeType"`
	SourceChainID      string             `json:"sourceChainId"`
	DestinationChainID string             `json:"destinationChainId"`
	// Channel may be left empty for IBC routes; a recommended channel is looked up then.
	Channel string `json:"channel"`
	Denom   string `json:"denom"`
	Amount  string `json:"amount"`
	// PrettyAmount marks Amount as display units to be converted with the token's decimals.
	PrettyAmount bool   `json:"prettyAmount"`
	Receiver     string `json:"receiver"`
	Memo         string `json:"memo"`
	// Wait blocks Warm until the transaction is confirmed or tracking gives up.
	Wait bool `json:"wait"`
}

// SimulationResult is the outcome of a dry run.
type SimulationResult struct {
	ChainID    string               `json:"chainId"`
	Sender     string               `json:"sender"`
	Channel    string               `json:"channel,omitempty"`
	Message    message.Encoded      `json:"message"`
	BaseAmount string               `json:"baseAmount"`
	Token      entity.TokenMetadata `json:"token"`
	GasUsed    uint64               `json:"gasUsed"`
	GasLimit   uint64               `json:"gasLimit"`
	FeeDenom   string               `json:"feeDenom"`
	EurekaFees *message.EurekaFees  `json:"eurekaFees,omitempty"`
}

// AccountView is an account snapshot with balances.
type AccountView struct {
	Account  *entity.AccountInfo `json:"account,omitempty"`
	Exists   bool                `json:"exists"`
	Balances []entity.Coin       `json:"balances"`
}

// TransferService runs the warm-up flow: build, simulate, sign, broadcast, track.
type TransferService interface {
	Simulate(ctx context.Context, req TransferRequest) (*SimulationResult, error)
	Warm(ctx context.Context, req TransferRequest) (*entity.TxRecord, error)
	History() []entity.TxRecord
	RecommendChannel(ctx context.Context, denom, sourceChainID, destChainID string) (string, error)
	Account(ctx context.Context, chainID, address string) (*AccountView, error)
	EurekaFees(amount, destChainID string) (message.EurekaFees, error)
}

// PreferenceService exposes persisted user preferences.
type PreferenceService interface {
	DisclaimerAccepted(ctx context.Context) (bool, error)
	SetDisclaimerAccepted(ctx context.Context, accepted bool) error
}
