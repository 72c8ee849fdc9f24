package message

import (
	"encoding/json"
	"fmt"
	"time"

	"route-warmer/internal/domain/entity"
	"route-warmer/internal/pkg/apperrors"
)

// TransferPort is the ICS-20 port on every Cosmos chain.
const TransferPort = "transfer"

// DefaultTimeoutHorizon is how far in the future transfers time out.
const DefaultTimeoutHorizon = 12 * time.Hour

// EurekaConfig describes the Eureka entry contract on the source chain.
type EurekaConfig struct {
	Contract   string
	Channel    string
	Encoding   string
	MinAmounts map[string]string
	// Routes maps a source chain id to the destination chain ids it can reach.
	Routes map[string][]string
}

// TransferIntent is a user-level request for a plain IBC transfer. Amount is in base units.
type TransferIntent struct {
	SourceChannel  string
	Denom          string
	Amount         string
	Sender         string
	Receiver       string
	ReceiverPrefix string
	Memo           string
}

// EurekaIntent is a user-level request for a Eureka transfer. Amount is in base units.
type EurekaIntent struct {
	SourceChainID      string
	DestinationChainID string
	Denom              string
	Amount             string
	Sender             string
	Receiver           string
	Memo               string
}

// Builder turns intents into protocol messages.
type Builder struct {
	Clock          func() time.Time
	TimeoutHorizon time.Duration
	Eureka         EurekaConfig
}

// NewBuilder creates a builder using the wall clock.
func NewBuilder(timeoutHorizon time.Duration, eureka EurekaConfig) *Builder {
	if timeoutHorizon <= 0 {
		timeoutHorizon = DefaultTimeoutHorizon
	}
	return &Builder{Clock: time.Now, TimeoutHorizon: timeoutHorizon, Eureka: eureka}
}

func (b *Builder) deadline() time.Time {
	now := time.Now
	if b.Clock != nil {
		now = b.Clock
	}
	horizon := b.TimeoutHorizon
	if horizon <= 0 {
		horizon = DefaultTimeoutHorizon
	}
	return now().Add(horizon)
}

// BuildStandardTransfer validates the intent and returns a MsgTransfer with a zero timeout
// height and a timestamp timeout at now plus the horizon.
func (b *Builder) BuildStandardTransfer(in TransferIntent) (StandardTransfer, error) {
	if _, err := validateCommon(in.Sender, in.Denom, in.Amount); err != nil {
		return StandardTransfer{}, err
	}
	if err := ValidateChannel(in.SourceChannel); err != nil {
		return StandardTransfer{}, err
	}
	if err := ValidateCosmosRecipient(in.Receiver, in.ReceiverPrefix); err != nil {
		return StandardTransfer{}, err
	}
	if err := ValidateMemo(in.Memo); err != nil {
		return StandardTransfer{}, err
	}

	return StandardTransfer{
		SourcePort:       TransferPort,
		SourceChannel:    in.SourceChannel,
		Token:            entity.Coin{Denom: in.Denom, Amount: in.Amount},
		Sender:           in.Sender,
		Receiver:         in.Receiver,
		TimeoutHeight:    Height{},
		TimeoutTimestamp: uint64(b.deadline().UnixNano()),
		Memo:             in.Memo,
	}, nil
}

type eurekaIBCInfo struct {
	SourceChannel  string `json:"source_channel"`
	Receiver       string `json:"receiver"`
	Memo           string `json:"memo"`
	RecoverAddress string `json:"recover_address"`
	Encoding       string `json:"encoding"`
}

type eurekaIBCTransfer struct {
	IBCInfo eurekaIBCInfo `json:"ibc_info"`
}

type eurekaInnerAction struct {
	IBCTransfer eurekaIBCTransfer `json:"ibc_transfer"`
}

type eurekaAction struct {
	TimeoutTimestamp int64             `json:"timeout_timestamp"`
	Action           eurekaInnerAction `json:"action"`
	ExactOut         bool              `json:"exact_out"`
}

type eurekaExecuteMsg struct {
	Action eurekaAction `json:"action"`
}

// BuildEurekaTransfer validates the intent and wraps an IBC forward instruction for the Eureka
// contract. The payload timeout is expressed in unix seconds and the sender is the recovery address.
func (b *Builder) BuildEurekaTransfer(in EurekaIntent) (ContractExecution, error) {
	value, err := validateCommon(in.Sender, in.Denom, in.Amount)
	if err != nil {
		return ContractExecution{}, err
	}
	if err := ValidateEthereumRecipient(in.Receiver); err != nil {
		return ContractExecution{}, err
	}
	if err := ValidateMemo(in.Memo); err != nil {
		return ContractExecution{}, err
	}
	if err := b.Eureka.ValidateEurekaRoute(in.SourceChainID, in.DestinationChainID, in.Denom, value); err != nil {
		return ContractExecution{}, err
	}
	if b.Eureka.Contract == "" || b.Eureka.Channel == "" {
		return ContractExecution{}, fmt.Errorf("%w: eureka contract and channel must be configured", apperrors.ErrInternal)
	}

	payload, err := json.Marshal(eurekaExecuteMsg{
		Action: eurekaAction{
			TimeoutTimestamp: b.deadline().Unix(),
			Action: eurekaInnerAction{
				IBCTransfer: eurekaIBCTransfer{
					IBCInfo: eurekaIBCInfo{
						SourceChannel:  b.Eureka.Channel,
						Receiver:       in.Receiver,
						Memo:           in.Memo,
						RecoverAddress: in.Sender,
						Encoding:       b.Eureka.Encoding,
					},
				},
			},
			ExactOut: false,
		},
	})
	if err != nil {
		return ContractExecution{}, fmt.Errorf("%w: marshal eureka payload: %v", apperrors.ErrInternal, err)
	}

	return ContractExecution{
		Sender:   in.Sender,
		Contract: b.Eureka.Contract,
		Msg:      payload,
		Funds:    []entity.Coin{{Denom: in.Denom, Amount: in.Amount}},
	}, nil
}
