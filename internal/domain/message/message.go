// Package message builds the protocol messages submitted by a route warm-up: plain ICS-20
// transfers and Eureka transfers wrapped in a CosmWasm contract execution.
package message

import (
	"encoding/json"

	"route-warmer/internal/domain/codec"
	"route-warmer/internal/domain/entity"
)

// Type URLs routed by the receiving chain.
const (
	TypeURLTransfer        = "/ibc.applications.transfer.v1.MsgTransfer"
	TypeURLExecuteContract = "/cosmwasm.wasm.v1.MsgExecuteContract"
)

// Message is implemented by StandardTransfer and ContractExecution only.
type Message interface {
	TypeURL() string
	Marshal() []byte
	isMessage()
}

// Encoded is the uniform shape handed to simulation and signing.
type Encoded struct {
	TypeURL string `json:"typeUrl"`
	Value   []byte `json:"value"`
}

// Any converts the encoded message to its envelope form.
func (e Encoded) Any() codec.Any {
	return codec.Any{TypeURL: e.TypeURL, Value: e.Value}
}

// Encode serializes a message into its type URL and wire bytes.
func Encode(m Message) Encoded {
	return Encoded{TypeURL: m.TypeURL(), Value: m.Marshal()}
}

// EncodeAll encodes messages in order.
func EncodeAll(msgs ...Message) []Encoded {
	out := make([]Encoded, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, Encode(m))
	}
	return out
}

// Height is an IBC revision height.
type Height struct {
	RevisionNumber uint64 `json:"revisionNumber,string"`
	RevisionHeight uint64 `json:"revisionHeight,string"`
}

// StandardTransfer is an ICS-20 MsgTransfer. TimeoutTimestamp is nanoseconds since the epoch
// and serializes to JSON as a decimal string.
type StandardTransfer struct {
	SourcePort       string      `json:"sourcePort"`
	SourceChannel    string      `json:"sourceChannel"`
	Token            entity.Coin `json:"token"`
	Sender           string      `json:"sender"`
	Receiver         string      `json:"receiver"`
	TimeoutHeight    Height      `json:"timeoutHeight"`
	TimeoutTimestamp uint64      `json:"timeoutTimestamp,string"`
	Memo             string      `json:"memo"`
}

var _ Message = StandardTransfer{}

func (StandardTransfer) isMessage() {}

// TypeURL implements Message.
func (StandardTransfer) TypeURL() string { return TypeURLTransfer }

// Marshal implements Message.
func (m StandardTransfer) Marshal() []byte {
	return codec.EncodeMsgTransfer(codec.MsgTransfer{
		SourcePort:    m.SourcePort,
		SourceChannel: m.SourceChannel,
		Token:         m.Token,
		Sender:        m.Sender,
		Receiver:      m.Receiver,
		TimeoutHeight: codec.Height{
			RevisionNumber: m.TimeoutHeight.RevisionNumber,
			RevisionHeight: m.TimeoutHeight.RevisionHeight,
		},
		TimeoutTimestamp: m.TimeoutTimestamp,
		Memo:             m.Memo,
	})
}

// ContractExecution is a CosmWasm MsgExecuteContract carrying an opaque JSON payload.
type ContractExecution struct {
	Sender   string          `json:"sender"`
	Contract string          `json:"contract"`
	Msg      json.RawMessage `json:"msg"`
	Funds    []entity.Coin   `json:"funds"`
}

var _ Message = ContractExecution{}

func (ContractExecution) isMessage() {}

// TypeURL implements Message.
func (ContractExecution) TypeURL() string { return TypeURLExecuteContract }

// Marshal implements Message.
func (m ContractExecution) Marshal() []byte {
	return codec.EncodeContractExecution(m.Sender, m.Contract, m.Msg, m.Funds)
}
