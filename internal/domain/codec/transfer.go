package codec

import "route-warmer/internal/domain/entity"

// Height is an IBC client height. The zero value disables height-based timeouts.
type Height struct {
	RevisionNumber uint64
	RevisionHeight uint64
}

// MsgTransfer mirrors ibc.applications.transfer.v1.MsgTransfer.
type MsgTransfer struct {
	SourcePort       string
	SourceChannel    string
	Token            entity.Coin
	Sender           string
	Receiver         string
	TimeoutHeight    Height
	TimeoutTimestamp uint64
	Memo             string
}

// EncodeMsgTransfer encodes an ICS-20 transfer message.
func EncodeMsgTransfer(m MsgTransfer) []byte {
	var b []byte
	b = appendString(b, 1, m.SourcePort)
	b = appendString(b, 2, m.SourceChannel)
	b = appendMessage(b, 3, encodeCoin(m.Token))
	b = appendString(b, 4, m.Sender)
	b = appendString(b, 5, m.Receiver)

	var height []byte
	height = appendUint(height, 1, m.TimeoutHeight.RevisionNumber)
	height = appendUint(height, 2, m.TimeoutHeight.RevisionHeight)
	b = appendMessage(b, 6, height)

	b = appendUint(b, 7, m.TimeoutTimestamp)
	b = appendString(b, 8, m.Memo)
	return b
}
