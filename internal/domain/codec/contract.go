package codec

import "route-warmer/internal/domain/entity"

// MsgExecuteContract field numbers.
const (
	contractFieldSender   = 1
	contractFieldContract = 2
	contractFieldMsg      = 3
	contractFieldFunds    = 5
)

// Coin field numbers, shared with the envelope encoder.
const (
	coinFieldDenom  = 1
	coinFieldAmount = 2
)

// EncodeContractExecution encodes a CosmWasm MsgExecuteContract. Sender, contract and msg are
// always written, even when empty, followed by one field-5 entry per coin in order.
func EncodeContractExecution(sender, contract string, payload []byte, funds []entity.Coin) []byte {
	size := fieldSize(contractFieldSender, len(sender)) +
		fieldSize(contractFieldContract, len(contract)) +
		fieldSize(contractFieldMsg, len(payload))
	for _, c := range funds {
		size += fieldSize(contractFieldFunds, coinSize(c))
	}

	b := make([]byte, 0, size)
	b = appendLengthDelimited(b, contractFieldSender, []byte(sender))
	b = appendLengthDelimited(b, contractFieldContract, []byte(contract))
	b = appendLengthDelimited(b, contractFieldMsg, payload)
	for _, c := range funds {
		b = appendTag(b, contractFieldFunds, wireBytes)
		b = AppendVarint(b, uint64(coinSize(c)))
		b = appendCoin(b, c)
	}
	return b
}

func appendCoin(b []byte, c entity.Coin) []byte {
	b = appendLengthDelimited(b, coinFieldDenom, []byte(c.Denom))
	return appendLengthDelimited(b, coinFieldAmount, []byte(c.Amount))
}

func coinSize(c entity.Coin) int {
	return fieldSize(coinFieldDenom, len(c.Denom)) + fieldSize(coinFieldAmount, len(c.Amount))
}

func fieldSize(field, n int) int {
	return VarintLen(uint64(field)<<3|wireBytes) + VarintLen(uint64(n)) + n
}
