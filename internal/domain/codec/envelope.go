package codec

import (
	"route-warmer/internal/domain/entity"

	"google.golang.org/protobuf/encoding/protowire"
)

// Type URLs of the envelope pieces.
const (
	Secp256k1PubKeyTypeURL = "/cosmos.crypto.secp256k1.PubKey"
)

// SignModeDirect is SIGN_MODE_DIRECT from cosmos.tx.signing.v1beta1.
const SignModeDirect = 1

// SignatureSize is the length of a compact secp256k1 signature (R || S).
const SignatureSize = 64

// Any is a packed protobuf message together with its type URL.
type Any struct {
	TypeURL string
	Value   []byte
}

// SignerInfo describes the single signer of a transaction. PubKey is omitted from the
// encoding when nil, which is what nodes accept for simulation.
type SignerInfo struct {
	PubKey   []byte
	Sequence uint64
}

// SignDoc is the document signed in SIGN_MODE_DIRECT.
type SignDoc struct {
	BodyBytes     []byte
	AuthInfoBytes []byte
	ChainID       string
	AccountNumber uint64
}

// DummySignature returns a zero-filled placeholder signature for simulation.
func DummySignature() []byte {
	return make([]byte, SignatureSize)
}

// EncodeAny encodes google.protobuf.Any.
func EncodeAny(a Any) []byte {
	var b []byte
	b = appendString(b, 1, a.TypeURL)
	b = appendBytes(b, 2, a.Value)
	return b
}

// EncodeTxBody encodes cosmos.tx.v1beta1.TxBody with the given messages and memo.
func EncodeTxBody(msgs []Any, memo string) []byte {
	var b []byte
	for _, m := range msgs {
		b = appendMessage(b, 1, EncodeAny(m))
	}
	b = appendString(b, 2, memo)
	return b
}

// EncodeAuthInfo encodes cosmos.tx.v1beta1.AuthInfo with exactly one signer in direct mode.
func EncodeAuthInfo(signer SignerInfo, fee entity.Fee) []byte {
	var b []byte
	b = appendMessage(b, 1, encodeSignerInfo(signer))
	b = appendMessage(b, 2, encodeFee(fee))
	return b
}

// EncodeTxRaw encodes cosmos.tx.v1beta1.TxRaw.
func EncodeTxRaw(bodyBytes, authInfoBytes []byte, signatures ...[]byte) []byte {
	var b []byte
	b = appendBytes(b, 1, bodyBytes)
	b = appendBytes(b, 2, authInfoBytes)
	for _, sig := range signatures {
		// repeated bytes are written even when empty
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendBytes(b, sig)
	}
	return b
}

// EncodeSignDoc encodes cosmos.tx.v1beta1.SignDoc.
func EncodeSignDoc(doc SignDoc) []byte {
	var b []byte
	b = appendBytes(b, 1, doc.BodyBytes)
	b = appendBytes(b, 2, doc.AuthInfoBytes)
	b = appendString(b, 3, doc.ChainID)
	b = appendUint(b, 4, doc.AccountNumber)
	return b
}

// EncodePubKey wraps a compressed secp256k1 key in its Any envelope.
func EncodePubKey(key []byte) Any {
	return Any{TypeURL: Secp256k1PubKeyTypeURL, Value: appendBytes(nil, 1, key)}
}

func encodeSignerInfo(s SignerInfo) []byte {
	var b []byte
	if s.PubKey != nil {
		b = appendMessage(b, 1, EncodeAny(EncodePubKey(s.PubKey)))
	}

	single := appendUint(nil, 1, SignModeDirect)
	modeInfo := appendMessage(nil, 1, single)
	b = appendMessage(b, 2, modeInfo)

	b = appendUint(b, 3, s.Sequence)
	return b
}

func encodeFee(fee entity.Fee) []byte {
	var b []byte
	for _, c := range fee.Amount {
		b = appendMessage(b, 1, encodeCoin(c))
	}
	b = appendUint(b, 2, fee.GasLimit)
	return b
}

func encodeCoin(c entity.Coin) []byte {
	var b []byte
	b = appendString(b, coinFieldDenom, c.Denom)
	b = appendString(b, coinFieldAmount, c.Amount)
	return b
}

// The helpers below follow proto3 presence rules: zero scalars and empty strings are skipped.

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendUint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

// appendMessage always writes the field, so set-but-empty sub-messages stay present.
func appendMessage(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}
