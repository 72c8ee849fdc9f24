package address

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"route-warmer/internal/pkg/apperrors"
)

func Test_EncodeDecode(t *testing.T) {
	c := require.New(t)
	raw := make([]byte, 20)
	for i := range raw {
		raw[i] = byte(i)
	}

	addr, err := Encode("osmo", raw)
	c.NoError(err)
	c.Regexp(`^osmo1`, addr)

	hrp, got, err := Decode(addr)
	c.NoError(err)
	c.Equal("osmo", hrp)
	c.Equal(raw, got)
}

func Test_PrefixOfLongContractAddress(t *testing.T) {
	c := require.New(t)
	hrp, err := Prefix("cosmos1clswlqlfm8gpn7n5wu0ypu0ugaj36urlhj7yz30hn7v7mkcm2tuqy9f8s5")
	c.NoError(err)
	c.Equal("cosmos", hrp)
}

func Test_DecodeRejectsGarbage(t *testing.T) {
	c := require.New(t)
	_, err := Prefix("not-an-address")
	c.ErrorIs(err, apperrors.ErrInvalidInput)
}

func Test_FromPubKeyIsDeterministic(t *testing.T) {
	c := require.New(t)
	pub, err := hex.DecodeString("02" + "79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798")
	c.NoError(err)

	a, err := FromPubKey("cosmos", pub)
	c.NoError(err)
	b, err := FromPubKey("osmo", pub)
	c.NoError(err)

	_, rawA, err := Decode(a)
	c.NoError(err)
	_, rawB, err := Decode(b)
	c.NoError(err)
	c.Len(rawA, 20)
	c.Equal(rawA, rawB, "same key hashes to the same account bytes on every chain")
}
