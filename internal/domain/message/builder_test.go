package message

import (
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"route-warmer/internal/domain"
	"route-warmer/internal/pkg/address"
	"route-warmer/internal/pkg/apperrors"
)

const (
	testEurekaContract = "cosmos1clswlqlfm8gpn7n5wu0ypu0ugaj36urlhj7yz30hn7v7mkcm2tuqy9f8s5"
	testEthReceiver    = "0x1111111111111111111111111111111111111111"
)

func testAddress(t *testing.T, prefix string, seed byte) string {
	t.Helper()
	raw := make([]byte, 20)
	for i := range raw {
		raw[i] = seed + byte(i)
	}
	addr, err := address.Encode(prefix, raw)
	require.NoError(t, err)
	return addr
}

func testEureka() EurekaConfig {
	return EurekaConfig{
		Contract:   testEurekaContract,
		Channel:    "08-wasm-1369",
		Encoding:   "application/x-solidity-abi",
		MinAmounts: map[string]string{"uatom": "1000000"},
		Routes:     map[string][]string{"cosmoshub-4": {"1"}},
	}
}

func Test_BuildStandardTransfer(t *testing.T) {
	c := require.New(t)
	b := NewBuilder(600*time.Second, testEureka())
	before := time.Now()

	msg, err := b.BuildStandardTransfer(TransferIntent{
		SourceChannel:  "channel-141",
		Denom:          "uatom",
		Amount:         "1",
		Sender:         testAddress(t, "cosmos", 1),
		Receiver:       testAddress(t, "osmo", 2),
		ReceiverPrefix: "osmo",
	})
	c.NoError(err)
	c.Equal("channel-141", msg.SourceChannel)
	c.Equal(TransferPort, msg.SourcePort)
	c.Equal(Height{}, msg.TimeoutHeight)

	raw, err := json.Marshal(msg)
	c.NoError(err)
	var decoded map[string]any
	c.NoError(json.Unmarshal(raw, &decoded))

	ts, ok := decoded["timeoutTimestamp"].(string)
	c.True(ok, "timeout timestamp must serialize as a string")
	n, err := strconv.ParseUint(ts, 10, 64)
	c.NoError(err)
	c.Greater(n, uint64(before.UnixNano()))
	c.GreaterOrEqual(n, uint64(before.Add(600*time.Second).UnixNano()))
}

func Test_BuildStandardTransferUsesClock(t *testing.T) {
	c := require.New(t)
	now := time.Unix(1_700_000_000, 0)
	b := &Builder{Clock: func() time.Time { return now }, TimeoutHorizon: time.Hour}

	msg, err := b.BuildStandardTransfer(TransferIntent{
		SourceChannel: "channel-0",
		Denom:         "uosmo",
		Amount:        "5",
		Sender:        testAddress(t, "osmo", 1),
		Receiver:      testAddress(t, "cosmos", 2),
	})
	c.NoError(err)
	c.Equal(uint64(now.Add(time.Hour).UnixNano()), msg.TimeoutTimestamp)

	enc := Encode(msg)
	c.Equal(TypeURLTransfer, enc.TypeURL)
	c.Equal(msg.Marshal(), enc.Value)
}

func Test_BuildStandardTransferValidation(t *testing.T) {
	valid := TransferIntent{
		SourceChannel: "channel-1",
		Denom:         "uatom",
		Amount:        "1",
		Sender:        "cosmos1sender",
		Memo:          "",
	}

	tests := []struct {
		name   string
		mutate func(*TransferIntent, *testing.T)
	}{
		{name: "should reject a non ibc channel", mutate: func(in *TransferIntent, _ *testing.T) { in.SourceChannel = "08-wasm-1369" }},
		{name: "should reject a bare channel prefix", mutate: func(in *TransferIntent, _ *testing.T) { in.SourceChannel = "channel-" }},
		{name: "should reject zero amount", mutate: func(in *TransferIntent, _ *testing.T) { in.Amount = "0" }},
		{name: "should reject fractional amount", mutate: func(in *TransferIntent, _ *testing.T) { in.Amount = "0.5" }},
		{name: "should reject missing denom", mutate: func(in *TransferIntent, _ *testing.T) { in.Denom = "" }},
		{name: "should reject missing receiver", mutate: func(in *TransferIntent, _ *testing.T) { in.Receiver = "" }},
		{name: "should reject wrong receiver prefix", mutate: func(in *TransferIntent, t *testing.T) {
			in.ReceiverPrefix = "osmo"
			in.Receiver = testAddress(t, "cosmos", 3)
		}},
		{name: "should reject oversized memo", mutate: func(in *TransferIntent, _ *testing.T) {
			in.Memo = string(make([]byte, MaxMemoBytes+1))
		}},
	}

	b := NewBuilder(0, EurekaConfig{})
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			in := valid
			in.Receiver = testAddress(t, "osmo", 9)
			test.mutate(&in, t)
			_, err := b.BuildStandardTransfer(in)
			require.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}

func Test_BuildEurekaTransfer(t *testing.T) {
	c := require.New(t)
	now := time.Unix(1_700_000_000, 0)
	b := &Builder{Clock: func() time.Time { return now }, TimeoutHorizon: 12 * time.Hour, Eureka: testEureka()}
	sender := testAddress(t, "cosmos", 4)

	msg, err := b.BuildEurekaTransfer(EurekaIntent{
		SourceChainID:      "cosmoshub-4",
		DestinationChainID: "1",
		Denom:              "uatom",
		Amount:             "1000000",
		Sender:             sender,
		Receiver:           testEthReceiver,
		Memo:               "warm",
	})
	c.NoError(err)
	c.Equal(testEurekaContract, msg.Contract)
	c.Len(msg.Funds, 1)
	c.Equal("uatom", msg.Funds[0].Denom)
	c.Equal("1000000", msg.Funds[0].Amount)

	expected := `{"action":{"timeout_timestamp":1700043200,"action":{"ibc_transfer":{"ibc_info":{` +
		`"source_channel":"08-wasm-1369","receiver":"` + testEthReceiver + `","memo":"warm",` +
		`"recover_address":"` + sender + `","encoding":"application/x-solidity-abi"}}},"exact_out":false}}`
	c.JSONEq(expected, string(msg.Msg))

	enc := Encode(msg)
	c.Equal(TypeURLExecuteContract, enc.TypeURL)
	num, typ, n := protowire.ConsumeTag(enc.Value)
	c.Positive(n)
	c.Equal(protowire.Number(1), num)
	c.Equal(protowire.BytesType, typ)
}

func Test_BuildEurekaTransferValidation(t *testing.T) {
	b := &Builder{TimeoutHorizon: time.Hour, Eureka: testEureka()}
	base := EurekaIntent{
		SourceChainID:      "cosmoshub-4",
		DestinationChainID: "1",
		Denom:              "uatom",
		Amount:             "1000000",
		Sender:             "cosmos1sender",
		Receiver:           testEthReceiver,
	}

	tests := []struct {
		name     string
		mutate   func(*EurekaIntent)
		expected error
	}{
		{name: "should reject a cosmos receiver", mutate: func(in *EurekaIntent) { in.Receiver = "cosmos1abc" }, expected: apperrors.ErrInvalidInput},
		{name: "should reject a short hex receiver", mutate: func(in *EurekaIntent) { in.Receiver = "0x1234" }, expected: apperrors.ErrInvalidInput},
		{name: "should reject amounts under the minimum", mutate: func(in *EurekaIntent) { in.Amount = "999999" }, expected: apperrors.ErrInvalidInput},
		{name: "should reject unsupported sources", mutate: func(in *EurekaIntent) { in.SourceChainID = "juno-1" }, expected: domain.ErrUnsupportedRoute},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			in := base
			test.mutate(&in)
			_, err := b.BuildEurekaTransfer(in)
			require.ErrorIs(t, err, test.expected)
		})
	}
}

func Test_CalculateEurekaFees(t *testing.T) {
	c := require.New(t)

	fees, err := CalculateEurekaFees("1000000", EthereumChainID)
	c.NoError(err)
	c.Equal(EurekaFees{ProtocolFee: "1000", RelayerFee: "10000", TotalFee: "11000"}, fees)

	fees, err = CalculateEurekaFees("1000000", "osmosis-1")
	c.NoError(err)
	c.Equal("1000", fees.RelayerFee)
	c.Equal("2000", fees.TotalFee)

	_, err = CalculateEurekaFees("abc", EthereumChainID)
	c.ErrorIs(err, apperrors.ErrInvalidInput)
}
