package application

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"route-warmer/internal/application/port"
	"route-warmer/internal/domain/codec"
	"route-warmer/internal/domain/entity"
	"route-warmer/internal/domain/message"
	"route-warmer/internal/metrics"
	"route-warmer/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// REST paths served by Cosmos SDK nodes.
const (
	accountPath  = "/cosmos/auth/v1beta1/accounts/"
	simulatePath = "/cosmos/tx/v1beta1/simulate"
	balancesPath = "/cosmos/bank/v1beta1/balances/"
)

var jsonHeaders = map[string]string{"Content-Type": "application/json"}

// AccountOracle reads signer accounts and estimates gas through simulation.
type AccountOracle struct {
	endpoints port.EndpointService
	logger    *zap.Logger
}

// NewAccountOracle creates a new AccountOracle.
func NewAccountOracle(endpoints port.EndpointService, logger *zap.Logger) *AccountOracle {
	return &AccountOracle{
		endpoints: endpoints,
		logger:    logger.Named("AccountOracle"),
	}
}

type baseAccount struct {
	Address       string `json:"address"`
	AccountNumber string `json:"account_number"`
	Sequence      string `json:"sequence"`
}

// rawAccount covers plain, module and vesting accounts; the latter two nest the base account.
type rawAccount struct {
	baseAccount
	BaseAccount        *baseAccount `json:"base_account"`
	BaseVestingAccount *struct {
		BaseAccount *baseAccount `json:"base_account"`
	} `json:"base_vesting_account"`
}

func (a rawAccount) base() baseAccount {
	switch {
	case a.BaseAccount != nil:
		return *a.BaseAccount
	case a.BaseVestingAccount != nil && a.BaseVestingAccount.BaseAccount != nil:
		return *a.BaseVestingAccount.BaseAccount
	default:
		return a.baseAccount
	}
}

type accountResponse struct {
	Account rawAccount `json:"account"`
}

// FetchAccountInfo returns the account's number and sequence. Any failure, including an
// account the chain has never seen, is reported as absent.
func (o *AccountOracle) FetchAccountInfo(ctx context.Context, chainID, address string) (*entity.AccountInfo, bool) {
	var resp accountResponse
	err := o.endpoints.RequestJSON(ctx, chainID, entity.EndpointKindREST, port.RequestOptions{
		Path: accountPath + url.PathEscape(address),
	}, &resp)
	if err != nil {
		o.logger.Debug("Account lookup failed", zap.String("chainId", chainID), zap.String("address", address), zap.Error(err))
		return nil, false
	}

	base := resp.Account.base()
	accountNumber, err := strconv.ParseUint(base.AccountNumber, 10, 64)
	if err != nil {
		o.logger.Debug("Account number is not an integer", zap.String("chainId", chainID), zap.String("value", base.AccountNumber))
		return nil, false
	}
	// Fresh accounts omit the sequence.
	var sequence uint64
	if base.Sequence != "" {
		if sequence, err = strconv.ParseUint(base.Sequence, 10, 64); err != nil {
			o.logger.Debug("Account sequence is not an integer", zap.String("chainId", chainID), zap.String("value", base.Sequence))
			return nil, false
		}
	}

	if base.Address == "" {
		base.Address = address
	}
	return &entity.AccountInfo{Address: base.Address, AccountNumber: accountNumber, Sequence: sequence}, true
}

type simulateRequest struct {
	TxBytes []byte `json:"tx_bytes"`
}

type simulateResponse struct {
	GasInfo struct {
		GasWanted string `json:"gas_wanted"`
		GasUsed   string `json:"gas_used"`
	} `json:"gas_info"`
}

// Simulate estimates the gas the messages consume. ok is false, with no node call issued,
// when the sender has no account on the chain.
func (o *AccountOracle) Simulate(
	ctx context.Context,
	chainID, sender string,
	msgs []message.Encoded,
	feeCoins []entity.Coin,
	memo string,
) (gasUsed uint64, ok bool, err error) {
	account, found := o.FetchAccountInfo(ctx, chainID, sender)
	if !found {
		o.logger.Info("Skipping simulation: sender account not found", zap.String("chainId", chainID), zap.String("sender", sender))
		return 0, false, nil
	}

	anys := make([]codec.Any, 0, len(msgs))
	for _, m := range msgs {
		anys = append(anys, m.Any())
	}
	body := codec.EncodeTxBody(anys, memo)
	authInfo := codec.EncodeAuthInfo(codec.SignerInfo{Sequence: account.Sequence}, entity.Fee{Amount: feeCoins})
	txBytes := codec.EncodeTxRaw(body, authInfo, codec.DummySignature())

	payload, err := json.Marshal(simulateRequest{TxBytes: txBytes})
	if err != nil {
		return 0, false, fmt.Errorf("%w: encoding simulate request: %v", apperrors.ErrInternal, err)
	}

	var resp simulateResponse
	if err := o.endpoints.RequestJSON(ctx, chainID, entity.EndpointKindREST, port.RequestOptions{
		Method:  http.MethodPost,
		Path:    simulatePath,
		Body:    payload,
		Headers: jsonHeaders,
	}, &resp); err != nil {
		return 0, false, err
	}

	gasUsed, err = strconv.ParseUint(resp.GasInfo.GasUsed, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%w: invalid integer gas %q", apperrors.ErrMalformedResponse, resp.GasInfo.GasUsed)
	}

	metrics.ObserveSimulatedGas(chainID, gasUsed)
	o.logger.Debug("Simulation finished",
		zap.String("chainId", chainID), zap.Uint64("gasUsed", gasUsed), zap.Uint64("sequence", account.Sequence),
	)
	return gasUsed, true, nil
}

type balancesResponse struct {
	Balances []entity.Coin `json:"balances"`
}

// FetchBalances lists the address's bank balances.
func (o *AccountOracle) FetchBalances(ctx context.Context, chainID, address string) ([]entity.Coin, error) {
	var resp balancesResponse
	err := o.endpoints.RequestJSON(ctx, chainID, entity.EndpointKindREST, port.RequestOptions{
		Path: balancesPath + url.PathEscape(address) + "?pagination.limit=1000",
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Balances == nil {
		return []entity.Coin{}, nil
	}
	return resp.Balances, nil
}

// ApplyGasMultiplier returns floor(gasUsed × multiplier).
func ApplyGasMultiplier(gasUsed uint64, multiplier float64) uint64 {
	if multiplier <= 0 {
		return gasUsed
	}
	limit := decimal.RequireFromString(strconv.FormatUint(gasUsed, 10)).Mul(decimal.NewFromFloat(multiplier)).Floor()
	return limit.BigInt().Uint64()
}
