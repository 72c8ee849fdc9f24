package application

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"route-warmer/internal/application/port"
	"route-warmer/internal/domain"
	"route-warmer/internal/domain/codec"
	"route-warmer/internal/domain/entity"
	"route-warmer/internal/domain/message"
	domainService "route-warmer/internal/domain/service"
	"route-warmer/internal/metrics"

	"go.uber.org/zap"
)

type broadcastState string

const (
	stateBuilt             broadcastState = "built"
	stateAccountFetched    broadcastState = "account_fetched"
	stateEnvelopeAssembled broadcastState = "envelope_assembled"
	stateSigned            broadcastState = "signed"
	stateBroadcast         broadcastState = "broadcast"
	stateConfirmed         broadcastState = "confirmed"
	stateFailed            broadcastState = "failed"
)

// accountFetcher is the part of the oracle the broadcaster depends on.
type accountFetcher interface {
	FetchAccountInfo(ctx context.Context, chainID, address string) (*entity.AccountInfo, bool)
}

// BroadcastRequest is a set of built messages ready for signing.
type BroadcastRequest struct {
	ChainID   string
	Sender    string
	Messages  []message.Encoded
	Fee       entity.Fee
	Memo      string
	RouteType entity.TxRouteType
	// OnConfirmed runs on the tracking goroutine once the outcome is known.
	OnConfirmed func(ConfirmationOutcome)
}

// BroadcastResult is returned once the node accepted the transaction.
type BroadcastResult struct {
	TxHash       string
	Account      entity.AccountInfo
	Confirmation *Confirmation
}

// Broadcaster signs transactions through the wallet, submits them and tracks their inclusion.
type Broadcaster struct {
	accounts        accountFetcher
	wallet          domainService.Wallet
	tracker         domainService.TxTracker
	endpoints       port.EndpointService
	trackingTimeout time.Duration
	logger          *zap.Logger
}

// NewBroadcaster creates a new Broadcaster.
func NewBroadcaster(
	accounts accountFetcher,
	wallet domainService.Wallet,
	tracker domainService.TxTracker,
	endpoints port.EndpointService,
	trackingTimeout time.Duration,
	logger *zap.Logger,
) *Broadcaster {
	return &Broadcaster{
		accounts:        accounts,
		wallet:          wallet,
		tracker:         tracker,
		endpoints:       endpoints,
		trackingTimeout: trackingTimeout,
		logger:          logger.Named("Broadcaster"),
	}
}

func (b *Broadcaster) transition(req BroadcastRequest, state broadcastState, fields ...zap.Field) {
	b.logger.Debug("Broadcast state changed",
		append([]zap.Field{zap.String("chainId", req.ChainID), zap.String("state", string(state))}, fields...)...,
	)
}

// SignAndBroadcast fetches the signer's account, assembles and signs the envelope, and submits
// it in sync mode. Errors returned by the wallet are passed through unchanged. Everything before
// submission is side-effect free; once the node accepts the transaction it is reported as sent
// whatever tracking later observes.
func (b *Broadcaster) SignAndBroadcast(ctx context.Context, req BroadcastRequest) (*BroadcastResult, error) {
	b.transition(req, stateBuilt, zap.Int("messages", len(req.Messages)))

	account, ok := b.accounts.FetchAccountInfo(ctx, req.ChainID, req.Sender)
	if !ok {
		b.transition(req, stateFailed)
		return nil, fmt.Errorf("%w: %s on %s", domain.ErrAccountNotFound, req.Sender, req.ChainID)
	}
	b.transition(req, stateAccountFetched, zap.Uint64("accountNumber", account.AccountNumber), zap.Uint64("sequence", account.Sequence))

	key, err := b.wallet.GetKey(ctx, req.ChainID)
	if err != nil {
		b.transition(req, stateFailed)
		return nil, err
	}

	anys := make([]codec.Any, 0, len(req.Messages))
	for _, m := range req.Messages {
		anys = append(anys, m.Any())
	}
	doc := codec.SignDoc{
		BodyBytes: codec.EncodeTxBody(anys, req.Memo),
		AuthInfoBytes: codec.EncodeAuthInfo(codec.SignerInfo{
			PubKey:   key.PubKey,
			Sequence: account.Sequence,
		}, req.Fee),
		ChainID:       req.ChainID,
		AccountNumber: account.AccountNumber,
	}
	b.transition(req, stateEnvelopeAssembled, zap.Uint64("gasLimit", req.Fee.GasLimit))

	signed, err := b.wallet.SignDirect(ctx, req.ChainID, req.Sender, doc)
	if err != nil {
		b.transition(req, stateFailed)
		return nil, err
	}
	b.transition(req, stateSigned)

	txBytes := codec.EncodeTxRaw(signed.Signed.BodyBytes, signed.Signed.AuthInfoBytes, signed.Signature)
	rawHash, err := b.wallet.SendTx(ctx, req.ChainID, txBytes, domainService.BroadcastModeSync)
	if err != nil {
		metrics.ObserveBroadcast(req.ChainID, string(req.RouteType), metrics.BroadcastFailed)
		b.transition(req, stateFailed)
		b.logger.Error("Broadcast failed", zap.String("chainId", req.ChainID), zap.Error(err))
		return nil, err
	}
	txHash := strings.ToLower(hex.EncodeToString(rawHash))
	metrics.ObserveBroadcast(req.ChainID, string(req.RouteType), metrics.BroadcastSent)
	b.transition(req, stateBroadcast, zap.String("txHash", txHash))
	b.logger.Info("Transaction broadcast",
		zap.String("chainId", req.ChainID), zap.String("txHash", txHash), zap.String("routeType", string(req.RouteType)),
	)

	return &BroadcastResult{
		TxHash:       txHash,
		Account:      *account,
		Confirmation: b.track(ctx, req, txHash),
	}, nil
}

// track starts confirmation tracking on its own goroutine. It is detached from ctx so that a
// finished HTTP request does not stop it; only the tracking timeout and Cancel do.
func (b *Broadcaster) track(ctx context.Context, req BroadcastRequest, txHash string) *Confirmation {
	base := context.WithoutCancel(ctx)
	var (
		trackCtx context.Context
		cancel   context.CancelFunc
	)
	if b.trackingTimeout > 0 {
		trackCtx, cancel = context.WithTimeout(base, b.trackingTimeout)
	} else {
		trackCtx, cancel = context.WithCancel(base)
	}
	conf := newConfirmation(txHash, cancel)

	go func() {
		defer cancel()
		outcome := ConfirmationOutcome{TxHash: txHash}

		rpcURL, err := b.endpoints.GetHealthyEndpoint(trackCtx, req.ChainID, entity.EndpointKindRPC)
		if err == nil {
			outcome.Result, err = b.tracker.Track(trackCtx, rpcURL, txHash)
			if err != nil && trackCtx.Err() == nil {
				b.endpoints.MarkUnhealthy(req.ChainID, entity.EndpointKindRPC, rpcURL, err)
			}
		}
		outcome.Err = err

		switch outcome.Status() {
		case entity.TxSuccess:
			metrics.ObserveBroadcast(req.ChainID, string(req.RouteType), metrics.TxConfirmed)
			b.transition(req, stateConfirmed, zap.String("txHash", txHash), zap.Int64("height", outcome.Result.Height))
		case entity.TxFailed:
			metrics.ObserveBroadcast(req.ChainID, string(req.RouteType), metrics.TxReverted)
			b.transition(req, stateFailed, zap.String("txHash", txHash), zap.Uint32("code", outcome.Result.Code))
		default:
			metrics.ObserveBroadcast(req.ChainID, string(req.RouteType), metrics.TxUntracked)
			b.logger.Warn("Confirmation not observed; the broadcast transaction is unaffected",
				zap.String("chainId", req.ChainID), zap.String("txHash", txHash), zap.Error(err),
			)
		}

		if req.OnConfirmed != nil {
			req.OnConfirmed(outcome)
		}
		conf.resolve(outcome)
	}()

	return conf
}
