package application

import (
	"context"
	"fmt"
	"time"

	"route-warmer/internal/application/port"
	"route-warmer/internal/config"
	"route-warmer/internal/domain"
	"route-warmer/internal/domain/entity"
	"route-warmer/internal/domain/message"
	domainRepo "route-warmer/internal/domain/repository"
	domainService "route-warmer/internal/domain/service"
	"route-warmer/internal/metrics"
	"route-warmer/internal/pkg/amount"
	"route-warmer/internal/pkg/apperrors"

	"go.uber.org/zap"
)

// Compile-time check
var _ port.TransferService = (*TransferService)(nil)

const cosmosHubChainID = "cosmoshub-4"

type accountOracle interface {
	accountFetcher
	Simulate(ctx context.Context, chainID, sender string, msgs []message.Encoded, feeCoins []entity.Coin, memo string) (uint64, bool, error)
	FetchBalances(ctx context.Context, chainID, address string) ([]entity.Coin, error)
}

type signer interface {
	SignAndBroadcast(ctx context.Context, req BroadcastRequest) (*BroadcastResult, error)
}

type keySource interface {
	GetKey(ctx context.Context, chainID string) (entity.Key, error)
}

// TransferDeps are the collaborators of a TransferService.
type TransferDeps struct {
	Chains      port.ChainService
	Tokens      port.TokenMetadataService
	Builder     *message.Builder
	Oracle      accountOracle
	Broadcaster signer
	Recommender domainService.RouteRecommender
	Keys        keySource
	History     domainRepo.TxHistoryRepository
	Prefs       domainRepo.PreferenceStore
}

// TransferService runs route warm-ups end to end.
type TransferService struct {
	deps   TransferDeps
	cfg    config.TransferConfig
	now    func() time.Time
	logger *zap.Logger
}

// NewTransferService creates a new TransferService.
func NewTransferService(deps TransferDeps, cfg config.TransferConfig, logger *zap.Logger) *TransferService {
	return &TransferService{
		deps:   deps,
		cfg:    cfg,
		now:    time.Now,
		logger: logger.Named("TransferService"),
	}
}

// prepared is a validated, encoded transfer ready for simulation.
type prepared struct {
	route       entity.TxRouteType
	chain       entity.ChainInfo
	destChainID string
	sender      string
	channel     string
	token       entity.TokenMetadata
	baseAmount  string
	msg         message.Encoded
	eurekaFees  *message.EurekaFees
}

func (s *TransferService) prepare(ctx context.Context, req port.TransferRequest) (*prepared, error) {
	route := req.RouteType
	if route == "" {
		route = entity.TxRouteIBC
	}
	if req.Denom == "" {
		return nil, fmt.Errorf("%w: denom is required", apperrors.ErrInvalidInput)
	}

	p := &prepared{route: route}
	sourceID := req.SourceChainID
	p.destChainID = req.DestinationChainID
	switch route {
	case entity.TxRouteIBC:
		if sourceID == "" {
			return nil, fmt.Errorf("%w: source chain is required", apperrors.ErrInvalidInput)
		}
	case entity.TxRouteEureka:
		if sourceID == "" {
			sourceID = s.cfg.Eureka.SourceChainID
		}
		if p.destChainID == "" {
			p.destChainID = s.cfg.Eureka.DestinationChainID
		}
	default:
		return nil, fmt.Errorf("%w: unknown route type %q", apperrors.ErrInvalidInput, route)
	}

	chain, err := s.deps.Chains.GetChain(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	p.chain = chain

	key, err := s.deps.Keys.GetKey(ctx, chain.ChainID)
	if err != nil {
		return nil, err
	}
	p.sender = key.Bech32Address

	p.token = s.deps.Tokens.Resolve(ctx, chain, req.Denom)
	p.baseAmount = req.Amount
	if req.PrettyAmount {
		if p.baseAmount, err = amount.ToBaseUnits(req.Amount, p.token.Decimals); err != nil {
			return nil, err
		}
	}

	switch route {
	case entity.TxRouteEureka:
		err = s.prepareEureka(p, req)
	default:
		err = s.prepareIBC(ctx, p, req)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *TransferService) prepareIBC(ctx context.Context, p *prepared, req port.TransferRequest) error {
	if p.destChainID == "" && req.Receiver != "" {
		if id, err := s.deps.Chains.ChainIDForAddress(ctx, req.Receiver); err == nil {
			p.destChainID = id
		}
	}

	p.channel = req.Channel
	if p.channel == "" {
		if p.destChainID == "" {
			return fmt.Errorf("%w: a channel or a destination chain is required", apperrors.ErrInvalidInput)
		}
		channel, err := s.deps.Recommender.RecommendChannel(ctx, req.Denom, p.chain.ChainID, p.destChainID)
		if err != nil {
			return fmt.Errorf("recommending channel for %s to %s: %w", req.Denom, p.destChainID, err)
		}
		p.channel = channel
	}

	var receiverPrefix string
	if p.destChainID != "" {
		if dest, err := s.deps.Chains.GetChain(ctx, p.destChainID); err == nil {
			receiverPrefix = dest.Bech32Prefix
		}
	}

	msg, err := s.deps.Builder.BuildStandardTransfer(message.TransferIntent{
		SourceChannel:  p.channel,
		Denom:          req.Denom,
		Amount:         p.baseAmount,
		Sender:         p.sender,
		Receiver:       req.Receiver,
		ReceiverPrefix: receiverPrefix,
		Memo:           req.Memo,
	})
	if err != nil {
		return err
	}
	p.msg = message.Encode(msg)
	return nil
}

func (s *TransferService) prepareEureka(p *prepared, req port.TransferRequest) error {
	msg, err := s.deps.Builder.BuildEurekaTransfer(message.EurekaIntent{
		SourceChainID:      p.chain.ChainID,
		DestinationChainID: p.destChainID,
		Denom:              req.Denom,
		Amount:             p.baseAmount,
		Sender:             p.sender,
		Receiver:           req.Receiver,
		Memo:               req.Memo,
	})
	if err != nil {
		return err
	}
	fees, err := message.CalculateEurekaFees(p.baseAmount, p.destChainID)
	if err != nil {
		return err
	}
	p.msg = message.Encode(msg)
	p.channel = s.deps.Builder.Eureka.Channel
	p.eurekaFees = &fees
	return nil
}

func (s *TransferService) gasMultiplier(chain entity.ChainInfo) float64 {
	if chain.GasMultiplier > 0 {
		return chain.GasMultiplier
	}
	return s.cfg.GasMultiplier
}

func (s *TransferService) simulate(ctx context.Context, p *prepared) (*port.SimulationResult, error) {
	feeDenom := p.chain.FeeDenom(p.token.Denom)
	gasUsed, ok, err := s.deps.Oracle.Simulate(ctx, p.chain.ChainID, p.sender,
		[]message.Encoded{p.msg},
		[]entity.Coin{{Denom: feeDenom, Amount: s.cfg.SimulateFeeAmount}},
		"",
	)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s has no account on %s", domain.ErrAccountNotFound, p.sender, p.chain.ChainID)
	}
	if gasUsed == 0 {
		return nil, fmt.Errorf("%w: simulation on %s reported zero gas", apperrors.ErrMalformedResponse, p.chain.ChainID)
	}
	metrics.ObserveSimulatedGas(p.chain.ChainID, gasUsed)

	return &port.SimulationResult{
		ChainID:    p.chain.ChainID,
		Sender:     p.sender,
		Channel:    p.channel,
		Message:    p.msg,
		BaseAmount: p.baseAmount,
		Token:      p.token,
		GasUsed:    gasUsed,
		GasLimit:   ApplyGasMultiplier(gasUsed, s.gasMultiplier(p.chain)),
		FeeDenom:   feeDenom,
		EurekaFees: p.eurekaFees,
	}, nil
}

// Simulate builds the transfer and estimates its gas without signing anything.
func (s *TransferService) Simulate(ctx context.Context, req port.TransferRequest) (*port.SimulationResult, error) {
	p, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.simulate(ctx, p)
}

// Warm simulates, signs and broadcasts the transfer and records it in history as pending.
// With req.Wait it returns once tracking finished or ctx is done.
func (s *TransferService) Warm(ctx context.Context, req port.TransferRequest) (*entity.TxRecord, error) {
	accepted, err := s.deps.Prefs.DisclaimerAccepted(ctx)
	if err != nil {
		return nil, err
	}
	if !accepted {
		return nil, domain.ErrDisclaimerNotAccepted
	}

	p, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	sim, err := s.simulate(ctx, p)
	if err != nil {
		return nil, err
	}

	recorded := make(chan struct{})
	res, err := s.deps.Broadcaster.SignAndBroadcast(ctx, BroadcastRequest{
		ChainID:  p.chain.ChainID,
		Sender:   p.sender,
		Messages: []message.Encoded{p.msg},
		Fee: entity.Fee{
			Amount:   []entity.Coin{{Denom: p.token.Denom, Amount: s.cfg.FeeAmount}},
			GasLimit: sim.GasLimit,
		},
		RouteType: p.route,
		OnConfirmed: func(outcome ConfirmationOutcome) {
			<-recorded
			s.applyOutcome(outcome)
		},
	})
	if err != nil {
		return nil, err
	}

	rec := s.newRecord(p, res.TxHash, sim.GasLimit)
	s.deps.History.Add(rec)
	close(recorded)
	s.logger.Info("Route warm-up broadcast",
		zap.String("txHash", rec.Hash), zap.String("route", string(rec.RouteType)),
		zap.String("source", rec.SourceChain), zap.String("destination", rec.DestinationChain),
	)

	if req.Wait {
		if _, err := res.Confirmation.Wait(ctx); err != nil {
			s.logger.Info("Stopped waiting for confirmation", zap.String("txHash", rec.Hash), zap.Error(err))
		}
		if latest, ok := s.deps.History.Get(rec.Hash); ok {
			return &latest, nil
		}
	}
	return &rec, nil
}

func (s *TransferService) newRecord(p *prepared, txHash string, gasLimit uint64) entity.TxRecord {
	rec := entity.TxRecord{
		Hash:             txHash,
		SubmittedAt:      s.now().UTC(),
		Amount:           amount.FormatDisplay(p.baseAmount, p.token.Decimals),
		Denom:            p.token.Denom,
		SourceChain:      p.chain.ChainID,
		DestinationChain: p.destChainID,
		Status:           entity.TxPending,
		RouteType:        p.route,
		GasLimit:         gasLimit,
	}
	if p.route == entity.TxRouteEureka {
		description := "Transaction broadcast to " + p.chain.ChainName
		if p.chain.ChainID == cosmosHubChainID {
			description = "Transaction broadcast to Cosmos Hub"
		}
		rec.Steps = []entity.TxStep{{Chain: p.chain.ChainID, Description: description, Status: entity.TxPending}}
	}
	return rec
}

func (s *TransferService) applyOutcome(outcome ConfirmationOutcome) {
	status := outcome.Status()
	s.deps.History.Update(outcome.TxHash, func(rec *entity.TxRecord) {
		if outcome.Result != nil {
			code := outcome.Result.Code
			rec.Code = &code
			rec.Log = outcome.Result.Log
			if outcome.Result.GasUsed > 0 {
				rec.GasUsed = uint64(outcome.Result.GasUsed)
			}
		}
		if status != entity.TxPending {
			rec.Resolve(status)
		}
	})
}

// History returns recent transfers, newest first.
func (s *TransferService) History() []entity.TxRecord {
	return s.deps.History.List()
}

// RecommendChannel asks the route service for a channel.
func (s *TransferService) RecommendChannel(ctx context.Context, denom, sourceChainID, destChainID string) (string, error) {
	if denom == "" || sourceChainID == "" || destChainID == "" {
		return "", fmt.Errorf("%w: denom, source and destination chains are required", apperrors.ErrInvalidInput)
	}
	return s.deps.Recommender.RecommendChannel(ctx, denom, sourceChainID, destChainID)
}

// Account returns the account snapshot and balances of addr, or of the wallet when addr is empty.
func (s *TransferService) Account(ctx context.Context, chainID, addr string) (*port.AccountView, error) {
	if addr == "" {
		key, err := s.deps.Keys.GetKey(ctx, chainID)
		if err != nil {
			return nil, err
		}
		addr = key.Bech32Address
	}

	view := &port.AccountView{}
	view.Account, view.Exists = s.deps.Oracle.FetchAccountInfo(ctx, chainID, addr)
	balances, err := s.deps.Oracle.FetchBalances(ctx, chainID, addr)
	if err != nil {
		return nil, err
	}
	view.Balances = balances
	return view, nil
}

// EurekaFees computes the fee breakdown of a Eureka transfer.
func (s *TransferService) EurekaFees(amt, destChainID string) (message.EurekaFees, error) {
	if destChainID == "" {
		destChainID = s.cfg.Eureka.DestinationChainID
	}
	return message.CalculateEurekaFees(amt, destChainID)
}
