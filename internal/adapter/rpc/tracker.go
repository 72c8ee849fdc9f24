package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"route-warmer/internal/domain/entity"
	domainService "route-warmer/internal/domain/service"
	"route-warmer/internal/pkg/apperrors"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Compile-time check
var _ domainService.TxTracker = (*Tracker)(nil)

const websocketPath = "/websocket"

// Tracker implements domainService.TxTracker with a CometBFT websocket subscription.
type Tracker struct {
	client           domainService.NodeClient
	handshakeTimeout time.Duration
	logger           *zap.Logger
}

// NewTracker creates a tracker. client is used for the one-off lookup that covers
// transactions included before the subscription was registered.
func NewTracker(client domainService.NodeClient, handshakeTimeout time.Duration, logger *zap.Logger) *Tracker {
	if handshakeTimeout <= 0 {
		handshakeTimeout = 10 * time.Second
	}
	return &Tracker{
		client:           client,
		handshakeTimeout: handshakeTimeout,
		logger:           logger.Named("TxTracker"),
	}
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

type abciResult struct {
	Code    uint32 `json:"code"`
	Log     string `json:"log"`
	GasUsed string `json:"gas_used"`
}

type subscriptionMessage struct {
	ID     json.RawMessage `json:"id"`
	Error  *rpcError       `json:"error,omitempty"`
	Result struct {
		Data struct {
			Value struct {
				TxResult struct {
					Height string     `json:"height"`
					Result abciResult `json:"result"`
				} `json:"TxResult"`
			} `json:"value"`
		} `json:"data"`
	} `json:"result"`
}

type txQueryResponse struct {
	Error  *rpcError `json:"error,omitempty"`
	Result *struct {
		Hash     string     `json:"hash"`
		Height   string     `json:"height"`
		TxResult abciResult `json:"tx_result"`
	} `json:"result"`
}

// Track subscribes to Tx events for txHash and blocks until the transaction is included,
// the subscription fails, or ctx is done.
func (t *Tracker) Track(ctx context.Context, rpcURL entity.EndpointURL, txHash string) (*domainService.TxResult, error) {
	hash := strings.ToUpper(strings.TrimPrefix(txHash, "0x"))
	wsURL := rpcURL.WebsocketURL(websocketPath)

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: t.handshakeTimeout,
	}

	t.logger.Debug("Subscribing to tx confirmation", zap.String("url", wsURL), zap.String("hash", hash))
	conn, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, contextError(ctxErr, wsURL)
		}
		return nil, fmt.Errorf("%w: websocket dial to %s failed: %v", apperrors.ErrExternalServiceFailure, wsURL, err)
	}

	var closeOnce sync.Once
	closeConn := func() { closeOnce.Do(func() { _ = conn.Close() }) }
	defer closeConn()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			closeConn()
		case <-stop:
		}
	}()

	subscribe := map[string]any{
		"jsonrpc": "2.0",
		"method":  "subscribe",
		"id":      1,
		"params":  map[string]string{"query": fmt.Sprintf("tm.event='Tx' AND tx.hash='%s'", hash)},
	}
	if err := conn.WriteJSON(subscribe); err != nil {
		return nil, t.readError(ctx, wsURL, "write subscribe", err)
	}

	acked := false
	for {
		var msg subscriptionMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return nil, t.readError(ctx, wsURL, "read", err)
		}
		if msg.Error != nil {
			return nil, fmt.Errorf("%w: subscription rejected by %s: %d %s",
				apperrors.ErrUpstreamRejected, wsURL, msg.Error.Code, msg.Error.Message,
			)
		}

		txResult := msg.Result.Data.Value.TxResult
		if txResult.Height != "" {
			t.logger.Debug("Tx confirmation received", zap.String("hash", hash), zap.String("height", txResult.Height))
			return buildResult(hash, txResult.Height, txResult.Result), nil
		}

		if !acked {
			acked = true
			if res, ok := t.lookup(ctx, rpcURL, hash); ok {
				return res, nil
			}
		}
	}
}

// lookup queries /tx once for a transaction that may already be in a block.
func (t *Tracker) lookup(ctx context.Context, rpcURL entity.EndpointURL, hash string) (*domainService.TxResult, bool) {
	if t.client == nil {
		return nil, false
	}
	resp, err := t.client.Do(ctx, domainService.NodeRequest{URL: rpcURL.Join("/tx?hash=0x" + hash)})
	if err != nil || resp.StatusCode != http.StatusOK {
		return nil, false
	}
	var out txQueryResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil || out.Error != nil || out.Result == nil || out.Result.Height == "" {
		return nil, false
	}
	t.logger.Debug("Tx already included before subscription", zap.String("hash", hash))
	return buildResult(hash, out.Result.Height, out.Result.TxResult), true
}

func (t *Tracker) readError(ctx context.Context, url, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return contextError(ctxErr, url)
	}
	if errors.Is(err, websocket.ErrCloseSent) || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		return fmt.Errorf("%w: websocket %s closed during %s", apperrors.ErrExternalServiceFailure, url, op)
	}
	return fmt.Errorf("%w: websocket %s %s failed: %v", apperrors.ErrExternalServiceFailure, url, op, err)
}

func buildResult(hash, height string, res abciResult) *domainService.TxResult {
	h, _ := strconv.ParseInt(height, 10, 64)
	gas, _ := strconv.ParseInt(res.GasUsed, 10, 64)
	return &domainService.TxResult{
		Hash:    hash,
		Height:  h,
		Code:    res.Code,
		Log:     res.Log,
		GasUsed: gas,
	}
}
