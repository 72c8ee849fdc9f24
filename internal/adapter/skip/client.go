package skip

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	dto "route-warmer/internal/adapter/skip/dto"
	"route-warmer/internal/config"
	"route-warmer/internal/pkg/apperrors"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const defaultTimeout = 15 * time.Second

// Client talks to the Skip API. Calls are not retried.
type Client struct {
	client   *fasthttp.Client
	baseURL  string
	timeout  time.Duration
	clientID string
	logger   *zap.Logger
}

// NewClient creates a Skip API client.
func NewClient(cfg config.SkipConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		client:   &fasthttp.Client{},
		baseURL:  cfg.BaseURL,
		timeout:  timeout,
		clientID: cfg.ClientID,
		logger:   logger.Named("SkipClient"),
	}
}

// do issues a JSON request and decodes a 200 answer into out.
func (c *Client) do(ctx context.Context, method, path string, payload any, out any) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	url := c.baseURL + path
	req.SetRequestURI(url)
	req.Header.SetMethod(method)
	req.Header.Set(fasthttp.HeaderAcceptEncoding, "gzip")
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("%w: encoding skip request: %v", apperrors.ErrInternal, err)
		}
		req.Header.SetContentType("application/json")
		req.SetBody(body)
	}

	timeout := c.timeout
	if deadline, hasDeadline := ctx.Deadline(); hasDeadline {
		requestTimeout := time.Until(deadline)
		if requestTimeout <= 0 {
			return fmt.Errorf("%w: skip request to %s: %v", apperrors.ErrTimeout, path, ctx.Err())
		}
		if requestTimeout < timeout {
			timeout = requestTimeout
		}
	}

	c.logger.Debug("Calling Skip API", zap.String("method", method), zap.String("url", url), zap.Duration("timeout", timeout))

	if err := c.client.DoTimeout(req, resp, timeout); err != nil {
		c.logger.Error("Failed to execute request to Skip API", zap.String("url", url), zap.Error(err))
		if errors.Is(err, fasthttp.ErrTimeout) {
			return fmt.Errorf("%w: skip request to %s timed out: %v", apperrors.ErrTimeout, path, err)
		}
		return fmt.Errorf("%w: failed to execute request to Skip API: %v", apperrors.ErrExternalServiceFailure, err)
	}

	body := resp.Body()
	if bytes.EqualFold(resp.Header.Peek(fasthttp.HeaderContentEncoding), []byte("gzip")) {
		unzipped, err := resp.BodyGunzip()
		if err != nil {
			c.logger.Error("Failed to gunzip Skip API response body", zap.Error(err))
			return fmt.Errorf("%w: failed to decompress skip response: %v", apperrors.ErrExternalServiceFailure, err)
		}
		body = unzipped
	}

	switch status := resp.StatusCode(); {
	case status == fasthttp.StatusNotFound:
		c.logger.Warn("Skip API reported not found", zap.String("url", url), zap.ByteString("body", sample(body)))
		return fmt.Errorf("%w: skip api reported not found (%s)", apperrors.ErrNotFound, path)
	case status == fasthttp.StatusBadRequest:
		return fmt.Errorf("%w: skip api rejected %s: %s", apperrors.ErrUpstreamRejected, path, errorMessage(body))
	case status != fasthttp.StatusOK:
		c.logger.Error("Skip API returned non-OK status", zap.Int("statusCode", status), zap.ByteString("body", sample(body)))
		return fmt.Errorf("%w: skip api returned status %d", apperrors.ErrExternalServiceFailure, status)
	}

	if err := json.Unmarshal(body, out); err != nil {
		c.logger.Error("Failed to unmarshal Skip API response", zap.Error(err), zap.ByteString("bodySample", sample(body)))
		return fmt.Errorf("%w: failed to parse skip response: %v", apperrors.ErrMalformedResponse, err)
	}
	return nil
}

func errorMessage(body []byte) string {
	var e dto.ErrorRaw
	if err := json.Unmarshal(body, &e); err == nil && e.Message != "" {
		return e.Message
	}
	return string(sample(body))
}

func sample(body []byte) []byte {
	return body[:min(1024, len(body))]
}
