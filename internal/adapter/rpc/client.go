package rpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainService "route-warmer/internal/domain/service"
	"route-warmer/internal/pkg/apperrors"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// Compile-time check
var _ domainService.NodeClient = (*Client)(nil)

// Client implements domainService.NodeClient over fasthttp.
type Client struct {
	client         *fasthttp.Client
	defaultTimeout time.Duration
	logger         *zap.Logger
}

// NewClient creates a node HTTP client. defaultTimeout applies when a request carries none.
func NewClient(defaultTimeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		client: &fasthttp.Client{
			ReadTimeout:              defaultTimeout,
			NoDefaultUserAgentHeader: true,
		},
		defaultTimeout: defaultTimeout,
		logger:         logger.Named("NodeClient"),
	}
}

// Do issues the request, bounded by the shorter of the request timeout and the ctx deadline.
func (c *Client) Do(ctx context.Context, in domainService.NodeRequest) (*domainService.NodeResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, contextError(err, in.URL)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	method := in.Method
	if method == "" {
		method = fasthttp.MethodGet
	}
	req.SetRequestURI(in.URL)
	req.Header.SetMethod(method)
	req.Header.Set("Accept", "application/json")
	if len(in.Body) > 0 {
		req.Header.SetContentType("application/json")
		req.SetBody(in.Body)
	}
	for k, v := range in.Headers {
		req.Header.Set(k, v)
	}

	timeout := effectiveTimeout(ctx, in.Timeout, c.defaultTimeout)

	var requestErr error
	if timeout <= 0 {
		c.logger.Warn("No effective timeout specified for fasthttp request, using default Do",
			zap.String("url", in.URL),
		)
		requestErr = c.client.Do(req, resp)
	} else {
		requestErr = c.client.DoTimeout(req, resp, timeout)
	}

	if requestErr != nil {
		if errors.Is(requestErr, fasthttp.ErrTimeout) {
			c.logger.Debug("HTTP request timed out",
				zap.String("url", in.URL), zap.Duration("timeout", timeout), zap.Error(requestErr),
			)
			return nil, fmt.Errorf("%w: http request to %s timed out after %v: %v",
				apperrors.ErrTimeout, in.URL, timeout, requestErr,
			)
		}
		c.logger.Debug("HTTP request failed", zap.String("url", in.URL), zap.Error(requestErr))
		return nil, fmt.Errorf("%w: http request to %s failed: %v",
			apperrors.ErrExternalServiceFailure, in.URL, requestErr,
		)
	}

	body := append([]byte(nil), resp.Body()...)
	return &domainService.NodeResponse{StatusCode: resp.StatusCode(), Body: body}, nil
}

func effectiveTimeout(ctx context.Context, requested, fallback time.Duration) time.Duration {
	timeout := requested
	if timeout <= 0 {
		timeout = fallback
	}
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining > 0 && (timeout <= 0 || remaining < timeout) {
			timeout = remaining
		}
	}
	return timeout
}

func contextError(err error, url string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: request to %s: %v", apperrors.ErrTimeout, url, err)
	}
	return fmt.Errorf("%w: request to %s: %v", apperrors.ErrExternalServiceFailure, url, err)
}
