package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"route-warmer/internal/config"
	"route-warmer/internal/domain/entity"
	domainService "route-warmer/internal/domain/service"
	"route-warmer/internal/pkg/address"
	"route-warmer/internal/pkg/apperrors"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeProber struct {
	mu      sync.Mutex
	healthy map[entity.EndpointURL]bool
	calls   map[entity.EndpointURL]int
}

func newFakeProber(healthy map[entity.EndpointURL]bool) *fakeProber {
	return &fakeProber{healthy: healthy, calls: make(map[entity.EndpointURL]int)}
}

func (p *fakeProber) Probe(_ context.Context, _ string, _ entity.EndpointKind, url entity.EndpointURL) (time.Duration, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls[url]++
	if p.healthy[url] {
		return 15 * time.Millisecond, nil
	}
	return 0, fmt.Errorf("%w: %s unreachable", apperrors.ErrExternalServiceFailure, url)
}

func (p *fakeProber) set(url entity.EndpointURL, healthy bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.healthy[url] = healthy
}

func (p *fakeProber) count(url entity.EndpointURL) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[url]
}

func (p *fakeProber) total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, c := range p.calls {
		n += c
	}
	return n
}

// fakeNodeClient answers by URL prefix. Unknown URLs fail like a dead socket.
type fakeNodeClient struct {
	mu       sync.Mutex
	handlers map[entity.EndpointURL]func(domainService.NodeRequest) (*domainService.NodeResponse, error)
	requests []domainService.NodeRequest
}

func newFakeNodeClient() *fakeNodeClient {
	return &fakeNodeClient{handlers: make(map[entity.EndpointURL]func(domainService.NodeRequest) (*domainService.NodeResponse, error))}
}

func (c *fakeNodeClient) on(base entity.EndpointURL, fn func(domainService.NodeRequest) (*domainService.NodeResponse, error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[base] = fn
}

func (c *fakeNodeClient) respond(base entity.EndpointURL, status int, body string) {
	c.on(base, func(domainService.NodeRequest) (*domainService.NodeResponse, error) {
		return &domainService.NodeResponse{StatusCode: status, Body: []byte(body)}, nil
	})
}

func (c *fakeNodeClient) Do(_ context.Context, req domainService.NodeRequest) (*domainService.NodeResponse, error) {
	c.mu.Lock()
	c.requests = append(c.requests, req)
	var handler func(domainService.NodeRequest) (*domainService.NodeResponse, error)
	for base, fn := range c.handlers {
		if len(req.URL) >= len(base) && req.URL[:len(base)] == string(base) {
			handler = fn
			break
		}
	}
	c.mu.Unlock()

	if handler == nil {
		return nil, fmt.Errorf("%w: %s: %v", apperrors.ErrExternalServiceFailure, req.URL, errors.New("connection refused"))
	}
	return handler(req)
}

func (c *fakeNodeClient) sent() []domainService.NodeRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domainService.NodeRequest(nil), c.requests...)
}

func staticCandidates(sets map[entity.EndpointKind][]entity.EndpointURL) CandidateSource {
	return func(_ string, kind entity.EndpointKind) []entity.EndpointURL {
		return sets[kind]
	}
}

func testResilienceConfig() config.ResilienceConfig {
	return config.ResilienceConfig{
		HealthCheckInterval: 30 * time.Second,
		ProbeTimeout:        5 * time.Second,
		RequestTimeout:      10 * time.Second,
		MaxAttempts:         3,
		BackoffBase:         time.Second,
		MaxWorkers:          4,
	}
}

type sleepRecorder struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (r *sleepRecorder) Sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.waits = append(r.waits, d)
	r.mu.Unlock()
	return ctx.Err()
}

func (r *sleepRecorder) recorded() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.waits...)
}

type endpointFixture struct {
	service *EndpointService
	prober  *fakeProber
	client  *fakeNodeClient
	clock   *fakeClock
	sleeps  *sleepRecorder
}

func newEndpointFixture(rest []entity.EndpointURL, rpc []entity.EndpointURL, healthy map[entity.EndpointURL]bool) *endpointFixture {
	f := &endpointFixture{
		prober: newFakeProber(healthy),
		client: newFakeNodeClient(),
		clock:  newFakeClock(),
		sleeps: &sleepRecorder{},
	}
	registry := NewEndpointRegistry(staticCandidates(map[entity.EndpointKind][]entity.EndpointURL{
		entity.EndpointKindREST: rest,
		entity.EndpointKindRPC:  rpc,
	}))
	f.service = NewEndpointService(registry, f.prober, f.client, testResilienceConfig(), zap.NewNop(),
		WithClock(f.clock.Now),
		WithSleep(f.sleeps.Sleep),
	)
	return f
}

type nodeRoute struct {
	status int
	body   string
}

// pathRouter answers with the route whose path prefix is the longest match, 404 otherwise.
func pathRouter(base entity.EndpointURL, routes map[string]nodeRoute) func(domainService.NodeRequest) (*domainService.NodeResponse, error) {
	return func(req domainService.NodeRequest) (*domainService.NodeResponse, error) {
		path := strings.TrimPrefix(req.URL, string(base))
		best := ""
		for prefix := range routes {
			if strings.HasPrefix(path, prefix) && len(prefix) > len(best) {
				best = prefix
			}
		}
		if best == "" {
			return &domainService.NodeResponse{StatusCode: 404, Body: []byte(`{"code":5,"message":"not found"}`)}, nil
		}
		r := routes[best]
		return &domainService.NodeResponse{StatusCode: r.status, Body: []byte(r.body)}, nil
	}
}

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
