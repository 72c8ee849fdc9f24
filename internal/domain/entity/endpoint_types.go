package entity

import "time"

// EndpointKind distinguishes CometBFT RPC nodes from Cosmos REST (LCD) nodes.
type EndpointKind string

// Known endpoint kinds.
const (
	EndpointKindRPC  EndpointKind = "rpc"
	EndpointKindREST EndpointKind = "rest"
)

// ParseEndpointKind maps user input onto a kind, defaulting to RPC.
func ParseEndpointKind(raw string) (EndpointKind, bool) {
	switch raw {
	case "", string(EndpointKindRPC):
		return EndpointKindRPC, true
	case string(EndpointKindREST), "lcd", "api":
		return EndpointKindREST, true
	default:
		return "", false
	}
}

// HealthStatus is the probe-derived state of one endpoint.
type HealthStatus string

// Endpoint health states. Unknown is the state before the first probe.
const (
	HealthUnknown   HealthStatus = "unknown"
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"
)

// Endpoint is one prioritized candidate for reaching a chain.
type Endpoint struct {
	URL         EndpointURL  `json:"url"`
	Kind        EndpointKind `json:"kind"`
	Priority    int          `json:"priority"`
	Status      HealthStatus `json:"status"`
	LastChecked time.Time    `json:"lastChecked"`
	LatencyMs   *int64       `json:"latencyMs,omitempty"`
	LastError   string       `json:"lastError,omitempty"`
}

// IsHealthy reports whether the last probe or request against the endpoint succeeded.
func (e Endpoint) IsHealthy() bool {
	return e.Status == HealthHealthy
}

// IsStale reports whether the health information is older than interval.
// Endpoints that were never checked are always stale.
func (e Endpoint) IsStale(now time.Time, interval time.Duration) bool {
	if e.Status == HealthUnknown || e.LastChecked.IsZero() {
		return true
	}
	return now.Sub(e.LastChecked) > interval
}
