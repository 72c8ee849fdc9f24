package application

import (
	"sort"
	"strings"
	"sync"
	"time"

	"route-warmer/internal/config"
	"route-warmer/internal/domain/entity"
)

// CandidateSource lists the endpoint URLs of a chain in priority order.
type CandidateSource func(chainID string, kind entity.EndpointKind) []entity.EndpointURL

// ConfigCandidates builds the candidate list from configuration: the Skip-maintained endpoint
// (when a template exists for the kind), then the override, then fallbacks. Duplicates and
// invalid URLs are dropped.
func ConfigCandidates(cfg config.EndpointsConfig) CandidateSource {
	return func(chainID string, kind entity.EndpointKind) []entity.EndpointURL {
		var raw []string
		override := cfg.Overrides[chainID]
		switch kind {
		case entity.EndpointKindRPC:
			if cfg.SkipRPCTemplate != "" {
				raw = append(raw, strings.ReplaceAll(cfg.SkipRPCTemplate, "{chainId}", chainID))
			}
			raw = append(raw, override.RPC)
			raw = append(raw, cfg.RPCFallbacks[chainID]...)
		case entity.EndpointKindREST:
			if cfg.SkipRESTTemplate != "" {
				raw = append(raw, strings.ReplaceAll(cfg.SkipRESTTemplate, "{chainId}", chainID))
			}
			raw = append(raw, override.REST)
			raw = append(raw, cfg.RESTFallbacks[chainID]...)
		}

		seen := make(map[entity.EndpointURL]struct{}, len(raw))
		out := make([]entity.EndpointURL, 0, len(raw))
		for _, r := range raw {
			if r == "" {
				continue
			}
			u, err := entity.NewEndpointURL(r)
			if err != nil {
				continue
			}
			if _, dup := seen[u]; dup {
				continue
			}
			seen[u] = struct{}{}
			out = append(out, u)
		}
		return out
	}
}

type registryKey struct {
	chainID string
	kind    entity.EndpointKind
}

// EndpointRegistry is the process-scoped endpoint health state. Endpoint sets are created
// lazily per (chain, kind) and never removed; priorities are fixed at creation.
type EndpointRegistry struct {
	mu         sync.Mutex
	sets       map[registryKey][]*entity.Endpoint
	candidates CandidateSource
}

// NewEndpointRegistry creates an empty registry.
func NewEndpointRegistry(candidates CandidateSource) *EndpointRegistry {
	return &EndpointRegistry{
		sets:       make(map[registryKey][]*entity.Endpoint),
		candidates: candidates,
	}
}

func (r *EndpointRegistry) ensureLocked(chainID string, kind entity.EndpointKind) []*entity.Endpoint {
	key := registryKey{chainID: chainID, kind: kind}
	set, ok := r.sets[key]
	if ok {
		return set
	}
	urls := r.candidates(chainID, kind)
	set = make([]*entity.Endpoint, 0, len(urls))
	for i, u := range urls {
		set = append(set, &entity.Endpoint{
			URL:      u,
			Kind:     kind,
			Priority: i,
			Status:   entity.HealthUnknown,
		})
	}
	r.sets[key] = set
	return set
}

// Snapshot returns copies of the chain's endpoints ordered by priority.
func (r *EndpointRegistry) Snapshot(chainID string, kind entity.EndpointKind) []entity.Endpoint {
	r.mu.Lock()
	defer r.mu.Unlock()

	set := r.ensureLocked(chainID, kind)
	out := make([]entity.Endpoint, len(set))
	for i, ep := range set {
		out[i] = *ep
		if ep.LatencyMs != nil {
			l := *ep.LatencyMs
			out[i].LatencyMs = &l
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}

// Record stores a probe or request outcome for one endpoint. Unknown URLs are ignored.
func (r *EndpointRegistry) Record(
	chainID string,
	kind entity.EndpointKind,
	url entity.EndpointURL,
	healthy bool,
	latency time.Duration,
	cause error,
	at time.Time,
) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ep := range r.ensureLocked(chainID, kind) {
		if ep.URL != url {
			continue
		}
		ep.LastChecked = at
		if healthy {
			ep.Status = entity.HealthHealthy
			ep.LastError = ""
			ms := latency.Milliseconds()
			ep.LatencyMs = &ms
		} else {
			ep.Status = entity.HealthUnhealthy
			ep.LatencyMs = nil
			if cause != nil {
				ep.LastError = cause.Error()
			}
		}
		return true
	}
	return false
}
