// Package metrics exports Prometheus collectors for endpoint health, node requests and broadcasts.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const (
	namespace = "route_warmer"

	endpointProbesMetric   = "endpoint_probes_total"
	endpointFailuresMetric = "endpoint_failures_total"
	requestsMetric         = "requests_total"
	broadcastsMetric       = "broadcasts_total"
	simulatedGasMetric     = "simulated_gas"
)

// Label values.
const (
	ResultHealthy   = "healthy"
	ResultUnhealthy = "unhealthy"
	OutcomeSuccess  = "success"
	OutcomeRetry    = "retry"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
	BroadcastSent   = "sent"
	BroadcastFailed = "failed"
	TxConfirmed     = "confirmed"
	TxReverted      = "reverted"
	TxUntracked     = "untracked"
)

func init() {
	prometheus.MustRegister(endpointProbes, endpointFailures, requests, broadcasts, simulatedGas)
}

var (
	// endpointProbes counts health probes per chain and endpoint kind.
	endpointProbes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      endpointProbesMetric,
			Help:      "Health probes issued against chain endpoints",
		},
		[]string{"chain_id", "kind", "result"},
	)

	// endpointFailures counts endpoints marked unhealthy by a failed live request.
	endpointFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      endpointFailuresMetric,
			Help:      "Live requests that marked an endpoint unhealthy",
		},
		[]string{"chain_id", "kind"},
	)

	requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      requestsMetric,
			Help:      "Node requests issued through the endpoint resilience layer",
		},
		[]string{"chain_id", "kind", "outcome"},
	)

	broadcasts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      broadcastsMetric,
			Help:      "Signed transactions submitted and their tracked outcome",
		},
		[]string{"chain_id", "route_type", "result"},
	)

	simulatedGas = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      simulatedGasMetric,
			Help:      "Gas used reported by transaction simulation",
			Buckets:   prometheus.ExponentialBuckets(50_000, 2, 8),
		},
		[]string{"chain_id"},
	)
)

// ObserveProbe records a health probe result.
func ObserveProbe(chainID, kind string, healthy bool) {
	result := ResultUnhealthy
	if healthy {
		result = ResultHealthy
	}
	endpointProbes.With(prometheus.Labels{"chain_id": chainID, "kind": kind, "result": result}).Inc()
}

// ObserveEndpointFailure records an endpoint demoted by a failed request.
func ObserveEndpointFailure(chainID, kind string) {
	endpointFailures.With(prometheus.Labels{"chain_id": chainID, "kind": kind}).Inc()
}

// ObserveRequest records the outcome of one request attempt.
func ObserveRequest(chainID, kind, outcome string) {
	requests.With(prometheus.Labels{"chain_id": chainID, "kind": kind, "outcome": outcome}).Inc()
}

// ObserveBroadcast records a broadcast or its tracked confirmation.
func ObserveBroadcast(chainID, routeType, result string) {
	broadcasts.With(prometheus.Labels{"chain_id": chainID, "route_type": routeType, "result": result}).Inc()
}

// ObserveSimulatedGas records a simulation's gas estimate.
func ObserveSimulatedGas(chainID string, gasUsed uint64) {
	simulatedGas.With(prometheus.Labels{"chain_id": chainID}).Observe(float64(gasUsed))
}

// Handler serves the default registry in the Prometheus text format.
func Handler() fasthttp.RequestHandler {
	return fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
}
