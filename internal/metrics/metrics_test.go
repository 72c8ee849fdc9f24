package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func Test_ObserveProbe(t *testing.T) {
	c := require.New(t)
	labels := prometheus.Labels{"chain_id": "probe-test-1", "kind": "rpc", "result": ResultUnhealthy}
	before := testutil.ToFloat64(endpointProbes.With(labels))

	ObserveProbe("probe-test-1", "rpc", false)
	ObserveProbe("probe-test-1", "rpc", true)

	c.Equal(before+1, testutil.ToFloat64(endpointProbes.With(labels)))
}

func Test_HandlerExposesCollectors(t *testing.T) {
	c := require.New(t)
	ObserveSimulatedGas("handler-test-1", 150000)

	var ctx fasthttp.RequestCtx
	ctx.Request.SetRequestURI("/metrics")
	Handler()(&ctx)

	c.Equal(fasthttp.StatusOK, ctx.Response.StatusCode())
	c.Contains(string(ctx.Response.Body()), "route_warmer_simulated_gas")
}
