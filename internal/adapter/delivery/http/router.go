package http

import (
	"time"

	handler "route-warmer/internal/adapter/handler/http"
	"route-warmer/internal/metrics"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// RegisterRoutes sets up the API routes, metrics and health checks.
func RegisterRoutes(r *router.Router, h *handler.Handler, logger *zap.Logger) {
	logger.Info("Setting up application-specific routes...")

	r.GET("/chains", h.ListChains)
	r.GET("/chains/{chainId}", h.GetChain)
	r.GET("/chains/{chainId}/endpoints", h.ListEndpoints)
	r.GET("/chains/{chainId}/endpoints/healthy", h.HealthyEndpoint)
	r.POST("/chains/{chainId}/endpoints/refresh", h.RefreshEndpoints)
	r.GET("/chains/{chainId}/accounts/{address}", h.GetAccount)
	r.GET("/chains/{chainId}/tokens/{denom:*}", h.GetToken)
	r.POST("/chains/{chainId}/tokens/batch", h.BatchTokens)
	r.POST("/chains/{chainId}/tokens/preload", h.PreloadTokens)
	r.DELETE("/tokens/cache", h.ClearTokenCache)
	r.PUT("/chains/{chainId}/decimals/{denom:*}", h.SetDecimals)
	r.DELETE("/chains/{chainId}/decimals/{denom:*}", h.ClearDecimals)

	r.POST("/routes/recommend", h.RecommendRoute)
	r.POST("/transfers/simulate", h.SimulateTransfer)
	r.POST("/transfers", h.SendTransfer)
	r.GET("/transfers", h.ListTransfers)

	r.GET("/disclaimer", h.GetDisclaimer)
	r.PUT("/disclaimer", h.AcceptDisclaimer)
	r.DELETE("/disclaimer", h.RevokeDisclaimer)

	logger.Info("Setting up health check and metrics routes...")
	r.GET("/health", h.Health)
	r.GET("/metrics", metrics.Handler())

	logger.Info("All routes registered.")
}

// LoggingMiddleware logs every request with its status and duration.
func LoggingMiddleware(logger *zap.Logger, next fasthttp.RequestHandler) fasthttp.RequestHandler {
	logger = logger.Named("HTTP")
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		next(ctx)
		logger.Info("Request handled",
			zap.ByteString("method", ctx.Method()),
			zap.ByteString("uri", ctx.RequestURI()),
			zap.Int("status", ctx.Response.StatusCode()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
