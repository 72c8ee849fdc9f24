package skip

import (
	"context"
	"fmt"
	"strings"

	dto "route-warmer/internal/adapter/skip/dto"
	domainService "route-warmer/internal/domain/service"
	"route-warmer/internal/pkg/apperrors"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// Compile-time check
var _ domainService.RouteRecommender = (*Recommender)(nil)

// Recommender asks the Skip API which channel an asset should travel over.
type Recommender struct {
	client *Client
	logger *zap.Logger
}

// NewRecommender creates a new Recommender.
func NewRecommender(client *Client, logger *zap.Logger) *Recommender {
	return &Recommender{client: client, logger: logger.Named("SkipRecommender")}
}

// RecommendChannel returns the channel of the first recommended destination asset, taken as
// the last segment of its trace. No recommendation is apperrors.ErrNotFound.
func (r *Recommender) RecommendChannel(ctx context.Context, sourceDenom, sourceChainID, destChainID string) (string, error) {
	req := dto.RecommendAssetsRequestRaw{
		Requests: []dto.RecommendationRequestRaw{{
			SourceAssetDenom:   sourceDenom,
			SourceAssetChainID: sourceChainID,
			DestChainID:        destChainID,
		}},
		ClientID: r.client.clientID,
	}

	var resp dto.RecommendAssetsResponseRaw
	if err := r.client.do(ctx, fasthttp.MethodPost, "/fungible/recommend_assets", req, &resp); err != nil {
		return "", err
	}

	if len(resp.RecommendationEntries) == 0 || len(resp.RecommendationEntries[0].Recommendations) == 0 {
		return "", fmt.Errorf("%w: no route recommendation for %s from %s to %s",
			apperrors.ErrNotFound, sourceDenom, sourceChainID, destChainID,
		)
	}

	trace := resp.RecommendationEntries[0].Recommendations[0].Asset.Trace
	channel := trace[strings.LastIndex(trace, "/")+1:]
	if channel == "" {
		return "", fmt.Errorf("%w: recommendation for %s has no channel in trace %q",
			apperrors.ErrNotFound, sourceDenom, trace,
		)
	}

	r.logger.Debug("Channel recommended",
		zap.String("denom", sourceDenom), zap.String("source", sourceChainID),
		zap.String("destination", destChainID), zap.String("channel", channel),
	)
	return channel, nil
}
