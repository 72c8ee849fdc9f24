package service

import "context"

// RouteRecommender suggests the channel to use for moving an asset between two chains.
type RouteRecommender interface {
	RecommendChannel(ctx context.Context, sourceDenom, sourceChainID, destChainID string) (string, error)
}
