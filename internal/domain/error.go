package domain

import "errors"

var (
	// ErrChainNotFound means the requested chain is neither configured nor listed upstream.
	ErrChainNotFound = errors.New("chain not found")

	// ErrNoHealthyEndpoint means every candidate endpoint for the chain failed its probe.
	ErrNoHealthyEndpoint = errors.New("no healthy endpoint available for the chain")

	// ErrAccountNotFound means the signer has no on-chain account yet, so there is no sequence to sign with.
	ErrAccountNotFound = errors.New("account not found on chain")

	// ErrDisclaimerNotAccepted means a broadcast was requested before the risk disclaimer was accepted.
	ErrDisclaimerNotAccepted = errors.New("disclaimer not accepted")

	// ErrUnsupportedRoute means the source/destination pair cannot be served by the requested route type.
	ErrUnsupportedRoute = errors.New("unsupported route")

	// ErrCacheFailure means an internal error occurred while interacting with the cache (not a cache miss).
	ErrCacheFailure = errors.New("cache operation failed")
)
