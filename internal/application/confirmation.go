package application

import (
	"context"
	"sync"

	"route-warmer/internal/domain/entity"
	domainService "route-warmer/internal/domain/service"
)

// ConfirmationOutcome is what tracking learned about a broadcast transaction.
type ConfirmationOutcome struct {
	TxHash string
	// Result is nil when tracking gave up before the transaction was observed.
	Result *domainService.TxResult
	Err    error
}

// Status maps the outcome onto a history status. An unobserved transaction stays pending.
func (o ConfirmationOutcome) Status() entity.TxStatus {
	switch {
	case o.Result == nil:
		return entity.TxPending
	case o.Result.Succeeded():
		return entity.TxSuccess
	default:
		return entity.TxFailed
	}
}

// Confirmation is a handle on background confirmation tracking. Callers may wait on it,
// cancel it, or ignore it entirely.
type Confirmation struct {
	txHash string
	done   chan struct{}
	cancel context.CancelFunc

	once    sync.Once
	mu      sync.Mutex
	outcome ConfirmationOutcome
}

func newConfirmation(txHash string, cancel context.CancelFunc) *Confirmation {
	if cancel == nil {
		cancel = func() {}
	}
	return &Confirmation{txHash: txHash, done: make(chan struct{}), cancel: cancel}
}

func (c *Confirmation) resolve(outcome ConfirmationOutcome) {
	c.once.Do(func() {
		c.mu.Lock()
		c.outcome = outcome
		c.mu.Unlock()
		close(c.done)
	})
}

// TxHash is the hash of the tracked transaction.
func (c *Confirmation) TxHash() string { return c.txHash }

// Done is closed once tracking finished, successfully or not.
func (c *Confirmation) Done() <-chan struct{} { return c.done }

// Cancel stops tracking. The broadcast itself is unaffected.
func (c *Confirmation) Cancel() { c.cancel() }

// Outcome returns the tracking outcome if it is already known.
func (c *Confirmation) Outcome() (ConfirmationOutcome, bool) {
	select {
	case <-c.done:
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.outcome, true
	default:
		return ConfirmationOutcome{}, false
	}
}

// Wait blocks until tracking finishes or ctx is done. Giving up on ctx does not cancel tracking.
func (c *Confirmation) Wait(ctx context.Context) (ConfirmationOutcome, error) {
	select {
	case <-c.done:
		out, _ := c.Outcome()
		return out, nil
	case <-ctx.Done():
		return ConfirmationOutcome{TxHash: c.txHash}, ctx.Err()
	}
}
