package idp

import (
	"context"
	"time"

	"github.com/dmitrijs2005/userdir/internal/logging"
	"github.com/sethvargo/go-retry"
)

// Reconciler retries best-effort account removals independently of the record
// mutation that triggered them. The record deletion is authoritative; a
// failed account removal is logged and retried with backoff, never surfaced
// to the caller.
type Reconciler struct {
	provider AccountProvider
	logger   logging.Logger
	queue    chan string
	done     chan struct{}

	initialBackoff time.Duration
	maxAttempts    uint64
}

func NewReconciler(provider AccountProvider, logger logging.Logger) *Reconciler {
	return &Reconciler{
		provider:       provider,
		logger:         logger.With("module", "idp_reconciler"),
		queue:          make(chan string, 64),
		done:           make(chan struct{}),
		initialBackoff: 500 * time.Millisecond,
		maxAttempts:    5,
	}
}

// EnqueueDelete schedules removal of an identity-provider account. Never
// blocks: if the queue is full the job is dropped with an error log, since
// the provider delete is independently re-runnable.
func (r *Reconciler) EnqueueDelete(ctx context.Context, username string) {
	select {
	case r.queue <- username:
	default:
		r.logger.Error(ctx, "reconciler queue full, dropping account removal", "username", username)
	}
}

// Run processes the queue until ctx is cancelled. Call in its own goroutine.
func (r *Reconciler) Run(ctx context.Context) {
	defer close(r.done)
	for {
		select {
		case <-ctx.Done():
			return
		case username := <-r.queue:
			r.deleteWithRetry(ctx, username)
		}
	}
}

// Wait blocks until Run has returned.
func (r *Reconciler) Wait() {
	<-r.done
}

func (r *Reconciler) deleteWithRetry(ctx context.Context, username string) {
	backoff := retry.WithMaxRetries(r.maxAttempts, retry.NewExponential(r.initialBackoff))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := r.provider.DeleteAccount(ctx, username); err != nil {
			r.logger.Warn(ctx, "account removal failed, will retry", "username", username, "error", err.Error())
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		r.logger.Error(ctx, "giving up on account removal", "username", username, "error", err.Error())
		return
	}
	r.logger.Info(ctx, "identity provider account removed", "username", username)
}
