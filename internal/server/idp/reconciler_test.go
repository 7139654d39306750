package idp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/userdir/internal/logging"
	"github.com/dmitrijs2005/userdir/internal/server/models"
	"github.com/stretchr/testify/assert"
)

type flakyProvider struct {
	mu       sync.Mutex
	failures int
	attempts int
	deleted  []string
}

func (p *flakyProvider) CreateAccount(ctx context.Context, username string, role models.Role, password string) error {
	return nil
}

func (p *flakyProvider) DeleteAccount(ctx context.Context, username string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.attempts++
	if p.attempts <= p.failures {
		return errors.New("transient failure")
	}
	p.deleted = append(p.deleted, username)
	return nil
}

func (p *flakyProvider) snapshot() (int, []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.attempts, append([]string(nil), p.deleted...)
}

func reconcilerLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func runReconciler(t *testing.T, provider AccountProvider, enqueue ...string) {
	t.Helper()

	r := NewReconciler(provider, reconcilerLogger())
	r.initialBackoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	go r.Run(ctx)

	for _, username := range enqueue {
		r.EnqueueDelete(ctx, username)
	}

	// Give the loop enough time to drain the queue, retries included.
	time.Sleep(300 * time.Millisecond)
	cancel()
	r.Wait()
}

func TestReconciler_RetriesUntilSuccess(t *testing.T) {
	t.Parallel()

	provider := &flakyProvider{failures: 2}
	runReconciler(t, provider, "alice")

	attempts, deleted := provider.snapshot()
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []string{"alice"}, deleted)
}

func TestReconciler_GivesUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	provider := &flakyProvider{failures: 1000}
	runReconciler(t, provider, "alice")

	attempts, deleted := provider.snapshot()
	// Initial attempt plus the configured retries.
	assert.Equal(t, 6, attempts)
	assert.Empty(t, deleted)
}

func TestReconciler_ProcessesQueueInOrder(t *testing.T) {
	t.Parallel()

	provider := &flakyProvider{}
	runReconciler(t, provider, "alice", "bob", "carol")

	_, deleted := provider.snapshot()
	assert.Equal(t, []string{"alice", "bob", "carol"}, deleted)
}
