package database

import (
	"context"
	"sync"
)

type memoryTxKey struct{}

// memoryTxManager serializes transaction bodies for the in-memory repositories.
// It provides isolation between concurrent transactions but no rollback.
type memoryTxManager struct {
	mu sync.Mutex
}

// NewMemoryTxManager creates a TxManager for DB_DRIVER=memory and tests.
func NewMemoryTxManager() TxManager {
	return &memoryTxManager{}
}

func (m *memoryTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(memoryTxKey{}) != nil {
		return fn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return fn(context.WithValue(ctx, memoryTxKey{}, struct{}{}))
}
