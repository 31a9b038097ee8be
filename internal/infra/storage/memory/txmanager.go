package memory

import (
	"context"
	"sync"
)

type txKey struct{}

// TxManager сериализует транзакции хранилища в памяти одним мьютексом.
// Вложенные вызовы выполняются в уже захваченной транзакции.
// Отката нет: функции внутри транзакции пишут только после всех проверок.
type TxManager struct {
	mu sync.Mutex
}

// NewTxManager создает менеджер транзакций для Store
func NewTxManager() *TxManager {
	return &TxManager{}
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return fn(context.WithValue(ctx, txKey{}, struct{}{}))
}
