package memory

import "context"

// TxManager runs fn directly. The memory repos take the store lock per
// operation, so there is no multi-statement atomicity to provide here.
type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) TxManager {
	return TxManager{store: store}
}

func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
