package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barberhub/booking-service/pkg/dbmetrics"
)

// fakeTx транзакция с программируемой ошибкой коммита
type fakeTx struct {
	commitErr  error
	committed  bool
	rolledBack bool
}

func (t *fakeTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *fakeTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (t *fakeTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *fakeTx) Commit() error {
	t.committed = true
	return t.commitErr
}

func (t *fakeTx) Rollback() error {
	t.rolledBack = true
	return nil
}

// fakeTxBeginner выдает заранее подготовленные транзакции по порядку
type fakeTxBeginner struct {
	txs    []*fakeTx
	begins int
}

func (b *fakeTxBeginner) BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	if b.begins >= len(b.txs) {
		return nil, errors.New("no more prepared transactions")
	}
	tx := b.txs[b.begins]
	b.begins++
	return tx, nil
}

func serializationErr() error {
	return &pq.Error{Code: "40001", Message: "could not serialize access"}
}

func TestDoSerializable_RetriesOnSerializationFailure(t *testing.T) {
	// Первый коммит падает с 40001, второй проходит
	beginner := &fakeTxBeginner{txs: []*fakeTx{
		{commitErr: serializationErr()},
		{},
	}}
	manager := NewTransactionManager(beginner)

	calls := 0
	err := manager.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, beginner.begins)
	assert.Equal(t, 2, calls)
	assert.True(t, beginner.txs[1].committed)
}

func TestDoSerializable_ExhaustsRetries(t *testing.T) {
	beginner := &fakeTxBeginner{txs: []*fakeTx{
		{commitErr: serializationErr()},
		{commitErr: serializationErr()},
		{commitErr: serializationErr()},
	}}
	manager := NewTransactionManager(beginner)

	err := manager.DoSerializable(context.Background(), func(ctx context.Context) error {
		return nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTxFailed)
	assert.Equal(t, maxSerializableRetries, beginner.begins)
}

func TestDoSerializable_FnErrorIsNotRetried(t *testing.T) {
	beginner := &fakeTxBeginner{txs: []*fakeTx{{}}}
	manager := NewTransactionManager(beginner)

	wantErr := errors.New("business rule violated")
	err := manager.DoSerializable(context.Background(), func(ctx context.Context) error {
		return wantErr
	})

	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 1, beginner.begins)
	assert.True(t, beginner.txs[0].rolledBack)
	assert.False(t, beginner.txs[0].committed)
}

func TestDo_CommitsAndExposesTxInContext(t *testing.T) {
	tx := &fakeTx{}
	beginner := &fakeTxBeginner{txs: []*fakeTx{tx}}
	manager := NewTransactionManager(beginner)

	err := manager.Do(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})

	require.NoError(t, err)
	assert.True(t, tx.committed)
}
