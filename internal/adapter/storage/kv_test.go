package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niksmo/escrow-market/internal/adapter/storage"
	"github.com/niksmo/escrow-market/internal/core/domain"
	"github.com/niksmo/escrow-market/internal/core/port"
	"github.com/niksmo/escrow-market/pkg/locator"
)

func newTestKV(t *testing.T) *storage.KVStorage {
	t.Helper()
	st, err := storage.NewKVStorageMem()
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestKVRecords(t *testing.T) {
	addr := locator.Locate(locator.NSProduct, []byte("x"))

	t.Run("GetMissing", func(t *testing.T) {
		st := newTestKV(t)

		_, err := st.Get(t.Context(), addr)
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})

	t.Run("PutGet", func(t *testing.T) {
		st := newTestKV(t)
		ctx := t.Context()

		rec := port.Record{
			Address: addr, Namespace: locator.NSProduct, Body: []byte("one"),
		}
		require.NoError(t, st.Put(ctx, rec))

		b, err := st.Get(ctx, addr)
		require.NoError(t, err)
		assert.Equal(t, []byte("one"), b)

		rec.Body = []byte("two")
		require.NoError(t, st.Put(ctx, rec))

		b, err = st.Get(ctx, addr)
		require.NoError(t, err)
		assert.Equal(t, []byte("two"), b)
	})

	t.Run("PutNewOverExisting", func(t *testing.T) {
		st := newTestKV(t)
		ctx := t.Context()

		rec := port.Record{
			Address: addr, Namespace: locator.NSProduct, Body: []byte("one"),
		}
		require.NoError(t, st.PutNew(ctx, rec))

		err := st.PutNew(ctx, rec)
		assert.ErrorIs(t, err, domain.ErrRecordExists)
	})

	t.Run("PutBatch", func(t *testing.T) {
		st := newTestKV(t)
		ctx := t.Context()

		addr2 := locator.Locate(locator.NSProduct, []byte("y"))
		err := st.PutBatch(ctx,
			port.Record{Address: addr, Body: []byte("one")},
			port.Record{Address: addr2, Body: []byte("two")},
		)
		require.NoError(t, err)

		b, err := st.Get(ctx, addr2)
		require.NoError(t, err)
		assert.Equal(t, []byte("two"), b)
	})
}

func TestKVBalances(t *testing.T) {
	from := locator.Locate(locator.NSBalance, []byte("from"))
	to := locator.Locate(locator.NSBalance, []byte("to"))

	t.Run("AbsentIsZero", func(t *testing.T) {
		st := newTestKV(t)

		amount, err := st.Balance(t.Context(), from)
		require.NoError(t, err)
		assert.Zero(t, amount)
	})

	t.Run("CreditAccumulates", func(t *testing.T) {
		st := newTestKV(t)
		ctx := t.Context()

		require.NoError(t, st.Credit(ctx, from, 100))
		require.NoError(t, st.Credit(ctx, from, 50))

		amount, err := st.Balance(ctx, from)
		require.NoError(t, err)
		assert.Equal(t, uint64(150), amount)
	})

	t.Run("OpenKeepsValue", func(t *testing.T) {
		st := newTestKV(t)
		ctx := t.Context()

		require.NoError(t, st.Credit(ctx, from, 100))
		require.NoError(t, st.Open(ctx, from))

		amount, err := st.Balance(ctx, from)
		require.NoError(t, err)
		assert.Equal(t, uint64(100), amount)
	})

	t.Run("Transfer", func(t *testing.T) {
		st := newTestKV(t)
		ctx := t.Context()

		require.NoError(t, st.Credit(ctx, from, 100))

		recAddr := locator.Locate(locator.NSEscrow, []byte("e"))
		rec := port.Record{Address: recAddr, Body: []byte("settled")}
		require.NoError(t, st.Transfer(ctx, from, to, 60, rec))

		fromAmount, err := st.Balance(ctx, from)
		require.NoError(t, err)
		assert.Equal(t, uint64(40), fromAmount)

		toAmount, err := st.Balance(ctx, to)
		require.NoError(t, err)
		assert.Equal(t, uint64(60), toAmount)

		b, err := st.Get(ctx, recAddr)
		require.NoError(t, err)
		assert.Equal(t, []byte("settled"), b)
	})

	t.Run("TransferInsufficientFunds", func(t *testing.T) {
		st := newTestKV(t)
		ctx := t.Context()

		require.NoError(t, st.Credit(ctx, from, 10))

		recAddr := locator.Locate(locator.NSEscrow, []byte("e"))
		rec := port.Record{Address: recAddr, Body: []byte("settled")}
		err := st.Transfer(ctx, from, to, 60, rec)
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

		// nothing from the failed unit is visible
		_, err = st.Get(ctx, recAddr)
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)

		toAmount, err := st.Balance(ctx, to)
		require.NoError(t, err)
		assert.Zero(t, toAmount)
	})
}
