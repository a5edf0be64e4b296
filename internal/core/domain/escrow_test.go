package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niksmo/escrow-market/internal/core/domain"
)

func testIdentity(b byte) domain.Identity {
	var id domain.Identity
	for i := range id {
		id[i] = b
	}
	return id
}

func TestEscrowLifecycle(t *testing.T) {
	buyer := testIdentity(1)
	seller := testIdentity(2)

	t.Run("DepositThenWithdraw", func(t *testing.T) {
		e := domain.NewEscrow(buyer, seller, 500, 100)
		assert.Equal(t, domain.EscrowSwapPending, e.Status)
		assert.False(t, e.ReleaseFund)

		require.NoError(t, e.MarkFundsReceived(101))
		assert.Equal(t, domain.EscrowFundsReceived, e.Status)
		assert.True(t, e.ReleaseFund)
		assert.Equal(t, int64(101), e.UpdatedAt)

		require.NoError(t, e.MarkSettled(102))
		assert.Equal(t, domain.EscrowSwapSuccess, e.Status)
		assert.False(t, e.ReleaseFund)
	})

	t.Run("DoubleDeposit", func(t *testing.T) {
		e := domain.NewEscrow(buyer, seller, 500, 100)
		require.NoError(t, e.MarkFundsReceived(101))

		err := e.MarkFundsReceived(102)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
		assert.Equal(t, domain.EscrowFundsReceived, e.Status)
	})

	t.Run("WithdrawBeforeDeposit", func(t *testing.T) {
		e := domain.NewEscrow(buyer, seller, 500, 100)

		err := e.MarkSettled(101)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
		assert.Equal(t, domain.EscrowSwapPending, e.Status)
	})

	t.Run("DoubleWithdraw", func(t *testing.T) {
		e := domain.NewEscrow(buyer, seller, 500, 100)
		require.NoError(t, e.MarkFundsReceived(101))
		require.NoError(t, e.MarkSettled(102))

		err := e.MarkSettled(103)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
		assert.Equal(t, domain.EscrowSwapSuccess, e.Status)
	})

	t.Run("AmountIsExact", func(t *testing.T) {
		e := domain.NewEscrow(buyer, seller, 500, 100)

		assert.NoError(t, e.CheckAmount(500))
		assert.ErrorIs(t, e.CheckAmount(499), domain.ErrAmountMismatch)
		assert.ErrorIs(t, e.CheckAmount(501), domain.ErrAmountMismatch)
		assert.ErrorIs(t, e.CheckAmount(0), domain.ErrAmountMismatch)
	})
}
