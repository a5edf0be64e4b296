package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niksmo/escrow-market/internal/core/domain"
	"github.com/niksmo/escrow-market/pkg/locator"
)

func TestPaymentConfirm(t *testing.T) {
	productRef := locator.Locate(locator.NSProduct, []byte("x"))

	t.Run("PendingToSuccess", func(t *testing.T) {
		p := domain.NewPayment(100, productRef, domain.MethodUSDT, "tx-1", 100)
		assert.Equal(t, domain.PaymentPending, p.Status)

		require.NoError(t, p.Confirm(101))
		assert.Equal(t, domain.PaymentSuccess, p.Status)

		assert.ErrorIs(t, p.Confirm(102), domain.ErrInvalidState)
	})

	t.Run("InvalidMethodFallsBack", func(t *testing.T) {
		p := domain.NewPayment(100, productRef, domain.PaymentMethod("DOGE"), "", 100)
		assert.Equal(t, domain.MethodSOL, p.Method)
	})
}

func TestNewOrder(t *testing.T) {
	productRef := locator.Locate(locator.NSProduct, []byte("x"))

	t.Run("ConfirmedPayment", func(t *testing.T) {
		p := domain.NewPayment(100, productRef, domain.MethodSOL, "", 100)
		require.NoError(t, p.Confirm(101))

		o, err := domain.NewOrder(p, p.PaymentID, 102)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderPlaced, o.Status)
		assert.Equal(t, domain.TrackingBooked, o.Tracking)
		assert.Equal(t, p.PaymentID, o.PaymentID)
		assert.NotEqual(t, uuid.Nil, o.TrackingID)
	})

	t.Run("PendingPayment", func(t *testing.T) {
		p := domain.NewPayment(100, productRef, domain.MethodSOL, "", 100)

		_, err := domain.NewOrder(p, p.PaymentID, 101)
		assert.ErrorIs(t, err, domain.ErrPaymentNotConfirmed)
	})

	t.Run("WrongPaymentID", func(t *testing.T) {
		p := domain.NewPayment(100, productRef, domain.MethodSOL, "", 100)
		require.NoError(t, p.Confirm(101))

		_, err := domain.NewOrder(p, uuid.New(), 102)
		assert.ErrorIs(t, err, domain.ErrPaymentNotConfirmed)
	})
}
