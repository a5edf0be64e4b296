package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niksmo/escrow-market/internal/adapter/storage"
	"github.com/niksmo/escrow-market/internal/core/domain"
	"github.com/niksmo/escrow-market/internal/core/service"
)

func newTestService(t *testing.T) *service.Service {
	t.Helper()
	st, err := storage.NewKVStorageMem()
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return service.New(st, st, service.EventProducers{})
}

func identity(b byte) domain.Identity {
	var id domain.Identity
	for i := range id {
		id[i] = b
	}
	return id
}

func TestCatalog(t *testing.T) {
	seller := identity(1)

	t.Run("CreateAndList", func(t *testing.T) {
		s := newTestService(t)
		ctx := t.Context()

		_, err := s.CreateProduct(
			ctx, seller, "laptop", "thin and light", 1500,
			domain.CategoryElectronics, domain.DivisionLaptop,
			"someShop", "https://img.example/laptop.png",
		)
		require.NoError(t, err)

		_, err = s.CreateProduct(
			ctx, seller, "mouse", "wireless", 40,
			domain.CategoryElectronics, domain.DivisionComputerPeripherals,
			"someShop", "",
		)
		require.NoError(t, err)

		products, err := s.ListProducts(ctx, seller)
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "laptop", products[0].Name)
		assert.Equal(t, "mouse", products[1].Name)

		p, err := s.FetchProduct(ctx, seller, "laptop")
		require.NoError(t, err)
		assert.Equal(t, uint64(1500), p.Price)
		assert.Equal(t, uint32(100), p.Quantity)
	})

	t.Run("DuplicateName", func(t *testing.T) {
		s := newTestService(t)
		ctx := t.Context()

		_, err := s.CreateProduct(
			ctx, seller, "laptop", "", 1500,
			domain.CategoryElectronics, domain.DivisionLaptop,
			"someShop", "",
		)
		require.NoError(t, err)

		_, err = s.CreateProduct(
			ctx, seller, "laptop", "another one", 999,
			domain.CategoryElectronics, domain.DivisionLaptop,
			"someShop", "",
		)
		assert.ErrorIs(t, err, domain.ErrDuplicateProduct)

		products, err := s.ListProducts(ctx, seller)
		require.NoError(t, err)
		assert.Len(t, products, 1)
	})

	t.Run("SameNameDifferentSellers", func(t *testing.T) {
		s := newTestService(t)
		ctx := t.Context()
		otherSeller := identity(2)

		_, err := s.CreateProduct(
			ctx, seller, "laptop", "", 1500,
			domain.CategoryElectronics, domain.DivisionLaptop,
			"someShop", "",
		)
		require.NoError(t, err)

		_, err = s.CreateProduct(
			ctx, otherSeller, "laptop", "", 1200,
			domain.CategoryElectronics, domain.DivisionLaptop,
			"otherShop", "",
		)
		require.NoError(t, err)
	})

	t.Run("ListWithoutProducts", func(t *testing.T) {
		s := newTestService(t)

		products, err := s.ListProducts(t.Context(), seller)
		require.NoError(t, err)
		assert.Empty(t, products)
	})

	t.Run("Restock", func(t *testing.T) {
		s := newTestService(t)
		ctx := t.Context()

		_, err := s.CreateProduct(
			ctx, seller, "laptop", "", 1500,
			domain.CategoryElectronics, domain.DivisionLaptop,
			"someShop", "",
		)
		require.NoError(t, err)

		p, err := s.RestockProduct(ctx, seller, "laptop", 0, domain.StockOut)
		require.NoError(t, err)
		assert.Equal(t, uint32(0), p.Quantity)
		assert.Equal(t, domain.StockOut, p.Stock)

		got, err := s.FetchProduct(ctx, seller, "laptop")
		require.NoError(t, err)
		assert.Equal(t, domain.StockOut, got.Stock)
	})

	t.Run("RestockUnknownProduct", func(t *testing.T) {
		s := newTestService(t)

		_, err := s.RestockProduct(
			t.Context(), seller, "ghost", 5, domain.StockIn,
		)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})
}

func TestCart(t *testing.T) {
	seller := identity(1)
	consumer := identity(9)

	seedProduct := func(t *testing.T, s *service.Service, name string, price uint64) {
		t.Helper()
		_, err := s.CreateProduct(
			t.Context(), seller, name, "", price,
			domain.CategoryElectronics, domain.DivisionLaptop,
			"someShop", "",
		)
		require.NoError(t, err)
	}

	t.Run("AccumulatesQuantity", func(t *testing.T) {
		s := newTestService(t)
		ctx := t.Context()
		seedProduct(t, s, "laptop", 1500)

		addr1, err := s.AddToCart(ctx, consumer, "laptop", 1, seller, "", 1500)
		require.NoError(t, err)

		addr2, err := s.AddToCart(ctx, consumer, "laptop", 2, seller, "", 1500)
		require.NoError(t, err)
		assert.Equal(t, addr1, addr2)

		catalog, carts, err := s.FetchCartCatalog(ctx, consumer)
		require.NoError(t, err)
		require.Len(t, carts, 1)
		assert.Equal(t, uint64(3), carts[0].Quantity)
		assert.Equal(t, uint64(4500), catalog.TotalAmount)
	})

	t.Run("TotalMatchesRescan", func(t *testing.T) {
		s := newTestService(t)
		ctx := t.Context()
		seedProduct(t, s, "laptop", 1500)
		seedProduct(t, s, "mouse", 40)

		_, err := s.AddToCart(ctx, consumer, "laptop", 2, seller, "", 1500)
		require.NoError(t, err)
		_, err = s.AddToCart(ctx, consumer, "mouse", 3, seller, "", 40)
		require.NoError(t, err)
		_, err = s.AddToCart(ctx, consumer, "mouse", 1, seller, "", 40)
		require.NoError(t, err)

		catalog, carts, err := s.FetchCartCatalog(ctx, consumer)
		require.NoError(t, err)

		var rescan uint64
		for _, c := range carts {
			rescan += c.Price * c.Quantity
		}
		assert.Equal(t, rescan, catalog.TotalAmount)
	})

	t.Run("StoredPriceWins", func(t *testing.T) {
		s := newTestService(t)
		ctx := t.Context()
		seedProduct(t, s, "laptop", 1500)

		_, err := s.AddToCart(ctx, consumer, "laptop", 1, seller, "", 1500)
		require.NoError(t, err)

		// a second add with a drifted price keeps the stored line price
		_, err = s.AddToCart(ctx, consumer, "laptop", 1, seller, "", 9999)
		require.NoError(t, err)

		catalog, carts, err := s.FetchCartCatalog(ctx, consumer)
		require.NoError(t, err)
		require.Len(t, carts, 1)
		assert.Equal(t, uint64(1500), carts[0].Price)
		assert.Equal(t, uint64(3000), catalog.TotalAmount)
	})

	t.Run("UnknownProduct", func(t *testing.T) {
		s := newTestService(t)

		_, err := s.AddToCart(
			t.Context(), consumer, "ghost", 1, seller, "", 10,
		)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("ZeroQuantity", func(t *testing.T) {
		s := newTestService(t)
		seedProduct(t, s, "laptop", 1500)

		_, err := s.AddToCart(
			t.Context(), consumer, "laptop", 0, seller, "", 1500,
		)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	})

	t.Run("EmptyCart", func(t *testing.T) {
		s := newTestService(t)

		catalog, carts, err := s.FetchCartCatalog(t.Context(), consumer)
		require.NoError(t, err)
		assert.Empty(t, carts)
		assert.Zero(t, catalog.TotalAmount)
	})
}

func TestPayment(t *testing.T) {
	payer := identity(9)

	t.Run("IdempotentOpen", func(t *testing.T) {
		s := newTestService(t)
		ctx := t.Context()

		addr1, p1, err := s.CreatePayment(
			ctx, payer, 3000, [32]byte{}, domain.MethodUSDT, "tx-1",
		)
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentPending, p1.Status)

		addr2, p2, err := s.CreatePayment(
			ctx, payer, 9999, [32]byte{}, domain.MethodBTC, "tx-2",
		)
		require.NoError(t, err)
		assert.Equal(t, addr1, addr2)
		assert.Equal(t, p1.PaymentID, p2.PaymentID)
		assert.Equal(t, uint64(3000), p2.Amount)
		assert.Equal(t, domain.MethodUSDT, p2.Method)
	})

	t.Run("FetchMissing", func(t *testing.T) {
		s := newTestService(t)

		_, err := s.FetchPayment(t.Context(), payer)
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})
}

func TestEscrowSettlement(t *testing.T) {
	buyer := identity(9)
	seller := identity(1)

	// openEscrow funds the buyer, opens the payment and creates the
	// escrow for the given amount.
	openEscrow := func(t *testing.T, s *service.Service, amount uint64) {
		t.Helper()
		ctx := t.Context()

		require.NoError(t, s.CreditBalance(ctx, buyer, amount))

		_, _, err := s.CreatePayment(
			ctx, buyer, amount, [32]byte{}, domain.MethodSOL, "",
		)
		require.NoError(t, err)

		_, err = s.CreateEscrow(ctx, buyer, buyer, seller, amount)
		require.NoError(t, err)
	}

	t.Run("FullSwap", func(t *testing.T) {
		s := newTestService(t)
		ctx := t.Context()
		openEscrow(t, s, 3000)

		e, err := s.DepositEscrow(ctx, buyer, 3000)
		require.NoError(t, err)
		assert.Equal(t, domain.EscrowFundsReceived, e.Status)
		assert.True(t, e.ReleaseFund)

		buyerBalance, err := s.FetchBalance(ctx, buyer)
		require.NoError(t, err)
		assert.Zero(t, buyerBalance)

		e, err = s.WithdrawEscrow(ctx, buyer, 3000)
		require.NoError(t, err)
		assert.Equal(t, domain.EscrowSwapSuccess, e.Status)
		assert.False(t, e.ReleaseFund)

		sellerBalance, err := s.FetchBalance(ctx, seller)
		require.NoError(t, err)
		assert.Equal(t, uint64(3000), sellerBalance)

		p, err := s.FetchPayment(ctx, buyer)
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentSuccess, p.Status)
	})

	t.Run("EscrowWithoutPayment", func(t *testing.T) {
		s := newTestService(t)

		_, err := s.CreateEscrow(t.Context(), buyer, buyer, seller, 3000)
		assert.ErrorIs(t, err, domain.ErrPaymentRequired)
	})

	t.Run("EscrowOverPaymentAmount", func(t *testing.T) {
		s := newTestService(t)
		ctx := t.Context()

		_, _, err := s.CreatePayment(
			ctx, buyer, 100, [32]byte{}, domain.MethodSOL, "",
		)
		require.NoError(t, err)

		_, err = s.CreateEscrow(ctx, buyer, buyer, seller, 3000)
		assert.ErrorIs(t, err, domain.ErrAmountMismatch)
	})

	t.Run("DepositWrongAmount", func(t *testing.T) {
		s := newTestService(t)
		openEscrow(t, s, 3000)

		_, err := s.DepositEscrow(t.Context(), buyer, 2999)
		assert.ErrorIs(t, err, domain.ErrAmountMismatch)
	})

	t.Run("DepositInsufficientFunds", func(t *testing.T) {
		s := newTestService(t)
		ctx := t.Context()

		_, _, err := s.CreatePayment(
			ctx, buyer, 3000, [32]byte{}, domain.MethodSOL, "",
		)
		require.NoError(t, err)
		_, err = s.CreateEscrow(ctx, buyer, buyer, seller, 3000)
		require.NoError(t, err)

		_, err = s.DepositEscrow(ctx, buyer, 3000)
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

		// failed transfer leaves the escrow pending
		e, err := s.FetchEscrow(ctx, buyer)
		require.NoError(t, err)
		assert.Equal(t, domain.EscrowSwapPending, e.Status)
	})

	t.Run("DoubleDeposit", func(t *testing.T) {
		s := newTestService(t)
		ctx := t.Context()
		openEscrow(t, s, 3000)

		_, err := s.DepositEscrow(ctx, buyer, 3000)
		require.NoError(t, err)

		require.NoError(t, s.CreditBalance(ctx, buyer, 3000))
		_, err = s.DepositEscrow(ctx, buyer, 3000)
		assert.ErrorIs(t, err, domain.ErrInvalidState)

		// no second transfer happened
		buyerBalance, err := s.FetchBalance(ctx, buyer)
		require.NoError(t, err)
		assert.Equal(t, uint64(3000), buyerBalance)
	})

	t.Run("WithdrawBeforeDeposit", func(t *testing.T) {
		s := newTestService(t)
		openEscrow(t, s, 3000)

		_, err := s.WithdrawEscrow(t.Context(), buyer, 3000)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("DoubleWithdraw", func(t *testing.T) {
		s := newTestService(t)
		ctx := t.Context()
		openEscrow(t, s, 3000)

		_, err := s.DepositEscrow(ctx, buyer, 3000)
		require.NoError(t, err)
		_, err = s.WithdrawEscrow(ctx, buyer, 3000)
		require.NoError(t, err)

		_, err = s.WithdrawEscrow(ctx, buyer, 3000)
		assert.ErrorIs(t, err, domain.ErrInvalidState)

		sellerBalance, err := s.FetchBalance(ctx, seller)
		require.NoError(t, err)
		assert.Equal(t, uint64(3000), sellerBalance)
	})
}

func TestOrder(t *testing.T) {
	buyer := identity(9)
	seller := identity(1)

	settle := func(t *testing.T, s *service.Service) domain.Payment {
		t.Helper()
		ctx := t.Context()

		require.NoError(t, s.CreditBalance(ctx, buyer, 3000))
		_, _, err := s.CreatePayment(
			ctx, buyer, 3000, [32]byte{}, domain.MethodSOL, "",
		)
		require.NoError(t, err)
		_, err = s.CreateEscrow(ctx, buyer, buyer, seller, 3000)
		require.NoError(t, err)
		_, err = s.DepositEscrow(ctx, buyer, 3000)
		require.NoError(t, err)
		_, err = s.WithdrawEscrow(ctx, buyer, 3000)
		require.NoError(t, err)

		p, err := s.FetchPayment(ctx, buyer)
		require.NoError(t, err)
		return p
	}

	t.Run("AfterSettlement", func(t *testing.T) {
		s := newTestService(t)
		ctx := t.Context()
		payment := settle(t, s)

		order, err := s.CreateOrder(ctx, buyer, payment.PaymentID)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderPlaced, order.Status)
		assert.Equal(t, payment.PaymentID, order.PaymentID)

		got, err := s.FetchOrder(ctx, buyer)
		require.NoError(t, err)
		assert.Equal(t, order.OrderID, got.OrderID)
	})

	t.Run("UnconfirmedPayment", func(t *testing.T) {
		s := newTestService(t)
		ctx := t.Context()

		_, p, err := s.CreatePayment(
			ctx, buyer, 3000, [32]byte{}, domain.MethodSOL, "",
		)
		require.NoError(t, err)

		_, err = s.CreateOrder(ctx, buyer, p.PaymentID)
		assert.ErrorIs(t, err, domain.ErrPaymentNotConfirmed)
	})

	t.Run("MissingPayment", func(t *testing.T) {
		s := newTestService(t)
		payment := settle(t, s)

		otherSigner := identity(5)
		_, err := s.CreateOrder(t.Context(), otherSigner, payment.PaymentID)
		assert.ErrorIs(t, err, domain.ErrPaymentNotConfirmed)
	})
}
