package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niksmo/escrow-market/internal/core/domain"
	"github.com/niksmo/escrow-market/pkg/locator"
)

func TestNewProduct(t *testing.T) {
	seller := testIdentity(7)

	t.Run("Defaults", func(t *testing.T) {
		p, err := domain.NewProduct(
			seller, "laptop", "thin and light", 1500,
			domain.CategoryElectronics, domain.DivisionLaptop,
			"someShop", "https://img.example/laptop.png", 100,
		)
		require.NoError(t, err)

		assert.Equal(t, uint32(100), p.Quantity)
		assert.Equal(t, float32(0), p.Rating)
		assert.Equal(t, domain.StockIn, p.Stock)
		assert.NotEqual(t, [16]byte{}, [16]byte(p.ProductID))
	})

	t.Run("EmptyName", func(t *testing.T) {
		_, err := domain.NewProduct(
			seller, "", "", 10,
			domain.CategoryElectronics, domain.DivisionLaptop,
			"someShop", "", 100,
		)
		assert.ErrorIs(t, err, domain.ErrInvalidName)
	})

	t.Run("LongName", func(t *testing.T) {
		name := "0123456789012345678901234567890123456789"
		_, err := domain.NewProduct(
			seller, name, "", 10,
			domain.CategoryElectronics, domain.DivisionLaptop,
			"someShop", "", 100,
		)
		assert.ErrorIs(t, err, domain.ErrInvalidName)
	})

	t.Run("InvalidCategory", func(t *testing.T) {
		_, err := domain.NewProduct(
			seller, "laptop", "", 10,
			domain.Category("Garden"), domain.DivisionLaptop,
			"someShop", "", 100,
		)
		assert.ErrorIs(t, err, domain.ErrInvalidCategory)
	})

	t.Run("InvalidDivision", func(t *testing.T) {
		_, err := domain.NewProduct(
			seller, "laptop", "", 10,
			domain.CategoryElectronics, domain.Division("Tablet"),
			"someShop", "", 100,
		)
		assert.ErrorIs(t, err, domain.ErrInvalidDivision)
	})
}

func TestProductRestock(t *testing.T) {
	seller := testIdentity(7)

	p, err := domain.NewProduct(
		seller, "laptop", "", 1500,
		domain.CategoryElectronics, domain.DivisionLaptop,
		"someShop", "", 100,
	)
	require.NoError(t, err)

	t.Run("Valid", func(t *testing.T) {
		require.NoError(t, p.Restock(0, domain.StockOut))
		assert.Equal(t, uint32(0), p.Quantity)
		assert.Equal(t, domain.StockOut, p.Stock)
	})

	t.Run("InvalidStock", func(t *testing.T) {
		err := p.Restock(5, domain.Stock("Unknown"))
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})
}

func TestProductCatalog(t *testing.T) {

	t.Run("AppendDuplicate", func(t *testing.T) {
		var c domain.ProductCatalog
		addr := locator.Locate(locator.NSProduct, []byte("x"))

		require.NoError(t, c.Append(addr))
		assert.ErrorIs(t, c.Append(addr), domain.ErrRecordExists)
		assert.Len(t, c.Products, 1)
	})

	t.Run("CapacityBound", func(t *testing.T) {
		var c domain.ProductCatalog
		for i := range domain.CatalogCapacity {
			addr := locator.Locate(locator.NSProduct, []byte{byte(i)})
			require.NoError(t, c.Append(addr))
		}

		overflowAddr := locator.Locate(locator.NSProduct, []byte("over"))
		assert.ErrorIs(t, c.Append(overflowAddr), domain.ErrCatalogFull)
	})
}

func TestAmounts(t *testing.T) {

	t.Run("AddOverflow", func(t *testing.T) {
		_, err := domain.AddAmount(^uint64(0), 1)
		assert.ErrorIs(t, err, domain.ErrOverflow)
	})

	t.Run("MulOverflow", func(t *testing.T) {
		_, err := domain.MulAmount(^uint64(0), 2)
		assert.ErrorIs(t, err, domain.ErrOverflow)
	})

	t.Run("MulZeroQuantity", func(t *testing.T) {
		v, err := domain.MulAmount(^uint64(0), 0)
		require.NoError(t, err)
		assert.Zero(t, v)
	})
}
