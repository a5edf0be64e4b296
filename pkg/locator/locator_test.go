package locator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niksmo/escrow-market/pkg/locator"
)

func TestLocate(t *testing.T) {

	t.Run("Deterministic", func(t *testing.T) {
		seed := []byte("someIdentity")
		addr1 := locator.Locate(locator.NSProduct, seed, []byte("laptop"))
		addr2 := locator.Locate(locator.NSProduct, seed, []byte("laptop"))
		assert.Equal(t, addr1, addr2)
	})

	t.Run("NamespaceSeparation", func(t *testing.T) {
		seed := []byte("someIdentity")
		productAddr := locator.Locate(locator.NSProduct, seed)
		cartAddr := locator.Locate(locator.NSCart, seed)
		assert.NotEqual(t, productAddr, cartAddr)
	})

	t.Run("SeedBoundaries", func(t *testing.T) {
		addr1 := locator.Locate(locator.NSProduct, []byte("ab"), []byte("c"))
		addr2 := locator.Locate(locator.NSProduct, []byte("a"), []byte("bc"))
		assert.NotEqual(t, addr1, addr2)
	})

	t.Run("SeedOrder", func(t *testing.T) {
		addr1 := locator.Locate(locator.NSCart, []byte("x"), []byte("y"))
		addr2 := locator.Locate(locator.NSCart, []byte("y"), []byte("x"))
		assert.NotEqual(t, addr1, addr2)
	})

	t.Run("EmptySeedIsSignificant", func(t *testing.T) {
		addr1 := locator.Locate(locator.NSEscrow, []byte("a"))
		addr2 := locator.Locate(locator.NSEscrow, []byte("a"), nil)
		assert.NotEqual(t, addr1, addr2)
	})
}

func TestAddressText(t *testing.T) {

	t.Run("StringParseRoundtrip", func(t *testing.T) {
		addr := locator.Locate(locator.NSOrder, []byte("someIdentity"))

		parsed, err := locator.ParseAddress(addr.String())
		require.NoError(t, err)
		assert.Equal(t, addr, parsed)
	})

	t.Run("MarshalUnmarshal", func(t *testing.T) {
		addr := locator.Locate(locator.NSPayment, []byte("someIdentity"))

		b, err := addr.MarshalText()
		require.NoError(t, err)

		var addr2 locator.Address
		err = addr2.UnmarshalText(b)
		require.NoError(t, err)
		assert.Equal(t, addr, addr2)
	})

	t.Run("ParseInvalid", func(t *testing.T) {
		_, err := locator.ParseAddress("not-base58-!!!")
		require.Error(t, err)
		assert.ErrorIs(t, err, locator.ErrInvalidAddress)
	})

	t.Run("ParseWrongLength", func(t *testing.T) {
		_, err := locator.ParseAddress("3mJr7AoUXx2Wqd")
		require.Error(t, err)
		assert.ErrorIs(t, err, locator.ErrInvalidAddress)
	})
}
