package locator

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"

	"github.com/mr-tron/base58"
)

// Record namespaces. The namespace is the first seed of every derived
// address, so records of different kinds never collide even when the
// remaining seeds are identical.
const (
	NSProduct     = "product"
	NSProductList = "product_list"
	NSCart        = "cart"
	NSCartList    = "cart_list"
	NSPayment     = "payment"
	NSEscrow      = "escrow"
	NSOrder       = "order"
	NSBalance     = "balance"
)

const AddressSize = 32

// An Address is the derived storage location of a record.
type Address [AddressSize]byte

var ErrInvalidAddress = errors.New("invalid address")

// Locate derives the storage address for a namespace and seed tuple.
//
// The derivation is pure: equal inputs always produce equal addresses,
// and no existence check is performed. Each seed is length-prefixed
// before hashing, so seed tuples that concatenate to the same bytes
// still derive distinct addresses.
func Locate(namespace string, seeds ...[]byte) Address {
	h := sha256.New()

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(namespace)))
	h.Write(lenBuf[:])
	h.Write([]byte(namespace))

	for _, seed := range seeds {
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(seed)))
		h.Write(lenBuf[:])
		h.Write(seed)
	}

	var a Address
	h.Sum(a[:0])
	return a
}

func ParseAddress(s string) (Address, error) {
	b, err := base58.Decode(s)
	if err != nil || len(b) != AddressSize {
		return Address{}, ErrInvalidAddress
	}
	var a Address
	copy(a[:], b)
	return a, nil
}

func (a Address) Bytes() []byte {
	return a[:]
}

func (a Address) String() string {
	return base58.Encode(a[:])
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(data []byte) error {
	v, err := ParseAddress(string(data))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
