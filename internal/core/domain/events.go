package domain

import (
	"github.com/google/uuid"

	"github.com/niksmo/escrow-market/pkg/locator"
)

// Events emitted after a committed mutation. Production is
// best-effort and never rolls the mutation back.

type ProductCreatedEvent struct {
	ProductAddress locator.Address
	Seller         Identity
	Name           string
	Price          uint64
	Category       Category
	Division       Division
}

type CartUpdatedEvent struct {
	Consumer    Identity
	Seller      Identity
	ProductName string
	Quantity    uint64
	Price       uint64
	TotalAmount uint64
}

type EscrowSettledEvent struct {
	Buyer  Identity
	Seller Identity
	Amount uint64
}

type OrderPlacedEvent struct {
	Signer    Identity
	OrderID   uuid.UUID
	PaymentID uuid.UUID
}
