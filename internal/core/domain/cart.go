package domain

import (
	"github.com/google/uuid"

	"github.com/niksmo/escrow-market/pkg/locator"
)

// A Cart is one (consumer, product) line. Repeated adds accumulate in
// the same record, they never create a duplicate.
type Cart struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Seller      Identity  `json:"seller"`
	ImageURL    string    `json:"image_url"`
	Price       uint64    `json:"price"`
	Quantity    uint64    `json:"quantity"`
	Stock       Stock     `json:"stock_status"`
}

func (c *Cart) AddQuantity(quantity uint64) error {
	if quantity == 0 {
		return ErrInvalidQuantity
	}
	q, err := AddAmount(c.Quantity, quantity)
	if err != nil {
		return err
	}
	c.Quantity = q
	return nil
}

// A CartCatalog is the per-consumer index of cart addresses with the
// running order total.
//
// Invariant: TotalAmount == sum of price*quantity over every cart in
// CartList. The total is maintained incrementally on each add.
type CartCatalog struct {
	CartList    []locator.Address `json:"cart_list"`
	TotalAmount uint64            `json:"total_amount"`
}

func (c *CartCatalog) Append(addr locator.Address) error {
	if len(c.CartList) >= CatalogCapacity {
		return ErrCatalogFull
	}
	for _, a := range c.CartList {
		if a == addr {
			return ErrRecordExists
		}
	}
	c.CartList = append(c.CartList, addr)
	return nil
}

func (c *CartCatalog) AddTotal(price, quantity uint64) error {
	inc, err := MulAmount(price, quantity)
	if err != nil {
		return err
	}
	total, err := AddAmount(c.TotalAmount, inc)
	if err != nil {
		return err
	}
	c.TotalAmount = total
	return nil
}
