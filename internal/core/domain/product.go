package domain

import (
	"github.com/google/uuid"

	"github.com/niksmo/escrow-market/pkg/locator"
)

type Category string

const (
	CategoryElectronics           Category = "Electronics"
	CategoryBeautyAndPersonalCare Category = "BeautyAndPersonalCare"
	CategorySnacksAndDrinks       Category = "SnacksAndDrinks"
	CategoryHouseholdEssentials   Category = "HouseholdEssentials"
	CategoryGroceryAndKitchen     Category = "GroceryAndKitchen"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryElectronics, CategoryBeautyAndPersonalCare,
		CategorySnacksAndDrinks, CategoryHouseholdEssentials,
		CategoryGroceryAndKitchen:
		return true
	}
	return false
}

type Division string

const (
	DivisionMobile              Division = "Mobile"
	DivisionLaptop              Division = "Laptop"
	DivisionHeadphone           Division = "Headphone"
	DivisionSmartWatch          Division = "SmartWatch"
	DivisionComputerPeripherals Division = "ComputerPeripherals"
)

func (d Division) Valid() bool {
	switch d {
	case DivisionMobile, DivisionLaptop, DivisionHeadphone,
		DivisionSmartWatch, DivisionComputerPeripherals:
		return true
	}
	return false
}

type Stock string

const (
	StockIn        Stock = "InStock"
	StockOut       Stock = "OutOfStock"
	StockRestoring Stock = "Restoring"
)

func (s Stock) Valid() bool {
	switch s {
	case StockIn, StockOut, StockRestoring:
		return true
	}
	return false
}

const initialProductQuantity = 100

type Product struct {
	ProductID   uuid.UUID `json:"product_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       uint64    `json:"price"`
	Category    Category  `json:"category"`
	Division    Division  `json:"division"`
	SellerName  string    `json:"seller_name"`
	Seller      Identity  `json:"seller"`
	ImageURL    string    `json:"image_url"`
	Quantity    uint32    `json:"quantity"`
	Rating      float32   `json:"rating"`
	Stock       Stock     `json:"stock_status"`
	CreatedAt   int64     `json:"created_at"`
}

// NewProduct builds the immutable part of a product record. Only
// quantity, rating and stock status may change after creation.
func NewProduct(
	seller Identity,
	name, description string,
	price uint64,
	category Category,
	division Division,
	sellerName, imageURL string,
	now int64,
) (Product, error) {
	if err := ValidateName(name); err != nil {
		return Product{}, err
	}
	if !category.Valid() {
		return Product{}, ErrInvalidCategory
	}
	if !division.Valid() {
		return Product{}, ErrInvalidDivision
	}
	return Product{
		ProductID:   uuid.New(),
		Name:        name,
		Description: description,
		Price:       price,
		Category:    category,
		Division:    division,
		SellerName:  sellerName,
		Seller:      seller,
		ImageURL:    imageURL,
		Quantity:    initialProductQuantity,
		Rating:      0,
		Stock:       StockIn,
		CreatedAt:   now,
	}, nil
}

// Restock touches the only mutable product fields.
func (p *Product) Restock(quantity uint32, stock Stock) error {
	if !stock.Valid() {
		return ErrInvalidState
	}
	p.Quantity = quantity
	p.Stock = stock
	return nil
}

// CatalogCapacity bounds the growable per-identity catalogs.
const CatalogCapacity = 40

// A ProductCatalog is the per-seller append-only index of product
// addresses. Appending an address already present is rejected.
type ProductCatalog struct {
	Products []locator.Address `json:"products"`
	Owner    Identity          `json:"owner"`
}

func (c *ProductCatalog) Append(addr locator.Address) error {
	if len(c.Products) >= CatalogCapacity {
		return ErrCatalogFull
	}
	for _, a := range c.Products {
		if a == addr {
			return ErrRecordExists
		}
	}
	c.Products = append(c.Products, addr)
	return nil
}
