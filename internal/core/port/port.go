package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/niksmo/escrow-market/internal/core/domain"
	"github.com/niksmo/escrow-market/pkg/locator"
)

// A Record is an addressed, JSON-encoded body in the shared
// key-addressed space.
type Record struct {
	Address   locator.Address
	Namespace string
	Body      []byte
}

// A RecordStore is the key-addressed record space. Reads of absent
// addresses fail [domain.ErrRecordNotFound], creations over occupied
// addresses fail [domain.ErrRecordExists]. PutBatch writes all records
// or none.
type RecordStore interface {
	Get(ctx context.Context, addr locator.Address) ([]byte, error)
	Put(ctx context.Context, rec Record) error
	PutNew(ctx context.Context, rec Record) error
	PutBatch(ctx context.Context, recs ...Record) error
}

// A BalanceStore holds the per-address value entries the escrow
// custodian moves funds between. Transfer is the atomic three-account
// move primitive: it debits, credits and applies the record updates as
// one unit, or fails leaving everything untouched.
type BalanceStore interface {
	Balance(ctx context.Context, addr locator.Address) (uint64, error)
	Credit(ctx context.Context, addr locator.Address, amount uint64) error
	Open(ctx context.Context, addr locator.Address) error
	Transfer(
		ctx context.Context,
		from, to locator.Address,
		amount uint64,
		updates ...Record,
	) error
}

// An Authorizer proves that a caller controls the identity named in an
// operation's primary seed.
type Authorizer interface {
	Authorize(identity domain.Identity, message, signature []byte) error
}

type (
	CatalogEventProducer interface {
		ProduceProductCreated(context.Context, domain.ProductCreatedEvent) error
	}

	CartEventProducer interface {
		ProduceCartUpdated(context.Context, domain.CartUpdatedEvent) error
	}

	SettlementEventProducer interface {
		ProduceEscrowSettled(context.Context, domain.EscrowSettledEvent) error
	}

	OrderEventProducer interface {
		ProduceOrderPlaced(context.Context, domain.OrderPlacedEvent) error
	}
)

// RevenueViewer reads the per-seller settled revenue projection.
type RevenueViewer interface {
	SellerRevenue(seller domain.Identity) (uint64, error)
}

type CatalogService interface {
	CreateProduct(
		ctx context.Context,
		seller domain.Identity,
		name, description string,
		price uint64,
		category domain.Category,
		division domain.Division,
		sellerName, imageURL string,
	) (locator.Address, error)
	RestockProduct(
		ctx context.Context,
		seller domain.Identity,
		name string,
		quantity uint32,
		stock domain.Stock,
	) (domain.Product, error)
	ListProducts(
		ctx context.Context, seller domain.Identity,
	) ([]domain.Product, error)
	FetchProduct(
		ctx context.Context, seller domain.Identity, name string,
	) (domain.Product, error)
}

type CartService interface {
	AddToCart(
		ctx context.Context,
		consumer domain.Identity,
		productName string,
		quantity uint64,
		seller domain.Identity,
		imageURL string,
		price uint64,
	) (locator.Address, error)
	FetchCartCatalog(
		ctx context.Context, consumer domain.Identity,
	) (domain.CartCatalog, []domain.Cart, error)
}

type PaymentService interface {
	CreatePayment(
		ctx context.Context,
		payer domain.Identity,
		amount uint64,
		productRef locator.Address,
		method domain.PaymentMethod,
		txReference string,
	) (locator.Address, domain.Payment, error)
	FetchPayment(
		ctx context.Context, payer domain.Identity,
	) (domain.Payment, error)
}

type EscrowService interface {
	CreateEscrow(
		ctx context.Context,
		owner, buyer, seller domain.Identity,
		amount uint64,
	) (locator.Address, error)
	DepositEscrow(
		ctx context.Context, owner domain.Identity, amount uint64,
	) (domain.Escrow, error)
	WithdrawEscrow(
		ctx context.Context, owner domain.Identity, amount uint64,
	) (domain.Escrow, error)
	FetchEscrow(
		ctx context.Context, owner domain.Identity,
	) (domain.Escrow, error)
	CreditBalance(
		ctx context.Context, identity domain.Identity, amount uint64,
	) error
	FetchBalance(
		ctx context.Context, identity domain.Identity,
	) (uint64, error)
}

type OrderService interface {
	CreateOrder(
		ctx context.Context, signer domain.Identity, paymentID uuid.UUID,
	) (domain.Order, error)
	FetchOrder(
		ctx context.Context, signer domain.Identity,
	) (domain.Order, error)
}
