package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/niksmo/escrow-market/internal/core/domain"
	"github.com/niksmo/escrow-market/pkg/locator"
)

// AddToCart upserts the (consumer, product) cart line and the
// consumer's cart catalog. Repeated adds accumulate quantity in the
// existing record; the catalog total grows by price*quantity on every
// add, keeping it equal to a fresh re-scan of the cart list.
func (s *Service) AddToCart(
	ctx context.Context,
	consumer domain.Identity,
	productName string,
	quantity uint64,
	seller domain.Identity,
	imageURL string,
	price uint64,
) (locator.Address, error) {
	const op = "Service.AddToCart"

	if err := ctx.Err(); err != nil {
		return locator.Address{}, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity == 0 {
		return locator.Address{}, fmt.Errorf(
			"%s: %w", op, domain.ErrInvalidQuantity,
		)
	}
	if err := domain.ValidateName(productName); err != nil {
		return locator.Address{}, fmt.Errorf("%s: %w", op, err)
	}

	productAddr := locator.Locate(
		locator.NSProduct, seller.Bytes(), []byte(productName),
	)
	var product domain.Product
	if err := s.getRecord(ctx, productAddr, &product); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			err = domain.ErrProductNotFound
		}
		return locator.Address{}, fmt.Errorf("%s: %w", op, err)
	}

	cartAddr := locator.Locate(
		locator.NSCart, consumer.Bytes(), []byte(productName),
	)

	var (
		cart    domain.Cart
		newCart bool
	)
	err := s.getRecord(ctx, cartAddr, &cart)
	switch {
	case err == nil:
		if err := cart.AddQuantity(quantity); err != nil {
			return locator.Address{}, fmt.Errorf("%s: %w", op, err)
		}
	case errors.Is(err, domain.ErrRecordNotFound):
		newCart = true
		cart = domain.Cart{
			ProductID:   product.ProductID,
			ProductName: productName,
			Seller:      seller,
			ImageURL:    imageURL,
			Price:       price,
			Quantity:    quantity,
			Stock:       domain.StockIn,
		}
	default:
		return locator.Address{}, fmt.Errorf("%s: %w", op, err)
	}

	catalogAddr := locator.Locate(locator.NSCartList, consumer.Bytes())
	var catalog domain.CartCatalog
	err = s.getRecord(ctx, catalogAddr, &catalog)
	if err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
		return locator.Address{}, fmt.Errorf("%s: %w", op, err)
	}

	if newCart {
		if err := catalog.Append(cartAddr); err != nil {
			return locator.Address{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	// The stored cart price keeps the running total consistent with a
	// re-scan even when the caller passes a different price later.
	if err := catalog.AddTotal(cart.Price, quantity); err != nil {
		return locator.Address{}, fmt.Errorf("%s: %w", op, err)
	}

	cartRec, err := makeRecord(locator.NSCart, cartAddr, cart)
	if err != nil {
		return locator.Address{}, fmt.Errorf("%s: %w", op, err)
	}
	catalogRec, err := makeRecord(locator.NSCartList, catalogAddr, catalog)
	if err != nil {
		return locator.Address{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.records.PutBatch(ctx, cartRec, catalogRec); err != nil {
		return locator.Address{}, fmt.Errorf("%s: %w", op, err)
	}

	s.emitCartUpdated(ctx, domain.CartUpdatedEvent{
		Consumer:    consumer,
		Seller:      seller,
		ProductName: productName,
		Quantity:    cart.Quantity,
		Price:       cart.Price,
		TotalAmount: catalog.TotalAmount,
	})

	return cartAddr, nil
}

// FetchCartCatalog returns the consumer's catalog with every cart line
// dereferenced. A missing catalog is an empty cart.
func (s *Service) FetchCartCatalog(
	ctx context.Context, consumer domain.Identity,
) (domain.CartCatalog, []domain.Cart, error) {
	const op = "Service.FetchCartCatalog"

	if err := ctx.Err(); err != nil {
		return domain.CartCatalog{}, nil, fmt.Errorf("%s: %w", op, err)
	}

	catalogAddr := locator.Locate(locator.NSCartList, consumer.Bytes())

	var catalog domain.CartCatalog
	err := s.getRecord(ctx, catalogAddr, &catalog)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.CartCatalog{}, []domain.Cart{}, nil
		}
		return domain.CartCatalog{}, nil, fmt.Errorf("%s: %w", op, err)
	}

	carts := make([]domain.Cart, 0, len(catalog.CartList))
	for _, addr := range catalog.CartList {
		var c domain.Cart
		if err := s.getRecord(ctx, addr, &c); err != nil {
			return domain.CartCatalog{}, nil, fmt.Errorf("%s: %w", op, err)
		}
		carts = append(carts, c)
	}
	return catalog, carts, nil
}

func (s *Service) emitCartUpdated(
	ctx context.Context, ev domain.CartUpdatedEvent,
) {
	if s.producers.Cart == nil {
		return
	}
	if err := s.producers.Cart.ProduceCartUpdated(ctx, ev); err != nil {
		slog.Error("failed to produce cart updated event",
			"op", "Service.emitCartUpdated", "err", err)
	}
}
