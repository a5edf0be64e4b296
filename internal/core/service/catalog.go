package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/niksmo/escrow-market/internal/core/domain"
	"github.com/niksmo/escrow-market/pkg/locator"
)

// CreateProduct writes a product record at its derived address and
// appends the address to the seller's catalog, initializing the
// catalog lazily on the first product.
func (s *Service) CreateProduct(
	ctx context.Context,
	seller domain.Identity,
	name, description string,
	price uint64,
	category domain.Category,
	division domain.Division,
	sellerName, imageURL string,
) (locator.Address, error) {
	const op = "Service.CreateProduct"

	if err := ctx.Err(); err != nil {
		return locator.Address{}, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product, err := domain.NewProduct(
		seller, name, description, price,
		category, division, sellerName, imageURL, s.timestamp(),
	)
	if err != nil {
		return locator.Address{}, fmt.Errorf("%s: %w", op, err)
	}

	addr := locator.Locate(locator.NSProduct, seller.Bytes(), []byte(name))
	if _, err := s.records.Get(ctx, addr); err == nil {
		return locator.Address{}, fmt.Errorf(
			"%s: %w", op, domain.ErrDuplicateProduct,
		)
	} else if !errors.Is(err, domain.ErrRecordNotFound) {
		return locator.Address{}, fmt.Errorf("%s: %w", op, err)
	}

	catalogAddr := locator.Locate(locator.NSProductList, seller.Bytes())
	catalog := domain.ProductCatalog{Owner: seller}
	err = s.getRecord(ctx, catalogAddr, &catalog)
	if err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
		return locator.Address{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := catalog.Append(addr); err != nil {
		return locator.Address{}, fmt.Errorf("%s: %w", op, err)
	}

	productRec, err := makeRecord(locator.NSProduct, addr, product)
	if err != nil {
		return locator.Address{}, fmt.Errorf("%s: %w", op, err)
	}
	catalogRec, err := makeRecord(locator.NSProductList, catalogAddr, catalog)
	if err != nil {
		return locator.Address{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.records.PutBatch(ctx, productRec, catalogRec); err != nil {
		return locator.Address{}, fmt.Errorf("%s: %w", op, err)
	}

	s.emitProductCreated(ctx, domain.ProductCreatedEvent{
		ProductAddress: addr,
		Seller:         seller,
		Name:           name,
		Price:          price,
		Category:       category,
		Division:       division,
	})

	return addr, nil
}

// RestockProduct updates the mutable product fields, leaving the
// identity fields untouched.
func (s *Service) RestockProduct(
	ctx context.Context,
	seller domain.Identity,
	name string,
	quantity uint32,
	stock domain.Stock,
) (domain.Product, error) {
	const op = "Service.RestockProduct"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := domain.ValidateName(name); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	addr := locator.Locate(locator.NSProduct, seller.Bytes(), []byte(name))

	var product domain.Product
	if err := s.getRecord(ctx, addr, &product); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			err = domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := product.Restock(quantity, stock); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	rec, err := makeRecord(locator.NSProduct, addr, product)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.records.Put(ctx, rec); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	return product, nil
}

// ListProducts dereferences the seller's catalog. A missing catalog is
// an empty listing, not an error.
func (s *Service) ListProducts(
	ctx context.Context, seller domain.Identity,
) ([]domain.Product, error) {
	const op = "Service.ListProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	catalogAddr := locator.Locate(locator.NSProductList, seller.Bytes())

	var catalog domain.ProductCatalog
	err := s.getRecord(ctx, catalogAddr, &catalog)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return []domain.Product{}, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	products := make([]domain.Product, 0, len(catalog.Products))
	for _, addr := range catalog.Products {
		var p domain.Product
		if err := s.getRecord(ctx, addr, &p); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		products = append(products, p)
	}
	return products, nil
}

func (s *Service) FetchProduct(
	ctx context.Context, seller domain.Identity, name string,
) (domain.Product, error) {
	const op = "Service.FetchProduct"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := domain.ValidateName(name); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	addr := locator.Locate(locator.NSProduct, seller.Bytes(), []byte(name))

	var product domain.Product
	if err := s.getRecord(ctx, addr, &product); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			err = domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return product, nil
}

func (s *Service) emitProductCreated(
	ctx context.Context, ev domain.ProductCreatedEvent,
) {
	if s.producers.Catalog == nil {
		return
	}
	if err := s.producers.Catalog.ProduceProductCreated(ctx, ev); err != nil {
		slog.Error("failed to produce product created event",
			"op", "Service.emitProductCreated", "err", err)
	}
}
