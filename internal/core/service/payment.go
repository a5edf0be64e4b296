package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/niksmo/escrow-market/internal/core/domain"
	"github.com/niksmo/escrow-market/pkg/locator"
)

// CreatePayment opens the payer's payment record. The open is
// idempotent: when a record already exists the call returns it
// unchanged, matching client retry behavior. An existing amount is
// never overwritten.
func (s *Service) CreatePayment(
	ctx context.Context,
	payer domain.Identity,
	amount uint64,
	productRef locator.Address,
	method domain.PaymentMethod,
	txReference string,
) (locator.Address, domain.Payment, error) {
	const op = "Service.CreatePayment"

	if err := ctx.Err(); err != nil {
		return locator.Address{}, domain.Payment{}, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	addr := locator.Locate(locator.NSPayment, payer.Bytes())

	var existing domain.Payment
	err := s.getRecord(ctx, addr, &existing)
	switch {
	case err == nil:
		return addr, existing, nil
	case errors.Is(err, domain.ErrRecordNotFound):
	default:
		return locator.Address{}, domain.Payment{}, fmt.Errorf("%s: %w", op, err)
	}

	payment := domain.NewPayment(
		amount, productRef, method, txReference, s.timestamp(),
	)
	rec, err := makeRecord(locator.NSPayment, addr, payment)
	if err != nil {
		return locator.Address{}, domain.Payment{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.records.PutNew(ctx, rec); err != nil {
		return locator.Address{}, domain.Payment{}, fmt.Errorf("%s: %w", op, err)
	}

	return addr, payment, nil
}

func (s *Service) FetchPayment(
	ctx context.Context, payer domain.Identity,
) (domain.Payment, error) {
	const op = "Service.FetchPayment"

	if err := ctx.Err(); err != nil {
		return domain.Payment{}, fmt.Errorf("%s: %w", op, err)
	}

	addr := locator.Locate(locator.NSPayment, payer.Bytes())

	var payment domain.Payment
	if err := s.getRecord(ctx, addr, &payment); err != nil {
		return domain.Payment{}, fmt.Errorf("%s: %w", op, err)
	}
	return payment, nil
}
