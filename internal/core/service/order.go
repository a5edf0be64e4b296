package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/niksmo/escrow-market/internal/core/domain"
	"github.com/niksmo/escrow-market/pkg/locator"
)

// CreateOrder finalizes a purchase: it binds the signer's confirmed
// payment to a fresh order record, the durable receipt of the flow.
func (s *Service) CreateOrder(
	ctx context.Context, signer domain.Identity, paymentID uuid.UUID,
) (domain.Order, error) {
	const op = "Service.CreateOrder"

	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	paymentAddr := locator.Locate(locator.NSPayment, signer.Bytes())
	var payment domain.Payment
	if err := s.getRecord(ctx, paymentAddr, &payment); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			err = domain.ErrPaymentNotConfirmed
		}
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	order, err := domain.NewOrder(payment, paymentID, s.timestamp())
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	orderAddr := locator.Locate(locator.NSOrder, signer.Bytes())
	rec, err := makeRecord(locator.NSOrder, orderAddr, order)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.records.PutNew(ctx, rec); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	s.emitOrderPlaced(ctx, domain.OrderPlacedEvent{
		Signer:    signer,
		OrderID:   order.OrderID,
		PaymentID: paymentID,
	})

	return order, nil
}

func (s *Service) FetchOrder(
	ctx context.Context, signer domain.Identity,
) (domain.Order, error) {
	const op = "Service.FetchOrder"

	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	addr := locator.Locate(locator.NSOrder, signer.Bytes())

	var order domain.Order
	if err := s.getRecord(ctx, addr, &order); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	return order, nil
}

func (s *Service) emitOrderPlaced(
	ctx context.Context, ev domain.OrderPlacedEvent,
) {
	if s.producers.Order == nil {
		return
	}
	if err := s.producers.Order.ProduceOrderPlaced(ctx, ev); err != nil {
		slog.Error("failed to produce order placed event",
			"op", "Service.emitOrderPlaced", "err", err)
	}
}
