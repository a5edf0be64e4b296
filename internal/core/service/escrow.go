package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/niksmo/escrow-market/internal/core/domain"
	"github.com/niksmo/escrow-market/pkg/locator"
)

// The custodian keeps three independent balance entries per escrow
// relationship: the buyer's, the custody entry keyed by the escrow
// address, and the seller's.
func buyerBalanceAddr(buyer domain.Identity) locator.Address {
	return locator.Locate(locator.NSBalance, buyer.Bytes())
}

func custodyBalanceAddr(escrowAddr locator.Address) locator.Address {
	return locator.Locate(locator.NSBalance, escrowAddr.Bytes())
}

func sellerBalanceAddr(seller domain.Identity) locator.Address {
	return locator.Locate(locator.NSBalance, seller.Bytes())
}

// CreateEscrow opens the escrow record for the owner identity. The
// owner's payment record is the authorization envelope: it must exist
// and cover the escrowed amount. The three balance entries are opened
// with zero value if absent.
func (s *Service) CreateEscrow(
	ctx context.Context,
	owner, buyer, seller domain.Identity,
	amount uint64,
) (locator.Address, error) {
	const op = "Service.CreateEscrow"

	if err := ctx.Err(); err != nil {
		return locator.Address{}, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	paymentAddr := locator.Locate(locator.NSPayment, owner.Bytes())
	var payment domain.Payment
	if err := s.getRecord(ctx, paymentAddr, &payment); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			err = domain.ErrPaymentRequired
		}
		return locator.Address{}, fmt.Errorf("%s: %w", op, err)
	}
	if payment.Amount < amount {
		return locator.Address{}, fmt.Errorf(
			"%s: %w", op, domain.ErrAmountMismatch,
		)
	}

	escrowAddr := locator.Locate(locator.NSEscrow, owner.Bytes())
	escrow := domain.NewEscrow(buyer, seller, amount, s.timestamp())

	rec, err := makeRecord(locator.NSEscrow, escrowAddr, escrow)
	if err != nil {
		return locator.Address{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.records.PutNew(ctx, rec); err != nil {
		return locator.Address{}, fmt.Errorf("%s: %w", op, err)
	}

	for _, addr := range []locator.Address{
		buyerBalanceAddr(buyer),
		custodyBalanceAddr(escrowAddr),
		sellerBalanceAddr(seller),
	} {
		if err := s.balances.Open(ctx, addr); err != nil {
			return locator.Address{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	return escrowAddr, nil
}

// DepositEscrow moves the escrowed amount from the buyer's balance
// into custody and flips the escrow to FundsReceived. A failed
// transfer leaves the status untouched; a repeated deposit fails
// instead of re-transferring.
func (s *Service) DepositEscrow(
	ctx context.Context, owner domain.Identity, amount uint64,
) (domain.Escrow, error) {
	const op = "Service.DepositEscrow"

	if err := ctx.Err(); err != nil {
		return domain.Escrow{}, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	escrowAddr := locator.Locate(locator.NSEscrow, owner.Bytes())
	var escrow domain.Escrow
	if err := s.getRecord(ctx, escrowAddr, &escrow); err != nil {
		return domain.Escrow{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := escrow.CheckAmount(amount); err != nil {
		return domain.Escrow{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := escrow.MarkFundsReceived(s.timestamp()); err != nil {
		return domain.Escrow{}, fmt.Errorf("%s: %w", op, err)
	}

	rec, err := makeRecord(locator.NSEscrow, escrowAddr, escrow)
	if err != nil {
		return domain.Escrow{}, fmt.Errorf("%s: %w", op, err)
	}

	err = s.balances.Transfer(
		ctx,
		buyerBalanceAddr(escrow.Buyer),
		custodyBalanceAddr(escrowAddr),
		amount,
		rec,
	)
	if err != nil {
		return domain.Escrow{}, fmt.Errorf("%s: %w", op, err)
	}

	return escrow, nil
}

// WithdrawEscrow releases the custody balance to the seller, settles
// the escrow and confirms the bound payment, all as one transfer unit.
func (s *Service) WithdrawEscrow(
	ctx context.Context, owner domain.Identity, amount uint64,
) (domain.Escrow, error) {
	const op = "Service.WithdrawEscrow"

	if err := ctx.Err(); err != nil {
		return domain.Escrow{}, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	escrowAddr := locator.Locate(locator.NSEscrow, owner.Bytes())
	var escrow domain.Escrow
	if err := s.getRecord(ctx, escrowAddr, &escrow); err != nil {
		return domain.Escrow{}, fmt.Errorf("%s: %w", op, err)
	}

	if escrow.Status != domain.EscrowFundsReceived {
		return domain.Escrow{}, fmt.Errorf(
			"%s: %w", op, domain.ErrInvalidState,
		)
	}
	if err := escrow.CheckAmount(amount); err != nil {
		return domain.Escrow{}, fmt.Errorf("%s: %w", op, err)
	}

	now := s.timestamp()
	if err := escrow.MarkSettled(now); err != nil {
		return domain.Escrow{}, fmt.Errorf("%s: %w", op, err)
	}

	paymentAddr := locator.Locate(locator.NSPayment, owner.Bytes())
	var payment domain.Payment
	if err := s.getRecord(ctx, paymentAddr, &payment); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			err = domain.ErrPaymentRequired
		}
		return domain.Escrow{}, fmt.Errorf("%s: %w", op, err)
	}
	if payment.Status == domain.PaymentPending {
		if err := payment.Confirm(now); err != nil {
			return domain.Escrow{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	escrowRec, err := makeRecord(locator.NSEscrow, escrowAddr, escrow)
	if err != nil {
		return domain.Escrow{}, fmt.Errorf("%s: %w", op, err)
	}
	paymentRec, err := makeRecord(locator.NSPayment, paymentAddr, payment)
	if err != nil {
		return domain.Escrow{}, fmt.Errorf("%s: %w", op, err)
	}

	err = s.balances.Transfer(
		ctx,
		custodyBalanceAddr(escrowAddr),
		sellerBalanceAddr(escrow.Seller),
		amount,
		escrowRec, paymentRec,
	)
	if err != nil {
		return domain.Escrow{}, fmt.Errorf("%s: %w", op, err)
	}

	s.emitEscrowSettled(ctx, domain.EscrowSettledEvent{
		Buyer:  escrow.Buyer,
		Seller: escrow.Seller,
		Amount: amount,
	})

	return escrow, nil
}

func (s *Service) FetchEscrow(
	ctx context.Context, owner domain.Identity,
) (domain.Escrow, error) {
	const op = "Service.FetchEscrow"

	if err := ctx.Err(); err != nil {
		return domain.Escrow{}, fmt.Errorf("%s: %w", op, err)
	}

	addr := locator.Locate(locator.NSEscrow, owner.Bytes())

	var escrow domain.Escrow
	if err := s.getRecord(ctx, addr, &escrow); err != nil {
		return domain.Escrow{}, fmt.Errorf("%s: %w", op, err)
	}
	return escrow, nil
}

// CreditBalance funds an identity's balance entry. This is the hook
// for the external wallet flow; the core itself only moves value
// through escrow transfers.
func (s *Service) CreditBalance(
	ctx context.Context, identity domain.Identity, amount uint64,
) error {
	const op = "Service.CreditBalance"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.balances.Credit(ctx, buyerBalanceAddr(identity), amount)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Service) FetchBalance(
	ctx context.Context, identity domain.Identity,
) (uint64, error) {
	const op = "Service.FetchBalance"

	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	amount, err := s.balances.Balance(ctx, buyerBalanceAddr(identity))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return amount, nil
}

func (s *Service) emitEscrowSettled(
	ctx context.Context, ev domain.EscrowSettledEvent,
) {
	if s.producers.Settlement == nil {
		return
	}
	if err := s.producers.Settlement.ProduceEscrowSettled(ctx, ev); err != nil {
		slog.Error("failed to produce escrow settled event",
			"op", "Service.emitEscrowSettled", "err", err)
	}
}
