package domain

import (
	"github.com/google/uuid"

	"github.com/niksmo/escrow-market/pkg/locator"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentSuccess PaymentStatus = "Success"
)

type PaymentMethod string

const (
	MethodSOL  PaymentMethod = "SOL"
	MethodETH  PaymentMethod = "ETH"
	MethodBTC  PaymentMethod = "BTC"
	MethodUSDT PaymentMethod = "USDT"
	MethodUSDC PaymentMethod = "USDC"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodSOL, MethodETH, MethodBTC, MethodUSDT, MethodUSDC:
		return true
	}
	return false
}

// A Payment is the authorization envelope for an escrow: one record
// per payer identity, opened once, confirmed only after the escrow
// withdrawal actually moved the funds.
type Payment struct {
	PaymentID   uuid.UUID       `json:"payment_id"`
	Amount      uint64          `json:"amount"`
	ProductRef  locator.Address `json:"product_ref"`
	Method      PaymentMethod   `json:"payment_method"`
	Status      PaymentStatus   `json:"status"`
	TxReference string          `json:"tx_reference,omitempty"`
	CreatedAt   int64           `json:"created_at"`
	UpdatedAt   int64           `json:"updated_at"`
}

func NewPayment(
	amount uint64,
	productRef locator.Address,
	method PaymentMethod,
	txReference string,
	now int64,
) Payment {
	if !method.Valid() {
		method = MethodSOL
	}
	return Payment{
		PaymentID:   uuid.New(),
		Amount:      amount,
		ProductRef:  productRef,
		Method:      method,
		Status:      PaymentPending,
		TxReference: txReference,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (p *Payment) Confirm(now int64) error {
	if p.Status != PaymentPending {
		return ErrInvalidState
	}
	p.Status = PaymentSuccess
	p.UpdatedAt = now
	return nil
}
