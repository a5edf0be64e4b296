package domain

// EscrowStatus moves strictly forward:
//
//	SwapPending --deposit--> FundsReceived --withdraw--> SwapSuccess
//
// No operation moves it backward.
type EscrowStatus string

const (
	EscrowSwapPending   EscrowStatus = "SwapPending"
	EscrowFundsReceived EscrowStatus = "FundsReceived"
	EscrowSwapSuccess   EscrowStatus = "SwapSuccess"
)

// An Escrow holds the three-way balance relationship between buyer,
// custody and seller. The amount is fixed at creation and never
// mutated afterwards.
type Escrow struct {
	Buyer       Identity     `json:"buyer"`
	Seller      Identity     `json:"seller"`
	Amount      uint64       `json:"amount"`
	Status      EscrowStatus `json:"status"`
	ReleaseFund bool         `json:"release_fund"`
	CreatedAt   int64        `json:"created_at"`
	UpdatedAt   int64        `json:"updated_at"`
}

func NewEscrow(buyer, seller Identity, amount uint64, now int64) Escrow {
	return Escrow{
		Buyer:       buyer,
		Seller:      seller,
		Amount:      amount,
		Status:      EscrowSwapPending,
		ReleaseFund: false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// CheckAmount rejects transfer amounts that differ from the escrowed
// amount. Partial transfers are not silently clamped.
func (e *Escrow) CheckAmount(amount uint64) error {
	if amount != e.Amount {
		return ErrAmountMismatch
	}
	return nil
}

// MarkFundsReceived records a completed deposit. A second deposit
// fails, it never re-transfers.
func (e *Escrow) MarkFundsReceived(now int64) error {
	if e.Status != EscrowSwapPending {
		return ErrInvalidState
	}
	e.Status = EscrowFundsReceived
	e.ReleaseFund = true
	e.UpdatedAt = now
	return nil
}

// MarkSettled records a completed withdrawal to the seller.
func (e *Escrow) MarkSettled(now int64) error {
	if e.Status != EscrowFundsReceived || !e.ReleaseFund {
		return ErrInvalidState
	}
	e.Status = EscrowSwapSuccess
	e.ReleaseFund = false
	e.UpdatedAt = now
	return nil
}
