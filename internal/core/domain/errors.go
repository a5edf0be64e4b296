package domain

import "errors"

var (
	ErrDuplicateProduct    = errors.New("product already exists")
	ErrProductNotFound     = errors.New("product not found")
	ErrInvalidState        = errors.New("invalid state for requested transition")
	ErrPaymentRequired     = errors.New("payment record required")
	ErrPaymentNotConfirmed = errors.New("payment is not confirmed")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrOverflow            = errors.New("amount overflow")
	ErrRecordNotFound      = errors.New("record not found")
	ErrRecordExists        = errors.New("record already exists")
	ErrAuthorizationFailed = errors.New("authorization failed")

	ErrInvalidName     = errors.New("name must be between 1 and 32 bytes")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrAmountMismatch  = errors.New("amount does not match")
	ErrCatalogFull     = errors.New("catalog is full")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidDivision = errors.New("invalid division")
)
