package domain

import "math"

// Amounts are non-negative integers in the smallest currency unit.
// Overflow is rejected, never wrapped.

func AddAmount(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, ErrOverflow
	}
	return a + b, nil
}

func MulAmount(price, quantity uint64) (uint64, error) {
	if quantity != 0 && price > math.MaxUint64/quantity {
		return 0, ErrOverflow
	}
	return price * quantity, nil
}

// MaxNameLen bounds every locator discriminator. Longer names are
// rejected outright, never truncated, so the address derived on write
// always matches the one derived on read.
const MaxNameLen = 32

func ValidateName(name string) error {
	if name == "" || len(name) > MaxNameLen {
		return ErrInvalidName
	}
	return nil
}
