package sim

import "errors"

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidSide     = errors.New("side must be BUY or SELL")
	ErrInvalidLeverage = errors.New("leverage must not be negative")
	ErrInvalidBudget   = errors.New("risk budget must not be negative")
	ErrInvalidOptions  = errors.New("invalid strategy options")
	ErrInvalidPrice    = errors.New("invalid price")
	ErrNonMonotonic    = errors.New("price time moved backwards")
)
