package types

import (
	"cosmossdk.io/errors"
)

// Module error codes
var (
	ErrPoolNotFound          = errors.Register(ModuleName, 1, "pool not found")
	ErrUnauthorized          = errors.Register(ModuleName, 2, "caller lacks required role")
	ErrInvalidState          = errors.Register(ModuleName, 3, "operation not allowed in current pool status")
	ErrInvalidParameter      = errors.Register(ModuleName, 4, "invalid parameter")
	ErrInsufficientFunds     = errors.Register(ModuleName, 5, "insufficient funds")
	ErrInsufficientAllowance = errors.Register(ModuleName, 6, "insufficient withdrawal allowance")
	ErrAlreadyExists         = errors.Register(ModuleName, 7, "already exists")
	ErrTimingViolation       = errors.Register(ModuleName, 8, "epoch or maturity boundary not satisfied")
	ErrDepositTooSmall       = errors.Register(ModuleName, 9, "deposit below minimum investment")
)
