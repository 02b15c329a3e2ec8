package types

import (
	"cosmossdk.io/errors"
)

// Module error codes
var (
	ErrEscrowNotFound    = errors.Register(ModuleName, 1, "escrow record not found")
	ErrUnauthorized      = errors.Register(ModuleName, 2, "caller lacks required role")
	ErrInvalidState      = errors.Register(ModuleName, 3, "operation not allowed in current escrow state")
	ErrInvalidParameter  = errors.Register(ModuleName, 4, "invalid parameter")
	ErrInsufficientFunds = errors.Register(ModuleName, 5, "amount exceeds escrowed funds")
	ErrAlreadyExists     = errors.Register(ModuleName, 6, "escrow record already exists")
)
