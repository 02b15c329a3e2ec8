package types

import (
	"cosmossdk.io/errors"
)

// Module error codes
var (
	ErrPoolNotRegistered = errors.Register(ModuleName, 1, "pool not registered")
	ErrUnauthorized      = errors.Register(ModuleName, 2, "caller lacks required role")
	ErrInvalidState      = errors.Register(ModuleName, 3, "operation not allowed in current state")
	ErrInvalidParameter  = errors.Register(ModuleName, 4, "invalid parameter")
	ErrAlreadyExists     = errors.Register(ModuleName, 5, "already registered")
	ErrTimingViolation   = errors.Register(ModuleName, 6, "time window precondition not satisfied")
	ErrDeploymentFailure = errors.Register(ModuleName, 7, "pool instance creation failed")
)
