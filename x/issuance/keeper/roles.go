package keeper

import (
	"encoding/json"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/structuredfi/notechain/x/issuance/types"
)

// Role management: one admin, an operator set. The admin mutates the
// operator set; operators run routine lifecycle calls.

// GetRoles retrieves the access-control state
func (k *Keeper) GetRoles(ctx sdk.Context) *types.Roles {
	store := k.GetStore(ctx)
	bz := store.Get(RolesKey)
	if bz == nil {
		return &types.Roles{}
	}
	var roles types.Roles
	if err := json.Unmarshal(bz, &roles); err != nil {
		return &types.Roles{}
	}
	return &roles
}

// SetRoles saves the access-control state
func (k *Keeper) SetRoles(ctx sdk.Context, roles *types.Roles) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(roles)
	store.Set(RolesKey, bz)
}

// InitAdmin sets the admin once, at genesis or first configuration
func (k *Keeper) InitAdmin(ctx sdk.Context, admin string) error {
	roles := k.GetRoles(ctx)
	if roles.Admin != "" {
		return types.ErrAlreadyExists.Wrap("admin already set")
	}
	if admin == "" {
		return types.ErrInvalidParameter.Wrap("empty admin address")
	}
	roles.Admin = admin
	k.SetRoles(ctx, roles)
	k.logger.Info("admin initialized", "admin", admin)
	return nil
}

func (k *Keeper) requireAdmin(ctx sdk.Context, caller string) error {
	roles := k.GetRoles(ctx)
	if roles.Admin == "" || caller != roles.Admin {
		return types.ErrUnauthorized.Wrapf("caller %s is not the admin", caller)
	}
	return nil
}

func (k *Keeper) requireOperator(ctx sdk.Context, caller string) error {
	roles := k.GetRoles(ctx)
	if caller == roles.Admin && roles.Admin != "" {
		return nil
	}
	if !roles.IsOperator(caller) {
		return types.ErrUnauthorized.Wrapf("caller %s is not an operator", caller)
	}
	return nil
}

// AddOperator adds an address to the operator set. Admin only.
func (k *Keeper) AddOperator(ctx sdk.Context, admin, operator string) error {
	if err := k.requireAdmin(ctx, admin); err != nil {
		return err
	}
	roles := k.GetRoles(ctx)
	if roles.IsOperator(operator) {
		return types.ErrAlreadyExists.Wrapf("operator %s", operator)
	}
	roles.Operators = append(roles.Operators, operator)
	k.SetRoles(ctx, roles)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"issuance_operator_added",
			sdk.NewAttribute("operator", operator),
		),
	)
	k.logger.Info("operator added", "operator", operator)
	return nil
}

// RemoveOperator removes an address from the operator set. Admin only.
func (k *Keeper) RemoveOperator(ctx sdk.Context, admin, operator string) error {
	if err := k.requireAdmin(ctx, admin); err != nil {
		return err
	}
	roles := k.GetRoles(ctx)
	kept := roles.Operators[:0]
	found := false
	for _, op := range roles.Operators {
		if op == operator {
			found = true
			continue
		}
		kept = append(kept, op)
	}
	if !found {
		return types.ErrInvalidParameter.Wrapf("operator %s not in set", operator)
	}
	roles.Operators = kept
	k.SetRoles(ctx, roles)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"issuance_operator_removed",
			sdk.NewAttribute("operator", operator),
		),
	)
	k.logger.Info("operator removed", "operator", operator)
	return nil
}
