package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/structuredfi/notechain/x/issuance/types"
)

// MsgServer defines the issuance MsgServer
type MsgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

// CreatePool handles MsgCreatePool
func (m *MsgServer) CreatePool(ctx context.Context, msg *types.MsgCreatePool) (*types.MsgCreatePoolResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	poolID, err := m.keeper.CreatePool(sdkCtx, msg.Operator, msg.Issuer, msg.Salt, msg.Terms)
	if err != nil {
		return nil, err
	}
	return &types.MsgCreatePoolResponse{PoolID: poolID}, nil
}

// LockPool handles MsgLockPool
func (m *MsgServer) LockPool(ctx context.Context, msg *types.MsgLockPool) (*types.MsgLockPoolResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if err := m.keeper.LockPool(sdkCtx, msg.Caller, msg.PoolID); err != nil {
		return nil, err
	}
	return &types.MsgLockPoolResponse{}, nil
}

// InitiateSettlement handles MsgInitiateSettlement
func (m *MsgServer) InitiateSettlement(ctx context.Context, msg *types.MsgInitiateSettlement) (*types.MsgInitiateSettlementResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	principal, err := m.keeper.InitiateSettlement(sdkCtx, msg.Caller, msg.PoolID)
	if err != nil {
		return nil, err
	}
	return &types.MsgInitiateSettlementResponse{Principal: principal.String()}, nil
}

// ProcessMaturity handles MsgProcessMaturity
func (m *MsgServer) ProcessMaturity(ctx context.Context, msg *types.MsgProcessMaturity) (*types.MsgProcessMaturityResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	total, err := m.keeper.ProcessMaturity(sdkCtx, msg.Caller, msg.PoolID)
	if err != nil {
		return nil, err
	}
	return &types.MsgProcessMaturityResponse{TotalReturned: total.String()}, nil
}

// EmergencyShutdown handles MsgEmergencyShutdown
func (m *MsgServer) EmergencyShutdown(ctx context.Context, msg *types.MsgEmergencyShutdown) (*types.MsgEmergencyShutdownResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if err := m.keeper.EmergencyShutdown(sdkCtx, msg.Caller, msg.PoolID); err != nil {
		return nil, err
	}
	return &types.MsgEmergencyShutdownResponse{}, nil
}

// AddOperator handles MsgAddOperator
func (m *MsgServer) AddOperator(ctx context.Context, msg *types.MsgAddOperator) (*types.MsgAddOperatorResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if err := m.keeper.AddOperator(sdkCtx, msg.Admin, msg.Operator); err != nil {
		return nil, err
	}
	return &types.MsgAddOperatorResponse{}, nil
}

// RemoveOperator handles MsgRemoveOperator
func (m *MsgServer) RemoveOperator(ctx context.Context, msg *types.MsgRemoveOperator) (*types.MsgRemoveOperatorResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if err := m.keeper.RemoveOperator(sdkCtx, msg.Admin, msg.Operator); err != nil {
		return nil, err
	}
	return &types.MsgRemoveOperatorResponse{}, nil
}
