package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/structuredfi/notechain/x/debtpool/types"
)

// MsgServer defines the debtpool MsgServer
type MsgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

// Deposit handles MsgDeposit
func (m *MsgServer) Deposit(ctx context.Context, msg *types.MsgDeposit) (*types.MsgDepositResponse, error) {
	amount, ok := math.NewIntFromString(msg.Amount)
	if !ok {
		return nil, types.ErrInvalidParameter.Wrapf("amount %q", msg.Amount)
	}

	minted, err := m.keeper.Deposit(ctx, msg.Investor, msg.PoolID, amount)
	if err != nil {
		return nil, err
	}

	pos := m.keeper.GetPosition(sdk.UnwrapSDKContext(ctx), msg.PoolID, msg.Investor)
	return &types.MsgDepositResponse{
		SharesMinted: minted.String(),
		TotalShares:  pos.Shares.String(),
	}, nil
}

// Withdraw handles MsgWithdraw
func (m *MsgServer) Withdraw(ctx context.Context, msg *types.MsgWithdraw) (*types.MsgWithdrawResponse, error) {
	shares, ok := math.NewIntFromString(msg.Shares)
	if !ok {
		return nil, types.ErrInvalidParameter.Wrapf("shares %q", msg.Shares)
	}

	assets, err := m.keeper.Withdraw(ctx, msg.Withdrawer, msg.Owner, msg.Receiver, msg.PoolID, shares)
	if err != nil {
		return nil, err
	}

	return &types.MsgWithdrawResponse{
		SharesBurned:   shares.String(),
		AssetsReturned: assets.String(),
	}, nil
}

// ApproveWithdraw handles MsgApproveWithdraw
func (m *MsgServer) ApproveWithdraw(ctx context.Context, msg *types.MsgApproveWithdraw) (*types.MsgApproveWithdrawResponse, error) {
	shares, ok := math.NewIntFromString(msg.Shares)
	if !ok {
		return nil, types.ErrInvalidParameter.Wrapf("shares %q", msg.Shares)
	}

	if err := m.keeper.ApproveWithdraw(ctx, msg.Owner, msg.Spender, msg.PoolID, shares); err != nil {
		return nil, err
	}

	return &types.MsgApproveWithdrawResponse{
		Allowance: shares.String(),
	}, nil
}
