package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Message types
const (
	TypeMsgDeposit         = "deposit"
	TypeMsgWithdraw        = "withdraw"
	TypeMsgApproveWithdraw = "approve_withdraw"
)

// MsgDeposit defines the Deposit message
type MsgDeposit struct {
	Investor string `json:"investor"`
	PoolID   string `json:"pool_id"`
	Amount   string `json:"amount"`
}

// Route implements sdk.Msg
func (msg MsgDeposit) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgDeposit) Type() string { return TypeMsgDeposit }

// ValidateBasic implements sdk.Msg
func (msg MsgDeposit) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Investor); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgDeposit) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Investor)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgDeposit) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgDeposit) Reset() { *msg = MsgDeposit{} }

// String implements proto.Message
func (msg MsgDeposit) String() string {
	return fmt.Sprintf("MsgDeposit{Investor: %s, PoolID: %s, Amount: %s}", msg.Investor, msg.PoolID, msg.Amount)
}

// MsgDepositResponse defines the Deposit response
type MsgDepositResponse struct {
	SharesMinted string `json:"shares_minted"`
	TotalShares  string `json:"total_shares"`
}

// MsgWithdraw defines the Withdraw message. Withdrawer may differ from Owner
// when spending a pre-approved allowance.
type MsgWithdraw struct {
	Withdrawer string `json:"withdrawer"`
	Owner      string `json:"owner"`
	Receiver   string `json:"receiver"`
	PoolID     string `json:"pool_id"`
	Shares     string `json:"shares"`
}

// Route implements sdk.Msg
func (msg MsgWithdraw) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgWithdraw) Type() string { return TypeMsgWithdraw }

// ValidateBasic implements sdk.Msg
func (msg MsgWithdraw) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Withdrawer); err != nil {
		return err
	}
	if msg.Owner != "" {
		if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
			return err
		}
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgWithdraw) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Withdrawer)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgWithdraw) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgWithdraw) Reset() { *msg = MsgWithdraw{} }

// String implements proto.Message
func (msg MsgWithdraw) String() string {
	return fmt.Sprintf("MsgWithdraw{Withdrawer: %s, Owner: %s, PoolID: %s, Shares: %s}", msg.Withdrawer, msg.Owner, msg.PoolID, msg.Shares)
}

// MsgWithdrawResponse defines the Withdraw response
type MsgWithdrawResponse struct {
	SharesBurned   string `json:"shares_burned"`
	AssetsReturned string `json:"assets_returned"`
}

// MsgApproveWithdraw defines the ApproveWithdraw message
type MsgApproveWithdraw struct {
	Owner   string `json:"owner"`
	Spender string `json:"spender"`
	PoolID  string `json:"pool_id"`
	Shares  string `json:"shares"`
}

// Route implements sdk.Msg
func (msg MsgApproveWithdraw) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgApproveWithdraw) Type() string { return TypeMsgApproveWithdraw }

// ValidateBasic implements sdk.Msg
func (msg MsgApproveWithdraw) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
		return err
	}
	if _, err := sdk.AccAddressFromBech32(msg.Spender); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgApproveWithdraw) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Owner)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgApproveWithdraw) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgApproveWithdraw) Reset() { *msg = MsgApproveWithdraw{} }

// String implements proto.Message
func (msg MsgApproveWithdraw) String() string {
	return fmt.Sprintf("MsgApproveWithdraw{Owner: %s, Spender: %s, PoolID: %s, Shares: %s}", msg.Owner, msg.Spender, msg.PoolID, msg.Shares)
}

// MsgApproveWithdrawResponse defines the ApproveWithdraw response
type MsgApproveWithdrawResponse struct {
	Allowance string `json:"allowance"`
}
