package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	debtpooltypes "github.com/structuredfi/notechain/x/debtpool/types"
)

// Message types
const (
	TypeMsgCreatePool         = "create_pool"
	TypeMsgLockPool           = "lock_pool"
	TypeMsgInitiateSettlement = "initiate_settlement"
	TypeMsgProcessMaturity    = "process_maturity"
	TypeMsgEmergencyShutdown  = "emergency_shutdown"
	TypeMsgAddOperator        = "add_operator"
	TypeMsgRemoveOperator     = "remove_operator"
)

// MsgCreatePool defines the CreatePool message
type MsgCreatePool struct {
	Operator string                        `json:"operator"`
	Issuer   string                        `json:"issuer"`
	Salt     string                        `json:"salt"`
	Terms    debtpooltypes.InstrumentTerms `json:"terms"`
}

// Route implements sdk.Msg
func (msg MsgCreatePool) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgCreatePool) Type() string { return TypeMsgCreatePool }

// ValidateBasic implements sdk.Msg
func (msg MsgCreatePool) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Operator); err != nil {
		return err
	}
	if _, err := sdk.AccAddressFromBech32(msg.Issuer); err != nil {
		return err
	}
	return msg.Terms.Validate()
}

// GetSigners implements sdk.Msg
func (msg MsgCreatePool) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Operator)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgCreatePool) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgCreatePool) Reset() { *msg = MsgCreatePool{} }

// String implements proto.Message
func (msg MsgCreatePool) String() string {
	return fmt.Sprintf("MsgCreatePool{Operator: %s, Issuer: %s, DocHash: %s}", msg.Operator, msg.Issuer, msg.Terms.DocHash)
}

// MsgCreatePoolResponse defines the CreatePool response
type MsgCreatePoolResponse struct {
	PoolID string `json:"pool_id"`
}

// MsgLockPoolResponse defines the LockPool response
type MsgLockPoolResponse struct{}

// MsgInitiateSettlementResponse defines the InitiateSettlement response
type MsgInitiateSettlementResponse struct {
	Principal string `json:"principal"`
}

// MsgProcessMaturityResponse defines the ProcessMaturity response
type MsgProcessMaturityResponse struct {
	TotalReturned string `json:"total_returned"`
}

// MsgEmergencyShutdownResponse defines the EmergencyShutdown response
type MsgEmergencyShutdownResponse struct{}

// MsgAddOperatorResponse defines the AddOperator response
type MsgAddOperatorResponse struct{}

// MsgRemoveOperatorResponse defines the RemoveOperator response
type MsgRemoveOperatorResponse struct{}

// poolLifecycleMsg covers the shared shape of the four lifecycle messages
type poolLifecycleMsg struct {
	Caller string `json:"caller"`
	PoolID string `json:"pool_id"`
}

func (msg poolLifecycleMsg) validate() error {
	if _, err := sdk.AccAddressFromBech32(msg.Caller); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotRegistered
	}
	return nil
}

func (msg poolLifecycleMsg) signers() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Caller)
	return []sdk.AccAddress{addr}
}

// MsgLockPool defines the LockPool message
type MsgLockPool struct{ poolLifecycleMsg }

// NewMsgLockPool creates a MsgLockPool
func NewMsgLockPool(caller, poolID string) *MsgLockPool {
	return &MsgLockPool{poolLifecycleMsg{Caller: caller, PoolID: poolID}}
}

// Route implements sdk.Msg
func (msg MsgLockPool) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgLockPool) Type() string { return TypeMsgLockPool }

// ValidateBasic implements sdk.Msg
func (msg MsgLockPool) ValidateBasic() error { return msg.validate() }

// GetSigners implements sdk.Msg
func (msg MsgLockPool) GetSigners() []sdk.AccAddress { return msg.signers() }

// ProtoMessage implements proto.Message
func (*MsgLockPool) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgLockPool) Reset() { *msg = MsgLockPool{} }

// String implements proto.Message
func (msg MsgLockPool) String() string {
	return fmt.Sprintf("MsgLockPool{Caller: %s, PoolID: %s}", msg.Caller, msg.PoolID)
}

// MsgInitiateSettlement defines the InitiateSettlement message
type MsgInitiateSettlement struct{ poolLifecycleMsg }

// NewMsgInitiateSettlement creates a MsgInitiateSettlement
func NewMsgInitiateSettlement(caller, poolID string) *MsgInitiateSettlement {
	return &MsgInitiateSettlement{poolLifecycleMsg{Caller: caller, PoolID: poolID}}
}

// Route implements sdk.Msg
func (msg MsgInitiateSettlement) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgInitiateSettlement) Type() string { return TypeMsgInitiateSettlement }

// ValidateBasic implements sdk.Msg
func (msg MsgInitiateSettlement) ValidateBasic() error { return msg.validate() }

// GetSigners implements sdk.Msg
func (msg MsgInitiateSettlement) GetSigners() []sdk.AccAddress { return msg.signers() }

// ProtoMessage implements proto.Message
func (*MsgInitiateSettlement) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgInitiateSettlement) Reset() { *msg = MsgInitiateSettlement{} }

// String implements proto.Message
func (msg MsgInitiateSettlement) String() string {
	return fmt.Sprintf("MsgInitiateSettlement{Caller: %s, PoolID: %s}", msg.Caller, msg.PoolID)
}

// MsgProcessMaturity defines the ProcessMaturity message
type MsgProcessMaturity struct{ poolLifecycleMsg }

// NewMsgProcessMaturity creates a MsgProcessMaturity
func NewMsgProcessMaturity(caller, poolID string) *MsgProcessMaturity {
	return &MsgProcessMaturity{poolLifecycleMsg{Caller: caller, PoolID: poolID}}
}

// Route implements sdk.Msg
func (msg MsgProcessMaturity) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgProcessMaturity) Type() string { return TypeMsgProcessMaturity }

// ValidateBasic implements sdk.Msg
func (msg MsgProcessMaturity) ValidateBasic() error { return msg.validate() }

// GetSigners implements sdk.Msg
func (msg MsgProcessMaturity) GetSigners() []sdk.AccAddress { return msg.signers() }

// ProtoMessage implements proto.Message
func (*MsgProcessMaturity) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgProcessMaturity) Reset() { *msg = MsgProcessMaturity{} }

// String implements proto.Message
func (msg MsgProcessMaturity) String() string {
	return fmt.Sprintf("MsgProcessMaturity{Caller: %s, PoolID: %s}", msg.Caller, msg.PoolID)
}

// MsgEmergencyShutdown defines the EmergencyShutdown message (admin only)
type MsgEmergencyShutdown struct{ poolLifecycleMsg }

// NewMsgEmergencyShutdown creates a MsgEmergencyShutdown
func NewMsgEmergencyShutdown(caller, poolID string) *MsgEmergencyShutdown {
	return &MsgEmergencyShutdown{poolLifecycleMsg{Caller: caller, PoolID: poolID}}
}

// Route implements sdk.Msg
func (msg MsgEmergencyShutdown) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgEmergencyShutdown) Type() string { return TypeMsgEmergencyShutdown }

// ValidateBasic implements sdk.Msg
func (msg MsgEmergencyShutdown) ValidateBasic() error { return msg.validate() }

// GetSigners implements sdk.Msg
func (msg MsgEmergencyShutdown) GetSigners() []sdk.AccAddress { return msg.signers() }

// ProtoMessage implements proto.Message
func (*MsgEmergencyShutdown) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgEmergencyShutdown) Reset() { *msg = MsgEmergencyShutdown{} }

// String implements proto.Message
func (msg MsgEmergencyShutdown) String() string {
	return fmt.Sprintf("MsgEmergencyShutdown{Caller: %s, PoolID: %s}", msg.Caller, msg.PoolID)
}

// MsgAddOperator defines the AddOperator message (admin only)
type MsgAddOperator struct {
	Admin    string `json:"admin"`
	Operator string `json:"operator"`
}

// Route implements sdk.Msg
func (msg MsgAddOperator) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgAddOperator) Type() string { return TypeMsgAddOperator }

// ValidateBasic implements sdk.Msg
func (msg MsgAddOperator) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Admin); err != nil {
		return err
	}
	if _, err := sdk.AccAddressFromBech32(msg.Operator); err != nil {
		return err
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgAddOperator) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Admin)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgAddOperator) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgAddOperator) Reset() { *msg = MsgAddOperator{} }

// String implements proto.Message
func (msg MsgAddOperator) String() string {
	return fmt.Sprintf("MsgAddOperator{Admin: %s, Operator: %s}", msg.Admin, msg.Operator)
}

// MsgRemoveOperator defines the RemoveOperator message (admin only)
type MsgRemoveOperator struct {
	Admin    string `json:"admin"`
	Operator string `json:"operator"`
}

// Route implements sdk.Msg
func (msg MsgRemoveOperator) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgRemoveOperator) Type() string { return TypeMsgRemoveOperator }

// ValidateBasic implements sdk.Msg
func (msg MsgRemoveOperator) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Admin); err != nil {
		return err
	}
	if _, err := sdk.AccAddressFromBech32(msg.Operator); err != nil {
		return err
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgRemoveOperator) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Admin)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgRemoveOperator) ProtoMessage() {}

// Reset implements proto.Message
func (msg *MsgRemoveOperator) Reset() { *msg = MsgRemoveOperator{} }

// String implements proto.Message
func (msg MsgRemoveOperator) String() string {
	return fmt.Sprintf("MsgRemoveOperator{Admin: %s, Operator: %s}", msg.Admin, msg.Operator)
}
